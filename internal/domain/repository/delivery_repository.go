package repository

import (
	"context"

	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
)

// DeliveryRepository define el puerto de persistencia para Delivery.
// Las líneas de producto se guardan junto con la entrega.
type DeliveryRepository interface {
	Add(ctx context.Context, delivery *entity.Delivery) error
	Put(ctx context.Context, delivery *entity.Delivery) error
	GetByID(ctx context.Context, id string) (*entity.Delivery, error)
	// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Delivery, error)
	GetAll(ctx context.Context) ([]*entity.Delivery, error)
	Remove(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
