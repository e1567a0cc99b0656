package usecase

import (
	"context"

	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacén, pasando repositorios atados a ella.
// Si fn devuelve error no queda ningún cambio aplicado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		deliveryRepo repository.DeliveryRepository,
	) error) error
}
