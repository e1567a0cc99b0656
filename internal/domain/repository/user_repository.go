package repository

import (
	"context"

	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Add falla con ErrDuplicate si el id, el email o el username ya existen.
type UserRepository interface {
	Add(ctx context.Context, user *entity.User) error
	Put(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetAll(ctx context.Context) ([]*entity.User, error)
	Remove(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
