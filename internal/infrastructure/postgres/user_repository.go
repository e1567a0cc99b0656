package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL (usable con store, pool o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Add persiste un nuevo usuario.
func (r *UserRepo) Add(ctx context.Context, user *entity.User) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO users (id, username, email, role) VALUES ($1, $2, $3, $4)`,
		user.ID, user.Username, user.Email, user.Role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return ioError("insert user", err)
	}
	return nil
}

// Put inserta o reemplaza por id.
func (r *UserRepo) Put(ctx context.Context, user *entity.User) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (id, username, email, role) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET username = excluded.username, email = excluded.email, role = excluded.role`,
		user.ID, user.Username, user.Email, user.Role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return ioError("put user", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, `SELECT id, username, email, role FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, ioError("get user", err)
	}
	return &u, nil
}

// GetAll lista todos los usuarios.
func (r *UserRepo) GetAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, `SELECT id, username, email, role FROM users`)
	if err != nil {
		return nil, ioError("list users", err)
	}
	defer rows.Close()
	list := make([]*entity.User, 0)
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role); err != nil {
			return nil, ioError("scan user", err)
		}
		list = append(list, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, ioError("iterate users", err)
	}
	return list, nil
}

// Remove elimina por id; no falla si no existe.
func (r *UserRepo) Remove(ctx context.Context, id string) error {
	return remove(ctx, r.q, repository.CollectionUsers, id)
}

// Exists indica si hay un usuario con ese id.
func (r *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.q, repository.CollectionUsers, id)
}
