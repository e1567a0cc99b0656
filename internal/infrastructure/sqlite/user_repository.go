package sqlite

import (
	"context"
	"database/sql"

	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre SQLite (usable con store o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador. Pasar el Store o una tx (Querier).
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Add inserta un usuario nuevo; id, email o username repetidos devuelven ErrDuplicate.
func (r *UserRepo) Add(ctx context.Context, user *entity.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, username, email, role) VALUES (?, ?, ?, ?)`,
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
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, username, email, role) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET username = excluded.username, email = excluded.email, role = excluded.role`,
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
	rows, err := r.q.QueryContext(ctx, `SELECT id, username, email, role FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, ioError("get user", err)
	}
	list, err := scanUsers(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// GetAll lista todos los usuarios.
func (r *UserRepo) GetAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, username, email, role FROM users`)
	if err != nil {
		return nil, ioError("list users", err)
	}
	return scanUsers(rows)
}

// Remove elimina por id; no falla si no existe.
func (r *UserRepo) Remove(ctx context.Context, id string) error {
	return remove(ctx, r.q, repository.CollectionUsers, id)
}

// Exists indica si hay un usuario con ese id.
func (r *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.q, repository.CollectionUsers, id)
}

func scanUsers(rows *sql.Rows) ([]*entity.User, error) {
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
