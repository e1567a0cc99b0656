package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/systemair-inventario/internal/domain"
)

// Querier es la parte común de *pgxpool.Pool, pgx.Tx y Store que usan los repositorios.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// ioError envuelve fallos del servidor como ErrIO salvo que ya sean ErrStoreUnavailable.
func ioError(op string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrIO, err)
}

// errRow es un pgx.Row que siempre falla con err.
type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func exists(ctx context.Context, q Querier, table, id string) (bool, error) {
	var found bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id).Scan(&found)
	if err != nil {
		return false, ioError("exists "+table, err)
	}
	return found, nil
}

func remove(ctx context.Context, q Querier, table, id string) error {
	if _, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id); err != nil {
		return ioError("delete from "+table, err)
	}
	return nil
}
