package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-sqlite3"

	"github.com/jhoicas/systemair-inventario/internal/domain"
)

// Querier es la parte común de *sql.DB, *sql.Tx y Store que usan los repositorios.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const timeLayout = time.RFC3339Nano

// isUniqueViolation verifica si un error es una violación de PRIMARY KEY o UNIQUE.
func isUniqueViolation(err error) bool {
	if errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY) || errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ioError envuelve fallos del medio como ErrIO salvo que ya sean ErrStoreUnavailable.
func ioError(op string, err error) error {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrIO, err)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t.UTC(), nil
}

func exists(ctx context.Context, q Querier, table, id string) (bool, error) {
	rows, err := q.QueryContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return false, ioError("exists "+table, err)
	}
	defer rows.Close()
	found := rows.Next()
	if err := rows.Err(); err != nil {
		return false, ioError("exists "+table, err)
	}
	return found, nil
}

func remove(ctx context.Context, q Querier, table, id string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id); err != nil {
		return ioError("delete from "+table, err)
	}
	return nil
}
