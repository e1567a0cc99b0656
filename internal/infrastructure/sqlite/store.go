// Package sqlite implementa el almacén local de registros sobre un archivo SQLite
// (driver ncruces/go-sqlite3, sin cgo).
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/rs/zerolog"

	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

var _ repository.RecordStore = (*Store)(nil)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id       TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	email    TEXT NOT NULL UNIQUE,
	role     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

CREATE TABLE IF NOT EXISTS products (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	quantity   INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
	entry_date TEXT NOT NULL,
	image      TEXT NOT NULL DEFAULT '',
	barcode    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
CREATE INDEX IF NOT EXISTS idx_products_entry_date ON products(entry_date);

CREATE TABLE IF NOT EXISTS deliveries (
	id                 TEXT PRIMARY KEY,
	commercial_manager TEXT NOT NULL,
	logistics_manager  TEXT NOT NULL,
	customer_name      TEXT NOT NULL DEFAULT '',
	date               TEXT NOT NULL,
	products           TEXT NOT NULL DEFAULT '[]',
	status             TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deliveries_date ON deliveries(date);
CREATE INDEX IF NOT EXISTS idx_deliveries_status ON deliveries(status);
`

// Store es el almacén de registros en un archivo SQLite.
// Usa una sola conexión: las transacciones serializan todo el acceso.
type Store struct {
	path string
	log  zerolog.Logger

	mu          sync.RWMutex
	db          *sql.DB
	initialized bool
}

// NewStore construye el almacén; no toca el disco hasta Open.
func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{path: path, log: log.With().Str("component", "sqlite_store").Logger()}
}

// Open abre el archivo, crea colecciones e índices y siembra el admin la primera vez.
// Es idempotente.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		db, err := s.connect(ctx)
		if err != nil {
			return err
		}
		s.db = db
	}
	if err := s.migrate(ctx); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

func (s *Store) connect(ctx context.Context) (*sql.DB, error) {
	if s.path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: crear directorio: %w", domain.ErrStoreUnavailable, err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(wal)", s.path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %w", domain.ErrStoreUnavailable, err)
	}
	return db, nil
}

// migrate crea el esquema y, si user_version es 0, siembra el admin y marca la versión.
func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ioError("begin migration", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return ioError("create schema", err)
	}

	var version int
	rows, err := tx.QueryContext(ctx, `PRAGMA user_version`)
	if err != nil {
		return ioError("read schema version", err)
	}
	if rows.Next() {
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return ioError("scan schema version", err)
		}
	}
	rows.Close()

	if version == 0 {
		admin := entity.DefaultAdmin()
		if err := NewUserRepository(tx).Put(ctx, admin); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
			return ioError("set schema version", err)
		}
		s.log.Info().Str("path", s.path).Msg("almacén creado, admin por defecto sembrado")
	}

	if err := tx.Commit(); err != nil {
		return ioError("commit migration", err)
	}
	return nil
}

// Reset borra todos los registros y vuelve la versión de esquema a 0.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		s.initialized = false
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ioError("begin reset", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range s.Collections() {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return ioError("clear "+table, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `PRAGMA user_version = 0`); err != nil {
		return ioError("reset schema version", err)
	}
	if err := tx.Commit(); err != nil {
		return ioError("commit reset", err)
	}
	s.initialized = false
	s.log.Warn().Msg("almacén reiniciado")
	return nil
}

// Initialized indica si Open terminó correctamente desde el último Reset.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Collections devuelve los nombres de las colecciones.
func (s *Store) Collections() []string {
	return []string{repository.CollectionUsers, repository.CollectionProducts, repository.CollectionDeliveries}
}

// Close cierra la conexión; se puede volver a abrir con Open.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	if _, err := s.db.Exec(`PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		s.log.Warn().Err(err).Msg("checkpoint WAL falló")
	}
	err := s.db.Close()
	s.db = nil
	s.initialized = false
	if err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

// ExecContext implementa Querier sobre la conexión abierta.
func (s *Store) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return db.ExecContext(ctx, query, args...)
}

// QueryContext implementa Querier sobre la conexión abierta.
func (s *Store) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return db.QueryContext(ctx, query, args...)
}

func (s *Store) conn() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return nil, fmt.Errorf("%w: el almacén no está abierto", domain.ErrStoreUnavailable)
	}
	return s.db, nil
}

// Users devuelve el repositorio de usuarios sobre el almacén.
func (s *Store) Users() *UserRepo { return NewUserRepository(s) }

// Products devuelve el repositorio de productos sobre el almacén.
func (s *Store) Products() *ProductRepo { return NewProductRepository(s) }

// Deliveries devuelve el repositorio de entregas sobre el almacén.
func (s *Store) Deliveries() *DeliveryRepo { return NewDeliveryRepository(s) }
