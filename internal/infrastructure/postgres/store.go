package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
	"github.com/jhoicas/systemair-inventario/pkg/config"
)

var _ repository.RecordStore = (*Store)(nil)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_meta (
	id      SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
	version INTEGER NOT NULL
);

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
	entry_date TIMESTAMPTZ NOT NULL,
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
	date               TIMESTAMPTZ NOT NULL,
	products           JSONB NOT NULL DEFAULT '[]',
	status             TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_deliveries_date ON deliveries(date);
CREATE INDEX IF NOT EXISTS idx_deliveries_status ON deliveries(status);
`

// Store es el almacén de registros sobre un servidor PostgreSQL compartido.
type Store struct {
	cfg config.DBConfig
	log zerolog.Logger

	mu          sync.RWMutex
	pool        *pgxpool.Pool
	initialized bool
}

// NewStore construye el almacén; la conexión se abre en Open.
func NewStore(cfg config.DBConfig, log zerolog.Logger) *Store {
	return &Store{cfg: cfg, log: log.With().Str("component", "postgres_store").Logger()}
}

// NewStoreWithPool usa un pool ya creado (tests de integración, herramientas).
func NewStoreWithPool(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{pool: pool, log: log.With().Str("component", "postgres_store").Logger()}
}

// Open conecta, crea tablas e índices y siembra el admin la primera vez. Es idempotente.
func (s *Store) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool == nil {
		pool, err := NewPool(ctx, s.cfg)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		s.pool = pool
	}
	if err := s.migrate(ctx); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

func (s *Store) migrate(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return ioError("begin migration", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, schema); err != nil {
		return ioError("create schema", err)
	}

	var version int
	err = tx.QueryRow(ctx, `SELECT version FROM schema_meta WHERE id = 1`).Scan(&version)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return ioError("read schema version", err)
	}

	if version == 0 {
		if err := NewUserRepository(tx).Put(ctx, entity.DefaultAdmin()); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO schema_meta (id, version) VALUES (1, $1)
			ON CONFLICT (id) DO UPDATE SET version = excluded.version`, schemaVersion)
		if err != nil {
			return ioError("set schema version", err)
		}
		s.log.Info().Msg("almacén creado, admin por defecto sembrado")
	}

	if err := tx.Commit(ctx); err != nil {
		return ioError("commit migration", err)
	}
	return nil
}

// Reset vacía las colecciones y vuelve la versión de esquema a 0.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pool == nil {
		s.initialized = false
		return nil
	}
	_, err := s.pool.Exec(ctx, `
		TRUNCATE users, products, deliveries;
		UPDATE schema_meta SET version = 0 WHERE id = 1;`)
	if err != nil {
		return ioError("reset store", err)
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

// Close cierra el pool.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	s.initialized = false
	return nil
}

// Exec implementa Querier.
func (s *Store) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	pool, err := s.conn()
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return pool.Exec(ctx, sql, args...)
}

// Query implementa Querier.
func (s *Store) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	pool, err := s.conn()
	if err != nil {
		return nil, err
	}
	return pool.Query(ctx, sql, args...)
}

// QueryRow implementa Querier.
func (s *Store) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	pool, err := s.conn()
	if err != nil {
		return errRow{err: err}
	}
	return pool.QueryRow(ctx, sql, args...)
}

func (s *Store) conn() (*pgxpool.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pool == nil {
		return nil, fmt.Errorf("%w: el almacén no está abierto", domain.ErrStoreUnavailable)
	}
	return s.pool, nil
}

// Users devuelve el repositorio de usuarios sobre el almacén.
func (s *Store) Users() *UserRepo { return NewUserRepository(s) }

// Products devuelve el repositorio de productos sobre el almacén.
func (s *Store) Products() *ProductRepo { return NewProductRepository(s) }

// Deliveries devuelve el repositorio de entregas sobre el almacén.
func (s *Store) Deliveries() *DeliveryRepo { return NewDeliveryRepository(s) }
