// Package bootstrap arma los servicios de la aplicación a partir de la configuración.
// Lo comparten el servidor HTTP y la herramienta de línea de comandos.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/systemair-inventario/internal/application/datasync"
	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/postgres"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/settings"
	"github.com/jhoicas/systemair-inventario/internal/infrastructure/sqlite"
	"github.com/jhoicas/systemair-inventario/pkg/config"
)

// Services casos de uso y componentes de datos ya conectados al almacén.
type Services struct {
	Store      repository.RecordStore
	Products   repository.ProductRepository
	Deliveries repository.DeliveryRepository

	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	DeliveryUC *usecase.DeliveryUseCase
	StatusUC   *usecase.StatusUseCase

	Metrics   *datasync.Metrics
	Sync      *datasync.Service
	Scheduler *datasync.Scheduler
}

type options struct {
	autoSync bool
}

// Option ajusta Build.
type Option func(*options)

// WithoutAutoSync carga la configuración de sincronización sin arrancar el timer automático.
// La usan los comandos de una sola ejecución.
func WithoutAutoSync() Option {
	return func(o *options) { o.autoSync = false }
}

// Build elige el backend según cfg.Store.Driver, inicializa el almacén y configura el planificador.
// El llamador debe invocar Close al terminar.
func Build(ctx context.Context, cfg *config.Config, log zerolog.Logger, opts ...Option) (*Services, error) {
	o := options{autoSync: true}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Services{}
	var tx usecase.TxRunner

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		store := postgres.NewStore(cfg.DB, log)
		s.Store, s.Products, s.Deliveries, tx = store, store.Products(), store.Deliveries(), postgres.NewTxRunner(store)
		s.UserUC = usecase.NewUserUseCase(store.Users())
	case config.StoreDriverSQLite:
		store := sqlite.NewStore(cfg.Store.SQLitePath, log)
		s.Store, s.Products, s.Deliveries, tx = store, store.Products(), store.Deliveries(), sqlite.NewTxRunner(store)
		s.UserUC = usecase.NewUserUseCase(store.Users())
	default:
		return nil, fmt.Errorf("bootstrap: driver desconocido %q", cfg.Store.Driver)
	}

	s.ProductUC = usecase.NewProductUseCase(s.Products)
	s.DeliveryUC = usecase.NewDeliveryUseCase(s.Deliveries, s.Products, tx, log)

	s.Metrics = datasync.NewMetrics()
	s.Sync = datasync.NewService(s.UserUC, s.ProductUC, s.DeliveryUC, s.Metrics, log)
	s.Scheduler = datasync.NewScheduler(s.Sync, settings.NewTOMLStore(cfg.Sync.ConfigPath), s.Metrics, log)
	s.StatusUC = usecase.NewStatusUseCase(s.Store, s.Scheduler, log)

	if err := s.StatusUC.Init(ctx); err != nil {
		_ = s.Store.Close()
		return nil, fmt.Errorf("bootstrap: inicializar almacén: %w", err)
	}
	if o.autoSync {
		s.Scheduler.Setup()
	} else {
		s.Scheduler.LoadConfig()
	}
	return s, nil
}

// Close detiene el planificador y cierra el almacén.
func (s *Services) Close() error {
	s.Scheduler.Close()
	return s.Store.Close()
}
