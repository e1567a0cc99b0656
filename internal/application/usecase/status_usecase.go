package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

// SyncConfigProvider expone la configuración vigente del planificador de sincronización.
type SyncConfigProvider interface {
	Config() entity.SyncConfig
}

// StatusUseCase inicializa el almacén y reporta el estado del servicio de datos.
type StatusUseCase struct {
	store repository.RecordStore
	sync  SyncConfigProvider // opcional
	log   zerolog.Logger
	now   func() time.Time

	mu       sync.Mutex
	lastSync *time.Time
}

// NewStatusUseCase construye el caso de uso. syncCfg puede ser nil.
func NewStatusUseCase(store repository.RecordStore, syncCfg SyncConfigProvider, log zerolog.Logger) *StatusUseCase {
	return &StatusUseCase{store: store, sync: syncCfg, log: log, now: time.Now}
}

// Init abre el almacén y marca el servicio como inicializado.
func (uc *StatusUseCase) Init(ctx context.Context) error {
	if err := uc.store.Open(ctx); err != nil {
		uc.log.Error().Err(err).Msg("inicialización del almacén falló")
		return err
	}
	t := uc.now().UTC()
	uc.mu.Lock()
	uc.lastSync = &t
	uc.mu.Unlock()
	uc.log.Info().Strs("stores", uc.store.Collections()).Msg("servicios de datos inicializados")
	return nil
}

// Status devuelve si el almacén está inicializado, la última sincronización y las colecciones.
func (uc *StatusUseCase) Status() dto.StatusResponse {
	uc.mu.Lock()
	last := uc.lastSync
	uc.mu.Unlock()

	if uc.sync != nil {
		if s := uc.sync.Config().LastSuccess; s != nil && (last == nil || s.After(*last)) {
			last = s
		}
	}
	return dto.StatusResponse{
		IsInitialized:     uc.store.Initialized(),
		LastSyncTimestamp: dto.FormatDatePtr(last),
		Stores:            uc.store.Collections(),
	}
}

// Reset borra todos los datos y vuelve a inicializar (se siembra de nuevo el admin).
func (uc *StatusUseCase) Reset(ctx context.Context) error {
	uc.mu.Lock()
	uc.lastSync = nil
	uc.mu.Unlock()

	if err := uc.store.Reset(ctx); err != nil {
		return err
	}
	uc.log.Warn().Msg("servicios de datos reiniciados")
	return uc.Init(ctx)
}
