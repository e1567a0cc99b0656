package datasync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
)

// Syncer exporta el almacén y vuelve a importar un documento.
type Syncer interface {
	ExportAll(ctx context.Context) ([]byte, error)
	ImportData(ctx context.Context, raw []byte) (*dto.ImportReport, error)
}

// ConfigStore persiste la configuración del planificador, separada del almacén de registros.
type ConfigStore interface {
	Load() (entity.SyncConfig, error)
	Save(cfg entity.SyncConfig) error
}

// ConfigUpdate cambio parcial de la configuración; los campos nil no se tocan.
type ConfigUpdate struct {
	AutoSync *bool
	Interval *time.Duration
}

// Scheduler ejecuta la sincronización bajo demanda y, si está activada, cada Interval.
// Las ejecuciones solapadas (timer y manual) comparten resultado.
type Scheduler struct {
	syncer  Syncer
	store   ConfigStore
	metrics *Metrics
	log     zerolog.Logger
	now     func() time.Time

	group singleflight.Group

	// persistMu ordena las escrituras al ConfigStore.
	persistMu sync.Mutex

	mu     sync.Mutex
	cfg    entity.SyncConfig
	stop   chan struct{}
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler construye el planificador con la configuración por defecto; llamar Setup antes de usarlo.
func NewScheduler(syncer Syncer, store ConfigStore, metrics *Metrics, log zerolog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		syncer:  syncer,
		store:   store,
		metrics: metrics,
		log:     log.With().Str("component", "sync_scheduler").Logger(),
		now:     time.Now,
		cfg:     entity.DefaultSyncConfig(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Setup carga la configuración persistida y arranca el timer si la sincronización automática está activa.
// Si la configuración no se puede leer se usan los valores por defecto.
func (s *Scheduler) Setup() { s.setup(true) }

// LoadConfig carga la configuración persistida sin arrancar el timer.
// Para ejecuciones puntuales que sólo necesitan PerformSync o Config.
func (s *Scheduler) LoadConfig() { s.setup(false) }

func (s *Scheduler) setup(arm bool) {
	cfg, err := s.store.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("configuración de sincronización ilegible, se usan valores por defecto")
		cfg = entity.DefaultSyncConfig()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = entity.DefaultSyncInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
	if arm && cfg.AutoSyncEnabled {
		s.arm()
	}
	s.log.Info().Bool("auto_sync", cfg.AutoSyncEnabled).Dur("interval", cfg.Interval).Msg("planificador configurado")
}

// Enable activa la sincronización automática.
func (s *Scheduler) Enable() (entity.SyncConfig, error) {
	on := true
	return s.UpdateConfig(ConfigUpdate{AutoSync: &on})
}

// Disable desactiva la sincronización automática.
func (s *Scheduler) Disable() (entity.SyncConfig, error) {
	off := false
	return s.UpdateConfig(ConfigUpdate{AutoSync: &off})
}

// UpdateConfig aplica el cambio y lo persiste. El timer se rearma si queda activo y antes
// estaba desactivado o cambió el intervalo; se detiene si se desactiva.
func (s *Scheduler) UpdateConfig(upd ConfigUpdate) (entity.SyncConfig, error) {
	if upd.Interval != nil && *upd.Interval <= 0 {
		return s.Config(), fmt.Errorf("%w: intervalo debe ser positivo", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	prev := s.cfg
	next := prev
	if upd.AutoSync != nil {
		next.AutoSyncEnabled = *upd.AutoSync
	}
	if upd.Interval != nil {
		next.Interval = *upd.Interval
	}
	s.cfg = next
	switch {
	case !next.AutoSyncEnabled:
		s.disarm()
	case !prev.AutoSyncEnabled || prev.Interval != next.Interval || s.stop == nil:
		s.arm()
	}
	s.mu.Unlock()

	if err := s.save(); err != nil {
		return next, err
	}
	s.log.Info().Bool("auto_sync", next.AutoSyncEnabled).Dur("interval", next.Interval).Msg("configuración de sincronización actualizada")
	return next, nil
}

// AutoSyncRunning indica si el timer de sincronización automática está armado.
func (s *Scheduler) AutoSyncRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}

// Config devuelve una copia de la configuración vigente.
func (s *Scheduler) Config() entity.SyncConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// PerformSync exporta el almacén y vuelve a importar el mismo documento.
// Devuelve false si algún paso falla; el error solo se registra en el log.
func (s *Scheduler) PerformSync(ctx context.Context) bool {
	v, _, shared := s.group.Do("sync", func() (any, error) {
		return s.performSync(ctx), nil
	})
	if shared {
		s.log.Debug().Msg("sincronización compartida con una ejecución en curso")
	}
	return v.(bool)
}

func (s *Scheduler) performSync(ctx context.Context) bool {
	started := s.now().UTC()
	s.mu.Lock()
	s.cfg.LastAttempt = &started
	s.mu.Unlock()
	s.persist()

	ok := s.runSync(ctx)
	finished := s.now().UTC()
	s.metrics.observeSync(ok, started, finished)
	if !ok {
		return false
	}

	s.mu.Lock()
	s.cfg.LastSuccess = &finished
	s.mu.Unlock()
	s.persist()
	s.log.Info().Dur("took", finished.Sub(started)).Msg("sincronización completada")
	return true
}

func (s *Scheduler) runSync(ctx context.Context) bool {
	raw, err := s.syncer.ExportAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("sincronización: exportación falló")
		return false
	}
	report, err := s.syncer.ImportData(ctx, raw)
	if err != nil {
		s.log.Error().Err(err).Msg("sincronización: importación falló")
		return false
	}
	if n := report.Failed(); n > 0 {
		s.log.Warn().Int("failed", n).Msg("sincronización con registros no importados")
	}
	return true
}

// save guarda la configuración vigente al momento de escribir, no la de quien llamó:
// con escrituras concurrentes la última siempre deja en disco el estado más reciente.
func (s *Scheduler) save() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.store.Save(s.Config())
}

func (s *Scheduler) persist() {
	if err := s.save(); err != nil {
		s.log.Error().Err(err).Msg("no se pudo guardar la configuración de sincronización")
	}
}

// Close detiene el timer y espera a que termine la goroutine; no se puede reactivar.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.disarm()
	s.closed = true
	s.cancel()
	s.mu.Unlock()
	s.wg.Wait()
}

// arm reinicia el timer con el intervalo vigente. Requiere s.mu.
func (s *Scheduler) arm() {
	s.disarm()
	if s.closed {
		return
	}
	stop := make(chan struct{})
	s.stop = stop
	interval := s.cfg.Interval
	s.wg.Add(1)
	go s.loop(interval, stop)
}

// disarm detiene el timer sin esperar a la goroutine. Requiere s.mu.
func (s *Scheduler) disarm() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

func (s *Scheduler) loop(interval time.Duration, stop <-chan struct{}) {
	defer s.wg.Done()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			s.log.Debug().Msg("sincronización automática")
			s.PerformSync(s.ctx)
		}
	}
}
