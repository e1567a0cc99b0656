// Package settings persiste la configuración del planificador de sincronización en un archivo TOML.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
)

type fileConfig struct {
	AutoSync    bool       `toml:"auto_sync"`
	Interval    string     `toml:"interval"`
	LastAttempt *time.Time `toml:"last_attempt,omitempty"`
	LastSuccess *time.Time `toml:"last_success,omitempty"`
}

// TOMLStore guarda la configuración en path. Las escrituras son atómicas (temporal + rename).
type TOMLStore struct {
	path string
	mu   sync.Mutex
}

// NewTOMLStore construye el store; el archivo se crea en el primer Save.
func NewTOMLStore(path string) *TOMLStore {
	return &TOMLStore{path: path}
}

// Load lee la configuración. Si el archivo no existe devuelve la configuración por defecto.
func (s *TOMLStore) Load() (entity.SyncConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := entity.DefaultSyncConfig()
	var fc fileConfig
	if _, err := toml.DecodeFile(s.path, &fc); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("leer %s: %w", s.path, err)
	}

	cfg.AutoSyncEnabled = fc.AutoSync
	if fc.Interval != "" {
		d, err := time.ParseDuration(fc.Interval)
		if err != nil || d <= 0 {
			return entity.DefaultSyncConfig(), fmt.Errorf("intervalo inválido %q en %s", fc.Interval, s.path)
		}
		cfg.Interval = d
	}
	cfg.LastAttempt = utcPtr(fc.LastAttempt)
	cfg.LastSuccess = utcPtr(fc.LastSuccess)
	return cfg, nil
}

// Save escribe la configuración completa.
func (s *TOMLStore) Save(cfg entity.SyncConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("crear directorio %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".sync-*.toml")
	if err != nil {
		return fmt.Errorf("crear temporal: %w", err)
	}
	defer os.Remove(tmp.Name())

	fc := fileConfig{
		AutoSync:    cfg.AutoSyncEnabled,
		Interval:    cfg.Interval.String(),
		LastAttempt: utcPtr(cfg.LastAttempt),
		LastSuccess: utcPtr(cfg.LastSuccess),
	}
	if err := toml.NewEncoder(tmp).Encode(fc); err != nil {
		tmp.Close()
		return fmt.Errorf("codificar configuración: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temporal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("cerrar temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("reemplazar %s: %w", s.path, err)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
