package entity

import "time"

// DefaultSyncInterval intervalo de sincronización automática por defecto.
const DefaultSyncInterval = 15 * time.Minute

// SyncConfig configuración persistida del planificador de sincronización.
type SyncConfig struct {
	AutoSyncEnabled bool
	Interval        time.Duration
	LastAttempt     *time.Time
	LastSuccess     *time.Time
}

// DefaultSyncConfig configuración inicial: sincronización automática desactivada.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{Interval: DefaultSyncInterval}
}
