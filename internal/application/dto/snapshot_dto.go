package dto

import (
	"time"

	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
)

// Snapshot documento de exportación/importación completo del almacén.
type Snapshot struct {
	Products   []ProductRecord  `json:"products"`
	Deliveries []DeliveryRecord `json:"deliveries"`
	Users      []UserRecord     `json:"users"`
	Timestamp  string           `json:"timestamp"`
}

// CollectionReport contadores de importación de una colección.
type CollectionReport struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// ImportReport resultado de importar un snapshot.
type ImportReport struct {
	Users      CollectionReport `json:"users"`
	Products   CollectionReport `json:"products"`
	Deliveries CollectionReport `json:"deliveries"`
}

// Failed total de registros que no se pudieron importar.
func (r ImportReport) Failed() int {
	return r.Users.Failed + r.Products.Failed + r.Deliveries.Failed
}

// SyncConfigResponse configuración del planificador en forma externa.
type SyncConfigResponse struct {
	AutoSync           bool    `json:"autoSync"`
	SyncInterval       int     `json:"syncInterval"` // minutos
	LastSyncAttempt    *string `json:"lastSyncAttempt"`
	LastSuccessfulSync *string `json:"lastSuccessfulSync"`
}

// UpdateSyncConfigRequest cambio parcial de la configuración.
type UpdateSyncConfigRequest struct {
	AutoSync     *bool `json:"autoSync"`
	SyncInterval *int  `json:"syncInterval"` // minutos
}

// SyncResult resultado de una sincronización manual.
type SyncResult struct {
	Success bool               `json:"success"`
	Config  SyncConfigResponse `json:"config"`
}

// StatusResponse estado del servicio de datos.
type StatusResponse struct {
	IsInitialized     bool     `json:"isInitialized"`
	LastSyncTimestamp *string  `json:"lastSyncTimestamp"`
	Stores            []string `json:"stores"`
}

// NewSyncConfigResponse convierte la configuración del planificador a su forma externa.
func NewSyncConfigResponse(cfg entity.SyncConfig) SyncConfigResponse {
	return SyncConfigResponse{
		AutoSync:           cfg.AutoSyncEnabled,
		SyncInterval:       int(cfg.Interval / time.Minute),
		LastSyncAttempt:    FormatDatePtr(cfg.LastAttempt),
		LastSuccessfulSync: FormatDatePtr(cfg.LastSuccess),
	}
}
