// Package datasync exporta e importa el almacén completo como un snapshot JSON
// y planifica la sincronización periódica.
package datasync

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
	"github.com/jhoicas/systemair-inventario/internal/domain"
)

// Claves obligatorias del documento de snapshot.
var snapshotKeys = []string{"products", "deliveries", "users", "timestamp"}

// Service exporta e importa snapshots sobre los servicios de entidades.
type Service struct {
	users      *usecase.UserUseCase
	products   *usecase.ProductUseCase
	deliveries *usecase.DeliveryUseCase
	metrics    *Metrics
	log        zerolog.Logger
	now        func() time.Time
}

// NewService construye el servicio. metrics puede ser nil.
func NewService(
	users *usecase.UserUseCase,
	products *usecase.ProductUseCase,
	deliveries *usecase.DeliveryUseCase,
	metrics *Metrics,
	log zerolog.Logger,
) *Service {
	return &Service{
		users:      users,
		products:   products,
		deliveries: deliveries,
		metrics:    metrics,
		log:        log.With().Str("component", "datasync").Logger(),
		now:        time.Now,
	}
}

// ExportAll serializa todas las colecciones con el instante actual, indentado con dos espacios.
func (s *Service) ExportAll(ctx context.Context) ([]byte, error) {
	products, err := s.products.GetAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("exportar productos: %w", err)
	}
	deliveries, err := s.deliveries.GetAllDeliveries(ctx)
	if err != nil {
		return nil, fmt.Errorf("exportar entregas: %w", err)
	}
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("exportar usuarios: %w", err)
	}
	return json.MarshalIndent(dto.Snapshot{
		Products:   products,
		Deliveries: deliveries,
		Users:      users,
		Timestamp:  dto.FormatDate(s.now()),
	}, "", "  ")
}

// ExportFilename nombre sugerido para descargar un snapshot tomado en t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("systemair-export-%s.json", t.UTC().Format(time.DateOnly))
}

// Document snapshot recibido. Los registros quedan sin decodificar hasta la importación:
// uno mal formado falla solo y no invalida el documento.
type Document struct {
	Products   []json.RawMessage `json:"products"`
	Deliveries []json.RawMessage `json:"deliveries"`
	Users      []json.RawMessage `json:"users"`
	Timestamp  string            `json:"timestamp"`
}

// ParseSnapshot decodifica un snapshot. ErrMalformedInput si no es JSON;
// ErrInvalidSnapshotFormat si falta alguna de las cuatro claves, es null o tiene otro tipo.
// Los registros internos no se validan aquí.
func ParseSnapshot(raw []byte) (*Document, error) {
	if !json.Valid(raw) {
		return nil, domain.ErrMalformedInput
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("%w: se esperaba un objeto", domain.ErrInvalidSnapshotFormat)
	}
	for _, key := range snapshotKeys {
		v, ok := fields[key]
		if !ok || string(v) == "null" {
			return nil, fmt.Errorf("%w: falta %q", domain.ErrInvalidSnapshotFormat, key)
		}
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshotFormat, err)
	}
	return &doc, nil
}
