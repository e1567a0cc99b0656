package dto

import (
	"fmt"

	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
)

// DeliveryItemRecord línea de entrega en forma externa.
type DeliveryItemRecord struct {
	ProductID   string `json:"productId"`
	Quantity    int    `json:"quantity"`
	ProductName string `json:"productName,omitempty"`
}

// DeliveryRecord forma externa de una entrega (API y snapshot).
type DeliveryRecord struct {
	ID                string               `json:"id"`
	CommercialManager string               `json:"commercialManager"`
	LogisticsManager  string               `json:"logisticsManager"`
	CustomerName      string               `json:"customerName,omitempty"`
	Date              string               `json:"date"`
	Products          []DeliveryItemRecord `json:"products"`
	Status            string               `json:"status"`
}

// DeliveryRequest entrada para crear o editar una entrega. El estado no se acepta aquí.
type DeliveryRequest struct {
	CommercialManager string               `json:"commercialManager"`
	LogisticsManager  string               `json:"logisticsManager"`
	CustomerName      string               `json:"customerName"`
	Date              string               `json:"date"`
	Products          []DeliveryItemRecord `json:"products"`
}

// StockChange descuento aplicado a un producto al completar una entrega.
type StockChange struct {
	ProductID string `json:"productId"`
	Before    int    `json:"before"`
	After     int    `json:"after"`
}

// CompletionResponse resultado de completar una entrega.
type CompletionResponse struct {
	Delivery DeliveryRecord `json:"delivery"`
	Applied  []StockChange  `json:"applied"`
	Skipped  []string       `json:"skipped"`
}

// NewDeliveryRecord convierte la entidad a su forma externa.
func NewDeliveryRecord(d *entity.Delivery) DeliveryRecord {
	items := make([]DeliveryItemRecord, 0, len(d.Products))
	for _, it := range d.Products {
		items = append(items, DeliveryItemRecord{ProductID: it.ProductID, Quantity: it.Quantity, ProductName: it.ProductName})
	}
	return DeliveryRecord{
		ID:                d.ID,
		CommercialManager: d.CommercialManager,
		LogisticsManager:  d.LogisticsManager,
		CustomerName:      d.CustomerName,
		Date:              FormatDate(d.Date),
		Products:          items,
		Status:            d.Status,
	}
}

// ToEntity interpreta el registro; la fecha debe ser válida.
func (r DeliveryRecord) ToEntity() (*entity.Delivery, error) {
	date, err := ParseDate(r.Date)
	if err != nil {
		return nil, fmt.Errorf("entrega %s: %w", r.ID, err)
	}
	return &entity.Delivery{
		ID:                r.ID,
		CommercialManager: r.CommercialManager,
		LogisticsManager:  r.LogisticsManager,
		CustomerName:      r.CustomerName,
		Date:              date,
		Products:          ItemsToEntity(r.Products),
		Status:            r.Status,
	}, nil
}

// ItemsToEntity convierte las líneas preservando el orden.
func ItemsToEntity(items []DeliveryItemRecord) []entity.DeliveryItem {
	out := make([]entity.DeliveryItem, 0, len(items))
	for _, it := range items {
		out = append(out, entity.DeliveryItem{ProductID: it.ProductID, Quantity: it.Quantity, ProductName: it.ProductName})
	}
	return out
}
