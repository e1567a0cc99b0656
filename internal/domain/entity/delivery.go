package entity

import "time"

// Estados de una entrega. completed y cancelled son terminales.
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusCompleted = "completed"
	DeliveryStatusCancelled = "cancelled"
)

// DeliveryItem línea de una entrega. ProductID puede no existir (referencia colgante tolerada).
type DeliveryItem struct {
	ProductID   string
	Quantity    int
	ProductName string // opcional, solo para mostrar
}

// Delivery representa una entrega a cliente con sus líneas de producto en orden.
type Delivery struct {
	ID                string
	CommercialManager string
	LogisticsManager  string
	CustomerName      string // opcional
	Date              time.Time
	Products          []DeliveryItem
	Status            string // pending, completed, cancelled
}

// IsTerminal indica si la entrega ya no admite transiciones.
func (d *Delivery) IsTerminal() bool {
	return d.Status == DeliveryStatusCompleted || d.Status == DeliveryStatusCancelled
}

// IsValidDeliveryStatus indica si status es un estado conocido.
func IsValidDeliveryStatus(status string) bool {
	switch status {
	case DeliveryStatusPending, DeliveryStatusCompleted, DeliveryStatusCancelled:
		return true
	}
	return false
}
