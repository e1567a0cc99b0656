package entity

import "time"

// LowStockThreshold cantidad por debajo de la cual un producto se considera con stock bajo.
const LowStockThreshold = 5

// Product representa un producto del almacén. Quantity es el conteo disponible autoritativo:
// lo descuenta la finalización de entregas y lo modifican las ediciones directas.
type Product struct {
	ID        string
	Name      string
	Quantity  int
	EntryDate time.Time
	Image     string // opcional (URL o data URI)
	Barcode   string // opcional
}

// IsLowStock indica si el producto tiene stock bajo pero no agotado.
func (p *Product) IsLowStock() bool {
	return p.Quantity > 0 && p.Quantity < LowStockThreshold
}

// IsOutOfStock indica si el producto está agotado.
func (p *Product) IsOutOfStock() bool {
	return p.Quantity == 0
}
