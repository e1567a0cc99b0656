package dto

import (
	"fmt"

	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
)

// ProductRecord forma externa de un producto (API y snapshot).
type ProductRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	EntryDate string `json:"entryDate"`
	Image     string `json:"image,omitempty"`
	Barcode   string `json:"barcode,omitempty"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	EntryDate string `json:"entryDate"`
	Image     string `json:"image"`
	Barcode   string `json:"barcode"`
}

// UpdateProductRequest edición parcial; los campos nil no se tocan.
type UpdateProductRequest struct {
	Name      *string `json:"name"`
	Quantity  *int    `json:"quantity"`
	EntryDate *string `json:"entryDate"`
	Image     *string `json:"image"`
	Barcode   *string `json:"barcode"`
}

// ProductImportResult resultado de la importación masiva de productos.
type ProductImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// NewProductRecord convierte la entidad a su forma externa.
func NewProductRecord(p *entity.Product) ProductRecord {
	return ProductRecord{
		ID:        p.ID,
		Name:      p.Name,
		Quantity:  p.Quantity,
		EntryDate: FormatDate(p.EntryDate),
		Image:     p.Image,
		Barcode:   p.Barcode,
	}
}

// ToEntity interpreta el registro; la fecha debe ser válida.
func (r ProductRecord) ToEntity() (*entity.Product, error) {
	entry, err := ParseDate(r.EntryDate)
	if err != nil {
		return nil, fmt.Errorf("producto %s: %w", r.ID, err)
	}
	return &entity.Product{
		ID:        r.ID,
		Name:      r.Name,
		Quantity:  r.Quantity,
		EntryDate: entry,
		Image:     r.Image,
		Barcode:   r.Barcode,
	}, nil
}
