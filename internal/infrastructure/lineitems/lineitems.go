// Package lineitems serializa las líneas de una entrega para guardarlas en una sola columna.
package lineitems

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
)

type item struct {
	ProductID   string `json:"productId"`
	Quantity    int    `json:"quantity"`
	ProductName string `json:"productName,omitempty"`
}

// Encode devuelve las líneas como documento JSON (siempre un array, nunca null).
func Encode(items []entity.DeliveryItem) ([]byte, error) {
	rows := make([]item, 0, len(items))
	for _, it := range items {
		rows = append(rows, item{ProductID: it.ProductID, Quantity: it.Quantity, ProductName: it.ProductName})
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode delivery items: %w", err)
	}
	return b, nil
}

// Decode interpreta el documento guardado por Encode preservando el orden.
func Decode(raw []byte) ([]entity.DeliveryItem, error) {
	if len(raw) == 0 {
		return []entity.DeliveryItem{}, nil
	}
	var rows []item
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode delivery items: %w", err)
	}
	out := make([]entity.DeliveryItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, entity.DeliveryItem{ProductID: r.ProductID, Quantity: r.Quantity, ProductName: r.ProductName})
	}
	return out, nil
}
