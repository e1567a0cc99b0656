package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/entity"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

// DeliveryNoteLine línea de la nota de entrega ya resuelta contra el catálogo.
type DeliveryNoteLine struct {
	ProductID   string
	ProductName string // vacío si el producto ya no existe
	Barcode     string
	Quantity    int
}

// DeliveryNoteGenerator genera el documento imprimible de una entrega.
type DeliveryNoteGenerator interface {
	GenerateDeliveryNote(ctx context.Context, d *entity.Delivery, lines []DeliveryNoteLine) ([]byte, error)
}

// DeliveryNoteUseCase arma la nota de entrega en PDF.
type DeliveryNoteUseCase struct {
	deliveries repository.DeliveryRepository
	products   repository.ProductRepository
	generator  DeliveryNoteGenerator
}

// NewDeliveryNoteUseCase construye el caso de uso.
func NewDeliveryNoteUseCase(
	deliveries repository.DeliveryRepository,
	products repository.ProductRepository,
	generator DeliveryNoteGenerator,
) *DeliveryNoteUseCase {
	return &DeliveryNoteUseCase{deliveries: deliveries, products: products, generator: generator}
}

// Download devuelve el PDF y el nombre de archivo sugerido.
// domain.ErrNotFound si la entrega no existe.
func (uc *DeliveryNoteUseCase) Download(ctx context.Context, id string) ([]byte, string, error) {
	d, err := uc.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, "", fmt.Errorf("nota de entrega: obtener entrega: %w", err)
	}
	if d == nil {
		return nil, "", domain.ErrNotFound
	}

	lines := make([]DeliveryNoteLine, 0, len(d.Products))
	for _, it := range d.Products {
		line := DeliveryNoteLine{ProductID: it.ProductID, ProductName: it.ProductName, Quantity: it.Quantity}
		p, err := uc.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("nota de entrega: obtener producto %s: %w", it.ProductID, err)
		}
		if p != nil {
			line.ProductName = p.Name
			line.Barcode = p.Barcode
		}
		lines = append(lines, line)
	}

	pdf, err := uc.generator.GenerateDeliveryNote(ctx, d, lines)
	if err != nil {
		return nil, "", err
	}
	return pdf, fmt.Sprintf("nota-entrega-%s.pdf", shortID(d.ID)), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
