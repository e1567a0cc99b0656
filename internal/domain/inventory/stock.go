package inventory

import (
	"fmt"

	"github.com/jhoicas/systemair-inventario/internal/domain"
)

// DecrementStock descuenta qty del stock actual (servicio de dominio).
// El stock nunca queda negativo: si no alcanza devuelve ErrInsufficientStock.
func DecrementStock(current, qty int) (int, error) {
	if qty <= 0 {
		return current, fmt.Errorf("%w: cantidad a descontar debe ser positiva (%d)", domain.ErrInvalidInput, qty)
	}
	if current < qty {
		return current, fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, current, qty)
	}
	return current - qty, nil
}
