package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los totales del almacén y la serie de los últimos seis meses.
// GET /api/dashboard/summary
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
