package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
)

// StatusHandler estado y reinicio del almacén.
type StatusHandler struct {
	uc *usecase.StatusUseCase
}

// NewStatusHandler construye el handler.
func NewStatusHandler(uc *usecase.StatusUseCase) *StatusHandler {
	return &StatusHandler{uc: uc}
}

// Get godoc
// @Summary      Estado del servicio de datos
// @Tags         status
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /api/status [get]
func (h *StatusHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.uc.Status())
}

// Reset godoc
// @Summary      Borrar todos los datos y volver a inicializar
// @Tags         status
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /api/status/reset [post]
func (h *StatusHandler) Reset(c *fiber.Ctx) error {
	if err := h.uc.Reset(c.Context()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.uc.Status())
}
