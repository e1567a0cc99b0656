package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/application/usecase"
)

// StockHandler vista de stock con búsqueda, filtros y orden.
type StockHandler struct {
	uc *usecase.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *usecase.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Query godoc
// @Summary      Consultar stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Texto a buscar en el nombre"
// @Param        filter  query  string  false  "all | low | out | available"
// @Param        sort    query  string  false  "name | quantity | date"
// @Success      200  {object}  dto.StockView
// @Router       /api/stock [get]
func (h *StockHandler) Query(c *fiber.Ctx) error {
	var q dto.StockQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: err.Error()})
	}
	switch q.Filter {
	case "", dto.StockFilterAll, dto.StockFilterLow, dto.StockFilterOut, dto.StockFilterAvailable:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filter desconocido: " + q.Filter})
	}
	switch q.Sort {
	case "", dto.StockSortName, dto.StockSortQuantity, dto.StockSortDate:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "sort desconocido: " + q.Sort})
	}
	out, err := h.uc.Query(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
