package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/systemair-inventario/internal/application/datasync"
	"github.com/jhoicas/systemair-inventario/internal/application/dto"
)

// SyncHandler exportación, importación y sincronización del almacén.
type SyncHandler struct {
	svc       *datasync.Service
	scheduler *datasync.Scheduler
}

// NewSyncHandler construye el handler.
func NewSyncHandler(svc *datasync.Service, scheduler *datasync.Scheduler) *SyncHandler {
	return &SyncHandler{svc: svc, scheduler: scheduler}
}

// GetConfig godoc
// @Summary      Configuración de sincronización
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncConfigResponse
// @Router       /api/sync/config [get]
func (h *SyncHandler) GetConfig(c *fiber.Ctx) error {
	return c.JSON(dto.NewSyncConfigResponse(h.scheduler.Config()))
}

// UpdateConfig godoc
// @Summary      Cambiar la configuración de sincronización
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSyncConfigRequest  true  "autoSync, syncInterval (minutos)"
// @Success      200   {object}  dto.SyncConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sync/config [put]
func (h *SyncHandler) UpdateConfig(c *fiber.Ctx) error {
	var in dto.UpdateSyncConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	upd := datasync.ConfigUpdate{AutoSync: in.AutoSync}
	if in.SyncInterval != nil {
		d := time.Duration(*in.SyncInterval) * time.Minute
		upd.Interval = &d
	}
	cfg, err := h.scheduler.UpdateConfig(upd)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewSyncConfigResponse(cfg))
}

// Run godoc
// @Summary      Sincronizar ahora
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SyncResult
// @Router       /api/sync/run [post]
func (h *SyncHandler) Run(c *fiber.Ctx) error {
	ok := h.scheduler.PerformSync(c.Context())
	return c.JSON(dto.SyncResult{Success: ok, Config: dto.NewSyncConfigResponse(h.scheduler.Config())})
}

// Export godoc
// @Summary      Descargar snapshot completo
// @Tags         sync
// @Security     Bearer
// @Produce      json
// @Router       /api/sync/export [get]
func (h *SyncHandler) Export(c *fiber.Ctx) error {
	raw, err := h.svc.ExportAll(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(datasync.ExportFilename(time.Now()))
	return c.Send(raw)
}

// Import godoc
// @Summary      Importar snapshot
// @Tags         sync
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      200  {object}  dto.ImportReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sync/import [post]
func (h *SyncHandler) Import(c *fiber.Ctx) error {
	report, err := h.svc.ImportData(c.Context(), c.Body())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(report)
}
