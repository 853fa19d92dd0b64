package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/replenishment-api/internal/application/scheduler"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// SchedulerHandler control del programador automático.
type SchedulerHandler struct {
	uc  *scheduler.SchedulerUseCase
	log *logger.Logger
}

// NewSchedulerHandler construye el handler.
func NewSchedulerHandler(uc *scheduler.SchedulerUseCase, log *logger.Logger) *SchedulerHandler {
	return &SchedulerHandler{uc: uc, log: log}
}

// Status godoc
// @Summary      Estado del programador
// @Tags         scheduler
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SchedulerStatusResponse
// @Router       /api/scheduler/status [get]
func (h *SchedulerHandler) Status(c *fiber.Ctx) error {
	out, err := h.uc.Status(GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Start godoc
// @Summary      Iniciar el programador
// @Tags         scheduler
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SchedulerStatusResponse
// @Router       /api/scheduler/start [post]
func (h *SchedulerHandler) Start(c *fiber.Ctx) error {
	out, err := h.uc.Start(GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Stop godoc
// @Summary      Detener el programador
// @Tags         scheduler
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SchedulerStatusResponse
// @Router       /api/scheduler/stop [post]
func (h *SchedulerHandler) Stop(c *fiber.Ctx) error {
	out, err := h.uc.Stop(GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Run godoc
// @Summary      Corrida manual
// @Tags         scheduler
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AutoCreateResponse
// @Router       /api/scheduler/run [post]
func (h *SchedulerHandler) Run(c *fiber.Ctx) error {
	out, err := h.uc.RunNow(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
