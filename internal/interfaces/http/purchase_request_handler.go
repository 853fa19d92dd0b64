package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/purchasing"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// PurchaseRequestHandler solicitudes de compra.
type PurchaseRequestHandler struct {
	uc  *purchasing.PurchaseRequestUseCase
	log *logger.Logger
}

// NewPurchaseRequestHandler construye el handler.
func NewPurchaseRequestHandler(uc *purchasing.PurchaseRequestUseCase, log *logger.Logger) *PurchaseRequestHandler {
	return &PurchaseRequestHandler{uc: uc, log: log}
}

func documentListFrom(c *fiber.Ctx) (dto.DocumentListRequest, error) {
	var q dto.DocumentListRequest
	if err := parseQuery(c, &q); err != nil {
		return q, err
	}
	q.DefaultPage()
	return q, nil
}

// Create godoc
// @Summary      Crear solicitud de compra
// @Tags         purchase-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequestRequest  true  "Solicitud"
// @Success      201   {object}  dto.PurchaseRequestResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests [post]
func (h *PurchaseRequestHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequestRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AutoCreate godoc
// @Summary      Crear solicitudes automáticas
// @Description  Evalúa las ubicaciones bajo mínimo y crea una solicitud por par sin documento abierto.
// @Tags         purchase-requests
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AutoCreateResponse
// @Router       /api/purchase-requests/auto [post]
func (h *PurchaseRequestHandler) AutoCreate(c *fiber.Ctx) error {
	res, err := h.uc.AutoCreate(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(res.Response())
}

// Get godoc
// @Summary      Obtener solicitud de compra
// @Tags         purchase-requests
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.PurchaseRequestResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id} [get]
func (h *PurchaseRequestHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar solicitudes de compra
// @Tags         purchase-requests
// @Security     Bearer
// @Produce      json
// @Param        status        query  string  false  "Estado"
// @Param        item_id       query  string  false  "Ítem"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.PurchaseRequestListResponse
// @Router       /api/purchase-requests [get]
func (h *PurchaseRequestHandler) List(c *fiber.Ctx) error {
	q, err := documentListFrom(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), GetIdentity(c), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar solicitud pendiente
// @Tags         purchase-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                            true  "ID de la solicitud"
// @Param        body  body  dto.UpdatePurchaseRequestRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.PurchaseRequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id} [put]
func (h *PurchaseRequestHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdatePurchaseRequestRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar solicitud pendiente
// @Tags         purchase-requests
// @Security     Bearer
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id} [delete]
func (h *PurchaseRequestHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetIdentity(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Decide godoc
// @Summary      Aprobar o rechazar solicitud
// @Description  Solo el gerente. Una solicitud ya decidida devuelve ALREADY_DECIDED.
// @Tags         purchase-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la solicitud"
// @Param        body  body  dto.DecisionRequest  true  "Decisión"
// @Success      200   {object}  dto.PurchaseRequestResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/decision [post]
func (h *PurchaseRequestHandler) Decide(c *fiber.Ctx) error {
	var in dto.DecisionRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.SetStatus(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Convert godoc
// @Summary      Convertir solicitud aprobada en orden de compra
// @Tags         purchase-requests
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                             true  "ID de la solicitud"
// @Param        body  body  dto.ConvertPurchaseRequestRequest  false "Términos de la OC"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-requests/{id}/convert [post]
func (h *PurchaseRequestHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertPurchaseRequestRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &in); err != nil {
			return writeError(c, h.log, err)
		}
	}
	out, err := h.uc.ConvertToPO(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
