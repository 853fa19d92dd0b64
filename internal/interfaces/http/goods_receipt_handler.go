package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/receiving"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// GoodsReceiptHandler recepciones de mercancía.
type GoodsReceiptHandler struct {
	uc  *receiving.GoodsReceiptUseCase
	log *logger.Logger
}

// NewGoodsReceiptHandler construye el handler.
func NewGoodsReceiptHandler(uc *receiving.GoodsReceiptUseCase, log *logger.Logger) *GoodsReceiptHandler {
	return &GoodsReceiptHandler{uc: uc, log: log}
}

// Create godoc
// @Summary      Registrar recepción
// @Description  Una recepción por orden; la orden debe estar confirmada por el proveedor.
// @Tags         goods-receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGoodsReceiptRequest  true  "Recepción"
// @Success      201   {object}  dto.GoodsReceiptResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/goods-receipts [post]
func (h *GoodsReceiptHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateGoodsReceiptRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener recepción
// @Tags         goods-receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la recepción"
// @Success      200  {object}  dto.GoodsReceiptResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/goods-receipts/{id} [get]
func (h *GoodsReceiptHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetIdentity(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar recepciones
// @Tags         goods-receipts
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Estado"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.GoodsReceiptListResponse
// @Router       /api/goods-receipts [get]
func (h *GoodsReceiptHandler) List(c *fiber.Ctx) error {
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

// Decide godoc
// @Summary      Aprobar o rechazar recepción
// @Description  Aprobar suma la cantidad recibida al stock y completa la orden en la misma transacción.
// @Tags         goods-receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID de la recepción"
// @Param        body  body  dto.DecisionRequest  true  "Decisión"
// @Success      200   {object}  dto.GoodsReceiptResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/goods-receipts/{id}/decision [post]
func (h *GoodsReceiptHandler) Decide(c *fiber.Ctx) error {
	var in dto.DecisionRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Decide(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
