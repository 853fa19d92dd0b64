package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/ledger"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// StockHandler libro de stock: ubicaciones, consultas y tablero de reposición.
type StockHandler struct {
	uc  *ledger.StockUseCase
	log *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.StockUseCase, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log}
}

// GetStock godoc
// @Summary      Cantidad actual de un ítem en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id       query  string  true  "ID del ítem"
// @Param        warehouse_id  query  string  true  "ID de la bodega"
// @Success      200  {object}  dto.StockQueryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	var q dto.StockQueryRequest
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.GetStock(c.UserContext(), GetIdentity(c), q.ItemID, q.WarehouseID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateLocation godoc
// @Summary      Crear ubicación de stock
// @Description  Registra el par (ítem, bodega) con saldo inicial opcional. Sin umbrales se usan los valores por defecto.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockLocationRequest  true  "Ubicación"
// @Success      201   {object}  dto.StockLocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/locations [post]
func (h *StockHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateStockLocationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.CreateLocation(c.UserContext(), GetIdentity(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateLocation godoc
// @Summary      Actualizar ubicación de stock
// @Description  Cambia pasillo, estante, posición y umbrales. La cantidad solo cambia por documentos.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                          true  "ID de la ubicación"
// @Param        body  body  dto.UpdateStockLocationRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.StockLocationResponse
// @Router       /api/stock/locations/{id} [put]
func (h *StockHandler) UpdateLocation(c *fiber.Ctx) error {
	var in dto.UpdateStockLocationRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.UpdateLocation(c.UserContext(), GetIdentity(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListByWarehouse godoc
// @Summary      Ubicaciones de una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID de la bodega"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {array}  dto.StockLocationResponse
// @Router       /api/warehouses/{id}/stock [get]
func (h *StockHandler) ListByWarehouse(c *fiber.Ctx) error {
	page, err := pageFrom(c)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.ListByWarehouse(c.UserContext(), GetIdentity(c), c.Params("id"), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Tablero de reposición
// @Description  Ubicaciones bajo el mínimo efectivo con urgencia, cantidad sugerida y resumen.
// @Tags         replenishment
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/replenishment/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext(), GetIdentity(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
