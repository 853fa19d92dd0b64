package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/domain"
)

func TestMapError_TablaDeTipos(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.FieldError(domain.ErrValidation, "item", "sku", "requerido"), fiber.StatusBadRequest, "VALIDATION"},
		{domain.FieldError(domain.ErrInvalidQuantity, "purchase_request", "quantity", ""), fiber.StatusBadRequest, "INVALID_QUANTITY"},
		{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrAccessDenied, fiber.StatusForbidden, "FORBIDDEN"},
		{domain.NotFound("purchase_order", "x"), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.StateError(domain.ErrAlreadyDecided, "goods_receipt", "approved"), fiber.StatusConflict, "ALREADY_DECIDED"},
		{domain.StateError(domain.ErrAlreadyConverted, "purchase_request", "converted"), fiber.StatusConflict, "ALREADY_CONVERTED"},
		{domain.StateError(domain.ErrInvalidState, "purchase_order", "draft"), fiber.StatusConflict, "INVALID_STATE"},
		{domain.ErrInUse, fiber.StatusConflict, "IN_USE"},
		{domain.ErrDuplicateGRN, fiber.StatusConflict, "DUPLICATE_GRN"},
		{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
		{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
		{domain.ErrNegativeStock, fiber.StatusConflict, "NEGATIVE_STOCK"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			status, body := mapError(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestMapError_DetallesDeCampoYEstado(t *testing.T) {
	_, body := mapError(domain.FieldError(domain.ErrValidation, "item", "sku", "requerido"))
	assert.Equal(t, "sku", body.Field)

	_, body = mapError(fmt.Errorf("decidir: %w", domain.StateError(domain.ErrAlreadyDecided, "goods_receipt", "approved")))
	assert.Equal(t, "ALREADY_DECIDED", body.Code)
	assert.Equal(t, "approved", body.State)
}

func TestMapError_ErrorInternoNoExponeDetalle(t *testing.T) {
	status, body := mapError(errors.New(`pq: duplicate key value violates unique constraint "x"`))
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}, body)
}

// ── validación de DTOs ───────────────────────────────────────────────────────

func TestValidateStruct_CampoPorNombreJSON(t *testing.T) {
	err := validateStruct(&dto.CreateItemRequest{Name: "Tornillo"})
	require.Error(t, err)
	d, ok := domain.Details(err)
	require.True(t, ok)
	assert.Equal(t, "sku", d.Field)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateStruct_CantidadEsInvalidQuantity(t *testing.T) {
	err := validateStruct(&dto.CreateGoodsReceiptRequest{POID: "8a4f2f0e-4a1a-4a8e-9d51-3c1d3f0b7a10", QuantityReceived: -3})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestValidateStruct_QueryTag(t *testing.T) {
	err := validateStruct(&dto.StockQueryRequest{ItemID: "no-uuid", WarehouseID: "8a4f2f0e-4a1a-4a8e-9d51-3c1d3f0b7a10"})
	require.Error(t, err)
	d, _ := domain.Details(err)
	assert.Equal(t, "item_id", d.Field)
}
