package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── mapError ──────────────────────────────────────────────────────────────

func TestMapError_ConstraintConocido(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: "23505", ConstraintName: "goods_receipts_po_id_key"}, "insert goods receipt")
	assert.ErrorIs(t, err, domain.ErrDuplicateGRN)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	d, ok := domain.Details(err)
	require.True(t, ok)
	assert.Equal(t, "po_id", d.Field)
}

func TestMapError_CheckDeStockNegativo(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: "23514", ConstraintName: "stock_locations_current_stock_check"}, "update current stock")
	assert.ErrorIs(t, err, domain.ErrNegativeStock)
}

func TestMapError_ConstraintDesconocidoSeEnvuelve(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "otro"}
	err := mapError(pgErr, "insert item")
	assert.False(t, errors.Is(err, domain.ErrDuplicate))
	assert.ErrorIs(t, err, pgErr)
	assert.Contains(t, err.Error(), "insert item")
}

func TestMapError_BorradoConDependientesEsEnUso(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", TableName: "purchase_requests", ConstraintName: "purchase_requests_warehouse_id_fkey"}
	err := mapError(pgErr, "delete warehouse")
	assert.ErrorIs(t, err, domain.ErrInUse)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.False(t, errors.Is(err, pgErr))

	d, ok := domain.Details(err)
	require.True(t, ok)
	assert.Equal(t, "warehouse", d.Entity)
	assert.Equal(t, "purchase_requests", d.State)
}

func TestMapError_ReferenciaInexistenteEsNoEncontrado(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: "23503", TableName: "purchase_orders", ConstraintName: "purchase_orders_supplier_id_fkey"}, "insert purchase order")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	d, ok := domain.Details(err)
	require.True(t, ok)
	assert.Equal(t, "purchase_order", d.Entity)
	assert.Equal(t, "supplier_id", d.Field)
}

func TestMapError_IDConFormatoInvalidoEsNoEncontrado(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}, "delete supplier item")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotContains(t, err.Error(), "invalid input syntax")
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23514"}))
	assert.False(t, isUniqueViolation(errors.New("23505")))
}

func TestNoRows_DevuelveNilNil(t *testing.T) {
	v, err := noRows(new(int), pgx.ErrNoRows, "get")
	assert.NoError(t, err)
	assert.Nil(t, v)

	v, err = noRows(new(int), &pgconn.PgError{Code: "22P02"}, "get goods receipt")
	assert.NoError(t, err)
	assert.Nil(t, v)

	_, err = noRows(new(int), errors.New("boom"), "get")
	assert.ErrorContains(t, err, "get: boom")
}

// ── filtros ───────────────────────────────────────────────────────────────

func TestDocumentFilter_ArmaPlaceholders(t *testing.T) {
	b := documentFilter(repository.ListFilter{
		Status:      "pending",
		WarehouseID: "wh-1",
		SupplierID:  "sup-1",
		Limit:       20,
		Offset:      40,
	}, "supplier_id")

	assert.Equal(t, " WHERE status = $1 AND warehouse_id = $2 AND supplier_id = $3", b.where())
	assert.Equal(t, " LIMIT $4 OFFSET $5", b.page(20, 40))
	assert.Equal(t, []any{"pending", "wh-1", "sup-1", 20, 40}, b.args)
}

func TestDocumentFilter_SinProveedorIgnoraSupplierID(t *testing.T) {
	b := documentFilter(repository.ListFilter{SupplierID: "sup-1"}, "")
	assert.Empty(t, b.where())
	assert.Empty(t, b.page(0, 0))
	assert.Empty(t, b.args)
}

func TestFilterBuilder_MismoArgumentoEnDosColumnas(t *testing.T) {
	b := &filterBuilder{}
	b.add("(from_warehouse_id = ? OR to_warehouse_id = ?)", "wh-1")
	assert.Equal(t, " WHERE (from_warehouse_id = $1 OR to_warehouse_id = $1)", b.where())
}

func TestNullable(t *testing.T) {
	assert.Nil(t, nullable(""))
	assert.Equal(t, "x", nullable("x"))
}
