// Package testutil datos de prueba sobre el almacén en memoria.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/jhoicas/replenishment-api/internal/infrastructure/memory"
)

// Identidades de prueba por rol.
var (
	Admin     = entity.Identity{UserID: "u-admin", Role: entity.RoleAdmin}
	Manager   = entity.Identity{UserID: "u-manager", Role: entity.RoleManager}
	Manager2  = entity.Identity{UserID: "u-manager-2", Role: entity.RoleManager}
	Warehouse = entity.Identity{UserID: "u-warehouse", Role: entity.RoleWarehouse}
)

// SupplierUser identidad de un usuario del proveedor dado.
func SupplierUser(supplierID string) entity.Identity {
	return entity.Identity{UserID: "u-supplier-" + supplierID, Role: entity.RoleSupplier, SupplierID: supplierID}
}

// Fixture agrupa un almacén en memoria y helpers de alta.
type Fixture struct {
	t  *testing.T
	DB *memory.DB
}

// New crea un almacén vacío.
func New(t *testing.T, opts ...memory.Option) *Fixture {
	t.Helper()
	return &Fixture{t: t, DB: memory.New(opts...)}
}

// Run ejecuta fn en una transacción y exige que termine sin error.
func (f *Fixture) Run(fn func(ctx context.Context, s repository.Store) error) {
	f.t.Helper()
	require.NoError(f.t, f.DB.Run(context.Background(), fn))
}

// Warehouse crea una bodega activa.
func (f *Fixture) Warehouse(code string) *entity.Warehouse {
	f.t.Helper()
	now := time.Now()
	w := &entity.Warehouse{ID: uuid.New().String(), Code: code, Name: "Bodega " + code, Active: true, CreatedAt: now, UpdatedAt: now}
	f.Run(func(ctx context.Context, s repository.Store) error { return s.Warehouses().Create(ctx, w) })
	return w
}

// Supplier crea un proveedor activo.
func (f *Fixture) Supplier(name string) *entity.Supplier {
	f.t.Helper()
	now := time.Now()
	sup := &entity.Supplier{ID: uuid.New().String(), Name: name, Email: "ventas@" + name + ".test", Active: true, CreatedAt: now, UpdatedAt: now}
	f.Run(func(ctx context.Context, s repository.Store) error { return s.Suppliers().Create(ctx, sup) })
	return sup
}

// Item crea un ítem activo con el punto de reorden dado.
func (f *Fixture) Item(sku string, reorderPoint int64) *entity.Item {
	f.t.Helper()
	now := time.Now()
	it := &entity.Item{
		ID:           uuid.New().String(),
		SKU:          sku,
		Name:         "Ítem " + sku,
		UnitMeasure:  "UND",
		LeadTimeDays: 7,
		ReorderPoint: reorderPoint,
		UnitPrice:    decimal.NewFromInt(1000),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.Run(func(ctx context.Context, s repository.Store) error { return s.Items().Create(ctx, it) })
	return it
}

// Location crea la ubicación del par con el saldo y umbrales dados.
func (f *Fixture) Location(item *entity.Item, wh *entity.Warehouse, current, minStock, maxStock int64) *entity.StockLocation {
	f.t.Helper()
	now := time.Now()
	loc := &entity.StockLocation{
		ID:           uuid.New().String(),
		ItemID:       item.ID,
		WarehouseID:  wh.ID,
		LocationCode: wh.Code,
		CurrentStock: current,
		MinStock:     minStock,
		MaxStock:     maxStock,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.Run(func(ctx context.Context, s repository.Store) error { return s.Stock().Create(ctx, loc) })
	return loc
}

// Stock cantidad actual del par; -1 si no existe ubicación.
func (f *Fixture) Stock(itemID, warehouseID string) int64 {
	f.t.Helper()
	qty := int64(-1)
	f.Run(func(ctx context.Context, s repository.Store) error {
		loc, err := s.Stock().Get(ctx, itemID, warehouseID)
		if loc != nil {
			qty = loc.CurrentStock
		}
		return err
	})
	return qty
}

// PurchaseOrder crea una OC directamente en el estado dado.
func (f *Fixture) PurchaseOrder(item *entity.Item, wh *entity.Warehouse, sup *entity.Supplier, qty int64, status entity.POStatus) *entity.PurchaseOrder {
	f.t.Helper()
	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:              uuid.New().String(),
		Number:          "PO-" + item.SKU,
		SupplierID:      sup.ID,
		ItemID:          item.ID,
		WarehouseID:     wh.ID,
		OrderedQuantity: qty,
		UnitPrice:       item.UnitPrice,
		TotalAmount:     item.UnitPrice.Mul(decimal.NewFromInt(qty)),
		Status:          status,
		CreatedBy:       Admin.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	f.Run(func(ctx context.Context, s repository.Store) error { return s.PurchaseOrders().Create(ctx, po) })
	return po
}

// GoodsReceipt crea una recepción para la OC con la cantidad recibida y el estado dados.
func (f *Fixture) GoodsReceipt(po *entity.PurchaseOrder, received int64, status entity.GRNStatus) *entity.GoodsReceipt {
	f.t.Helper()
	now := time.Now()
	grn := &entity.GoodsReceipt{
		ID:               uuid.New().String(),
		Number:           "GRN-" + po.Number,
		POID:             po.ID,
		ItemID:           po.ItemID,
		WarehouseID:      po.WarehouseID,
		QuantityOrdered:  po.OrderedQuantity,
		QuantityReceived: received,
		ReceivedBy:       Warehouse.UserID,
		Status:           status,
		Notes:            entity.AuditLine(now, Warehouse, "received", ""),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	f.Run(func(ctx context.Context, s repository.Store) error { return s.GoodsReceipts().Create(ctx, grn) })
	return grn
}
