package purchasing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

// terms condiciones económicas de una OC.
type terms struct {
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	Expected  *time.Time
}

// priceTerms precio: el informado, si no el del catálogo proveedor↔ítem, si no el del ítem.
// Entrega esperada: la informada, si no hoy + tiempo de entrega del proveedor (o del ítem).
func priceTerms(ctx context.Context, cat CatalogReader, s repository.Store, supplierID string, item *entity.Item,
	qty int64, unitPrice *decimal.Decimal, expected *time.Time, now time.Time) (terms, error) {
	si, err := cat.SupplierItem(ctx, s, supplierID, item.ID)
	if err != nil {
		return terms{}, err
	}
	t := terms{UnitPrice: item.UnitPrice, Expected: expected}
	leadTime := item.LeadTimeDays
	if si != nil {
		t.UnitPrice = si.UnitPrice
		if si.LeadTimeDays > 0 {
			leadTime = si.LeadTimeDays
		}
	}
	if unitPrice != nil {
		t.UnitPrice = *unitPrice
	}
	if t.UnitPrice.IsNegative() {
		return terms{}, domain.FieldError(domain.ErrValidation, "purchase_order", "unit_price", "no puede ser negativo")
	}
	if t.Expected == nil {
		d := now.AddDate(0, 0, leadTime)
		t.Expected = &d
	}
	t.Total = t.UnitPrice.Mul(decimal.NewFromInt(qty))
	return t, nil
}

// activeSupplier valida que el proveedor exista y esté activo.
func activeSupplier(ctx context.Context, s repository.Store, supplierID string) (*entity.Supplier, error) {
	if supplierID == "" {
		return nil, domain.FieldError(domain.ErrValidation, "purchase_order", "supplier_id", "requerido")
	}
	sup, err := s.Suppliers().GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if sup == nil {
		return nil, domain.NotFound("supplier", supplierID)
	}
	if !sup.Active {
		return nil, domain.FieldError(domain.ErrValidation, "purchase_order", "supplier_id", "el proveedor está inactivo")
	}
	return sup, nil
}

// activeItem valida que el ítem exista y esté activo.
func activeItem(ctx context.Context, cat CatalogReader, s repository.Store, itemID string) (*entity.Item, error) {
	it, err := cat.Item(ctx, s, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.NotFound("item", itemID)
	}
	if !it.Active {
		return nil, domain.FieldError(domain.ErrValidation, "item", "item_id", "el ítem está inactivo")
	}
	return it, nil
}

// existingWarehouse valida que la bodega exista.
func existingWarehouse(ctx context.Context, s repository.Store, warehouseID string) (*entity.Warehouse, error) {
	w, err := s.Warehouses().GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, domain.NotFound("warehouse", warehouseID)
	}
	return w, nil
}

func nextNumber(ctx context.Context, s repository.Store, sequence string) (string, error) {
	n, err := s.Sequences().Next(ctx, sequence)
	if err != nil {
		return "", err
	}
	return entity.DocumentNumber(sequence, n), nil
}
