package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

var (
	_ repository.SupplierRepository     = (*SupplierRepo)(nil)
	_ repository.SupplierItemRepository = (*SupplierItemRepo)(nil)
)

// SupplierRepo proveedores.
type SupplierRepo struct {
	q querier
}

const supplierColumns = `id, name, contact_name, email, phone, active, created_at, updated_at`

func scanSupplier(row rowScanner) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.Name, &s.ContactName, &s.Email, &s.Phone, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (id, name, contact_name, email, phone, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		s.ID, s.Name, s.ContactName, s.Email, s.Phone, s.Active, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return mapError(err, "insert supplier")
	}
	return nil
}

func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	return noRows(s, err, "get supplier")
}

func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $2, contact_name = $3, email = $4, phone = $5, active = $6, updated_at = $7
		WHERE id = $1`,
		s.ID, s.Name, s.ContactName, s.Email, s.Phone, s.Active, s.UpdatedAt)
	if err != nil {
		return mapError(err, "update supplier")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplierRepo) List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error) {
	b := &filterBuilder{}
	rows, err := r.q.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name, id`+b.page(limit, offset), b.args...)
	if err != nil {
		return nil, mapError(err, "list suppliers")
	}
	defer rows.Close()
	var list []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// SupplierItemRepo catálogo proveedor↔ítem (precio y plazo de entrega).
type SupplierItemRepo struct {
	q querier
}

const supplierItemColumns = `id, supplier_id, item_id, supplier_sku, unit_price, lead_time_days, min_order_qty, created_at, updated_at`

func scanSupplierItem(row rowScanner) (*entity.SupplierItem, error) {
	var si entity.SupplierItem
	err := row.Scan(&si.ID, &si.SupplierID, &si.ItemID, &si.SupplierSKU, &si.UnitPrice, &si.LeadTimeDays,
		&si.MinOrderQty, &si.CreatedAt, &si.UpdatedAt)
	return &si, err
}

func (r *SupplierItemRepo) Create(ctx context.Context, si *entity.SupplierItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO supplier_items (id, supplier_id, item_id, supplier_sku, unit_price, lead_time_days, min_order_qty, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		si.ID, si.SupplierID, si.ItemID, si.SupplierSKU, si.UnitPrice, si.LeadTimeDays, si.MinOrderQty, si.CreatedAt, si.UpdatedAt)
	if err != nil {
		return mapError(err, "insert supplier item")
	}
	return nil
}

func (r *SupplierItemRepo) Get(ctx context.Context, supplierID, itemID string) (*entity.SupplierItem, error) {
	si, err := scanSupplierItem(r.q.QueryRow(ctx,
		`SELECT `+supplierItemColumns+` FROM supplier_items WHERE supplier_id = $1 AND item_id = $2`, supplierID, itemID))
	return noRows(si, err, "get supplier item")
}

func (r *SupplierItemRepo) Update(ctx context.Context, si *entity.SupplierItem) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE supplier_items SET supplier_sku = $2, unit_price = $3, lead_time_days = $4, min_order_qty = $5, updated_at = $6
		WHERE id = $1`,
		si.ID, si.SupplierSKU, si.UnitPrice, si.LeadTimeDays, si.MinOrderQty, si.UpdatedAt)
	if err != nil {
		return mapError(err, "update supplier item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *SupplierItemRepo) ListBySupplier(ctx context.Context, supplierID string) ([]*entity.SupplierItem, error) {
	return r.list(ctx, `supplier_id = $1 ORDER BY item_id`, supplierID)
}

func (r *SupplierItemRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.SupplierItem, error) {
	return r.list(ctx, `item_id = $1 ORDER BY supplier_id`, itemID)
}

func (r *SupplierItemRepo) list(ctx context.Context, where string, arg any) ([]*entity.SupplierItem, error) {
	rows, err := r.q.Query(ctx, `SELECT `+supplierItemColumns+` FROM supplier_items WHERE `+where, arg)
	if err != nil {
		return nil, mapError(err, "list supplier items")
	}
	defer rows.Close()
	var list []*entity.SupplierItem
	for rows.Next() {
		si, err := scanSupplierItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier item: %w", err)
		}
		list = append(list, si)
	}
	return list, rows.Err()
}

func (r *SupplierItemRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM supplier_items WHERE id = $1`, id); err != nil {
		return mapError(err, "delete supplier item")
	}
	return nil
}
