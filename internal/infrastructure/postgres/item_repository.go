package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo ítems del catálogo.
type ItemRepo struct {
	q querier
}

const itemColumns = `id, sku, name, category_id, unit_measure, lead_time_days, daily_consumption,
	safety_stock, reorder_point, unit_price, active, COALESCE(preferred_supplier_id::text, ''), created_at, updated_at`

func scanItem(row rowScanner) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.SKU, &it.Name, &it.CategoryID, &it.UnitMeasure, &it.LeadTimeDays, &it.DailyConsumption,
		&it.SafetyStock, &it.ReorderPoint, &it.UnitPrice, &it.Active, &it.PreferredSupplierID, &it.CreatedAt, &it.UpdatedAt)
	return &it, err
}

func (r *ItemRepo) Create(ctx context.Context, it *entity.Item) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO items (id, sku, name, category_id, unit_measure, lead_time_days, daily_consumption,
			safety_stock, reorder_point, unit_price, active, preferred_supplier_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		it.ID, it.SKU, it.Name, it.CategoryID, it.UnitMeasure, it.LeadTimeDays, it.DailyConsumption,
		it.SafetyStock, it.ReorderPoint, it.UnitPrice, it.Active, nullable(it.PreferredSupplierID), it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return mapError(err, "insert item")
	}
	return nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE id = $1`, id))
	return noRows(it, err, "get item")
}

func (r *ItemRepo) GetBySKU(ctx context.Context, sku string) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE sku = $1`, sku))
	return noRows(it, err, "get item by sku")
}

func (r *ItemRepo) Update(ctx context.Context, it *entity.Item) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE items SET sku = $2, name = $3, category_id = $4, unit_measure = $5, lead_time_days = $6,
			daily_consumption = $7, safety_stock = $8, reorder_point = $9, unit_price = $10, active = $11,
			preferred_supplier_id = $12, updated_at = $13
		WHERE id = $1`,
		it.ID, it.SKU, it.Name, it.CategoryID, it.UnitMeasure, it.LeadTimeDays,
		it.DailyConsumption, it.SafetyStock, it.ReorderPoint, it.UnitPrice, it.Active,
		nullable(it.PreferredSupplierID), it.UpdatedAt)
	if err != nil {
		return mapError(err, "update item")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) List(ctx context.Context, limit, offset int) ([]*entity.Item, error) {
	b := &filterBuilder{}
	rows, err := r.q.Query(ctx, `SELECT `+itemColumns+` FROM items ORDER BY sku`+b.page(limit, offset), b.args...)
	if err != nil {
		return nil, mapError(err, "list items")
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

func (r *ItemRepo) CountByCategory(ctx context.Context, categoryID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM items WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items by category: %w", err)
	}
	return n, nil
}
