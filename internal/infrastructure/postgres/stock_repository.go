package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

var _ repository.StockLocationRepository = (*StockRepo)(nil)

// StockRepo libro de stock por (ítem, bodega) sobre PostgreSQL.
type StockRepo struct {
	q querier
}

const stockColumns = `id, item_id, warehouse_id, aisle, rack, bin, location_code, current_stock, min_stock, max_stock,
	active, created_at, updated_at`

func scanStock(row rowScanner) (*entity.StockLocation, error) {
	var l entity.StockLocation
	err := row.Scan(&l.ID, &l.ItemID, &l.WarehouseID, &l.Aisle, &l.Rack, &l.Bin, &l.LocationCode,
		&l.CurrentStock, &l.MinStock, &l.MaxStock, &l.Active, &l.CreatedAt, &l.UpdatedAt)
	return &l, err
}

// Create inserta la ubicación; si ya hay una activa para el par devuelve ErrDuplicate sin abortar la transacción.
func (r *StockRepo) Create(ctx context.Context, loc *entity.StockLocation) error {
	tag, err := r.q.Exec(ctx, `
		INSERT INTO stock_locations (id, item_id, warehouse_id, aisle, rack, bin, location_code, current_stock,
			min_stock, max_stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (item_id, warehouse_id) WHERE active DO NOTHING`,
		loc.ID, loc.ItemID, loc.WarehouseID, loc.Aisle, loc.Rack, loc.Bin, loc.LocationCode, loc.CurrentStock,
		loc.MinStock, loc.MaxStock, loc.Active, loc.CreatedAt, loc.UpdatedAt)
	if err != nil {
		return mapError(err, "insert stock location")
	}
	if tag.RowsAffected() == 0 {
		return constraintErrors["stock_locations_active_pair_key"]()
	}
	return nil
}

func (r *StockRepo) GetByID(ctx context.Context, id string) (*entity.StockLocation, error) {
	l, err := scanStock(r.q.QueryRow(ctx, `SELECT `+stockColumns+` FROM stock_locations WHERE id = $1`, id))
	return noRows(l, err, "get stock location")
}

func (r *StockRepo) Get(ctx context.Context, itemID, warehouseID string) (*entity.StockLocation, error) {
	l, err := scanStock(r.q.QueryRow(ctx, `
		SELECT `+stockColumns+` FROM stock_locations
		WHERE item_id = $1 AND warehouse_id = $2 AND active`, itemID, warehouseID))
	return noRows(l, err, "get stock location by pair")
}

func (r *StockRepo) GetForUpdate(ctx context.Context, itemID, warehouseID string) (*entity.StockLocation, error) {
	l, err := scanStock(r.q.QueryRow(ctx, `
		SELECT `+stockColumns+` FROM stock_locations
		WHERE item_id = $1 AND warehouse_id = $2 AND active
		FOR UPDATE`, itemID, warehouseID))
	return noRows(l, err, "lock stock location")
}

// LockByIDs toma los bloqueos en orden de id para que dos movimientos cruzados no se bloqueen mutuamente.
func (r *StockRepo) LockByIDs(ctx context.Context, ids ...string) ([]*entity.StockLocation, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+stockColumns+` FROM stock_locations
		WHERE id = ANY($1::uuid[])
		ORDER BY id
		FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock stock locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockLocation
	for rows.Next() {
		l, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *StockRepo) UpdateQuantity(ctx context.Context, id string, quantity int64) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_locations SET current_stock = $2, updated_at = NOW()
		WHERE id = $1`, id, quantity)
	if err != nil {
		return mapError(err, "update current stock")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRepo) Update(ctx context.Context, loc *entity.StockLocation) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_locations SET aisle = $2, rack = $3, bin = $4, location_code = $5, min_stock = $6,
			max_stock = $7, active = $8, updated_at = $9
		WHERE id = $1`,
		loc.ID, loc.Aisle, loc.Rack, loc.Bin, loc.LocationCode, loc.MinStock, loc.MaxStock, loc.Active, loc.UpdatedAt)
	if err != nil {
		return mapError(err, "update stock location")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockLocation, error) {
	b := &filterBuilder{}
	b.add("warehouse_id = ?", warehouseID)
	rows, err := r.q.Query(ctx, `SELECT `+stockColumns+` FROM stock_locations`+b.where()+
		` ORDER BY location_code, id`+b.page(limit, offset), b.args...)
	if err != nil {
		return nil, mapError(err, "list stock locations")
	}
	defer rows.Close()
	var list []*entity.StockLocation
	for rows.Next() {
		l, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *StockRepo) CountByWarehouse(ctx context.Context, warehouseID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_locations WHERE warehouse_id = $1`, warehouseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock locations: %w", err)
	}
	return n, nil
}

// Snapshots une cada ubicación activa con su ítem activo para el planificador.
func (r *StockRepo) Snapshots(ctx context.Context) ([]entity.StockSnapshot, error) {
	rows, err := r.q.Query(ctx, `
		SELECT s.id, s.item_id, s.warehouse_id, s.aisle, s.rack, s.bin, s.location_code, s.current_stock,
			s.min_stock, s.max_stock, s.active, s.created_at, s.updated_at,
			i.id, i.sku, i.name, i.category_id, i.unit_measure, i.lead_time_days, i.daily_consumption,
			i.safety_stock, i.reorder_point, i.unit_price, i.active, COALESCE(i.preferred_supplier_id::text, ''),
			i.created_at, i.updated_at
		FROM stock_locations s
		JOIN items i ON i.id = s.item_id
		WHERE s.active AND i.active
		ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("stock snapshots: %w", err)
	}
	defer rows.Close()
	var out []entity.StockSnapshot
	for rows.Next() {
		var snap entity.StockSnapshot
		l, it := &snap.Location, &snap.Item
		if err := rows.Scan(&l.ID, &l.ItemID, &l.WarehouseID, &l.Aisle, &l.Rack, &l.Bin, &l.LocationCode,
			&l.CurrentStock, &l.MinStock, &l.MaxStock, &l.Active, &l.CreatedAt, &l.UpdatedAt,
			&it.ID, &it.SKU, &it.Name, &it.CategoryID, &it.UnitMeasure, &it.LeadTimeDays, &it.DailyConsumption,
			&it.SafetyStock, &it.ReorderPoint, &it.UnitPrice, &it.Active, &it.PreferredSupplierID,
			&it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}
