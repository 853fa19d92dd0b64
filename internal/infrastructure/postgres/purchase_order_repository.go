package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo órdenes de compra.
type PurchaseOrderRepo struct {
	q querier
}

const poColumns = `id, number, COALESCE(pr_id::text, ''), supplier_id, item_id, warehouse_id, ordered_quantity,
	unit_price, total_amount, expected_delivery_date, status, notes, supplier_notes, cancel_reason, created_by,
	approved_by, sent_at, responded_at, cancelled_by, cancelled_at, created_at, updated_at`

func scanPO(row rowScanner) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := row.Scan(&po.ID, &po.Number, &po.PRID, &po.SupplierID, &po.ItemID, &po.WarehouseID, &po.OrderedQuantity,
		&po.UnitPrice, &po.TotalAmount, &po.ExpectedDeliveryDate, &po.Status, &po.Notes, &po.SupplierNotes,
		&po.CancelReason, &po.CreatedBy, &po.ApprovedBy, &po.SentAt, &po.RespondedAt, &po.CancelledBy,
		&po.CancelledAt, &po.CreatedAt, &po.UpdatedAt)
	return &po, err
}

func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_orders (id, number, pr_id, supplier_id, item_id, warehouse_id, ordered_quantity,
			unit_price, total_amount, expected_delivery_date, status, notes, supplier_notes, cancel_reason,
			created_by, approved_by, sent_at, responded_at, cancelled_by, cancelled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		po.ID, po.Number, nullable(po.PRID), po.SupplierID, po.ItemID, po.WarehouseID, po.OrderedQuantity,
		po.UnitPrice, po.TotalAmount, po.ExpectedDeliveryDate, po.Status, po.Notes, po.SupplierNotes, po.CancelReason,
		po.CreatedBy, po.ApprovedBy, po.SentAt, po.RespondedAt, po.CancelledBy, po.CancelledAt, po.CreatedAt, po.UpdatedAt)
	if err != nil {
		return mapError(err, "insert purchase order")
	}
	return nil
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPO(r.q.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1`, id))
	return noRows(po, err, "get purchase order")
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPO(r.q.QueryRow(ctx, `SELECT `+poColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id))
	return noRows(po, err, "lock purchase order")
}

func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_orders SET supplier_id = $2, ordered_quantity = $3, unit_price = $4, total_amount = $5,
			expected_delivery_date = $6, status = $7, notes = $8, supplier_notes = $9, cancel_reason = $10,
			approved_by = $11, sent_at = $12, responded_at = $13, cancelled_by = $14, cancelled_at = $15, updated_at = $16
		WHERE id = $1`,
		po.ID, po.SupplierID, po.OrderedQuantity, po.UnitPrice, po.TotalAmount,
		po.ExpectedDeliveryDate, po.Status, po.Notes, po.SupplierNotes, po.CancelReason,
		po.ApprovedBy, po.SentAt, po.RespondedAt, po.CancelledBy, po.CancelledAt, po.UpdatedAt)
	if err != nil {
		return mapError(err, "update purchase order")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.PurchaseOrder, error) {
	b := documentFilter(f, "supplier_id")
	rows, err := r.q.Query(ctx, `SELECT `+poColumns+` FROM purchase_orders`+b.where()+
		` ORDER BY number`+b.page(f.Limit, f.Offset), b.args...)
	if err != nil {
		return nil, mapError(err, "list purchase orders")
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		po, err := scanPO(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	return list, rows.Err()
}

// HasLive indica si hay una OC no terminal para el par.
func (r *PurchaseOrderRepo) HasLive(ctx context.Context, itemID, warehouseID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM purchase_orders
			WHERE item_id = $1 AND warehouse_id = $2 AND status NOT IN ('completed', 'cancelled')
		)`, itemID, warehouseID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("live purchase order: %w", err)
	}
	return ok, nil
}
