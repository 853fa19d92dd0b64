package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traslados entre bodegas.
type TransferRepo struct {
	q querier
}

const transferColumns = `id, transfer_number, from_warehouse_id, to_warehouse_id, item_id, requested_quantity,
	approved_quantity, transferred_quantity, status, priority, reason, notes, requested_by, requested_at,
	approved_by, approved_at, completed_by, completed_at, cancelled_by, cancelled_at, created_at, updated_at`

func scanTransfer(row rowScanner) (*entity.TransferOrder, error) {
	var t entity.TransferOrder
	err := row.Scan(&t.ID, &t.TransferNumber, &t.FromWarehouseID, &t.ToWarehouseID, &t.ItemID, &t.RequestedQuantity,
		&t.ApprovedQuantity, &t.TransferredQuantity, &t.Status, &t.Priority, &t.Reason, &t.Notes, &t.RequestedBy,
		&t.RequestedAt, &t.ApprovedBy, &t.ApprovedAt, &t.CompletedBy, &t.CompletedAt, &t.CancelledBy, &t.CancelledAt,
		&t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

func (r *TransferRepo) Create(ctx context.Context, t *entity.TransferOrder) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transfer_orders (id, transfer_number, from_warehouse_id, to_warehouse_id, item_id, requested_quantity,
			approved_quantity, transferred_quantity, status, priority, reason, notes, requested_by, requested_at,
			approved_by, approved_at, completed_by, completed_at, cancelled_by, cancelled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		t.ID, t.TransferNumber, t.FromWarehouseID, t.ToWarehouseID, t.ItemID, t.RequestedQuantity,
		t.ApprovedQuantity, t.TransferredQuantity, t.Status, t.Priority, t.Reason, t.Notes, t.RequestedBy, t.RequestedAt,
		t.ApprovedBy, t.ApprovedAt, t.CompletedBy, t.CompletedAt, t.CancelledBy, t.CancelledAt, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return mapError(err, "insert transfer")
	}
	return nil
}

func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.TransferOrder, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfer_orders WHERE id = $1`, id))
	return noRows(t, err, "get transfer")
}

func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.TransferOrder, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, `SELECT `+transferColumns+` FROM transfer_orders WHERE id = $1 FOR UPDATE`, id))
	return noRows(t, err, "lock transfer")
}

func (r *TransferRepo) Update(ctx context.Context, t *entity.TransferOrder) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE transfer_orders SET approved_quantity = $2, transferred_quantity = $3, status = $4, priority = $5,
			reason = $6, notes = $7, approved_by = $8, approved_at = $9, completed_by = $10, completed_at = $11,
			cancelled_by = $12, cancelled_at = $13, updated_at = $14
		WHERE id = $1`,
		t.ID, t.ApprovedQuantity, t.TransferredQuantity, t.Status, t.Priority,
		t.Reason, t.Notes, t.ApprovedBy, t.ApprovedAt, t.CompletedBy, t.CompletedAt,
		t.CancelledBy, t.CancelledAt, t.UpdatedAt)
	if err != nil {
		return mapError(err, "update transfer")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por bodega en cualquiera de los dos extremos.
func (r *TransferRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.TransferOrder, error) {
	b := documentFilter(repository.ListFilter{Status: f.Status, ItemID: f.ItemID}, "")
	if f.WarehouseID != "" {
		b.add("(from_warehouse_id = ? OR to_warehouse_id = ?)", f.WarehouseID)
	}
	rows, err := r.q.Query(ctx, `SELECT `+transferColumns+` FROM transfer_orders`+b.where()+
		` ORDER BY transfer_number`+b.page(f.Limit, f.Offset), b.args...)
	if err != nil {
		return nil, mapError(err, "list transfers")
	}
	defer rows.Close()
	var list []*entity.TransferOrder
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
