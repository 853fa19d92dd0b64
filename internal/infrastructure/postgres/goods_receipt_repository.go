package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

var _ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

// GoodsReceiptRepo recepciones de mercancía; una por OC (goods_receipts_po_id_key).
type GoodsReceiptRepo struct {
	q querier
}

const grnColumns = `id, number, po_id, item_id, warehouse_id, quantity_ordered, quantity_received, batch_number,
	expiry_date, received_by, status, approved_by, approved_at, notes, created_at, updated_at`

func scanGRN(row rowScanner) (*entity.GoodsReceipt, error) {
	var g entity.GoodsReceipt
	err := row.Scan(&g.ID, &g.Number, &g.POID, &g.ItemID, &g.WarehouseID, &g.QuantityOrdered, &g.QuantityReceived,
		&g.BatchNumber, &g.ExpiryDate, &g.ReceivedBy, &g.Status, &g.ApprovedBy, &g.ApprovedAt, &g.Notes,
		&g.CreatedAt, &g.UpdatedAt)
	return &g, err
}

func (r *GoodsReceiptRepo) Create(ctx context.Context, g *entity.GoodsReceipt) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO goods_receipts (id, number, po_id, item_id, warehouse_id, quantity_ordered, quantity_received,
			batch_number, expiry_date, received_by, status, approved_by, approved_at, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		g.ID, g.Number, g.POID, g.ItemID, g.WarehouseID, g.QuantityOrdered, g.QuantityReceived,
		g.BatchNumber, g.ExpiryDate, g.ReceivedBy, g.Status, g.ApprovedBy, g.ApprovedAt, g.Notes, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return mapError(err, "insert goods receipt")
	}
	return nil
}

func (r *GoodsReceiptRepo) GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error) {
	g, err := scanGRN(r.q.QueryRow(ctx, `SELECT `+grnColumns+` FROM goods_receipts WHERE id = $1`, id))
	return noRows(g, err, "get goods receipt")
}

func (r *GoodsReceiptRepo) GetForUpdate(ctx context.Context, id string) (*entity.GoodsReceipt, error) {
	g, err := scanGRN(r.q.QueryRow(ctx, `SELECT `+grnColumns+` FROM goods_receipts WHERE id = $1 FOR UPDATE`, id))
	return noRows(g, err, "lock goods receipt")
}

func (r *GoodsReceiptRepo) GetByPO(ctx context.Context, poID string) (*entity.GoodsReceipt, error) {
	g, err := scanGRN(r.q.QueryRow(ctx, `SELECT `+grnColumns+` FROM goods_receipts WHERE po_id = $1`, poID))
	return noRows(g, err, "get goods receipt by po")
}

func (r *GoodsReceiptRepo) Update(ctx context.Context, g *entity.GoodsReceipt) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE goods_receipts SET status = $2, approved_by = $3, approved_at = $4, notes = $5, updated_at = $6
		WHERE id = $1`,
		g.ID, g.Status, g.ApprovedBy, g.ApprovedAt, g.Notes, g.UpdatedAt)
	if err != nil {
		return mapError(err, "update goods receipt")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GoodsReceiptRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.GoodsReceipt, error) {
	b := documentFilter(f, "")
	rows, err := r.q.Query(ctx, `SELECT `+grnColumns+` FROM goods_receipts`+b.where()+
		` ORDER BY number`+b.page(f.Limit, f.Offset), b.args...)
	if err != nil {
		return nil, mapError(err, "list goods receipts")
	}
	defer rows.Close()
	var list []*entity.GoodsReceipt
	for rows.Next() {
		g, err := scanGRN(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goods receipt: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}
