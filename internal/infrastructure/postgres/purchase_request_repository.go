package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

var _ repository.PurchaseRequestRepository = (*PurchaseRequestRepo)(nil)

// PurchaseRequestRepo solicitudes de compra.
type PurchaseRequestRepo struct {
	q querier
}

const prColumns = `id, number, item_id, warehouse_id, quantity, COALESCE(preferred_supplier_id::text, ''), status, source,
	notes, requested_by, approved_by, decision_notes, decided_at, COALESCE(po_id::text, ''), created_at, updated_at`

func scanPR(row rowScanner) (*entity.PurchaseRequest, error) {
	var pr entity.PurchaseRequest
	err := row.Scan(&pr.ID, &pr.Number, &pr.ItemID, &pr.WarehouseID, &pr.Quantity, &pr.PreferredSupplierID,
		&pr.Status, &pr.Source, &pr.Notes, &pr.RequestedBy, &pr.ApprovedBy, &pr.DecisionNotes, &pr.DecidedAt,
		&pr.POID, &pr.CreatedAt, &pr.UpdatedAt)
	return &pr, err
}

func (r *PurchaseRequestRepo) Create(ctx context.Context, pr *entity.PurchaseRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO purchase_requests (id, number, item_id, warehouse_id, quantity, preferred_supplier_id, status, source,
			notes, requested_by, approved_by, decision_notes, decided_at, po_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		pr.ID, pr.Number, pr.ItemID, pr.WarehouseID, pr.Quantity, nullable(pr.PreferredSupplierID), pr.Status, pr.Source,
		pr.Notes, pr.RequestedBy, pr.ApprovedBy, pr.DecisionNotes, pr.DecidedAt, nullable(pr.POID), pr.CreatedAt, pr.UpdatedAt)
	if err != nil {
		return mapError(err, "insert purchase request")
	}
	return nil
}

func (r *PurchaseRequestRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	pr, err := scanPR(r.q.QueryRow(ctx, `SELECT `+prColumns+` FROM purchase_requests WHERE id = $1`, id))
	return noRows(pr, err, "get purchase request")
}

func (r *PurchaseRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	pr, err := scanPR(r.q.QueryRow(ctx, `SELECT `+prColumns+` FROM purchase_requests WHERE id = $1 FOR UPDATE`, id))
	return noRows(pr, err, "lock purchase request")
}

func (r *PurchaseRequestRepo) Update(ctx context.Context, pr *entity.PurchaseRequest) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_requests SET quantity = $2, preferred_supplier_id = $3, status = $4, notes = $5,
			approved_by = $6, decision_notes = $7, decided_at = $8, po_id = $9, updated_at = $10
		WHERE id = $1`,
		pr.ID, pr.Quantity, nullable(pr.PreferredSupplierID), pr.Status, pr.Notes,
		pr.ApprovedBy, pr.DecisionNotes, pr.DecidedAt, nullable(pr.POID), pr.UpdatedAt)
	if err != nil {
		return mapError(err, "update purchase request")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PurchaseRequestRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_requests WHERE id = $1`, id); err != nil {
		return mapError(err, "delete purchase request")
	}
	return nil
}

func (r *PurchaseRequestRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.PurchaseRequest, error) {
	b := documentFilter(f, "preferred_supplier_id")
	rows, err := r.q.Query(ctx, `SELECT `+prColumns+` FROM purchase_requests`+b.where()+
		` ORDER BY number`+b.page(f.Limit, f.Offset), b.args...)
	if err != nil {
		return nil, mapError(err, "list purchase requests")
	}
	defer rows.Close()
	var list []*entity.PurchaseRequest
	for rows.Next() {
		pr, err := scanPR(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase request: %w", err)
		}
		list = append(list, pr)
	}
	return list, rows.Err()
}

func (r *PurchaseRequestRepo) HasOpen(ctx context.Context, itemID, warehouseID string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM purchase_requests
			WHERE item_id = $1 AND warehouse_id = $2 AND status IN ('pending', 'approved')
		)`, itemID, warehouseID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("open purchase request: %w", err)
	}
	return ok, nil
}

// LockPair toma un advisory lock de transacción por (ítem, bodega); se libera en Commit/Rollback.
func (r *PurchaseRequestRepo) LockPair(ctx context.Context, itemID, warehouseID string) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text || ':' || $2::text, 0))`,
		itemID, warehouseID); err != nil {
		return fmt.Errorf("lock pair: %w", err)
	}
	return nil
}
