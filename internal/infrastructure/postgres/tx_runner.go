package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// querier lo que los repositorios necesitan de una pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Las lecturas GetForUpdate/LockByIDs toman bloqueos de fila que se liberan al terminar.
func (r *TxRunner) Run(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, &store{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// store repositorios sobre la misma transacción.
type store struct {
	q querier
}

func (s *store) Users() repository.UserRepository {
	return &UserRepo{q: s.q}
}

func (s *store) Categories() repository.CategoryRepository {
	return &CategoryRepo{q: s.q}
}

func (s *store) Items() repository.ItemRepository {
	return &ItemRepo{q: s.q}
}

func (s *store) Suppliers() repository.SupplierRepository {
	return &SupplierRepo{q: s.q}
}

func (s *store) SupplierItems() repository.SupplierItemRepository {
	return &SupplierItemRepo{q: s.q}
}

func (s *store) Warehouses() repository.WarehouseRepository {
	return &WarehouseRepo{q: s.q}
}

func (s *store) Stock() repository.StockLocationRepository {
	return &StockRepo{q: s.q}
}

func (s *store) PurchaseRequests() repository.PurchaseRequestRepository {
	return &PurchaseRequestRepo{q: s.q}
}

func (s *store) PurchaseOrders() repository.PurchaseOrderRepository {
	return &PurchaseOrderRepo{q: s.q}
}

func (s *store) GoodsReceipts() repository.GoodsReceiptRepository {
	return &GoodsReceiptRepo{q: s.q}
}

func (s *store) Transfers() repository.TransferRepository {
	return &TransferRepo{q: s.q}
}

func (s *store) Sequences() repository.SequenceRepository {
	return &SequenceRepo{q: s.q}
}
