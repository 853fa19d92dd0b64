// Package memory implementa repository.TxRunner en proceso.
// Cada transacción trabaja sobre una copia del estado que solo se publica si fn termina sin error;
// las transacciones se serializan con un mutex global. Se usa en pruebas y con STORE_DRIVER=memory.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

type state struct {
	users         map[string]entity.User
	categories    map[string]entity.Category
	items         map[string]entity.Item
	suppliers     map[string]entity.Supplier
	supplierItems map[string]entity.SupplierItem
	warehouses    map[string]entity.Warehouse
	stock         map[string]entity.StockLocation
	prs           map[string]entity.PurchaseRequest
	pos           map[string]entity.PurchaseOrder
	grns          map[string]entity.GoodsReceipt
	transfers     map[string]entity.TransferOrder
}

func newState() *state {
	return &state{
		users:         map[string]entity.User{},
		categories:    map[string]entity.Category{},
		items:         map[string]entity.Item{},
		suppliers:     map[string]entity.Supplier{},
		supplierItems: map[string]entity.SupplierItem{},
		warehouses:    map[string]entity.Warehouse{},
		stock:         map[string]entity.StockLocation{},
		prs:           map[string]entity.PurchaseRequest{},
		pos:           map[string]entity.PurchaseOrder{},
		grns:          map[string]entity.GoodsReceipt{},
		transfers:     map[string]entity.TransferOrder{},
	}
}

func (s *state) clone() *state {
	return &state{
		users:         maps.Clone(s.users),
		categories:    maps.Clone(s.categories),
		items:         maps.Clone(s.items),
		suppliers:     maps.Clone(s.suppliers),
		supplierItems: maps.Clone(s.supplierItems),
		warehouses:    maps.Clone(s.warehouses),
		stock:         maps.Clone(s.stock),
		prs:           maps.Clone(s.prs),
		pos:           maps.Clone(s.pos),
		grns:          maps.Clone(s.grns),
		transfers:     maps.Clone(s.transfers),
	}
}

// StockWriteHook se invoca antes de cada escritura de current_stock; si devuelve error la escritura falla.
type StockWriteHook func(loc entity.StockLocation, quantity int64) error

// Option configura el DB.
type Option func(*DB)

// WithStockWriteHook instala un hook de escritura de stock (inyección de fallos en pruebas).
func WithStockWriteHook(h StockWriteHook) Option {
	return func(db *DB) { db.stockHook = h }
}

// DB almacén transaccional en memoria.
type DB struct {
	mu        sync.Mutex
	data      *state
	stockHook StockWriteHook

	seqMu sync.Mutex
	seq   map[string]int64
}

// New crea un almacén vacío.
func New(opts ...Option) *DB {
	db := &DB{data: newState(), seq: map[string]int64{}}
	for _, o := range opts {
		o(db)
	}
	return db
}

var _ repository.TxRunner = (*DB)(nil)

// Run ejecuta fn sobre una copia del estado; la publica solo si fn no devuelve error.
// No es reentrante: fn no debe invocar Run.
func (db *DB) Run(ctx context.Context, fn func(ctx context.Context, s repository.Store) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &txStore{db: db, st: db.data.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	db.data = tx.st
	return nil
}

// next avanza la secuencia fuera de la transacción: los números no se reutilizan tras un rollback.
func (db *DB) next(name string) int64 {
	db.seqMu.Lock()
	defer db.seqMu.Unlock()
	db.seq[name]++
	return db.seq[name]
}

type txStore struct {
	db *DB
	st *state
}

func (t *txStore) Users() repository.UserRepository {
	return userRepo{t}
}

func (t *txStore) Categories() repository.CategoryRepository {
	return categoryRepo{t}
}

func (t *txStore) Items() repository.ItemRepository {
	return itemRepo{t}
}

func (t *txStore) Suppliers() repository.SupplierRepository {
	return supplierRepo{t}
}

func (t *txStore) SupplierItems() repository.SupplierItemRepository {
	return supplierItemRepo{t}
}

func (t *txStore) Warehouses() repository.WarehouseRepository {
	return warehouseRepo{t}
}

func (t *txStore) Stock() repository.StockLocationRepository {
	return stockRepo{t}
}

func (t *txStore) PurchaseRequests() repository.PurchaseRequestRepository {
	return prRepo{t}
}

func (t *txStore) PurchaseOrders() repository.PurchaseOrderRepository {
	return poRepo{t}
}

func (t *txStore) GoodsReceipts() repository.GoodsReceiptRepository {
	return grnRepo{t}
}

func (t *txStore) Transfers() repository.TransferRepository {
	return transferRepo{t}
}

func (t *txStore) Sequences() repository.SequenceRepository {
	return seqRepo{t.db}
}

type seqRepo struct{ db *DB }

func (r seqRepo) Next(_ context.Context, name string) (int64, error) {
	return r.db.next(name), nil
}
