// Package repository define los puertos de persistencia (DIP).
// Convención: los Get* devuelven (nil, nil) cuando el registro no existe.
package repository

import (
	"context"

	"github.com/jhoicas/replenishment-api/internal/domain/entity"
)

// ListFilter filtros y paginación comunes a los listados de documentos.
type ListFilter struct {
	Status      string
	ItemID      string
	WarehouseID string
	SupplierID  string
	Limit       int
	Offset      int
}

// UserRepository puerto de persistencia de usuarios.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// CategoryRepository puerto de persistencia de categorías.
type CategoryRepository interface {
	Create(ctx context.Context, c *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, c *entity.Category) error
	List(ctx context.Context, limit, offset int) ([]*entity.Category, error)
	Delete(ctx context.Context, id string) error
}

// ItemRepository puerto de persistencia de ítems.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	CountByCategory(ctx context.Context, categoryID string) (int, error)
}

// SupplierRepository puerto de persistencia de proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
}

// SupplierItemRepository catálogo proveedor↔ítem. Create devuelve domain.ErrDuplicate si el par ya existe.
type SupplierItemRepository interface {
	Create(ctx context.Context, si *entity.SupplierItem) error
	Get(ctx context.Context, supplierID, itemID string) (*entity.SupplierItem, error)
	Update(ctx context.Context, si *entity.SupplierItem) error
	ListBySupplier(ctx context.Context, supplierID string) ([]*entity.SupplierItem, error)
	ListByItem(ctx context.Context, itemID string) ([]*entity.SupplierItem, error)
	Delete(ctx context.Context, id string) error
}

// WarehouseRepository puerto de persistencia de bodegas.
type WarehouseRepository interface {
	Create(ctx context.Context, w *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	Update(ctx context.Context, w *entity.Warehouse) error
	List(ctx context.Context, limit, offset int) ([]*entity.Warehouse, error)
	Delete(ctx context.Context, id string) error
}

// StockLocationRepository libro de stock por (ítem, bodega).
// Create devuelve domain.ErrDuplicate si ya existe una ubicación activa para el par.
type StockLocationRepository interface {
	Create(ctx context.Context, loc *entity.StockLocation) error
	GetByID(ctx context.Context, id string) (*entity.StockLocation, error)
	Get(ctx context.Context, itemID, warehouseID string) (*entity.StockLocation, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, itemID, warehouseID string) (*entity.StockLocation, error)
	// LockByIDs bloquea varias filas en orden ascendente de id.
	LockByIDs(ctx context.Context, ids ...string) ([]*entity.StockLocation, error)
	// UpdateQuantity es la única escritura de current_stock.
	UpdateQuantity(ctx context.Context, id string, quantity int64) error
	// Update persiste atributos (ubicación, mínimos, máximos); nunca current_stock.
	Update(ctx context.Context, loc *entity.StockLocation) error
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.StockLocation, error)
	CountByWarehouse(ctx context.Context, warehouseID string) (int, error)
	// Snapshots devuelve las ubicaciones activas unidas a su ítem activo.
	Snapshots(ctx context.Context) ([]entity.StockSnapshot, error)
}

// PurchaseRequestRepository puerto de persistencia de solicitudes de compra.
type PurchaseRequestRepository interface {
	Create(ctx context.Context, pr *entity.PurchaseRequest) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseRequest, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error)
	Update(ctx context.Context, pr *entity.PurchaseRequest) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.PurchaseRequest, error)
	// HasOpen indica si hay una solicitud pending o approved para el par.
	HasOpen(ctx context.Context, itemID, warehouseID string) (bool, error)
	// LockPair serializa la creación automática para un par (ítem, bodega) dentro de la transacción.
	LockPair(ctx context.Context, itemID, warehouseID string) error
}

// PurchaseOrderRepository puerto de persistencia de órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	List(ctx context.Context, f ListFilter) ([]*entity.PurchaseOrder, error)
	// HasLive indica si hay una OC no terminal para el par.
	HasLive(ctx context.Context, itemID, warehouseID string) (bool, error)
}

// GoodsReceiptRepository puerto de persistencia de recepciones.
// Create devuelve domain.ErrDuplicateGRN si la OC ya tiene recepción.
type GoodsReceiptRepository interface {
	Create(ctx context.Context, grn *entity.GoodsReceipt) error
	GetByID(ctx context.Context, id string) (*entity.GoodsReceipt, error)
	GetForUpdate(ctx context.Context, id string) (*entity.GoodsReceipt, error)
	GetByPO(ctx context.Context, poID string) (*entity.GoodsReceipt, error)
	Update(ctx context.Context, grn *entity.GoodsReceipt) error
	List(ctx context.Context, f ListFilter) ([]*entity.GoodsReceipt, error)
}

// TransferRepository puerto de persistencia de traslados.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.TransferOrder) error
	GetByID(ctx context.Context, id string) (*entity.TransferOrder, error)
	GetForUpdate(ctx context.Context, id string) (*entity.TransferOrder, error)
	Update(ctx context.Context, t *entity.TransferOrder) error
	List(ctx context.Context, f ListFilter) ([]*entity.TransferOrder, error)
}

// SequenceRepository contadores globales de numeración.
// Next nunca devuelve el mismo valor dos veces, aunque la transacción se revierta.
type SequenceRepository interface {
	Next(ctx context.Context, name string) (int64, error)
}

// Store agrupa los repositorios atados a una misma transacción.
type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	Items() ItemRepository
	Suppliers() SupplierRepository
	SupplierItems() SupplierItemRepository
	Warehouses() WarehouseRepository
	Stock() StockLocationRepository
	PurchaseRequests() PurchaseRequestRepository
	PurchaseOrders() PurchaseOrderRepository
	GoodsReceipts() GoodsReceiptRepository
	Transfers() TransferRepository
	Sequences() SequenceRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn termina sin error, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, s Store) error) error
}
