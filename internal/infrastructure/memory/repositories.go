package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

func get[T any](m map[string]T, id string) (*T, error) {
	v, ok := m[id]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func put[T any](m map[string]T, id string, v T) error {
	if _, ok := m[id]; !ok {
		return domain.ErrNotFound
	}
	m[id] = v
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return []T{}
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// collect devuelve copias filtradas y ordenadas por key.
func collect[T any](m map[string]T, keep func(T) bool, key func(T) string) []*T {
	out := make([]*T, 0, len(m))
	for _, v := range m {
		if keep == nil || keep(v) {
			out = append(out, &v)
		}
	}
	slices.SortFunc(out, func(a, b *T) int { return cmp.Compare(key(*a), key(*b)) })
	return out
}

// ── usuarios ─────────────────────────────────────────────────────────────

type userRepo struct{ t *txStore }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	for _, x := range r.t.st.users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.FieldError(domain.ErrDuplicate, "user", "email", "el email ya está registrado")
		}
	}
	r.t.st.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return get(r.t.st.users, id)
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, x := range r.t.st.users {
		if strings.EqualFold(x.Email, email) {
			return &x, nil
		}
	}
	return nil, nil
}

// ── catálogo ─────────────────────────────────────────────────────────────

type categoryRepo struct{ t *txStore }

func (r categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.t.st.categories[c.ID] = *c
	return nil
}

func (r categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	return get(r.t.st.categories, id)
}

func (r categoryRepo) Update(_ context.Context, c *entity.Category) error {
	return put(r.t.st.categories, c.ID, *c)
}

func (r categoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	all := collect(r.t.st.categories, nil, func(c entity.Category) string { return c.Name + c.ID })
	return page(all, limit, offset), nil
}

func (r categoryRepo) Delete(_ context.Context, id string) error {
	delete(r.t.st.categories, id)
	return nil
}

type itemRepo struct{ t *txStore }

func (r itemRepo) Create(_ context.Context, it *entity.Item) error {
	for _, x := range r.t.st.items {
		if x.SKU == it.SKU {
			return domain.FieldError(domain.ErrDuplicate, "item", "sku", "el SKU ya existe")
		}
	}
	r.t.st.items[it.ID] = *it
	return nil
}

func (r itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return get(r.t.st.items, id)
}

func (r itemRepo) GetBySKU(_ context.Context, sku string) (*entity.Item, error) {
	for _, x := range r.t.st.items {
		if x.SKU == sku {
			return &x, nil
		}
	}
	return nil, nil
}

func (r itemRepo) Update(_ context.Context, it *entity.Item) error {
	return put(r.t.st.items, it.ID, *it)
}

func (r itemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	all := collect(r.t.st.items, nil, func(i entity.Item) string { return i.SKU })
	return page(all, limit, offset), nil
}

func (r itemRepo) CountByCategory(_ context.Context, categoryID string) (int, error) {
	n := 0
	for _, x := range r.t.st.items {
		if x.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

type supplierRepo struct{ t *txStore }

func (r supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.t.st.suppliers[s.ID] = *s
	return nil
}

func (r supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	return get(r.t.st.suppliers, id)
}

func (r supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return put(r.t.st.suppliers, s.ID, *s)
}

func (r supplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	all := collect(r.t.st.suppliers, nil, func(s entity.Supplier) string { return s.Name + s.ID })
	return page(all, limit, offset), nil
}

type supplierItemRepo struct{ t *txStore }

func (r supplierItemRepo) Create(_ context.Context, si *entity.SupplierItem) error {
	for _, x := range r.t.st.supplierItems {
		if x.SupplierID == si.SupplierID && x.ItemID == si.ItemID {
			return domain.FieldError(domain.ErrDuplicate, "supplier_item", "item_id", "el proveedor ya tiene este ítem en su catálogo")
		}
	}
	r.t.st.supplierItems[si.ID] = *si
	return nil
}

func (r supplierItemRepo) Get(_ context.Context, supplierID, itemID string) (*entity.SupplierItem, error) {
	for _, x := range r.t.st.supplierItems {
		if x.SupplierID == supplierID && x.ItemID == itemID {
			return &x, nil
		}
	}
	return nil, nil
}

func (r supplierItemRepo) Update(_ context.Context, si *entity.SupplierItem) error {
	return put(r.t.st.supplierItems, si.ID, *si)
}

func (r supplierItemRepo) ListBySupplier(_ context.Context, supplierID string) ([]*entity.SupplierItem, error) {
	return collect(r.t.st.supplierItems,
		func(x entity.SupplierItem) bool { return x.SupplierID == supplierID },
		func(x entity.SupplierItem) string { return x.ItemID }), nil
}

func (r supplierItemRepo) ListByItem(_ context.Context, itemID string) ([]*entity.SupplierItem, error) {
	return collect(r.t.st.supplierItems,
		func(x entity.SupplierItem) bool { return x.ItemID == itemID },
		func(x entity.SupplierItem) string { return x.SupplierID }), nil
}

func (r supplierItemRepo) Delete(_ context.Context, id string) error {
	delete(r.t.st.supplierItems, id)
	return nil
}

type warehouseRepo struct{ t *txStore }

func (r warehouseRepo) Create(_ context.Context, w *entity.Warehouse) error {
	for _, x := range r.t.st.warehouses {
		if x.Code == w.Code {
			return domain.FieldError(domain.ErrDuplicate, "warehouse", "code", "el código de bodega ya existe")
		}
	}
	r.t.st.warehouses[w.ID] = *w
	return nil
}

func (r warehouseRepo) GetByID(_ context.Context, id string) (*entity.Warehouse, error) {
	return get(r.t.st.warehouses, id)
}

func (r warehouseRepo) Update(_ context.Context, w *entity.Warehouse) error {
	return put(r.t.st.warehouses, w.ID, *w)
}

func (r warehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	all := collect(r.t.st.warehouses, nil, func(w entity.Warehouse) string { return w.Code })
	return page(all, limit, offset), nil
}

func (r warehouseRepo) Delete(_ context.Context, id string) error {
	delete(r.t.st.warehouses, id)
	return nil
}

// ── libro de stock ───────────────────────────────────────────────────────

type stockRepo struct{ t *txStore }

func (r stockRepo) Create(_ context.Context, loc *entity.StockLocation) error {
	for _, x := range r.t.st.stock {
		if x.Active && x.ItemID == loc.ItemID && x.WarehouseID == loc.WarehouseID {
			return domain.FieldError(domain.ErrDuplicate, "stock_location", "item_id", "ya existe una ubicación activa para el ítem en la bodega")
		}
	}
	r.t.st.stock[loc.ID] = *loc
	return nil
}

func (r stockRepo) GetByID(_ context.Context, id string) (*entity.StockLocation, error) {
	return get(r.t.st.stock, id)
}

func (r stockRepo) Get(_ context.Context, itemID, warehouseID string) (*entity.StockLocation, error) {
	for _, x := range r.t.st.stock {
		if x.Active && x.ItemID == itemID && x.WarehouseID == warehouseID {
			return &x, nil
		}
	}
	return nil, nil
}

// GetForUpdate equivale a Get: el mutex de la transacción ya serializa el acceso.
func (r stockRepo) GetForUpdate(ctx context.Context, itemID, warehouseID string) (*entity.StockLocation, error) {
	return r.Get(ctx, itemID, warehouseID)
}

func (r stockRepo) LockByIDs(_ context.Context, ids ...string) ([]*entity.StockLocation, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	out := make([]*entity.StockLocation, 0, len(sorted))
	for _, id := range slices.Compact(sorted) {
		if v, ok := r.t.st.stock[id]; ok {
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r stockRepo) UpdateQuantity(_ context.Context, id string, quantity int64) error {
	loc, ok := r.t.st.stock[id]
	if !ok {
		return domain.ErrNotFound
	}
	if r.t.db.stockHook != nil {
		if err := r.t.db.stockHook(loc, quantity); err != nil {
			return err
		}
	}
	loc.CurrentStock = quantity
	r.t.st.stock[id] = loc
	return nil
}

func (r stockRepo) Update(_ context.Context, loc *entity.StockLocation) error {
	cur, ok := r.t.st.stock[loc.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *loc
	next.CurrentStock = cur.CurrentStock
	r.t.st.stock[loc.ID] = next
	return nil
}

func (r stockRepo) ListByWarehouse(_ context.Context, warehouseID string, limit, offset int) ([]*entity.StockLocation, error) {
	all := collect(r.t.st.stock,
		func(x entity.StockLocation) bool { return x.WarehouseID == warehouseID },
		func(x entity.StockLocation) string { return x.LocationCode + x.ID })
	return page(all, limit, offset), nil
}

func (r stockRepo) CountByWarehouse(_ context.Context, warehouseID string) (int, error) {
	n := 0
	for _, x := range r.t.st.stock {
		if x.WarehouseID == warehouseID {
			n++
		}
	}
	return n, nil
}

func (r stockRepo) Snapshots(_ context.Context) ([]entity.StockSnapshot, error) {
	locs := collect(r.t.st.stock,
		func(x entity.StockLocation) bool { return x.Active },
		func(x entity.StockLocation) string { return x.ID })
	out := make([]entity.StockSnapshot, 0, len(locs))
	for _, l := range locs {
		it, ok := r.t.st.items[l.ItemID]
		if !ok || !it.Active {
			continue
		}
		out = append(out, entity.StockSnapshot{Location: *l, Item: it})
	}
	return out, nil
}

// ── documentos ───────────────────────────────────────────────────────────

func matches(f repository.ListFilter, status, itemID, warehouseID, supplierID string) bool {
	return (f.Status == "" || f.Status == status) &&
		(f.ItemID == "" || f.ItemID == itemID) &&
		(f.WarehouseID == "" || f.WarehouseID == warehouseID) &&
		(f.SupplierID == "" || f.SupplierID == supplierID)
}

type prRepo struct{ t *txStore }

func (r prRepo) Create(_ context.Context, pr *entity.PurchaseRequest) error {
	r.t.st.prs[pr.ID] = *pr
	return nil
}

func (r prRepo) GetByID(_ context.Context, id string) (*entity.PurchaseRequest, error) {
	return get(r.t.st.prs, id)
}

func (r prRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequest, error) {
	return r.GetByID(ctx, id)
}

func (r prRepo) Update(_ context.Context, pr *entity.PurchaseRequest) error {
	return put(r.t.st.prs, pr.ID, *pr)
}

func (r prRepo) Delete(_ context.Context, id string) error {
	delete(r.t.st.prs, id)
	return nil
}

func (r prRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.PurchaseRequest, error) {
	all := collect(r.t.st.prs,
		func(x entity.PurchaseRequest) bool {
			return matches(f, string(x.Status), x.ItemID, x.WarehouseID, x.PreferredSupplierID)
		},
		func(x entity.PurchaseRequest) string { return x.Number })
	return page(all, f.Limit, f.Offset), nil
}

func (r prRepo) HasOpen(_ context.Context, itemID, warehouseID string) (bool, error) {
	for _, x := range r.t.st.prs {
		if x.ItemID == itemID && x.WarehouseID == warehouseID &&
			(x.Status == entity.PRStatusPending || x.Status == entity.PRStatusApproved) {
			return true, nil
		}
	}
	return false, nil
}

// LockPair no hace nada: las transacciones en memoria ya están serializadas.
func (r prRepo) LockPair(context.Context, string, string) error { return nil }

type poRepo struct{ t *txStore }

func (r poRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	if po.PRID != "" {
		for _, x := range r.t.st.pos {
			if x.PRID == po.PRID {
				return domain.FieldError(domain.ErrDuplicate, "purchase_order", "pr_id", "la solicitud ya tiene una orden de compra")
			}
		}
	}
	r.t.st.pos[po.ID] = *po
	return nil
}

func (r poRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	return get(r.t.st.pos, id)
}

func (r poRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r poRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	return put(r.t.st.pos, po.ID, *po)
}

func (r poRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.PurchaseOrder, error) {
	all := collect(r.t.st.pos,
		func(x entity.PurchaseOrder) bool {
			return matches(f, string(x.Status), x.ItemID, x.WarehouseID, x.SupplierID)
		},
		func(x entity.PurchaseOrder) string { return x.Number })
	return page(all, f.Limit, f.Offset), nil
}

func (r poRepo) HasLive(_ context.Context, itemID, warehouseID string) (bool, error) {
	for _, x := range r.t.st.pos {
		if x.ItemID == itemID && x.WarehouseID == warehouseID && x.Live() {
			return true, nil
		}
	}
	return false, nil
}

type grnRepo struct{ t *txStore }

func (r grnRepo) Create(_ context.Context, g *entity.GoodsReceipt) error {
	for _, x := range r.t.st.grns {
		if x.POID == g.POID {
			return domain.FieldError(domain.ErrDuplicateGRN, "goods_receipt", "po_id", "")
		}
	}
	r.t.st.grns[g.ID] = *g
	return nil
}

func (r grnRepo) GetByID(_ context.Context, id string) (*entity.GoodsReceipt, error) {
	return get(r.t.st.grns, id)
}

func (r grnRepo) GetForUpdate(ctx context.Context, id string) (*entity.GoodsReceipt, error) {
	return r.GetByID(ctx, id)
}

func (r grnRepo) GetByPO(_ context.Context, poID string) (*entity.GoodsReceipt, error) {
	for _, x := range r.t.st.grns {
		if x.POID == poID {
			return &x, nil
		}
	}
	return nil, nil
}

func (r grnRepo) Update(_ context.Context, g *entity.GoodsReceipt) error {
	return put(r.t.st.grns, g.ID, *g)
}

func (r grnRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.GoodsReceipt, error) {
	all := collect(r.t.st.grns,
		func(x entity.GoodsReceipt) bool {
			return matches(f, string(x.Status), x.ItemID, x.WarehouseID, "")
		},
		func(x entity.GoodsReceipt) string { return x.Number })
	return page(all, f.Limit, f.Offset), nil
}

type transferRepo struct{ t *txStore }

func (r transferRepo) Create(_ context.Context, to *entity.TransferOrder) error {
	r.t.st.transfers[to.ID] = *to
	return nil
}

func (r transferRepo) GetByID(_ context.Context, id string) (*entity.TransferOrder, error) {
	return get(r.t.st.transfers, id)
}

func (r transferRepo) GetForUpdate(ctx context.Context, id string) (*entity.TransferOrder, error) {
	return r.GetByID(ctx, id)
}

func (r transferRepo) Update(_ context.Context, to *entity.TransferOrder) error {
	return put(r.t.st.transfers, to.ID, *to)
}

func (r transferRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.TransferOrder, error) {
	all := collect(r.t.st.transfers,
		func(x entity.TransferOrder) bool {
			wh := f.WarehouseID == "" || x.FromWarehouseID == f.WarehouseID || x.ToWarehouseID == f.WarehouseID
			return wh && matches(repository.ListFilter{Status: f.Status, ItemID: f.ItemID}, string(x.Status), x.ItemID, "", "")
		},
		func(x entity.TransferOrder) string { return x.TransferNumber })
	return page(all, f.Limit, f.Offset), nil
}
