package catalog_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/catalog"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/jhoicas/replenishment-api/internal/testutil"
)

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapCache() *mapCache { return &mapCache{data: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, key string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	return ok && json.Unmarshal(b, dst) == nil
}

func (c *mapCache) Set(_ context.Context, key string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, _ := json.Marshal(v)
	c.data[key] = b
}

func (c *mapCache) Delete(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
}

func TestDeleteCategory_ConItemsEsEnUso(t *testing.T) {
	f := testutil.New(t)
	uc := catalog.NewCatalogUseCase(f.DB, authz.NewGate(nil), nil)
	ctx := context.Background()

	cat, err := uc.CreateCategory(ctx, testutil.Manager, dto.CategoryRequest{Name: "Aseo"})
	require.NoError(t, err)
	_, err = uc.CreateItem(ctx, testutil.Manager, dto.CreateItemRequest{SKU: "JAB-1", Name: "Jabón", CategoryID: cat.ID})
	require.NoError(t, err)

	err = uc.DeleteCategory(ctx, testutil.Manager, cat.ID)
	assert.ErrorIs(t, err, domain.ErrInUse)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestDeleteCategory_SinItems(t *testing.T) {
	f := testutil.New(t)
	uc := catalog.NewCatalogUseCase(f.DB, authz.NewGate(nil), nil)
	ctx := context.Background()
	cat, err := uc.CreateCategory(ctx, testutil.Admin, dto.CategoryRequest{Name: "Vacía"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteCategory(ctx, testutil.Admin, cat.ID))
	list, err := uc.ListCategories(ctx, testutil.Admin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteWarehouse_ConUbicacionesEsEnUso(t *testing.T) {
	f := testutil.New(t)
	wh := f.Warehouse("BOD01")
	f.Location(f.Item("SKU-1", 0), wh, 0, 10, 100)
	uc := catalog.NewCatalogUseCase(f.DB, authz.NewGate(nil), nil)

	err := uc.DeleteWarehouse(context.Background(), testutil.Manager, wh.ID)
	assert.ErrorIs(t, err, domain.ErrInUse)
}

func TestCreateItem_SKUDuplicado(t *testing.T) {
	f := testutil.New(t)
	uc := catalog.NewCatalogUseCase(f.DB, authz.NewGate(nil), nil)
	ctx := context.Background()
	_, err := uc.CreateItem(ctx, testutil.Manager, dto.CreateItemRequest{SKU: "A", Name: "A"})
	require.NoError(t, err)

	_, err = uc.CreateItem(ctx, testutil.Manager, dto.CreateItemRequest{SKU: "A", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestCreateItem_NumerosNegativos(t *testing.T) {
	f := testutil.New(t)
	uc := catalog.NewCatalogUseCase(f.DB, authz.NewGate(nil), nil)

	_, err := uc.CreateItem(context.Background(), testutil.Manager, dto.CreateItemRequest{SKU: "A", Name: "A", ReorderPoint: -1})

	require.ErrorIs(t, err, domain.ErrValidation)
	d, ok := domain.Details(err)
	require.True(t, ok)
	assert.Equal(t, "reorder_point", d.Field)
}

func TestCreateItem_BodegueroSinPermiso(t *testing.T) {
	f := testutil.New(t)
	uc := catalog.NewCatalogUseCase(f.DB, authz.NewGate(nil), nil)
	_, err := uc.CreateItem(context.Background(), testutil.Warehouse, dto.CreateItemRequest{SKU: "A", Name: "A"})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestAddSupplierItem_ParDuplicado(t *testing.T) {
	f := testutil.New(t)
	sup := f.Supplier("acme")
	it := f.Item("SKU-1", 0)
	uc := catalog.NewCatalogUseCase(f.DB, authz.NewGate(nil), nil)
	ctx := context.Background()
	in := dto.SupplierItemRequest{ItemID: it.ID, UnitPrice: decimal.NewFromInt(900), LeadTimeDays: 3}

	_, err := uc.AddSupplierItem(ctx, testutil.Manager, sup.ID, in)
	require.NoError(t, err)
	_, err = uc.AddSupplierItem(ctx, testutil.Manager, sup.ID, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestListSupplierItems_ProveedorAjeno(t *testing.T) {
	f := testutil.New(t)
	sup := f.Supplier("acme")
	uc := catalog.NewCatalogUseCase(f.DB, authz.NewGate(nil), nil)

	_, err := uc.ListSupplierItems(context.Background(), testutil.SupplierUser("otro"), sup.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	list, err := uc.ListSupplierItems(context.Background(), testutil.SupplierUser(sup.ID), sup.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestItem_CacheSeInvalidaAlActualizar(t *testing.T) {
	f := testutil.New(t)
	it := f.Item("SKU-1", 5)
	cache := newMapCache()
	uc := catalog.NewCatalogUseCase(f.DB, authz.NewGate(nil), cache)
	ctx := context.Background()

	out, err := uc.GetItem(ctx, testutil.Manager, it.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.ReorderPoint)
	assert.Len(t, cache.data, 1)

	rp := int64(20)
	_, err = uc.UpdateItem(ctx, testutil.Manager, it.ID, dto.UpdateItemRequest{ReorderPoint: &rp})
	require.NoError(t, err)
	assert.Empty(t, cache.data)

	f.Run(func(ctx context.Context, s repository.Store) error {
		got, err := uc.Item(ctx, s, it.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(20), got.ReorderPoint)
		return nil
	})
}
