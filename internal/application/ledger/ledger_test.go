package ledger_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/ledger"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/jhoicas/replenishment-api/internal/infrastructure/memory"
	"github.com/jhoicas/replenishment-api/internal/testutil"
)

var defaults = entity.StockDefaults{MinStock: 10, MaxStock: 100}

// ── Adjust ───────────────────────────────────────────────────────────────

func TestAdjust_NoPermiteNegativo(t *testing.T) {
	f := testutil.New(t)
	wh := f.Warehouse("BOD01")
	it := f.Item("SKU-1", 0)
	f.Location(it, wh, 3, 10, 100)
	l := ledger.New(defaults)

	err := f.DB.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		_, err := l.Adjust(ctx, s, it.ID, wh.ID, -4)
		return err
	})

	assert.ErrorIs(t, err, domain.ErrNegativeStock)
	assert.Equal(t, int64(3), f.Stock(it.ID, wh.ID))
}

func TestAdjust_UbicacionInexistente(t *testing.T) {
	f := testutil.New(t)
	l := ledger.New(defaults)
	err := f.DB.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		_, err := l.Adjust(ctx, s, "x", "y", 1)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdjust_ConcurrenteSinPerdidas(t *testing.T) {
	f := testutil.New(t)
	wh := f.Warehouse("BOD01")
	it := f.Item("SKU-1", 0)
	f.Location(it, wh, 0, 10, 100)
	l := ledger.New(defaults)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = f.DB.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
				_, err := l.Adjust(ctx, s, it.ID, wh.ID, 2)
				return err
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), f.Stock(it.ID, wh.ID))
}

// ── EnsureLocation / Credit ──────────────────────────────────────────────

func TestCredit_CreaUbicacionConValoresPorDefecto(t *testing.T) {
	f := testutil.New(t)
	wh := f.Warehouse("BOD02")
	it := f.Item("SKU-1", 0)
	l := ledger.New(entity.StockDefaults{MinStock: 4, MaxStock: 40})

	var loc *entity.StockLocation
	f.Run(func(ctx context.Context, s repository.Store) error {
		if _, err := l.Credit(ctx, s, it.ID, wh.ID, 20); err != nil {
			return err
		}
		var err error
		loc, err = s.Stock().Get(ctx, it.ID, wh.ID)
		return err
	})

	require.NotNil(t, loc)
	assert.Equal(t, int64(20), loc.CurrentStock)
	assert.Equal(t, int64(4), loc.MinStock)
	assert.Equal(t, int64(40), loc.MaxStock)
	assert.Equal(t, "BOD02", loc.LocationCode)
}

func TestCredit_CantidadInvalida(t *testing.T) {
	f := testutil.New(t)
	l := ledger.New(defaults)
	err := f.DB.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		_, err := l.Credit(ctx, s, "x", "y", 0)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// ── Move ─────────────────────────────────────────────────────────────────

func TestMove_DebitaYAcredita(t *testing.T) {
	f := testutil.New(t)
	w1, w2 := f.Warehouse("W1"), f.Warehouse("W2")
	it := f.Item("SKU-1", 0)
	f.Location(it, w1, 30, 10, 100)
	l := ledger.New(defaults)

	f.Run(func(ctx context.Context, s repository.Store) error {
		return l.Move(ctx, s, it.ID, w1.ID, w2.ID, 12)
	})

	assert.Equal(t, int64(18), f.Stock(it.ID, w1.ID))
	assert.Equal(t, int64(12), f.Stock(it.ID, w2.ID))
}

func TestMove_StockInsuficienteNoCambiaNada(t *testing.T) {
	f := testutil.New(t)
	w1, w2 := f.Warehouse("W1"), f.Warehouse("W2")
	it := f.Item("SKU-1", 0)
	f.Location(it, w1, 5, 10, 100)
	f.Location(it, w2, 7, 10, 100)
	l := ledger.New(defaults)

	err := f.DB.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		return l.Move(ctx, s, it.ID, w1.ID, w2.ID, 6)
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(5), f.Stock(it.ID, w1.ID))
	assert.Equal(t, int64(7), f.Stock(it.ID, w2.ID))
}

func TestMove_FalloEnDestinoRevierteOrigen(t *testing.T) {
	var dstID string
	f := testutil.New(t, memory.WithStockWriteHook(func(loc entity.StockLocation, _ int64) error {
		if loc.ID == dstID {
			return errors.New("fallo de escritura en destino")
		}
		return nil
	}))
	w1, w2 := f.Warehouse("W1"), f.Warehouse("W2")
	it := f.Item("SKU-1", 0)
	f.Location(it, w1, 30, 10, 100)
	dstID = f.Location(it, w2, 1, 10, 100).ID
	l := ledger.New(defaults)

	err := f.DB.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		return l.Move(ctx, s, it.ID, w1.ID, w2.ID, 10)
	})

	require.Error(t, err)
	assert.Equal(t, int64(30), f.Stock(it.ID, w1.ID))
	assert.Equal(t, int64(1), f.Stock(it.ID, w2.ID))
}

// ── StockUseCase ─────────────────────────────────────────────────────────

func TestCreateLocation_GeneraCodigoYUsaDefaults(t *testing.T) {
	f := testutil.New(t)
	wh := f.Warehouse("BOD01")
	it := f.Item("SKU-1", 0)
	uc := ledger.NewStockUseCase(f.DB, authz.NewGate(nil), ledger.New(defaults))

	out, err := uc.CreateLocation(context.Background(), testutil.Manager, dto.CreateStockLocationRequest{
		ItemID: it.ID, WarehouseID: wh.ID, Aisle: "3", Rack: "12", Bin: "4", CurrentStock: 8,
	})

	require.NoError(t, err)
	assert.Equal(t, "BOD01-A3-R12-B4", out.LocationCode)
	assert.Equal(t, int64(10), out.MinStock)
	assert.Equal(t, int64(100), out.MaxStock)
	assert.Equal(t, int64(8), out.CurrentStock)
}

func TestCreateLocation_DuplicadaPorPar(t *testing.T) {
	f := testutil.New(t)
	wh := f.Warehouse("BOD01")
	it := f.Item("SKU-1", 0)
	f.Location(it, wh, 0, 10, 100)
	uc := ledger.NewStockUseCase(f.DB, authz.NewGate(nil), ledger.New(defaults))

	_, err := uc.CreateLocation(context.Background(), testutil.Admin, dto.CreateStockLocationRequest{ItemID: it.ID, WarehouseID: wh.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdateLocation_RegeneraCodigoSinTocarCantidad(t *testing.T) {
	f := testutil.New(t)
	wh := f.Warehouse("BOD01")
	it := f.Item("SKU-1", 0)
	loc := f.Location(it, wh, 9, 10, 100)
	uc := ledger.NewStockUseCase(f.DB, authz.NewGate(nil), ledger.New(defaults))
	aisle := "7"

	out, err := uc.UpdateLocation(context.Background(), testutil.Manager, loc.ID, dto.UpdateStockLocationRequest{Aisle: &aisle})

	require.NoError(t, err)
	assert.Equal(t, "BOD01-A7", out.LocationCode)
	assert.Equal(t, int64(9), f.Stock(it.ID, wh.ID))
}

func TestGetStock_ProveedorSinAcceso(t *testing.T) {
	f := testutil.New(t)
	uc := ledger.NewStockUseCase(f.DB, authz.NewGate(nil), ledger.New(defaults))
	_, err := uc.GetStock(context.Background(), testutil.SupplierUser("s1"), "x", "y")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestLowStock_ResumenYOrden(t *testing.T) {
	f := testutil.New(t)
	wh := f.Warehouse("BOD01")
	a, b, c := f.Item("A", 10), f.Item("B", 10), f.Item("C", 10)
	f.Location(a, wh, 5, 10, 100)
	f.Location(b, wh, 0, 10, 100)
	f.Location(c, wh, 50, 10, 100)
	uc := ledger.NewStockUseCase(f.DB, authz.NewGate(nil), ledger.New(defaults))

	out, err := uc.LowStock(context.Background(), testutil.Manager)

	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, b.ID, out.Items[0].ItemID)
	assert.Equal(t, 3, out.Summary.Total)
	assert.Equal(t, 2, out.Summary.LowStock)
	assert.Equal(t, 1, out.Summary.Urgent)
}
