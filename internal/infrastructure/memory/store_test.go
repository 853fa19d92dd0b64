package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/jhoicas/replenishment-api/internal/infrastructure/memory"
)

func stockAt(t *testing.T, db *memory.DB, id string) int64 {
	t.Helper()
	var qty int64
	require.NoError(t, db.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		loc, err := s.Stock().GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, loc)
		qty = loc.CurrentStock
		return nil
	}))
	return qty
}

func seedLocation(t *testing.T, db *memory.DB, id string, qty int64) {
	t.Helper()
	require.NoError(t, db.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		return s.Stock().Create(ctx, &entity.StockLocation{ID: id, ItemID: "item-" + id, WarehouseID: "wh", CurrentStock: qty, MaxStock: 100, Active: true})
	}))
}

func TestRun_CommitPublicaCambios(t *testing.T) {
	db := memory.New()
	seedLocation(t, db, "loc-1", 5)

	require.NoError(t, db.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		return s.Stock().UpdateQuantity(ctx, "loc-1", 25)
	}))

	assert.Equal(t, int64(25), stockAt(t, db, "loc-1"))
}

func TestRun_ErrorRevierteTodo(t *testing.T) {
	db := memory.New()
	seedLocation(t, db, "loc-1", 5)
	boom := errors.New("boom")

	err := db.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		require.NoError(t, s.Stock().UpdateQuantity(ctx, "loc-1", 0))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(5), stockAt(t, db, "loc-1"))
}

func TestSecuencias_NoSeReutilizanTrasRollback(t *testing.T) {
	db := memory.New()
	var first, second int64

	_ = db.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		first, _ = s.Sequences().Next(ctx, entity.SequenceTransfer)
		return errors.New("rollback")
	})
	require.NoError(t, db.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		var err error
		second, err = s.Sequences().Next(ctx, entity.SequenceTransfer)
		return err
	}))

	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)
}

func TestStockWriteHook_FallaLaEscritura(t *testing.T) {
	fail := errors.New("disco lleno")
	db := memory.New(memory.WithStockWriteHook(func(loc entity.StockLocation, _ int64) error {
		if loc.ID == "loc-2" {
			return fail
		}
		return nil
	}))
	seedLocation(t, db, "loc-1", 10)
	seedLocation(t, db, "loc-2", 10)

	err := db.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		if err := s.Stock().UpdateQuantity(ctx, "loc-1", 4); err != nil {
			return err
		}
		return s.Stock().UpdateQuantity(ctx, "loc-2", 16)
	})

	assert.ErrorIs(t, err, fail)
	assert.Equal(t, int64(10), stockAt(t, db, "loc-1"))
	assert.Equal(t, int64(10), stockAt(t, db, "loc-2"))
}

func TestStock_UbicacionActivaUnicaPorPar(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	err := db.Run(ctx, func(ctx context.Context, s repository.Store) error {
		require.NoError(t, s.Stock().Create(ctx, &entity.StockLocation{ID: "a", ItemID: "x", WarehouseID: "w", Active: true}))
		return s.Stock().Create(ctx, &entity.StockLocation{ID: "b", ItemID: "x", WarehouseID: "w", Active: true})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestStock_UpdateNoTocaCantidad(t *testing.T) {
	db := memory.New()
	seedLocation(t, db, "loc-1", 7)

	require.NoError(t, db.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		return s.Stock().Update(ctx, &entity.StockLocation{ID: "loc-1", ItemID: "item-loc-1", WarehouseID: "wh", Aisle: "3", CurrentStock: 999, Active: true})
	}))

	assert.Equal(t, int64(7), stockAt(t, db, "loc-1"))
}

func TestGoodsReceipt_UnaPorOrden(t *testing.T) {
	db := memory.New()
	err := db.Run(context.Background(), func(ctx context.Context, s repository.Store) error {
		require.NoError(t, s.GoodsReceipts().Create(ctx, &entity.GoodsReceipt{ID: "g1", POID: "po"}))
		return s.GoodsReceipts().Create(ctx, &entity.GoodsReceipt{ID: "g2", POID: "po"})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateGRN)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRun_ContextoCancelado(t *testing.T) {
	db := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := db.Run(ctx, func(context.Context, repository.Store) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
