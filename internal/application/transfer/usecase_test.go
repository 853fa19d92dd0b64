package transfer_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/events"
	"github.com/jhoicas/replenishment-api/internal/application/ledger"
	"github.com/jhoicas/replenishment-api/internal/application/transfer"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/jhoicas/replenishment-api/internal/infrastructure/memory"
	"github.com/jhoicas/replenishment-api/internal/testutil"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

type nopPublisher struct {
	mu  sync.Mutex
	got []events.Event
}

func (p *nopPublisher) Publish(_ context.Context, e events.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, e)
}

type env struct {
	f        *testutil.Fixture
	uc       *transfer.TransferUseCase
	pub      *nopPublisher
	item     *entity.Item
	src, dst *entity.Warehouse
}

func newEnv(t *testing.T, opts ...memory.Option) *env {
	f := testutil.New(t, opts...)
	e := &env{f: f, pub: &nopPublisher{}}
	e.uc = transfer.NewTransferUseCase(f.DB, authz.NewGate(nil),
		ledger.New(entity.StockDefaults{MinStock: 10, MaxStock: 100}), e.pub, logger.Nop())
	e.item = f.Item("TOR-1", 10)
	e.src = f.Warehouse("BOD01")
	e.dst = f.Warehouse("BOD02")
	return e
}

func (e *env) request(qty int64) dto.CreateTransferRequest {
	return dto.CreateTransferRequest{FromWarehouseID: e.src.ID, ToWarehouseID: e.dst.ID, ItemID: e.item.ID, RequestedQuantity: qty, Priority: "high"}
}

func (e *env) approved(t *testing.T, qty int64) *dto.TransferResponse {
	t.Helper()
	ctx := context.Background()
	to, err := e.uc.Create(ctx, testutil.Warehouse, e.request(qty))
	require.NoError(t, err)
	to, err = e.uc.Decide(ctx, testutil.Manager, to.ID, dto.TransferDecisionRequest{Action: "approve"})
	require.NoError(t, err)
	return to
}

// ── Alta y numeración ────────────────────────────────────────────────────────

func TestCreate_NumeroSecuencialYPendiente(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	a, err := e.uc.Create(ctx, testutil.Warehouse, e.request(5))
	require.NoError(t, err)
	b, err := e.uc.Create(ctx, testutil.Warehouse, e.request(5))
	require.NoError(t, err)

	assert.Equal(t, "TO000001", a.TransferNumber)
	assert.Equal(t, "TO000002", b.TransferNumber)
	assert.Equal(t, "pending", a.Status)
	assert.Equal(t, "high", a.Priority)
}

func TestCreate_NumeroNoSeReutilizaTrasRollback(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first, err := e.uc.Create(ctx, testutil.Warehouse, e.request(5))
	require.NoError(t, err)

	err = e.f.DB.Run(ctx, func(ctx context.Context, s repository.Store) error {
		if _, err := s.Sequences().Next(ctx, entity.SequenceTransfer); err != nil {
			return err
		}
		return errors.New("reintento")
	})
	require.Error(t, err)

	next, err := e.uc.Create(ctx, testutil.Warehouse, e.request(5))
	require.NoError(t, err)
	assert.Greater(t, next.TransferNumber, first.TransferNumber)
	assert.Equal(t, "TO000003", next.TransferNumber)
}

func TestCreate_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Create(ctx, testutil.Warehouse, e.request(0))
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	same := e.request(5)
	same.ToWarehouseID = same.FromWarehouseID
	_, err = e.uc.Create(ctx, testutil.Warehouse, same)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = e.uc.Create(ctx, testutil.SupplierUser("s-1"), e.request(5))
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestSubmit_BorradorAPendiente(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	req := e.request(5)
	req.Draft = true
	to, err := e.uc.Create(ctx, testutil.Warehouse, req)
	require.NoError(t, err)
	assert.Equal(t, "draft", to.Status)

	_, err = e.uc.Decide(ctx, testutil.Manager, to.ID, dto.TransferDecisionRequest{Action: "approve"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	to, err = e.uc.Submit(ctx, testutil.Warehouse, to.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", to.Status)
}

// ── Decisión ─────────────────────────────────────────────────────────────────

func TestDecide_AprobacionParcial(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	to, err := e.uc.Create(ctx, testutil.Warehouse, e.request(10))
	require.NoError(t, err)

	over := int64(11)
	_, err = e.uc.Decide(ctx, testutil.Manager, to.ID, dto.TransferDecisionRequest{Action: "approve", ApprovedQuantity: &over})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	part := int64(6)
	out, err := e.uc.Decide(ctx, testutil.Manager, to.ID, dto.TransferDecisionRequest{Action: "approve", ApprovedQuantity: &part})
	require.NoError(t, err)
	assert.Equal(t, "approved", out.Status)
	assert.Equal(t, int64(6), out.ApprovedQuantity)

	_, err = e.uc.Decide(ctx, testutil.Manager, to.ID, dto.TransferDecisionRequest{Action: "reject"})
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
}

func TestDecide_PorDefectoLaSolicitada(t *testing.T) {
	e := newEnv(t)
	to := e.approved(t, 8)
	assert.Equal(t, int64(8), to.ApprovedQuantity)
}

// ── Finalización ─────────────────────────────────────────────────────────────

func TestComplete_MueveStockEntreBodegas(t *testing.T) {
	e := newEnv(t)
	e.f.Location(e.item, e.src, 30, 10, 100)
	to := e.approved(t, 12)

	out, err := e.uc.Complete(context.Background(), testutil.Warehouse, to.ID, dto.CompleteTransferRequest{})
	require.NoError(t, err)

	assert.Equal(t, "completed", out.Status)
	assert.Equal(t, int64(12), out.TransferredQuantity)
	assert.Equal(t, int64(18), e.f.Stock(e.item.ID, e.src.ID))
	assert.Equal(t, int64(12), e.f.Stock(e.item.ID, e.dst.ID))
	require.Len(t, e.pub.got, 1)
	assert.Equal(t, events.TransferCompleted, e.pub.got[0].Name)
}

func TestComplete_NoSuperaLoAprobado(t *testing.T) {
	e := newEnv(t)
	e.f.Location(e.item, e.src, 30, 10, 100)
	to := e.approved(t, 5)

	more := int64(6)
	_, err := e.uc.Complete(context.Background(), testutil.Warehouse, to.ID, dto.CompleteTransferRequest{TransferredQuantity: &more})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, int64(30), e.f.Stock(e.item.ID, e.src.ID))
}

func TestComplete_StockInsuficiente(t *testing.T) {
	e := newEnv(t)
	e.f.Location(e.item, e.src, 3, 10, 100)
	to := e.approved(t, 5)

	_, err := e.uc.Complete(context.Background(), testutil.Warehouse, to.ID, dto.CompleteTransferRequest{})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), e.f.Stock(e.item.ID, e.src.ID))
	assert.Equal(t, int64(-1), e.f.Stock(e.item.ID, e.dst.ID))

	got, err := e.uc.Get(context.Background(), testutil.Manager, to.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)
}

func TestComplete_FalloEnDestinoNoDebitaOrigen(t *testing.T) {
	var dstID string
	hook := memory.WithStockWriteHook(func(loc entity.StockLocation, _ int64) error {
		if loc.WarehouseID == dstID {
			return errors.New("escritura rechazada")
		}
		return nil
	})
	e := newEnv(t, hook)
	dstID = e.dst.ID
	e.f.Location(e.item, e.src, 30, 10, 100)
	to := e.approved(t, 10)

	_, err := e.uc.Complete(context.Background(), testutil.Warehouse, to.ID, dto.CompleteTransferRequest{})
	require.Error(t, err)

	assert.Equal(t, int64(30), e.f.Stock(e.item.ID, e.src.ID))
	assert.Equal(t, int64(-1), e.f.Stock(e.item.ID, e.dst.ID))
	got, err := e.uc.Get(context.Background(), testutil.Manager, to.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)
}

func TestComplete_TrasladosCruzadosConcurrentes(t *testing.T) {
	e := newEnv(t)
	e.f.Location(e.item, e.src, 50, 10, 100)
	e.f.Location(e.item, e.dst, 50, 10, 100)
	ctx := context.Background()

	var ids []string
	for i := range 10 {
		req := e.request(1)
		if i%2 == 1 {
			req.FromWarehouseID, req.ToWarehouseID = e.dst.ID, e.src.ID
		}
		to, err := e.uc.Create(ctx, testutil.Warehouse, req)
		require.NoError(t, err)
		_, err = e.uc.Decide(ctx, testutil.Manager, to.ID, dto.TransferDecisionRequest{Action: "approve"})
		require.NoError(t, err)
		ids = append(ids, to.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.uc.Complete(ctx, testutil.Warehouse, id, dto.CompleteTransferRequest{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), e.f.Stock(e.item.ID, e.src.ID)+e.f.Stock(e.item.ID, e.dst.ID))
	assert.Equal(t, int64(50), e.f.Stock(e.item.ID, e.src.ID))
}

// ── Cancelación ──────────────────────────────────────────────────────────────

func TestCancel_BodegueroAjenoNoCancela(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	to, err := e.uc.Create(ctx, testutil.Manager, e.request(5))
	require.NoError(t, err)

	_, err = e.uc.Cancel(ctx, testutil.Warehouse, to.ID, "")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	out, err := e.uc.Cancel(ctx, testutil.Manager2, to.ID, "ya no se requiere")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)
	assert.Equal(t, testutil.Manager2.UserID, out.CancelledBy)
}

func TestCancel_CompletadoNoSeCancela(t *testing.T) {
	e := newEnv(t)
	e.f.Location(e.item, e.src, 30, 10, 100)
	to := e.approved(t, 5)
	_, err := e.uc.Complete(context.Background(), testutil.Warehouse, to.ID, dto.CompleteTransferRequest{})
	require.NoError(t, err)

	_, err = e.uc.Cancel(context.Background(), testutil.Admin, to.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
