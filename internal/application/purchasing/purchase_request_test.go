package purchasing_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/catalog"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/purchasing"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/inventory"
	"github.com/jhoicas/replenishment-api/internal/testutil"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

func newPRUseCase(f *testutil.Fixture) *purchasing.PurchaseRequestUseCase {
	gate := authz.NewGate(nil)
	return purchasing.NewPurchaseRequestUseCase(f.DB, gate, catalog.NewCatalogUseCase(f.DB, gate, nil), logger.Nop())
}

// ── Alta y decisión ──────────────────────────────────────────────────────────

func TestCreate_QuedaPendiente(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	wh := f.Warehouse("BOD01")
	it := f.Item("TOR-1", 10)

	out, err := uc.Create(context.Background(), testutil.Manager, dto.CreatePurchaseRequestRequest{ItemID: it.ID, WarehouseID: wh.ID, Quantity: 25})
	require.NoError(t, err)

	assert.Equal(t, "pending", out.Status)
	assert.Equal(t, entity.PRSourceManual, out.Source)
	assert.Equal(t, "PR000001", out.Number)
	assert.Equal(t, testutil.Manager.UserID, out.RequestedBy)
}

func TestCreate_BodegueroSinPermiso(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	wh := f.Warehouse("BOD01")
	it := f.Item("TOR-1", 10)

	_, err := uc.Create(context.Background(), testutil.Warehouse, dto.CreatePurchaseRequestRequest{ItemID: it.ID, WarehouseID: wh.ID, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestCreate_CantidadCero(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)

	_, err := uc.Create(context.Background(), testutil.Manager, dto.CreatePurchaseRequestRequest{ItemID: "x", WarehouseID: "y"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSetStatus_SegundaDecisionYaDecidida(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	ctx := context.Background()
	pr := createPR(t, f, uc)

	out, err := uc.SetStatus(ctx, testutil.Manager, pr.ID, dto.DecisionRequest{Action: "approve", Notes: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "approved", out.Status)
	assert.Equal(t, testutil.Manager.UserID, out.ApprovedBy)
	require.NotNil(t, out.DecidedAt)

	_, err = uc.SetStatus(ctx, testutil.Manager, pr.ID, dto.DecisionRequest{Action: "reject"})
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
	d, ok := domain.Details(err)
	require.True(t, ok)
	assert.Equal(t, "approved", d.State)
}

func TestUpdateYDelete_SoloEnPendiente(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	ctx := context.Background()
	pr := createPR(t, f, uc)

	qty := int64(40)
	out, err := uc.Update(ctx, testutil.Manager, pr.ID, dto.UpdatePurchaseRequestRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, int64(40), out.Quantity)

	_, err = uc.SetStatus(ctx, testutil.Manager, pr.ID, dto.DecisionRequest{Action: "approve"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, testutil.Manager, pr.ID, dto.UpdatePurchaseRequestRequest{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.ErrorIs(t, uc.Delete(ctx, testutil.Manager, pr.ID), domain.ErrInvalidState)
}

func TestDelete_Pendiente(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	ctx := context.Background()
	pr := createPR(t, f, uc)

	require.NoError(t, uc.Delete(ctx, testutil.Manager, pr.ID))
	_, err := uc.Get(ctx, testutil.Manager, pr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ── Conversión en OC ─────────────────────────────────────────────────────────

func TestConvertToPO_CreaBorradorYMarcaConvertida(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	ctx := context.Background()
	sup := f.Supplier("acme")
	pr := createPR(t, f, uc)
	_, err := uc.SetStatus(ctx, testutil.Manager, pr.ID, dto.DecisionRequest{Action: "approve"})
	require.NoError(t, err)

	po, err := uc.ConvertToPO(ctx, testutil.Manager, pr.ID, dto.ConvertPurchaseRequestRequest{SupplierID: sup.ID})
	require.NoError(t, err)
	assert.Equal(t, "draft", po.Status)
	assert.Equal(t, pr.ID, po.PRID)
	assert.Equal(t, pr.Quantity, po.OrderedQuantity)
	assert.Equal(t, "PO000001", po.Number)
	assert.Equal(t, "25000", po.TotalAmount.String())
	require.NotNil(t, po.ExpectedDeliveryDate)

	got, err := uc.Get(ctx, testutil.Manager, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, "converted", got.Status)
	assert.Equal(t, po.ID, got.POID)

	_, err = uc.ConvertToPO(ctx, testutil.Manager, pr.ID, dto.ConvertPurchaseRequestRequest{SupplierID: sup.ID})
	assert.ErrorIs(t, err, domain.ErrAlreadyConverted)
}

func TestConvertToPO_PendienteNoSeConvierte(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	sup := f.Supplier("acme")
	pr := createPR(t, f, uc)

	_, err := uc.ConvertToPO(context.Background(), testutil.Manager, pr.ID, dto.ConvertPurchaseRequestRequest{SupplierID: sup.ID})
	assert.ErrorIs(t, err, domain.ErrAlreadyConverted)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestConvertToPO_SinProveedor(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	ctx := context.Background()
	pr := createPR(t, f, uc)
	_, err := uc.SetStatus(ctx, testutil.Manager, pr.ID, dto.DecisionRequest{Action: "approve"})
	require.NoError(t, err)

	_, err = uc.ConvertToPO(ctx, testutil.Manager, pr.ID, dto.ConvertPurchaseRequestRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	got, err := uc.Get(ctx, testutil.Manager, pr.ID)
	require.NoError(t, err)
	assert.Equal(t, "approved", got.Status)
}

// ── Creación automática ──────────────────────────────────────────────────────

func TestAutoCreate_UnaSolicitudPorParSinDuplicados(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	ctx := context.Background()
	wh := f.Warehouse("BOD01")
	low := f.Item("LOW-1", 10)
	ok := f.Item("OK-1", 10)
	f.Location(low, wh, 5, 10, 100)
	f.Location(ok, wh, 50, 10, 100)

	res, err := uc.AutoCreate(ctx, entity.SystemIdentity)
	require.NoError(t, err)
	assert.Len(t, res.Assessments, 2)
	assert.Equal(t, 1, res.LowStock)
	require.Len(t, res.Created, 1)
	pr := res.Created[0]
	assert.Equal(t, low.ID, pr.ItemID)
	assert.Equal(t, entity.PRStatusPending, pr.Status)
	assert.Equal(t, entity.PRSourceAuto, pr.Source)
	assert.Equal(t, int64(95), pr.Quantity)
	assert.Equal(t, inventory.UrgencyHigh, res.Assessments[0].Urgency)

	again, err := uc.AutoCreate(ctx, entity.SystemIdentity)
	require.NoError(t, err)
	assert.Empty(t, again.Created)
	assert.Equal(t, 1, again.Skipped)
}

func TestAutoCreate_OCEnCursoEvitaSolicitud(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	wh := f.Warehouse("BOD01")
	it := f.Item("LOW-1", 10)
	sup := f.Supplier("acme")
	f.Location(it, wh, 0, 10, 100)
	f.PurchaseOrder(it, wh, sup, 100, entity.POStatusSent)

	res, err := uc.AutoCreate(context.Background(), entity.SystemIdentity)
	require.NoError(t, err)
	assert.Empty(t, res.Created)
	assert.Equal(t, 1, res.Skipped)
}

func TestAutoCreate_SolicitudRechazadaNoBloquea(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	ctx := context.Background()
	wh := f.Warehouse("BOD01")
	it := f.Item("LOW-1", 10)
	f.Location(it, wh, 2, 10, 100)

	first, err := uc.AutoCreate(ctx, entity.SystemIdentity)
	require.NoError(t, err)
	require.Len(t, first.Created, 1)
	_, err = uc.SetStatus(ctx, testutil.Manager, first.Created[0].ID, dto.DecisionRequest{Action: "reject"})
	require.NoError(t, err)

	second, err := uc.AutoCreate(ctx, entity.SystemIdentity)
	require.NoError(t, err)
	assert.Len(t, second.Created, 1)
}

func TestAutoCreate_CorridasConcurrentesNoDuplican(t *testing.T) {
	f := testutil.New(t)
	uc := newPRUseCase(f)
	wh := f.Warehouse("BOD01")
	for _, sku := range []string{"A", "B", "C"} {
		f.Location(f.Item(sku, 10), wh, 1, 5, 50)
	}

	var wg sync.WaitGroup
	created := make([]int, 8)
	for i := range created {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := uc.AutoCreate(context.Background(), entity.SystemIdentity)
			if err == nil {
				created[i] = len(res.Created)
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, n := range created {
		total += n
	}
	assert.Equal(t, 3, total)
	list, err := uc.List(context.Background(), testutil.Manager, dto.DocumentListRequest{Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
}

func TestAutoCreate_BodegueroSinPermiso(t *testing.T) {
	f := testutil.New(t)
	_, err := newPRUseCase(f).AutoCreate(context.Background(), testutil.Warehouse)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func createPR(t *testing.T, f *testutil.Fixture, uc *purchasing.PurchaseRequestUseCase) *dto.PurchaseRequestResponse {
	t.Helper()
	wh := f.Warehouse("BOD01")
	it := f.Item("TOR-1", 10)
	pr, err := uc.Create(context.Background(), testutil.Manager, dto.CreatePurchaseRequestRequest{ItemID: it.ID, WarehouseID: wh.ID, Quantity: 25})
	require.NoError(t, err)
	return pr
}
