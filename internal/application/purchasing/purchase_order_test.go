package purchasing_test

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/catalog"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/purchasing"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/jhoicas/replenishment-api/internal/testutil"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

type fakePDF struct{ doc purchasing.PODocument }

func (p *fakePDF) GeneratePurchaseOrderPDF(_ context.Context, doc purchasing.PODocument) ([]byte, error) {
	p.doc = doc
	return []byte("%PDF-1.4"), nil
}

type poEnv struct {
	f     *testutil.Fixture
	uc    *purchasing.PurchaseOrderUseCase
	mail  *testutil.Recorder
	pdf   *fakePDF
	sup   *entity.Supplier
	item  *entity.Item
	wh    *entity.Warehouse
	owner entity.Identity
}

func newPOEnv(t *testing.T) *poEnv {
	f := testutil.New(t)
	gate := authz.NewGate(nil)
	e := &poEnv{f: f, mail: &testutil.Recorder{}, pdf: &fakePDF{}}
	e.uc = purchasing.NewPurchaseOrderUseCase(f.DB, gate, catalog.NewCatalogUseCase(f.DB, gate, nil), e.mail, e.pdf, logger.Nop())
	e.sup = f.Supplier("acme")
	e.item = f.Item("TOR-1", 10)
	e.wh = f.Warehouse("BOD01")
	e.owner = testutil.SupplierUser(e.sup.ID)
	return e
}

func (e *poEnv) draft(t *testing.T) *dto.PurchaseOrderResponse {
	t.Helper()
	po, err := e.uc.Create(context.Background(), testutil.Manager, dto.CreatePurchaseOrderRequest{
		SupplierID: e.sup.ID, ItemID: e.item.ID, WarehouseID: e.wh.ID, Quantity: 10,
	})
	require.NoError(t, err)
	return po
}

func (e *poEnv) sent(t *testing.T) *dto.PurchaseOrderResponse {
	t.Helper()
	po, err := e.uc.Send(context.Background(), testutil.Admin, e.draft(t).ID)
	require.NoError(t, err)
	return po
}

// ── Alta y edición ───────────────────────────────────────────────────────────

func TestCreatePO_PrecioDelCatalogoProveedor(t *testing.T) {
	e := newPOEnv(t)
	ctx := context.Background()
	cat := catalog.NewCatalogUseCase(e.f.DB, authz.NewGate(nil), nil)
	_, err := cat.AddSupplierItem(ctx, testutil.Manager, e.sup.ID, dto.SupplierItemRequest{
		ItemID: e.item.ID, UnitPrice: decimal.NewFromInt(800), LeadTimeDays: 3,
	})
	require.NoError(t, err)

	po := e.draft(t)
	assert.Equal(t, "draft", po.Status)
	assert.True(t, decimal.NewFromInt(800).Equal(po.UnitPrice))
	assert.True(t, decimal.NewFromInt(8000).Equal(po.TotalAmount))
	require.NotNil(t, po.ExpectedDeliveryDate)
	assert.WithinDuration(t, po.CreatedAt.AddDate(0, 0, 3), *po.ExpectedDeliveryDate, 0)
}

func TestCreatePO_SinCatalogoUsaPrecioDelItem(t *testing.T) {
	e := newPOEnv(t)
	po := e.draft(t)
	assert.True(t, decimal.NewFromInt(1000).Equal(po.UnitPrice))
	assert.WithinDuration(t, po.CreatedAt.AddDate(0, 0, 7), *po.ExpectedDeliveryDate, 0)
}

func TestUpdatePO_RecalculaTotalYSoloAntesDeConfirmar(t *testing.T) {
	e := newPOEnv(t)
	ctx := context.Background()
	po := e.sent(t)

	qty := int64(20)
	out, err := e.uc.Update(ctx, testutil.Manager, po.ID, dto.UpdatePurchaseOrderRequest{Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(20000).Equal(out.TotalAmount))

	_, err = e.uc.Acknowledge(ctx, e.owner, po.ID, "")
	require.NoError(t, err)
	_, err = e.uc.Update(ctx, testutil.Manager, po.ID, dto.UpdatePurchaseOrderRequest{Quantity: &qty})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ── Envío y respuesta del proveedor ──────────────────────────────────────────

func TestSend_SoloAdminYNotificaAlProveedor(t *testing.T) {
	e := newPOEnv(t)
	ctx := context.Background()
	po := e.draft(t)

	_, err := e.uc.Send(ctx, testutil.Manager, po.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	out, err := e.uc.Send(ctx, testutil.Admin, po.ID)
	require.NoError(t, err)
	assert.Equal(t, "sent", out.Status)
	assert.Equal(t, testutil.Admin.UserID, out.ApprovedBy)
	require.NotNil(t, out.SentAt)

	sent := e.mail.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, e.sup.Email, sent[0].Recipient)

	_, err = e.uc.Send(ctx, testutil.Admin, po.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRespond_ProveedorAjenoAccesoDenegado(t *testing.T) {
	e := newPOEnv(t)
	po := e.sent(t)
	other := e.f.Supplier("otro")

	_, err := e.uc.Acknowledge(context.Background(), testutil.SupplierUser(other.ID), po.ID, "")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = e.uc.Get(context.Background(), testutil.SupplierUser(other.ID), po.ID)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestRespond_AcknowledgeUnaSolaVez(t *testing.T) {
	e := newPOEnv(t)
	ctx := context.Background()
	po := e.sent(t)

	out, err := e.uc.Acknowledge(ctx, e.owner, po.ID, "despacho el lunes")
	require.NoError(t, err)
	assert.Equal(t, "acknowledged", out.Status)
	assert.Equal(t, "despacho el lunes", out.SupplierNotes)
	require.NotNil(t, out.RespondedAt)

	_, err = e.uc.Decline(ctx, e.owner, po.ID, "")
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
}

func TestRespond_DeclineCancela(t *testing.T) {
	e := newPOEnv(t)
	po := e.sent(t)

	out, err := e.uc.Decline(context.Background(), e.owner, po.ID, "sin existencias")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)
}

func TestRespond_BorradorNoAdmiteRespuesta(t *testing.T) {
	e := newPOEnv(t)
	po := e.draft(t)

	_, err := e.uc.Acknowledge(context.Background(), e.owner, po.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRespond_GerenteNoRespondePorElProveedor(t *testing.T) {
	e := newPOEnv(t)
	po := e.sent(t)

	_, err := e.uc.Acknowledge(context.Background(), testutil.Manager, po.ID, "")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

// ── Cancelación ──────────────────────────────────────────────────────────────

func TestCancel_DesdeConfirmada(t *testing.T) {
	e := newPOEnv(t)
	ctx := context.Background()
	po := e.sent(t)
	_, err := e.uc.Acknowledge(ctx, e.owner, po.ID, "")
	require.NoError(t, err)

	out, err := e.uc.Cancel(ctx, testutil.Admin, po.ID, dto.CancelPurchaseOrderRequest{Reason: "cambio de proveedor"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)
	assert.Equal(t, testutil.Admin.UserID, out.CancelledBy)

	_, err = e.uc.Cancel(ctx, testutil.Admin, po.ID, dto.CancelPurchaseOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCancel_RecibidaParcialRechazaLaRecepcionPendiente(t *testing.T) {
	e := newPOEnv(t)
	ctx := context.Background()
	po := e.f.PurchaseOrder(e.item, e.wh, e.sup, 10, entity.POStatusPartiallyReceived)
	grn := e.f.GoodsReceipt(po, 10, entity.GRNStatusPending)
	e.f.Location(e.item, e.wh, 3, 10, 100)

	out, err := e.uc.Cancel(ctx, testutil.Admin, po.ID, dto.CancelPurchaseOrderRequest{Reason: "mercancía dañada"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", out.Status)

	var got *entity.GoodsReceipt
	e.f.Run(func(ctx context.Context, s repository.Store) error {
		var err error
		got, err = s.GoodsReceipts().GetByID(ctx, grn.ID)
		return err
	})
	require.NotNil(t, got)
	assert.Equal(t, entity.GRNStatusRejected, got.Status)
	assert.True(t, strings.HasPrefix(got.Notes, grn.Notes))
	assert.Contains(t, got.Notes, "po_cancelled: mercancía dañada")
	assert.Equal(t, int64(3), e.f.Stock(e.item.ID, e.wh.ID))
}

func TestCancel_GerenteNoCancela(t *testing.T) {
	e := newPOEnv(t)
	po := e.f.PurchaseOrder(e.item, e.wh, e.sup, 10, entity.POStatusPartiallyReceived)
	grn := e.f.GoodsReceipt(po, 10, entity.GRNStatusPending)

	_, err := e.uc.Cancel(context.Background(), testutil.Manager, po.ID, dto.CancelPurchaseOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	e.f.Run(func(ctx context.Context, s repository.Store) error {
		got, err := s.GoodsReceipts().GetByID(ctx, grn.ID)
		require.NotNil(t, got)
		assert.Equal(t, entity.GRNStatusPending, got.Status)
		return err
	})
}

func TestCancel_CompletadaNoSeCancela(t *testing.T) {
	e := newPOEnv(t)
	po := e.f.PurchaseOrder(e.item, e.wh, e.sup, 10, entity.POStatusCompleted)
	e.f.GoodsReceipt(po, 10, entity.GRNStatusApproved)

	_, err := e.uc.Cancel(context.Background(), testutil.Admin, po.ID, dto.CancelPurchaseOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ── Consulta ─────────────────────────────────────────────────────────────────

func TestList_ProveedorSoloVeLasPropias(t *testing.T) {
	e := newPOEnv(t)
	other := e.f.Supplier("otro")
	e.f.PurchaseOrder(e.item, e.wh, other, 5, entity.POStatusSent)
	mine := e.sent(t)

	out, err := e.uc.List(context.Background(), e.owner, dto.DocumentListRequest{SupplierID: other.ID})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, mine.ID, out.Items[0].ID)
}

func TestPDF_ArmaDocumentoCompleto(t *testing.T) {
	e := newPOEnv(t)
	po := e.draft(t)

	b, name, err := e.uc.PDF(context.Background(), testutil.Manager, po.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, b)
	assert.Equal(t, po.Number+".pdf", name)
	assert.Equal(t, e.sup.Name, e.pdf.doc.Supplier.Name)
	assert.Equal(t, e.item.SKU, e.pdf.doc.Item.SKU)
	assert.Equal(t, e.wh.Code, e.pdf.doc.Warehouse.Code)
}
