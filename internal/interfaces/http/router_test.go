package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/application/auth"
	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/catalog"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/events"
	"github.com/jhoicas/replenishment-api/internal/application/ledger"
	"github.com/jhoicas/replenishment-api/internal/application/purchasing"
	"github.com/jhoicas/replenishment-api/internal/application/receiving"
	"github.com/jhoicas/replenishment-api/internal/application/transfer"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/replenishment-api/internal/interfaces/http"
	"github.com/jhoicas/replenishment-api/internal/testutil"
	pkgjwt "github.com/jhoicas/replenishment-api/pkg/jwt"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// App completa sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

type api struct {
	t   *testing.T
	app *fiber.App
	f   *testutil.Fixture
}

func newAPI(t *testing.T) *api {
	f := testutil.New(t)
	log := logger.Nop()
	gate := authz.NewGate(nil)
	l := ledger.New(entity.StockDefaults{MinStock: 10, MaxStock: 100})
	bus := events.NewBus(log)
	t.Cleanup(bus.Close)
	mail := &testutil.Recorder{}

	catalogUC := catalog.NewCatalogUseCase(f.DB, gate, catalog.NopCache{})
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:          auth.NewAuthUseCase(f.DB, gate, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		CatalogUC:       catalogUC,
		StockUC:         ledger.NewStockUseCase(f.DB, gate, l),
		PurchaseReqUC:   purchasing.NewPurchaseRequestUseCase(f.DB, gate, catalogUC, log),
		PurchaseOrderUC: purchasing.NewPurchaseOrderUseCase(f.DB, gate, catalogUC, mail, pdf.NewMarotoPDFGenerator("Test"), log),
		GoodsReceiptUC:  receiving.NewGoodsReceiptUseCase(f.DB, gate, l, mail, bus, log),
		TransferUC:      transfer.NewTransferUseCase(f.DB, gate, l, bus, log),
		JWTSecret:       testJWTSecret,
		ServiceName:     "replenishment-test",
		Log:             log,
	})
	return &api{t: t, app: app, f: f}
}

func (a *api) token(id entity.Identity) string {
	a.t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Identity{
		UserID: id.UserID, Role: string(id.Role), SupplierID: id.SupplierID,
	})
	require.NoError(a.t, err)
	return "Bearer " + tok
}

// do ejecuta la petición y decodifica el cuerpo JSON en out (si no es nil).
func (a *api) do(id *entity.Identity, method, path string, body any, out any) int {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id != nil {
		req.Header.Set("Authorization", a.token(*id))
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func ptr[T any](v T) *T { return &v }

// ── flujo completo ───────────────────────────────────────────────────────────

func TestRouter_FlujoCompraHastaStock(t *testing.T) {
	a := newAPI(t)
	item := a.f.Item("TOR-1", 10)
	wh := a.f.Warehouse("BOD01")
	sup := a.f.Supplier("acme")
	a.f.Location(item, wh, 2, 10, 50)
	supplierUser := testutil.SupplierUser(sup.ID)

	var pr dto.PurchaseRequestResponse
	require.Equal(t, http.StatusCreated, a.do(&testutil.Manager, http.MethodPost, "/api/purchase-requests",
		dto.CreatePurchaseRequestRequest{ItemID: item.ID, WarehouseID: wh.ID, Quantity: 48}, &pr))
	assert.Equal(t, "pending", pr.Status)
	assert.Equal(t, "PR000001", pr.Number)

	require.Equal(t, http.StatusOK, a.do(&testutil.Manager, http.MethodPost, "/api/purchase-requests/"+pr.ID+"/decision",
		dto.DecisionRequest{Action: "approve"}, &pr))
	assert.Equal(t, "approved", pr.Status)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, a.do(&testutil.Manager2, http.MethodPost, "/api/purchase-requests/"+pr.ID+"/decision",
		dto.DecisionRequest{Action: "reject"}, &errBody))
	assert.Equal(t, "ALREADY_DECIDED", errBody.Code)

	var po dto.PurchaseOrderResponse
	require.Equal(t, http.StatusCreated, a.do(&testutil.Manager, http.MethodPost, "/api/purchase-requests/"+pr.ID+"/convert",
		dto.ConvertPurchaseRequestRequest{SupplierID: sup.ID}, &po))
	assert.Equal(t, "draft", po.Status)
	assert.Equal(t, int64(48), po.OrderedQuantity)

	require.Equal(t, http.StatusOK, a.do(&testutil.Admin, http.MethodPost, "/api/purchase-orders/"+po.ID+"/send", nil, &po))
	assert.Equal(t, "sent", po.Status)

	require.Equal(t, http.StatusOK, a.do(&supplierUser, http.MethodPost, "/api/purchase-orders/"+po.ID+"/respond",
		dto.SupplierResponseRequest{Action: "acknowledge", Notes: "despacho el lunes"}, &po))
	assert.Equal(t, "acknowledged", po.Status)

	var grn dto.GoodsReceiptResponse
	require.Equal(t, http.StatusCreated, a.do(&testutil.Warehouse, http.MethodPost, "/api/goods-receipts",
		dto.CreateGoodsReceiptRequest{POID: po.ID, QuantityReceived: 48}, &grn))
	assert.Equal(t, int64(2), a.f.Stock(item.ID, wh.ID), "registrar la recepción no mueve stock")

	require.Equal(t, http.StatusOK, a.do(&testutil.Manager, http.MethodPost, "/api/goods-receipts/"+grn.ID+"/decision",
		dto.DecisionRequest{Action: "approve"}, &grn))
	assert.Equal(t, "approved", grn.Status)

	var stock dto.StockQueryResponse
	require.Equal(t, http.StatusOK, a.do(&testutil.Warehouse, http.MethodGet,
		"/api/stock?item_id="+item.ID+"&warehouse_id="+wh.ID, nil, &stock))
	assert.Equal(t, int64(50), stock.CurrentStock)

	require.Equal(t, http.StatusOK, a.do(&supplierUser, http.MethodGet, "/api/purchase-orders/"+po.ID, nil, &po))
	assert.Equal(t, "completed", po.Status)
}

// ── validación y mapeo de errores ────────────────────────────────────────────

func TestRouter_CantidadCeroEsInvalidQuantity(t *testing.T) {
	a := newAPI(t)
	item := a.f.Item("TOR-1", 10)
	wh := a.f.Warehouse("BOD01")

	var body dto.ErrorResponse
	status := a.do(&testutil.Manager, http.MethodPost, "/api/purchase-requests",
		dto.CreatePurchaseRequestRequest{ItemID: item.ID, WarehouseID: wh.ID, Quantity: 0}, &body)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_QUANTITY", body.Code)
	assert.Equal(t, "quantity", body.Field)
}

func TestRouter_CuerpoInvalido(t *testing.T) {
	a := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", a.token(testutil.Admin))
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_DocumentoInexistente404(t *testing.T) {
	a := newAPI(t)
	var body dto.ErrorResponse
	status := a.do(&testutil.Admin, http.MethodGet, "/api/purchase-orders/"+uuid.New().String(), nil, &body)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestRouter_ProveedorNoEntraAlCatalogoInterno(t *testing.T) {
	a := newAPI(t)
	sup := a.f.Supplier("acme")
	id := testutil.SupplierUser(sup.ID)

	var body dto.ErrorResponse
	assert.Equal(t, http.StatusForbidden, a.do(&id, http.MethodGet, "/api/items", nil, &body))
	assert.Equal(t, "FORBIDDEN", body.Code)
}

func TestRouter_BodegaNoPuedeAprobarSolicitudes(t *testing.T) {
	a := newAPI(t)
	item := a.f.Item("TOR-1", 10)
	wh := a.f.Warehouse("BOD01")

	var pr dto.PurchaseRequestResponse
	require.Equal(t, http.StatusCreated, a.do(&testutil.Manager, http.MethodPost, "/api/purchase-requests",
		dto.CreatePurchaseRequestRequest{ItemID: item.ID, WarehouseID: wh.ID, Quantity: 5}, &pr))

	var body dto.ErrorResponse
	assert.Equal(t, http.StatusForbidden, a.do(&testutil.Warehouse, http.MethodPost, "/api/purchase-requests/"+pr.ID+"/decision",
		dto.DecisionRequest{Action: "approve"}, &body))
	assert.Equal(t, "FORBIDDEN", body.Code)
}

func TestRouter_TrasladoSinStockSuficiente(t *testing.T) {
	a := newAPI(t)
	item := a.f.Item("TOR-1", 10)
	from := a.f.Warehouse("BOD01")
	to := a.f.Warehouse("BOD02")
	a.f.Location(item, from, 5, 0, 50)

	var tr dto.TransferResponse
	require.Equal(t, http.StatusCreated, a.do(&testutil.Warehouse, http.MethodPost, "/api/transfers",
		dto.CreateTransferRequest{FromWarehouseID: from.ID, ToWarehouseID: to.ID, ItemID: item.ID, RequestedQuantity: 20}, &tr))
	assert.Equal(t, "pending", tr.Status)

	require.Equal(t, http.StatusOK, a.do(&testutil.Manager, http.MethodPost, "/api/transfers/"+tr.ID+"/decision",
		dto.TransferDecisionRequest{Action: "approve"}, &tr))

	var body dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, a.do(&testutil.Warehouse, http.MethodPost, "/api/transfers/"+tr.ID+"/complete", nil, &body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, int64(5), a.f.Stock(item.ID, from.ID))
	assert.Equal(t, int64(-1), a.f.Stock(item.ID, to.ID), "el destino no se acredita")
}

func TestRouter_TrasladoMismaBodegaEsValidacion(t *testing.T) {
	a := newAPI(t)
	item := a.f.Item("TOR-1", 10)
	wh := a.f.Warehouse("BOD01")

	var body dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, a.do(&testutil.Warehouse, http.MethodPost, "/api/transfers",
		dto.CreateTransferRequest{FromWarehouseID: wh.ID, ToWarehouseID: wh.ID, ItemID: item.ID, RequestedQuantity: 1}, &body))
	assert.Equal(t, "to_warehouse_id", body.Field)
}

func TestRouter_TrasladoCompletoMueveStock(t *testing.T) {
	a := newAPI(t)
	item := a.f.Item("TOR-1", 10)
	from := a.f.Warehouse("BOD01")
	to := a.f.Warehouse("BOD02")
	a.f.Location(item, from, 30, 0, 50)

	var tr dto.TransferResponse
	require.Equal(t, http.StatusCreated, a.do(&testutil.Warehouse, http.MethodPost, "/api/transfers",
		dto.CreateTransferRequest{FromWarehouseID: from.ID, ToWarehouseID: to.ID, ItemID: item.ID, RequestedQuantity: 20}, &tr))
	require.Equal(t, http.StatusOK, a.do(&testutil.Manager, http.MethodPost, "/api/transfers/"+tr.ID+"/decision",
		dto.TransferDecisionRequest{Action: "approve", ApprovedQuantity: ptr(int64(12))}, &tr))
	require.Equal(t, http.StatusOK, a.do(&testutil.Warehouse, http.MethodPost, "/api/transfers/"+tr.ID+"/complete", nil, &tr))

	assert.Equal(t, "completed", tr.Status)
	assert.Equal(t, int64(12), tr.TransferredQuantity)
	assert.Equal(t, int64(18), a.f.Stock(item.ID, from.ID))
	assert.Equal(t, int64(12), a.f.Stock(item.ID, to.ID))
}

// ── otras rutas ──────────────────────────────────────────────────────────────

func TestRouter_Health(t *testing.T) {
	a := newAPI(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, a.do(nil, http.MethodGet, "/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_SinSchedulerNoHayRutas(t *testing.T) {
	a := newAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/api/scheduler/status", nil)
	req.Header.Set("Authorization", a.token(testutil.Admin))
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_PDFDeOrdenDeCompra(t *testing.T) {
	a := newAPI(t)
	item := a.f.Item("TOR-1", 10)
	wh := a.f.Warehouse("BOD01")
	sup := a.f.Supplier("acme")
	po := a.f.PurchaseOrder(item, wh, sup, 10, entity.POStatusSent)

	req := httptest.NewRequest(http.MethodGet, "/api/purchase-orders/"+po.ID+"/pdf", nil)
	req.Header.Set("Authorization", a.token(testutil.SupplierUser(sup.ID)))
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestRouter_PDFDeOtroProveedorNoSeExpone(t *testing.T) {
	a := newAPI(t)
	item := a.f.Item("TOR-1", 10)
	wh := a.f.Warehouse("BOD01")
	sup := a.f.Supplier("acme")
	other := a.f.Supplier("otro")
	po := a.f.PurchaseOrder(item, wh, sup, 10, entity.POStatusSent)

	id := testutil.SupplierUser(other.ID)
	status := a.do(&id, http.MethodGet, "/api/purchase-orders/"+po.ID+"/pdf", nil, nil)
	assert.Contains(t, []int{http.StatusForbidden, http.StatusNotFound}, status)
}
