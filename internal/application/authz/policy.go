// Package authz implementa la verificación declarativa de capacidades:
// cada operación declara como dato el conjunto de roles que puede ejecutarla.
package authz

import (
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
)

// Operation identifica una operación del flujo de reposición.
type Operation string

const (
	CatalogView   Operation = "catalog.view"
	CatalogManage Operation = "catalog.manage"
	StockView     Operation = "stock.view"
	StockManage   Operation = "stock.manage"
	DashboardView Operation = "dashboard.view"

	PRView       Operation = "purchase_request.view"
	PRCreate     Operation = "purchase_request.create"
	PRAutoCreate Operation = "purchase_request.auto_create"
	PRDecide     Operation = "purchase_request.decide"
	PREdit       Operation = "purchase_request.edit"
	PRDelete     Operation = "purchase_request.delete"
	PRConvert    Operation = "purchase_request.convert"

	POView    Operation = "purchase_order.view"
	POCreate  Operation = "purchase_order.create"
	POEdit    Operation = "purchase_order.edit"
	POSend    Operation = "purchase_order.send"
	PORespond Operation = "purchase_order.respond"
	POCancel  Operation = "purchase_order.cancel"

	GRNView   Operation = "goods_receipt.view"
	GRNCreate Operation = "goods_receipt.create"
	GRNDecide Operation = "goods_receipt.decide"

	TransferView     Operation = "transfer.view"
	TransferCreate   Operation = "transfer.create"
	TransferSubmit   Operation = "transfer.submit"
	TransferDecide   Operation = "transfer.decide"
	TransferComplete Operation = "transfer.complete"
	TransferCancel   Operation = "transfer.cancel"

	SchedulerManage Operation = "scheduler.manage"
	UserManage      Operation = "user.manage"
)

// Policy asocia cada operación con los roles que la pueden ejecutar.
type Policy map[Operation][]entity.Role

const (
	admin     = entity.RoleAdmin
	manager   = entity.RoleManager
	warehouse = entity.RoleWarehouse
	supplier  = entity.RoleSupplier
	system    = entity.RoleSystem
)

// DefaultPolicy matriz de roles del sistema. El rol supplier además queda
// restringido a las órdenes de su propio proveedor (ver RequireSupplier).
var DefaultPolicy = Policy{
	CatalogView:   {admin, manager, warehouse, supplier},
	CatalogManage: {admin, manager},
	StockView:     {admin, manager, warehouse, system},
	StockManage:   {admin, manager},
	DashboardView: {admin, manager, warehouse},

	PRView:       {admin, manager, warehouse},
	PRCreate:     {manager, admin},
	PRAutoCreate: {system, admin, manager},
	PRDecide:     {manager, admin},
	PREdit:       {manager, admin},
	PRDelete:     {manager, admin},
	PRConvert:    {manager, admin},

	POView:    {admin, manager, warehouse, supplier},
	POCreate:  {admin, manager},
	POEdit:    {admin, manager},
	POSend:    {admin},
	PORespond: {supplier},
	POCancel:  {admin},

	GRNView:   {admin, manager, warehouse},
	GRNCreate: {warehouse},
	GRNDecide: {manager},

	TransferView:     {admin, manager, warehouse},
	TransferCreate:   {admin, manager, warehouse},
	TransferSubmit:   {admin, manager, warehouse},
	TransferDecide:   {manager, admin},
	TransferComplete: {warehouse, admin},
	TransferCancel:   {admin, manager, warehouse},

	SchedulerManage: {admin, manager},
	UserManage:      {admin},
}

// Gate verifica identidades contra una Policy.
type Gate struct {
	policy Policy
}

// NewGate construye el gate; con nil usa DefaultPolicy.
func NewGate(p Policy) *Gate {
	if p == nil {
		p = DefaultPolicy
	}
	return &Gate{policy: p}
}

// Allowed indica si el rol puede ejecutar la operación. Operaciones no declaradas se niegan.
func (g *Gate) Allowed(role entity.Role, op Operation) bool {
	for _, r := range g.policy[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Check devuelve domain.ErrAccessDenied si la identidad no puede ejecutar op.
func (g *Gate) Check(id entity.Identity, op Operation) error {
	if id.UserID == "" {
		return domain.ErrUnauthorized
	}
	if !g.Allowed(id.Role, op) {
		return &domain.Error{Kind: domain.ErrAccessDenied, Entity: string(op), Message: "rol " + string(id.Role) + " sin permiso"}
	}
	return nil
}

// RequireSupplier exige que una identidad supplier pertenezca al proveedor dado.
// Las identidades de otros roles pasan sin restricción.
func RequireSupplier(id entity.Identity, supplierID string) error {
	if id.Role != entity.RoleSupplier {
		return nil
	}
	if id.SupplierID == "" || id.SupplierID != supplierID {
		return &domain.Error{Kind: domain.ErrAccessDenied, Entity: "purchase_order", Message: "la orden pertenece a otro proveedor"}
	}
	return nil
}
