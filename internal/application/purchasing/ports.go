// Package purchasing flujos de solicitud de compra (PR) y orden de compra (OC).
package purchasing

import (
	"context"

	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

// CatalogReader lecturas del catálogo que toleran consistencia eventual (precios, tiempos de entrega).
type CatalogReader interface {
	Item(ctx context.Context, s repository.Store, id string) (*entity.Item, error)
	SupplierItem(ctx context.Context, s repository.Store, supplierID, itemID string) (*entity.SupplierItem, error)
}

// PODocument datos de la representación imprimible de una OC.
type PODocument struct {
	PO        entity.PurchaseOrder
	Supplier  entity.Supplier
	Item      entity.Item
	Warehouse entity.Warehouse
}

// PurchaseOrderPDFGenerator genera el PDF imprimible de una OC.
type PurchaseOrderPDFGenerator interface {
	GeneratePurchaseOrderPDF(ctx context.Context, doc PODocument) ([]byte, error)
}
