package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequestRequest alta manual de una solicitud de compra.
type CreatePurchaseRequestRequest struct {
	ItemID              string `json:"item_id" validate:"required,uuid"`
	WarehouseID         string `json:"warehouse_id" validate:"required,uuid"`
	Quantity            int64  `json:"quantity" validate:"required,min=1"`
	PreferredSupplierID string `json:"preferred_supplier_id" validate:"omitempty,uuid"`
	Notes               string `json:"notes" validate:"omitempty,max=1000"`
}

// UpdatePurchaseRequestRequest edición de una solicitud pendiente.
type UpdatePurchaseRequestRequest struct {
	Quantity            *int64  `json:"quantity" validate:"omitempty,min=1"`
	PreferredSupplierID *string `json:"preferred_supplier_id" validate:"omitempty,uuid"`
	Notes               *string `json:"notes" validate:"omitempty,max=1000"`
}

// PurchaseRequestResponse salida de una solicitud de compra.
type PurchaseRequestResponse struct {
	ID                  string     `json:"id"`
	Number              string     `json:"number"`
	ItemID              string     `json:"item_id"`
	WarehouseID         string     `json:"warehouse_id"`
	Quantity            int64      `json:"quantity"`
	PreferredSupplierID string     `json:"preferred_supplier_id,omitempty"`
	Status              string     `json:"status"`
	Source              string     `json:"source"`
	Notes               string     `json:"notes"`
	RequestedBy         string     `json:"requested_by"`
	ApprovedBy          string     `json:"approved_by,omitempty"`
	DecisionNotes       string     `json:"decision_notes,omitempty"`
	DecidedAt           *time.Time `json:"decided_at,omitempty"`
	POID                string     `json:"po_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// PurchaseRequestListResponse lista paginada de solicitudes.
type PurchaseRequestListResponse struct {
	Items []PurchaseRequestResponse `json:"items"`
	Page  PageResponse              `json:"page"`
}

// AutoCreateResponse resultado de una corrida de creación automática.
type AutoCreateResponse struct {
	Evaluated int                       `json:"evaluated"`
	LowStock  int                       `json:"low_stock"`
	Skipped   int                       `json:"skipped"`
	Created   []PurchaseRequestResponse `json:"created"`
}

// ConvertPurchaseRequestRequest términos de la OC generada desde una solicitud aprobada.
// UnitPrice y ExpectedDeliveryDate son opcionales; sin ellos se usan catálogo y tiempo de entrega.
type ConvertPurchaseRequestRequest struct {
	SupplierID           string           `json:"supplier_id" validate:"omitempty,uuid"`
	UnitPrice            *decimal.Decimal `json:"unit_price"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	Notes                string           `json:"notes" validate:"omitempty,max=1000"`
}

// CreatePurchaseOrderRequest alta manual de una OC (sin solicitud).
type CreatePurchaseOrderRequest struct {
	SupplierID           string           `json:"supplier_id" validate:"required,uuid"`
	ItemID               string           `json:"item_id" validate:"required,uuid"`
	WarehouseID          string           `json:"warehouse_id" validate:"required,uuid"`
	Quantity             int64            `json:"quantity" validate:"required,min=1"`
	UnitPrice            *decimal.Decimal `json:"unit_price"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	Notes                string           `json:"notes" validate:"omitempty,max=1000"`
}

// UpdatePurchaseOrderRequest edición de cantidad/precio, solo en draft o sent.
type UpdatePurchaseOrderRequest struct {
	Quantity             *int64           `json:"quantity" validate:"omitempty,min=1"`
	UnitPrice            *decimal.Decimal `json:"unit_price"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date"`
	Notes                *string          `json:"notes" validate:"omitempty,max=1000"`
}

// SupplierResponseRequest respuesta del proveedor a una OC enviada.
type SupplierResponseRequest struct {
	Action string `json:"action" validate:"required,oneof=acknowledge decline"`
	Notes  string `json:"notes" validate:"omitempty,max=1000"`
}

// CancelPurchaseOrderRequest cancelación administrativa.
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=1000"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID                   string          `json:"id"`
	Number               string          `json:"number"`
	PRID                 string          `json:"pr_id,omitempty"`
	SupplierID           string          `json:"supplier_id"`
	ItemID               string          `json:"item_id"`
	WarehouseID          string          `json:"warehouse_id"`
	OrderedQuantity      int64           `json:"ordered_quantity"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	ExpectedDeliveryDate *time.Time      `json:"expected_delivery_date,omitempty"`
	Status               string          `json:"status"`
	Notes                string          `json:"notes"`
	SupplierNotes        string          `json:"supplier_notes,omitempty"`
	CancelReason         string          `json:"cancel_reason,omitempty"`
	CreatedBy            string          `json:"created_by"`
	ApprovedBy           string          `json:"approved_by,omitempty"`
	SentAt               *time.Time      `json:"sent_at,omitempty"`
	RespondedAt          *time.Time      `json:"responded_at,omitempty"`
	CancelledBy          string          `json:"cancelled_by,omitempty"`
	CancelledAt          *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes de compra.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
