package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// POStatus estados de una orden de compra.
type POStatus string

const (
	POStatusDraft             POStatus = "draft"
	POStatusSent              POStatus = "sent"
	POStatusAcknowledged      POStatus = "acknowledged"
	POStatusPartiallyReceived POStatus = "partially_received"
	POStatusCompleted         POStatus = "completed"
	POStatusCancelled         POStatus = "cancelled"
)

// PurchaseOrder compromiso con un proveedor por una cantidad de un ítem.
// PRID es vacío para órdenes creadas manualmente.
type PurchaseOrder struct {
	ID                   string
	Number               string
	PRID                 string
	SupplierID           string
	ItemID               string
	WarehouseID          string
	OrderedQuantity      int64
	UnitPrice            decimal.Decimal
	TotalAmount          decimal.Decimal
	ExpectedDeliveryDate *time.Time
	Status               POStatus
	Notes                string
	SupplierNotes        string
	CancelReason         string
	CreatedBy            string
	ApprovedBy           string
	SentAt               *time.Time
	RespondedAt          *time.Time
	CancelledBy          string
	CancelledAt          *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Live indica si la orden sigue en curso (no terminal).
func (po *PurchaseOrder) Live() bool {
	return po.Status != POStatusCompleted && po.Status != POStatusCancelled
}
