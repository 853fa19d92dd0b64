package entity

import "time"

// TransferStatus estados de una orden de traslado.
type TransferStatus string

const (
	TransferStatusDraft     TransferStatus = "draft"
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusApproved  TransferStatus = "approved"
	TransferStatusRejected  TransferStatus = "rejected"
	TransferStatusCompleted TransferStatus = "completed"
	TransferStatusCancelled TransferStatus = "cancelled"
)

// TransferPriority prioridad del traslado.
type TransferPriority string

const (
	PriorityLow    TransferPriority = "low"
	PriorityMedium TransferPriority = "medium"
	PriorityHigh   TransferPriority = "high"
	PriorityUrgent TransferPriority = "urgent"
)

// Valid indica si la prioridad es conocida.
func (p TransferPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// TransferOrder movimiento de stock entre dos bodegas.
// TransferNumber se asigna una sola vez al crear y es inmutable.
type TransferOrder struct {
	ID                  string
	TransferNumber      string
	FromWarehouseID     string
	ToWarehouseID       string
	ItemID              string
	RequestedQuantity   int64
	ApprovedQuantity    int64
	TransferredQuantity int64
	Status              TransferStatus
	Priority            TransferPriority
	Reason              string
	Notes               string
	RequestedBy         string
	RequestedAt         time.Time
	ApprovedBy          string
	ApprovedAt          *time.Time
	CompletedBy         string
	CompletedAt         *time.Time
	CancelledBy         string
	CancelledAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
