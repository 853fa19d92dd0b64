package entity

import "time"

// PRStatus estados de una solicitud de compra.
type PRStatus string

const (
	PRStatusPending   PRStatus = "pending"
	PRStatusApproved  PRStatus = "approved"
	PRStatusRejected  PRStatus = "rejected"
	PRStatusConverted PRStatus = "converted"
)

// Origen de la solicitud.
const (
	PRSourceManual = "manual"
	PRSourceAuto   = "auto"
)

// PurchaseRequest solicitud interna de reposición, precursora de una OC.
type PurchaseRequest struct {
	ID                  string
	Number              string
	ItemID              string
	WarehouseID         string
	Quantity            int64
	PreferredSupplierID string
	Status              PRStatus
	Source              string
	Notes               string
	RequestedBy         string
	ApprovedBy          string
	DecisionNotes       string
	DecidedAt           *time.Time
	POID                string // OC generada a partir de esta solicitud
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
