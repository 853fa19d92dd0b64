package entity

import (
	"fmt"
	"strings"
	"time"
)

// GRNStatus estados de una nota de recepción.
type GRNStatus string

const (
	GRNStatusPending  GRNStatus = "pending"
	GRNStatusApproved GRNStatus = "approved"
	GRNStatusRejected GRNStatus = "rejected"
)

// GoodsReceipt registro de la recepción física contra una OC (una por OC).
// Notes es un registro de auditoría que solo crece; nunca se sobrescribe.
type GoodsReceipt struct {
	ID               string
	Number           string
	POID             string
	ItemID           string
	WarehouseID      string
	QuantityOrdered  int64
	QuantityReceived int64
	BatchNumber      string
	ExpiryDate       *time.Time
	ReceivedBy       string
	Status           GRNStatus
	ApprovedBy       string
	ApprovedAt       *time.Time
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AuditLine una línea del registro de auditoría de la recepción.
func AuditLine(at time.Time, id Identity, action, notes string) string {
	line := fmt.Sprintf("[%s] %s (%s) %s", at.UTC().Format(time.RFC3339), id.UserID, id.Role, action)
	if notes = strings.TrimSpace(notes); notes != "" {
		line += ": " + notes
	}
	return line + "\n"
}
