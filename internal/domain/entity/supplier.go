package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supplier representa un proveedor.
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	Email       string
	Phone       string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SupplierItem es una fila del catálogo proveedor↔ítem (precio y tiempo de entrega).
// Único por (SupplierID, ItemID).
type SupplierItem struct {
	ID           string
	SupplierID   string
	ItemID       string
	SupplierSKU  string
	UnitPrice    decimal.Decimal
	LeadTimeDays int
	MinOrderQty  int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
