package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category agrupa ítems del catálogo.
type Category struct {
	ID          string
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Item representa un SKU del catálogo.
// ReorderPoint ya incorpora el stock de seguridad; no se le suma SafetyStock.
type Item struct {
	ID                  string
	SKU                 string
	Name                string
	CategoryID          string
	UnitMeasure         string
	LeadTimeDays        int
	DailyConsumption    decimal.Decimal
	SafetyStock         int64
	ReorderPoint        int64
	UnitPrice           decimal.Decimal
	Active              bool
	PreferredSupplierID string // vacío si no hay proveedor preferido
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
