package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest entrada para crear o actualizar una categoría.
type CategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Description string `json:"description" validate:"omitempty,max=500"`
	Active      *bool  `json:"active"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateItemRequest entrada para crear un ítem.
type CreateItemRequest struct {
	SKU                 string          `json:"sku" validate:"required,min=1,max=100"`
	Name                string          `json:"name" validate:"required,min=1,max=200"`
	CategoryID          string          `json:"category_id" validate:"omitempty,uuid"`
	UnitMeasure         string          `json:"unit_measure" validate:"omitempty,max=20"`
	LeadTimeDays        int             `json:"lead_time_days" validate:"min=0"`
	DailyConsumption    decimal.Decimal `json:"daily_consumption"`
	SafetyStock         int64           `json:"safety_stock" validate:"min=0"`
	ReorderPoint        int64           `json:"reorder_point" validate:"min=0"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	PreferredSupplierID string          `json:"preferred_supplier_id" validate:"omitempty,uuid"`
}

// UpdateItemRequest entrada para actualizar un ítem (campos opcionales).
type UpdateItemRequest struct {
	Name                *string          `json:"name" validate:"omitempty,min=1,max=200"`
	CategoryID          *string          `json:"category_id" validate:"omitempty,uuid"`
	UnitMeasure         *string          `json:"unit_measure" validate:"omitempty,max=20"`
	LeadTimeDays        *int             `json:"lead_time_days" validate:"omitempty,min=0"`
	DailyConsumption    *decimal.Decimal `json:"daily_consumption"`
	SafetyStock         *int64           `json:"safety_stock" validate:"omitempty,min=0"`
	ReorderPoint        *int64           `json:"reorder_point" validate:"omitempty,min=0"`
	UnitPrice           *decimal.Decimal `json:"unit_price"`
	PreferredSupplierID *string          `json:"preferred_supplier_id" validate:"omitempty,uuid"`
	Active              *bool            `json:"active"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID                  string          `json:"id"`
	SKU                 string          `json:"sku"`
	Name                string          `json:"name"`
	CategoryID          string          `json:"category_id,omitempty"`
	UnitMeasure         string          `json:"unit_measure"`
	LeadTimeDays        int             `json:"lead_time_days"`
	DailyConsumption    decimal.Decimal `json:"daily_consumption"`
	SafetyStock         int64           `json:"safety_stock"`
	ReorderPoint        int64           `json:"reorder_point"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	Active              bool            `json:"active"`
	PreferredSupplierID string          `json:"preferred_supplier_id,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SupplierRequest entrada para crear o actualizar un proveedor.
type SupplierRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	ContactName string `json:"contact_name" validate:"omitempty,max=200"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"omitempty,max=40"`
	Active      *bool  `json:"active"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SupplierItemRequest fila del catálogo proveedor↔ítem.
type SupplierItemRequest struct {
	ItemID       string          `json:"item_id" validate:"required,uuid"`
	SupplierSKU  string          `json:"supplier_sku" validate:"omitempty,max=100"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LeadTimeDays int             `json:"lead_time_days" validate:"min=0"`
	MinOrderQty  int64           `json:"min_order_qty" validate:"min=0"`
}

// SupplierItemResponse salida de una fila del catálogo proveedor↔ítem.
type SupplierItemResponse struct {
	ID           string          `json:"id"`
	SupplierID   string          `json:"supplier_id"`
	ItemID       string          `json:"item_id"`
	SupplierSKU  string          `json:"supplier_sku"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LeadTimeDays int             `json:"lead_time_days"`
	MinOrderQty  int64           `json:"min_order_qty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Code    string `json:"code" validate:"required,min=1,max=20"`
	Name    string `json:"name" validate:"required,min=1,max=200"`
	Address string `json:"address"`
}

// UpdateWarehouseRequest entrada para actualizar una bodega.
type UpdateWarehouseRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=200"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
