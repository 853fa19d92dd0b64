package dto

import (
	"time"

	"github.com/jhoicas/replenishment-api/internal/domain/inventory"
)

// CreateStockLocationRequest alta de una ubicación (par ítem, bodega) con saldo inicial opcional.
type CreateStockLocationRequest struct {
	ItemID       string `json:"item_id" validate:"required,uuid"`
	WarehouseID  string `json:"warehouse_id" validate:"required,uuid"`
	Aisle        string `json:"aisle" validate:"omitempty,max=20"`
	Rack         string `json:"rack" validate:"omitempty,max=20"`
	Bin          string `json:"bin" validate:"omitempty,max=20"`
	CurrentStock int64  `json:"current_stock" validate:"min=0"`
	MinStock     *int64 `json:"min_stock" validate:"omitempty,min=0"`
	MaxStock     *int64 `json:"max_stock" validate:"omitempty,min=1"`
}

// UpdateStockLocationRequest cambia ubicación física y umbrales; nunca la cantidad.
type UpdateStockLocationRequest struct {
	Aisle    *string `json:"aisle" validate:"omitempty,max=20"`
	Rack     *string `json:"rack" validate:"omitempty,max=20"`
	Bin      *string `json:"bin" validate:"omitempty,max=20"`
	MinStock *int64  `json:"min_stock" validate:"omitempty,min=0"`
	MaxStock *int64  `json:"max_stock" validate:"omitempty,min=1"`
}

// StockLocationResponse salida de una ubicación del libro de stock.
type StockLocationResponse struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	WarehouseID  string    `json:"warehouse_id"`
	Aisle        string    `json:"aisle"`
	Rack         string    `json:"rack"`
	Bin          string    `json:"bin"`
	LocationCode string    `json:"location_code"`
	CurrentStock int64     `json:"current_stock"`
	MinStock     int64     `json:"min_stock"`
	MaxStock     int64     `json:"max_stock"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockQueryResponse cantidad actual de un par (ítem, bodega).
type StockQueryResponse struct {
	ItemID       string `json:"item_id"`
	WarehouseID  string `json:"warehouse_id"`
	CurrentStock int64  `json:"current_stock"`
}

// AssessmentResponse evaluación del planificador para una ubicación.
type AssessmentResponse struct {
	LocationID          string            `json:"location_id"`
	ItemID              string            `json:"item_id"`
	WarehouseID         string            `json:"warehouse_id"`
	SKU                 string            `json:"sku"`
	ItemName            string            `json:"item_name"`
	LocationCode        string            `json:"location_code"`
	CurrentStock        int64             `json:"current_stock"`
	MinStock            int64             `json:"min_stock"`
	MaxStock            int64             `json:"max_stock"`
	ReorderPoint        int64             `json:"reorder_point"`
	EffectiveMinimum    int64             `json:"effective_minimum"`
	Urgency             inventory.Urgency `json:"urgency"`
	SuggestedQuantity   int64             `json:"suggested_quantity"`
	PreferredSupplierID string            `json:"preferred_supplier_id,omitempty"`
}

// LowStockResponse tablero de reposición: evaluaciones bajo mínimo y resumen por urgencia.
type LowStockResponse struct {
	Items   []AssessmentResponse `json:"items"`
	Summary inventory.Summary    `json:"summary"`
}

// StockQueryRequest consulta de cantidad por par (ítem, bodega).
type StockQueryRequest struct {
	ItemID      string `query:"item_id" validate:"required,uuid"`
	WarehouseID string `query:"warehouse_id" validate:"required,uuid"`
}
