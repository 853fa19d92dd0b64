package dto

import "time"

// CreateGoodsReceiptRequest registro de la recepción física contra una OC confirmada.
type CreateGoodsReceiptRequest struct {
	POID             string     `json:"po_id" validate:"required,uuid"`
	QuantityReceived int64      `json:"quantity_received" validate:"required,min=1"`
	BatchNumber      string     `json:"batch_number" validate:"omitempty,max=100"`
	ExpiryDate       *time.Time `json:"expiry_date"`
	Notes            string     `json:"notes" validate:"omitempty,max=1000"`
}

// GoodsReceiptResponse salida de una recepción.
type GoodsReceiptResponse struct {
	ID               string     `json:"id"`
	Number           string     `json:"number"`
	POID             string     `json:"po_id"`
	ItemID           string     `json:"item_id"`
	WarehouseID      string     `json:"warehouse_id"`
	QuantityOrdered  int64      `json:"quantity_ordered"`
	QuantityReceived int64      `json:"quantity_received"`
	BatchNumber      string     `json:"batch_number,omitempty"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	ReceivedBy       string     `json:"received_by"`
	Status           string     `json:"status"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	Notes            string     `json:"notes"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// GoodsReceiptListResponse lista paginada de recepciones.
type GoodsReceiptListResponse struct {
	Items []GoodsReceiptResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
