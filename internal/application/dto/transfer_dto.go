package dto

import "time"

// CreateTransferRequest solicitud de traslado entre bodegas.
// Con Draft=true el traslado queda en borrador hasta que se envíe.
type CreateTransferRequest struct {
	FromWarehouseID   string `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID     string `json:"to_warehouse_id" validate:"required,uuid,nefield=FromWarehouseID"`
	ItemID            string `json:"item_id" validate:"required,uuid"`
	RequestedQuantity int64  `json:"requested_quantity" validate:"required,min=1"`
	Priority          string `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Reason            string `json:"reason" validate:"omitempty,max=500"`
	Notes             string `json:"notes" validate:"omitempty,max=1000"`
	Draft             bool   `json:"draft"`
}

// TransferDecisionRequest decisión del gerente; ApprovedQuantity por defecto es la solicitada.
type TransferDecisionRequest struct {
	Action           string `json:"action" validate:"required,oneof=approve reject"`
	ApprovedQuantity *int64 `json:"approved_quantity" validate:"omitempty,min=1"`
	Notes            string `json:"notes" validate:"omitempty,max=1000"`
}

// CompleteTransferRequest confirmación del movimiento físico; por defecto se traslada lo aprobado.
type CompleteTransferRequest struct {
	TransferredQuantity *int64 `json:"transferred_quantity" validate:"omitempty,min=1"`
	Notes               string `json:"notes" validate:"omitempty,max=1000"`
}

// TransferResponse salida de un traslado.
type TransferResponse struct {
	ID                  string     `json:"id"`
	TransferNumber      string     `json:"transfer_number"`
	FromWarehouseID     string     `json:"from_warehouse_id"`
	ToWarehouseID       string     `json:"to_warehouse_id"`
	ItemID              string     `json:"item_id"`
	RequestedQuantity   int64      `json:"requested_quantity"`
	ApprovedQuantity    int64      `json:"approved_quantity"`
	TransferredQuantity int64      `json:"transferred_quantity"`
	Status              string     `json:"status"`
	Priority            string     `json:"priority"`
	Reason              string     `json:"reason,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	RequestedBy         string     `json:"requested_by"`
	RequestedAt         time.Time  `json:"requested_at"`
	ApprovedBy          string     `json:"approved_by,omitempty"`
	ApprovedAt          *time.Time `json:"approved_at,omitempty"`
	CompletedBy         string     `json:"completed_by,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	CancelledBy         string     `json:"cancelled_by,omitempty"`
	CancelledAt         *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// TransferListResponse lista paginada de traslados.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
