package purchasing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
)

func decimalQty(q int64) decimal.Decimal { return decimal.NewFromInt(q) }

func toPRResponse(pr *entity.PurchaseRequest) *dto.PurchaseRequestResponse {
	return &dto.PurchaseRequestResponse{
		ID:                  pr.ID,
		Number:              pr.Number,
		ItemID:              pr.ItemID,
		WarehouseID:         pr.WarehouseID,
		Quantity:            pr.Quantity,
		PreferredSupplierID: pr.PreferredSupplierID,
		Status:              string(pr.Status),
		Source:              pr.Source,
		Notes:               pr.Notes,
		RequestedBy:         pr.RequestedBy,
		ApprovedBy:          pr.ApprovedBy,
		DecisionNotes:       pr.DecisionNotes,
		DecidedAt:           pr.DecidedAt,
		POID:                pr.POID,
		CreatedAt:           pr.CreatedAt,
		UpdatedAt:           pr.UpdatedAt,
	}
}

func toPOResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	return &dto.PurchaseOrderResponse{
		ID:                   po.ID,
		Number:               po.Number,
		PRID:                 po.PRID,
		SupplierID:           po.SupplierID,
		ItemID:               po.ItemID,
		WarehouseID:          po.WarehouseID,
		OrderedQuantity:      po.OrderedQuantity,
		UnitPrice:            po.UnitPrice,
		TotalAmount:          po.TotalAmount,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		Status:               string(po.Status),
		Notes:                po.Notes,
		SupplierNotes:        po.SupplierNotes,
		CancelReason:         po.CancelReason,
		CreatedBy:            po.CreatedBy,
		ApprovedBy:           po.ApprovedBy,
		SentAt:               po.SentAt,
		RespondedAt:          po.RespondedAt,
		CancelledBy:          po.CancelledBy,
		CancelledAt:          po.CancelledAt,
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
	}
}
