// Package receiving flujo de la nota de recepción (GRN): registro físico contra una OC
// confirmada y decisión del gerente, que es la única que acredita stock por compras.
package receiving

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/events"
	"github.com/jhoicas/replenishment-api/internal/application/ledger"
	"github.com/jhoicas/replenishment-api/internal/application/notify"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/jhoicas/replenishment-api/internal/domain/workflow"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// GoodsReceiptUseCase orquesta recepciones.
type GoodsReceiptUseCase struct {
	tx       repository.TxRunner
	gate     *authz.Gate
	ledger   *ledger.Ledger
	notifier notify.Notifier
	events   events.Publisher
	log      *logger.Logger
	now      func() time.Time
}

// NewGoodsReceiptUseCase construye el caso de uso.
func NewGoodsReceiptUseCase(tx repository.TxRunner, gate *authz.Gate, l *ledger.Ledger,
	notifier notify.Notifier, pub events.Publisher, log *logger.Logger) *GoodsReceiptUseCase {
	return &GoodsReceiptUseCase{tx: tx, gate: gate, ledger: l, notifier: notifier, events: pub, log: log, now: time.Now}
}

// Create registra la recepción de una OC acknowledged y la pasa a partially_received.
// El aviso al gerente es best-effort y se emite después del commit.
func (uc *GoodsReceiptUseCase) Create(ctx context.Context, id entity.Identity, in dto.CreateGoodsReceiptRequest) (*dto.GoodsReceiptResponse, error) {
	if err := uc.gate.Check(id, authz.GRNCreate); err != nil {
		return nil, err
	}
	var (
		grn *entity.GoodsReceipt
		po  *entity.PurchaseOrder
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if po, err = s.PurchaseOrders().GetForUpdate(ctx, in.POID); err != nil {
			return err
		}
		if po == nil {
			return domain.NotFound("purchase_order", in.POID)
		}
		if existing, err := s.GoodsReceipts().GetByPO(ctx, po.ID); err != nil {
			return err
		} else if existing != nil {
			return domain.FieldError(domain.ErrDuplicateGRN, "goods_receipt", "po_id", "la orden ya tiene la recepción "+existing.Number)
		}
		next, err := workflow.PurchaseOrder.Next(po.Status, workflow.ActionReceive)
		if err != nil {
			return err
		}
		if in.QuantityReceived < 1 || in.QuantityReceived > po.OrderedQuantity {
			return domain.FieldError(domain.ErrInvalidQuantity, "goods_receipt", "quantity_received",
				fmt.Sprintf("debe estar entre 1 y %d", po.OrderedQuantity))
		}
		n, err := s.Sequences().Next(ctx, entity.SequenceGRN)
		if err != nil {
			return err
		}
		now := uc.now()
		grn = &entity.GoodsReceipt{
			ID:               uuid.New().String(),
			Number:           entity.DocumentNumber(entity.SequenceGRN, n),
			POID:             po.ID,
			ItemID:           po.ItemID,
			WarehouseID:      po.WarehouseID,
			QuantityOrdered:  po.OrderedQuantity,
			QuantityReceived: in.QuantityReceived,
			BatchNumber:      in.BatchNumber,
			ExpiryDate:       in.ExpiryDate,
			ReceivedBy:       id.UserID,
			Status:           entity.GRNStatusPending,
			Notes:            entity.AuditLine(now, id, "received", in.Notes),
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.GoodsReceipts().Create(ctx, grn); err != nil {
			return err
		}
		po.Status = next
		po.UpdatedAt = now
		return s.PurchaseOrders().Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, string(entity.RoleManager), "Recepción pendiente de aprobación "+grn.Number,
		fmt.Sprintf("La recepción %s de la orden %s registra %d de %d unidades y requiere aprobación.",
			grn.Number, po.Number, grn.QuantityReceived, grn.QuantityOrdered))
	uc.events.Publish(ctx, events.Event{
		Name: events.GoodsReceiptCreated, AggregateID: grn.ID, ItemID: grn.ItemID,
		WarehouseID: grn.WarehouseID, Quantity: grn.QuantityReceived, OccurredAt: grn.CreatedAt,
	})
	return toResponse(grn), nil
}

// Decide aprueba o rechaza una recepción pending. Solo el gerente.
// Aprobar acredita quantityReceived en el libro de stock (creando la ubicación si falta)
// y completa la OC; rechazar cancela la OC sin tocar stock. Una segunda decisión
// devuelve domain.ErrAlreadyDecided.
func (uc *GoodsReceiptUseCase) Decide(ctx context.Context, id entity.Identity, grnID string, in dto.DecisionRequest) (*dto.GoodsReceiptResponse, error) {
	if err := uc.gate.Check(id, authz.GRNDecide); err != nil {
		return nil, err
	}
	var action, poAction workflow.Action
	switch in.Action {
	case "approve":
		action, poAction = workflow.ActionApprove, workflow.ActionComplete
	case "reject":
		action, poAction = workflow.ActionReject, workflow.ActionReceiptRejected
	default:
		return nil, domain.FieldError(domain.ErrValidation, "goods_receipt", "action", "debe ser approve o reject")
	}
	var (
		grn      *entity.GoodsReceipt
		newStock int64
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if grn, err = s.GoodsReceipts().GetForUpdate(ctx, grnID); err != nil {
			return err
		}
		if grn == nil {
			return domain.NotFound("goods_receipt", grnID)
		}
		next, err := workflow.GoodsReceipt.Next(grn.Status, action)
		if err != nil {
			return err
		}
		po, err := s.PurchaseOrders().GetForUpdate(ctx, grn.POID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.NotFound("purchase_order", grn.POID)
		}
		poNext, err := workflow.PurchaseOrder.Next(po.Status, poAction)
		if err != nil {
			return err
		}
		now := uc.now()
		grn.Notes += entity.AuditLine(now, id, in.Action, in.Notes)
		grn.Status = next
		grn.UpdatedAt = now
		if action == workflow.ActionApprove {
			grn.ApprovedBy = id.UserID
			grn.ApprovedAt = &now
			if newStock, err = uc.ledger.Credit(ctx, s, grn.ItemID, grn.WarehouseID, grn.QuantityReceived); err != nil {
				return err
			}
		}
		if err := s.GoodsReceipts().Update(ctx, grn); err != nil {
			return err
		}
		po.Status = poNext
		po.UpdatedAt = now
		return s.PurchaseOrders().Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	if action == workflow.ActionApprove {
		uc.log.Info().Str("grn_id", grn.ID).Str("item_id", grn.ItemID).Str("warehouse_id", grn.WarehouseID).
			Int64("quantity", grn.QuantityReceived).Int64("current_stock", newStock).Msg("recepción aprobada")
		uc.events.Publish(ctx, events.Event{
			Name: events.GoodsReceiptApproved, AggregateID: grn.ID, ItemID: grn.ItemID,
			WarehouseID: grn.WarehouseID, Quantity: grn.QuantityReceived, OccurredAt: grn.UpdatedAt,
		})
	}
	return toResponse(grn), nil
}

// Approve atajo de Decide con approve.
func (uc *GoodsReceiptUseCase) Approve(ctx context.Context, id entity.Identity, grnID, notes string) (*dto.GoodsReceiptResponse, error) {
	return uc.Decide(ctx, id, grnID, dto.DecisionRequest{Action: "approve", Notes: notes})
}

// Reject atajo de Decide con reject.
func (uc *GoodsReceiptUseCase) Reject(ctx context.Context, id entity.Identity, grnID, notes string) (*dto.GoodsReceiptResponse, error) {
	return uc.Decide(ctx, id, grnID, dto.DecisionRequest{Action: "reject", Notes: notes})
}

// Get obtiene una recepción.
func (uc *GoodsReceiptUseCase) Get(ctx context.Context, id entity.Identity, grnID string) (*dto.GoodsReceiptResponse, error) {
	if err := uc.gate.Check(id, authz.GRNView); err != nil {
		return nil, err
	}
	var grn *entity.GoodsReceipt
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		grn, err = s.GoodsReceipts().GetByID(ctx, grnID)
		if err == nil && grn == nil {
			err = domain.NotFound("goods_receipt", grnID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return toResponse(grn), nil
}

// List lista recepciones con filtros.
func (uc *GoodsReceiptUseCase) List(ctx context.Context, id entity.Identity, in dto.DocumentListRequest) (*dto.GoodsReceiptListResponse, error) {
	if err := uc.gate.Check(id, authz.GRNView); err != nil {
		return nil, err
	}
	in.DefaultPage()
	out := &dto.GoodsReceiptListResponse{Items: []dto.GoodsReceiptResponse{}, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		list, err := s.GoodsReceipts().List(ctx, repository.ListFilter{
			Status: in.Status, ItemID: in.ItemID, WarehouseID: in.WarehouseID, Limit: in.Limit, Offset: in.Offset,
		})
		for _, g := range list {
			out.Items = append(out.Items, *toResponse(g))
		}
		return err
	})
	return out, err
}

func toResponse(g *entity.GoodsReceipt) *dto.GoodsReceiptResponse {
	return &dto.GoodsReceiptResponse{
		ID:               g.ID,
		Number:           g.Number,
		POID:             g.POID,
		ItemID:           g.ItemID,
		WarehouseID:      g.WarehouseID,
		QuantityOrdered:  g.QuantityOrdered,
		QuantityReceived: g.QuantityReceived,
		BatchNumber:      g.BatchNumber,
		ExpiryDate:       g.ExpiryDate,
		ReceivedBy:       g.ReceivedBy,
		Status:           string(g.Status),
		ApprovedBy:       g.ApprovedBy,
		ApprovedAt:       g.ApprovedAt,
		Notes:            g.Notes,
		CreatedAt:        g.CreatedAt,
		UpdatedAt:        g.UpdatedAt,
	}
}
