// Package transfer flujo de traslados entre bodegas, independiente de la cadena de compras.
package transfer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/events"
	"github.com/jhoicas/replenishment-api/internal/application/ledger"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/jhoicas/replenishment-api/internal/domain/workflow"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// TransferUseCase orquesta traslados.
type TransferUseCase struct {
	tx     repository.TxRunner
	gate   *authz.Gate
	ledger *ledger.Ledger
	events events.Publisher
	log    *logger.Logger
	now    func() time.Time
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(tx repository.TxRunner, gate *authz.Gate, l *ledger.Ledger, pub events.Publisher, log *logger.Logger) *TransferUseCase {
	return &TransferUseCase{tx: tx, gate: gate, ledger: l, events: pub, log: log, now: time.Now}
}

// Create registra el traslado con su número TO definitivo. Queda pending, o draft si se pide.
func (uc *TransferUseCase) Create(ctx context.Context, id entity.Identity, in dto.CreateTransferRequest) (*dto.TransferResponse, error) {
	if err := uc.gate.Check(id, authz.TransferCreate); err != nil {
		return nil, err
	}
	if in.RequestedQuantity < 1 {
		return nil, domain.FieldError(domain.ErrInvalidQuantity, "transfer_order", "requested_quantity", "debe ser al menos 1")
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, domain.FieldError(domain.ErrValidation, "transfer_order", "to_warehouse_id", "origen y destino deben ser distintos")
	}
	priority := entity.PriorityMedium
	if in.Priority != "" {
		priority = entity.TransferPriority(strings.ToLower(in.Priority))
		if !priority.Valid() {
			return nil, domain.FieldError(domain.ErrValidation, "transfer_order", "priority", "debe ser low, medium, high o urgent")
		}
	}
	status := entity.TransferStatusPending
	if in.Draft {
		status = entity.TransferStatusDraft
	}
	var to *entity.TransferOrder
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		for _, whID := range []string{in.FromWarehouseID, in.ToWarehouseID} {
			w, err := s.Warehouses().GetByID(ctx, whID)
			if err != nil {
				return err
			}
			if w == nil {
				return domain.NotFound("warehouse", whID)
			}
		}
		it, err := s.Items().GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if it == nil {
			return domain.NotFound("item", in.ItemID)
		}
		n, err := s.Sequences().Next(ctx, entity.SequenceTransfer)
		if err != nil {
			return err
		}
		now := uc.now()
		to = &entity.TransferOrder{
			ID:                uuid.New().String(),
			TransferNumber:    entity.DocumentNumber(entity.SequenceTransfer, n),
			FromWarehouseID:   in.FromWarehouseID,
			ToWarehouseID:     in.ToWarehouseID,
			ItemID:            in.ItemID,
			RequestedQuantity: in.RequestedQuantity,
			Status:            status,
			Priority:          priority,
			Reason:            in.Reason,
			Notes:             in.Notes,
			RequestedBy:       id.UserID,
			RequestedAt:       now,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		return s.Transfers().Create(ctx, to)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(to), nil
}

// Submit envía un borrador a aprobación: draft → pending.
func (uc *TransferUseCase) Submit(ctx context.Context, id entity.Identity, transferID string) (*dto.TransferResponse, error) {
	if err := uc.gate.Check(id, authz.TransferSubmit); err != nil {
		return nil, err
	}
	return uc.transition(ctx, transferID, func(to *entity.TransferOrder, now time.Time) error {
		if id.Role == entity.RoleWarehouse && to.RequestedBy != id.UserID {
			return &domain.Error{Kind: domain.ErrAccessDenied, Entity: "transfer_order", Message: "solo el solicitante envía el borrador"}
		}
		next, err := workflow.Transfer.Next(to.Status, workflow.ActionSubmit)
		if err != nil {
			return err
		}
		to.Status = next
		return nil
	})
}

// Decide aprobación o rechazo del gerente. La cantidad aprobada por defecto es la solicitada
// y no puede superarla.
func (uc *TransferUseCase) Decide(ctx context.Context, id entity.Identity, transferID string, in dto.TransferDecisionRequest) (*dto.TransferResponse, error) {
	if err := uc.gate.Check(id, authz.TransferDecide); err != nil {
		return nil, err
	}
	var action workflow.Action
	switch in.Action {
	case "approve":
		action = workflow.ActionApprove
	case "reject":
		action = workflow.ActionReject
	default:
		return nil, domain.FieldError(domain.ErrValidation, "transfer_order", "action", "debe ser approve o reject")
	}
	return uc.transition(ctx, transferID, func(to *entity.TransferOrder, now time.Time) error {
		next, err := workflow.Transfer.Next(to.Status, action)
		if err != nil {
			return err
		}
		if action == workflow.ActionApprove {
			approved := to.RequestedQuantity
			if in.ApprovedQuantity != nil {
				approved = *in.ApprovedQuantity
			}
			if approved < 1 || approved > to.RequestedQuantity {
				return domain.FieldError(domain.ErrInvalidQuantity, "transfer_order", "approved_quantity", "debe estar entre 1 y la cantidad solicitada")
			}
			to.ApprovedQuantity = approved
		}
		to.Status = next
		to.ApprovedBy = id.UserID
		to.ApprovedAt = &now
		to.Notes = appendNote(to.Notes, in.Notes)
		return nil
	})
}

// Complete confirma el movimiento físico: debita origen y acredita destino en la misma transacción.
// Si el origen no alcanza devuelve domain.ErrInsufficientStock y nada cambia.
func (uc *TransferUseCase) Complete(ctx context.Context, id entity.Identity, transferID string, in dto.CompleteTransferRequest) (*dto.TransferResponse, error) {
	if err := uc.gate.Check(id, authz.TransferComplete); err != nil {
		return nil, err
	}
	var to *entity.TransferOrder
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if to, err = lock(ctx, s, transferID); err != nil {
			return err
		}
		next, err := workflow.Transfer.Next(to.Status, workflow.ActionComplete)
		if err != nil {
			return err
		}
		qty := to.ApprovedQuantity
		if in.TransferredQuantity != nil {
			qty = *in.TransferredQuantity
		}
		if qty < 1 || qty > to.ApprovedQuantity {
			return domain.FieldError(domain.ErrInvalidQuantity, "transfer_order", "transferred_quantity", "no puede superar la cantidad aprobada")
		}
		if err := uc.ledger.Move(ctx, s, to.ItemID, to.FromWarehouseID, to.ToWarehouseID, qty); err != nil {
			return err
		}
		now := uc.now()
		to.Status = next
		to.TransferredQuantity = qty
		to.CompletedBy = id.UserID
		to.CompletedAt = &now
		to.Notes = appendNote(to.Notes, in.Notes)
		to.UpdatedAt = now
		return s.Transfers().Update(ctx, to)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", to.ID).Str("number", to.TransferNumber).Int64("quantity", to.TransferredQuantity).Msg("traslado completado")
	uc.events.Publish(ctx, events.Event{
		Name: events.TransferCompleted, AggregateID: to.ID, ItemID: to.ItemID,
		WarehouseID: to.FromWarehouseID, Quantity: to.TransferredQuantity, OccurredAt: to.UpdatedAt,
	})
	return toResponse(to), nil
}

// Cancel desde draft, pending o approved. Un usuario de bodega solo cancela sus propios traslados.
func (uc *TransferUseCase) Cancel(ctx context.Context, id entity.Identity, transferID, notes string) (*dto.TransferResponse, error) {
	if err := uc.gate.Check(id, authz.TransferCancel); err != nil {
		return nil, err
	}
	return uc.transition(ctx, transferID, func(to *entity.TransferOrder, now time.Time) error {
		if id.Role == entity.RoleWarehouse && to.RequestedBy != id.UserID {
			return &domain.Error{Kind: domain.ErrAccessDenied, Entity: "transfer_order", Message: "solo el solicitante, un gerente o un administrador cancelan"}
		}
		next, err := workflow.Transfer.Next(to.Status, workflow.ActionCancel)
		if err != nil {
			return err
		}
		to.Status = next
		to.CancelledBy = id.UserID
		to.CancelledAt = &now
		to.Notes = appendNote(to.Notes, notes)
		return nil
	})
}

// Get obtiene un traslado.
func (uc *TransferUseCase) Get(ctx context.Context, id entity.Identity, transferID string) (*dto.TransferResponse, error) {
	if err := uc.gate.Check(id, authz.TransferView); err != nil {
		return nil, err
	}
	var to *entity.TransferOrder
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		to, err = s.Transfers().GetByID(ctx, transferID)
		if err == nil && to == nil {
			err = domain.NotFound("transfer_order", transferID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return toResponse(to), nil
}

// List lista traslados; el filtro de bodega aplica a origen o destino.
func (uc *TransferUseCase) List(ctx context.Context, id entity.Identity, in dto.DocumentListRequest) (*dto.TransferListResponse, error) {
	if err := uc.gate.Check(id, authz.TransferView); err != nil {
		return nil, err
	}
	in.DefaultPage()
	out := &dto.TransferListResponse{Items: []dto.TransferResponse{}, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		list, err := s.Transfers().List(ctx, repository.ListFilter{
			Status: in.Status, ItemID: in.ItemID, WarehouseID: in.WarehouseID, Limit: in.Limit, Offset: in.Offset,
		})
		for _, to := range list {
			out.Items = append(out.Items, *toResponse(to))
		}
		return err
	})
	return out, err
}

// transition bloquea el traslado, aplica fn y persiste.
func (uc *TransferUseCase) transition(ctx context.Context, transferID string, fn func(to *entity.TransferOrder, now time.Time) error) (*dto.TransferResponse, error) {
	var to *entity.TransferOrder
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if to, err = lock(ctx, s, transferID); err != nil {
			return err
		}
		now := uc.now()
		if err := fn(to, now); err != nil {
			return err
		}
		to.UpdatedAt = now
		return s.Transfers().Update(ctx, to)
	})
	if err != nil {
		return nil, err
	}
	return toResponse(to), nil
}

func lock(ctx context.Context, s repository.Store, transferID string) (*entity.TransferOrder, error) {
	to, err := s.Transfers().GetForUpdate(ctx, transferID)
	if err != nil {
		return nil, err
	}
	if to == nil {
		return nil, domain.NotFound("transfer_order", transferID)
	}
	return to, nil
}

func appendNote(notes, add string) string {
	add = strings.TrimSpace(add)
	switch {
	case add == "":
		return notes
	case notes == "":
		return add
	}
	return notes + "\n" + add
}

func toResponse(t *entity.TransferOrder) *dto.TransferResponse {
	return &dto.TransferResponse{
		ID:                  t.ID,
		TransferNumber:      t.TransferNumber,
		FromWarehouseID:     t.FromWarehouseID,
		ToWarehouseID:       t.ToWarehouseID,
		ItemID:              t.ItemID,
		RequestedQuantity:   t.RequestedQuantity,
		ApprovedQuantity:    t.ApprovedQuantity,
		TransferredQuantity: t.TransferredQuantity,
		Status:              string(t.Status),
		Priority:            string(t.Priority),
		Reason:              t.Reason,
		Notes:               t.Notes,
		RequestedBy:         t.RequestedBy,
		RequestedAt:         t.RequestedAt,
		ApprovedBy:          t.ApprovedBy,
		ApprovedAt:          t.ApprovedAt,
		CompletedBy:         t.CompletedBy,
		CompletedAt:         t.CompletedAt,
		CancelledBy:         t.CancelledBy,
		CancelledAt:         t.CancelledAt,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}
