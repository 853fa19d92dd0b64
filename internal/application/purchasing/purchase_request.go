package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/inventory"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/jhoicas/replenishment-api/internal/domain/workflow"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// PurchaseRequestUseCase flujo de solicitudes de compra: alta manual o automática,
// decisión del gerente, edición mientras está pendiente y conversión en OC.
type PurchaseRequestUseCase struct {
	tx      repository.TxRunner
	gate    *authz.Gate
	catalog CatalogReader
	log     *logger.Logger
	now     func() time.Time
}

// NewPurchaseRequestUseCase construye el caso de uso.
func NewPurchaseRequestUseCase(tx repository.TxRunner, gate *authz.Gate, catalog CatalogReader, log *logger.Logger) *PurchaseRequestUseCase {
	return &PurchaseRequestUseCase{tx: tx, gate: gate, catalog: catalog, log: log, now: time.Now}
}

// Create alta manual de una solicitud (manager, o admin como override). Queda en pending.
func (uc *PurchaseRequestUseCase) Create(ctx context.Context, id entity.Identity, in dto.CreatePurchaseRequestRequest) (*dto.PurchaseRequestResponse, error) {
	if err := uc.gate.Check(id, authz.PRCreate); err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, domain.FieldError(domain.ErrInvalidQuantity, "purchase_request", "quantity", "debe ser al menos 1")
	}
	var pr *entity.PurchaseRequest
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		item, err := activeItem(ctx, uc.catalog, s, in.ItemID)
		if err != nil {
			return err
		}
		if _, err := existingWarehouse(ctx, s, in.WarehouseID); err != nil {
			return err
		}
		supplierID := in.PreferredSupplierID
		if supplierID == "" {
			supplierID = item.PreferredSupplierID
		} else if _, err := activeSupplier(ctx, s, supplierID); err != nil {
			return err
		}
		pr, err = uc.newRequest(ctx, s, id, item.ID, in.WarehouseID, in.Quantity, supplierID, entity.PRSourceManual, in.Notes)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toPRResponse(pr), nil
}

// AutoCreateResult resultado de una corrida automática.
type AutoCreateResult struct {
	Assessments []inventory.Assessment // todas las ubicaciones evaluadas
	LowStock    int
	Created     []*entity.PurchaseRequest
	Skipped     int // pares con una solicitud u OC abierta
	Failed      int
}

// Response DTO del resultado.
func (r *AutoCreateResult) Response() *dto.AutoCreateResponse {
	out := &dto.AutoCreateResponse{
		Evaluated: len(r.Assessments),
		LowStock:  r.LowStock,
		Skipped:   r.Skipped,
		Created:   make([]dto.PurchaseRequestResponse, 0, len(r.Created)),
	}
	for _, pr := range r.Created {
		out.Created = append(out.Created, *toPRResponse(pr))
	}
	return out
}

// AutoCreate corre el planificador y crea una solicitud pending por cada par bajo
// su mínimo efectivo que no tenga ya una solicitud pending/approved ni una OC en curso.
// Cada par se verifica e inserta en su propia transacción bajo un bloqueo del par,
// de modo que dos corridas simultáneas no duplican solicitudes.
func (uc *PurchaseRequestUseCase) AutoCreate(ctx context.Context, id entity.Identity) (*AutoCreateResult, error) {
	if err := uc.gate.Check(id, authz.PRAutoCreate); err != nil {
		return nil, err
	}
	var snaps []entity.StockSnapshot
	if err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		snaps, err = s.Stock().Snapshots(ctx)
		return err
	}); err != nil {
		return nil, err
	}
	res := &AutoCreateResult{Assessments: inventory.Plan(snaps)}
	for _, a := range inventory.LowStock(res.Assessments) {
		res.LowStock++
		if err := ctx.Err(); err != nil {
			return res, err
		}
		pr, err := uc.autoCreateOne(ctx, id, a)
		switch {
		case err != nil:
			res.Failed++
			uc.log.Error().Err(err).Str("item_id", a.ItemID).Str("warehouse_id", a.WarehouseID).Msg("no se pudo crear la solicitud automática")
		case pr == nil:
			res.Skipped++
		default:
			res.Created = append(res.Created, pr)
		}
	}
	return res, nil
}

func (uc *PurchaseRequestUseCase) autoCreateOne(ctx context.Context, id entity.Identity, a inventory.Assessment) (*entity.PurchaseRequest, error) {
	var pr *entity.PurchaseRequest
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		if err := s.PurchaseRequests().LockPair(ctx, a.ItemID, a.WarehouseID); err != nil {
			return err
		}
		open, err := s.PurchaseRequests().HasOpen(ctx, a.ItemID, a.WarehouseID)
		if err != nil || open {
			return err
		}
		live, err := s.PurchaseOrders().HasLive(ctx, a.ItemID, a.WarehouseID)
		if err != nil || live {
			return err
		}
		pr, err = uc.newRequest(ctx, s, id, a.ItemID, a.WarehouseID, a.SuggestedQuantity, a.PreferredSupplierID, entity.PRSourceAuto,
			fmt.Sprintf("generada automáticamente: stock %d ≤ mínimo efectivo %d", a.CurrentStock, a.EffectiveMinimum))
		return err
	})
	return pr, err
}

func (uc *PurchaseRequestUseCase) newRequest(ctx context.Context, s repository.Store, id entity.Identity,
	itemID, warehouseID string, qty int64, supplierID, source, notes string) (*entity.PurchaseRequest, error) {
	number, err := nextNumber(ctx, s, entity.SequencePR)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	pr := &entity.PurchaseRequest{
		ID:                  uuid.New().String(),
		Number:              number,
		ItemID:              itemID,
		WarehouseID:         warehouseID,
		Quantity:            qty,
		PreferredSupplierID: supplierID,
		Status:              entity.PRStatusPending,
		Source:              source,
		Notes:               notes,
		RequestedBy:         id.UserID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.PurchaseRequests().Create(ctx, pr); err != nil {
		return nil, err
	}
	return pr, nil
}

// SetStatus aprueba o rechaza una solicitud pending. Una segunda decisión devuelve domain.ErrAlreadyDecided.
func (uc *PurchaseRequestUseCase) SetStatus(ctx context.Context, id entity.Identity, prID string, in dto.DecisionRequest) (*dto.PurchaseRequestResponse, error) {
	if err := uc.gate.Check(id, authz.PRDecide); err != nil {
		return nil, err
	}
	action, err := decisionAction(in.Action)
	if err != nil {
		return nil, err
	}
	var pr *entity.PurchaseRequest
	err = uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if pr, err = uc.lock(ctx, s, prID); err != nil {
			return err
		}
		next, err := workflow.PurchaseRequest.Next(pr.Status, action)
		if err != nil {
			return err
		}
		now := uc.now()
		pr.Status = next
		pr.ApprovedBy = id.UserID
		pr.DecisionNotes = in.Notes
		pr.DecidedAt = &now
		pr.UpdatedAt = now
		return s.PurchaseRequests().Update(ctx, pr)
	})
	if err != nil {
		return nil, err
	}
	return toPRResponse(pr), nil
}

// Update edita cantidad, proveedor preferido o notas; solo en pending.
func (uc *PurchaseRequestUseCase) Update(ctx context.Context, id entity.Identity, prID string, in dto.UpdatePurchaseRequestRequest) (*dto.PurchaseRequestResponse, error) {
	if err := uc.gate.Check(id, authz.PREdit); err != nil {
		return nil, err
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return nil, domain.FieldError(domain.ErrInvalidQuantity, "purchase_request", "quantity", "debe ser al menos 1")
	}
	var pr *entity.PurchaseRequest
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if pr, err = uc.lock(ctx, s, prID); err != nil {
			return err
		}
		if _, err := workflow.PurchaseRequest.Next(pr.Status, workflow.ActionEdit); err != nil {
			return err
		}
		if in.Quantity != nil {
			pr.Quantity = *in.Quantity
		}
		if in.PreferredSupplierID != nil {
			if *in.PreferredSupplierID != "" {
				if _, err := activeSupplier(ctx, s, *in.PreferredSupplierID); err != nil {
					return err
				}
			}
			pr.PreferredSupplierID = *in.PreferredSupplierID
		}
		if in.Notes != nil {
			pr.Notes = *in.Notes
		}
		pr.UpdatedAt = uc.now()
		return s.PurchaseRequests().Update(ctx, pr)
	})
	if err != nil {
		return nil, err
	}
	return toPRResponse(pr), nil
}

// Delete elimina una solicitud pending.
func (uc *PurchaseRequestUseCase) Delete(ctx context.Context, id entity.Identity, prID string) error {
	if err := uc.gate.Check(id, authz.PRDelete); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		pr, err := uc.lock(ctx, s, prID)
		if err != nil {
			return err
		}
		if _, err := workflow.PurchaseRequest.Next(pr.Status, workflow.ActionDelete); err != nil {
			return err
		}
		return s.PurchaseRequests().Delete(ctx, pr.ID)
	})
}

// ConvertToPO crea una OC en draft a partir de una solicitud approved y la deja converted.
// Si la solicitud no está approved devuelve domain.ErrAlreadyConverted.
func (uc *PurchaseRequestUseCase) ConvertToPO(ctx context.Context, id entity.Identity, prID string, in dto.ConvertPurchaseRequestRequest) (*dto.PurchaseOrderResponse, error) {
	if err := uc.gate.Check(id, authz.PRConvert); err != nil {
		return nil, err
	}
	var po *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		pr, err := uc.lock(ctx, s, prID)
		if err != nil {
			return err
		}
		next, err := workflow.PurchaseRequest.Next(pr.Status, workflow.ActionConvert)
		if err != nil {
			return err
		}
		item, err := activeItem(ctx, uc.catalog, s, pr.ItemID)
		if err != nil {
			return err
		}
		supplierID := in.SupplierID
		if supplierID == "" {
			supplierID = pr.PreferredSupplierID
		}
		if supplierID == "" {
			supplierID = item.PreferredSupplierID
		}
		if _, err := activeSupplier(ctx, s, supplierID); err != nil {
			return err
		}
		now := uc.now()
		t, err := priceTerms(ctx, uc.catalog, s, supplierID, item, pr.Quantity, in.UnitPrice, in.ExpectedDeliveryDate, now)
		if err != nil {
			return err
		}
		number, err := nextNumber(ctx, s, entity.SequencePO)
		if err != nil {
			return err
		}
		po = &entity.PurchaseOrder{
			ID:                   uuid.New().String(),
			Number:               number,
			PRID:                 pr.ID,
			SupplierID:           supplierID,
			ItemID:               pr.ItemID,
			WarehouseID:          pr.WarehouseID,
			OrderedQuantity:      pr.Quantity,
			UnitPrice:            t.UnitPrice,
			TotalAmount:          t.Total,
			ExpectedDeliveryDate: t.Expected,
			Status:               entity.POStatusDraft,
			Notes:                in.Notes,
			CreatedBy:            id.UserID,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if err := s.PurchaseOrders().Create(ctx, po); err != nil {
			return err
		}
		pr.Status = next
		pr.POID = po.ID
		pr.UpdatedAt = now
		return s.PurchaseRequests().Update(ctx, pr)
	})
	if err != nil {
		return nil, err
	}
	return toPOResponse(po), nil
}

// Get obtiene una solicitud.
func (uc *PurchaseRequestUseCase) Get(ctx context.Context, id entity.Identity, prID string) (*dto.PurchaseRequestResponse, error) {
	if err := uc.gate.Check(id, authz.PRView); err != nil {
		return nil, err
	}
	var pr *entity.PurchaseRequest
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		pr, err = s.PurchaseRequests().GetByID(ctx, prID)
		if err == nil && pr == nil {
			err = domain.NotFound("purchase_request", prID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return toPRResponse(pr), nil
}

// List lista solicitudes con filtros.
func (uc *PurchaseRequestUseCase) List(ctx context.Context, id entity.Identity, in dto.DocumentListRequest) (*dto.PurchaseRequestListResponse, error) {
	if err := uc.gate.Check(id, authz.PRView); err != nil {
		return nil, err
	}
	in.DefaultPage()
	out := &dto.PurchaseRequestListResponse{Items: []dto.PurchaseRequestResponse{}, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		list, err := s.PurchaseRequests().List(ctx, listFilter(in))
		for _, pr := range list {
			out.Items = append(out.Items, *toPRResponse(pr))
		}
		return err
	})
	return out, err
}

func (uc *PurchaseRequestUseCase) lock(ctx context.Context, s repository.Store, prID string) (*entity.PurchaseRequest, error) {
	pr, err := s.PurchaseRequests().GetForUpdate(ctx, prID)
	if err != nil {
		return nil, err
	}
	if pr == nil {
		return nil, domain.NotFound("purchase_request", prID)
	}
	return pr, nil
}

func decisionAction(action string) (workflow.Action, error) {
	switch action {
	case "approve":
		return workflow.ActionApprove, nil
	case "reject":
		return workflow.ActionReject, nil
	}
	return "", domain.FieldError(domain.ErrValidation, "decision", "action", "debe ser approve o reject")
}

func listFilter(in dto.DocumentListRequest) repository.ListFilter {
	return repository.ListFilter{
		Status:      in.Status,
		ItemID:      in.ItemID,
		WarehouseID: in.WarehouseID,
		SupplierID:  in.SupplierID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
}
