package purchasing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/notify"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
	"github.com/jhoicas/replenishment-api/internal/domain/workflow"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// PurchaseOrderUseCase flujo de la orden de compra: alta, envío, respuesta del proveedor y cancelación.
// partially_received y completed los fija la recepción; cancelar una OC recibida parcialmente rechaza su recepción pendiente.
type PurchaseOrderUseCase struct {
	tx       repository.TxRunner
	gate     *authz.Gate
	catalog  CatalogReader
	notifier notify.Notifier
	pdf      PurchaseOrderPDFGenerator
	log      *logger.Logger
	now      func() time.Time
}

// NewPurchaseOrderUseCase construye el caso de uso. pdf puede ser nil si no se expone el documento.
func NewPurchaseOrderUseCase(tx repository.TxRunner, gate *authz.Gate, catalog CatalogReader,
	notifier notify.Notifier, pdf PurchaseOrderPDFGenerator, log *logger.Logger) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{tx: tx, gate: gate, catalog: catalog, notifier: notifier, pdf: pdf, log: log, now: time.Now}
}

// Create alta manual de una OC en draft, sin solicitud de origen.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, id entity.Identity, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := uc.gate.Check(id, authz.POCreate); err != nil {
		return nil, err
	}
	if in.Quantity < 1 {
		return nil, domain.FieldError(domain.ErrInvalidQuantity, "purchase_order", "quantity", "debe ser al menos 1")
	}
	var po *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		item, err := activeItem(ctx, uc.catalog, s, in.ItemID)
		if err != nil {
			return err
		}
		if _, err := existingWarehouse(ctx, s, in.WarehouseID); err != nil {
			return err
		}
		if _, err := activeSupplier(ctx, s, in.SupplierID); err != nil {
			return err
		}
		now := uc.now()
		t, err := priceTerms(ctx, uc.catalog, s, in.SupplierID, item, in.Quantity, in.UnitPrice, in.ExpectedDeliveryDate, now)
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
			SupplierID:           in.SupplierID,
			ItemID:               item.ID,
			WarehouseID:          in.WarehouseID,
			OrderedQuantity:      in.Quantity,
			UnitPrice:            t.UnitPrice,
			TotalAmount:          t.Total,
			ExpectedDeliveryDate: t.Expected,
			Status:               entity.POStatusDraft,
			Notes:                in.Notes,
			CreatedBy:            id.UserID,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		return s.PurchaseOrders().Create(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toPOResponse(po), nil
}

// Update edita cantidad, precio, fecha o notas; solo en draft o sent. El total se recalcula.
func (uc *PurchaseOrderUseCase) Update(ctx context.Context, id entity.Identity, poID string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := uc.gate.Check(id, authz.POEdit); err != nil {
		return nil, err
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return nil, domain.FieldError(domain.ErrInvalidQuantity, "purchase_order", "quantity", "debe ser al menos 1")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.FieldError(domain.ErrValidation, "purchase_order", "unit_price", "no puede ser negativo")
	}
	var po *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if po, err = lockPO(ctx, s, poID); err != nil {
			return err
		}
		if _, err := workflow.PurchaseOrder.Next(po.Status, workflow.ActionEdit); err != nil {
			return err
		}
		if in.Quantity != nil {
			po.OrderedQuantity = *in.Quantity
		}
		if in.UnitPrice != nil {
			po.UnitPrice = *in.UnitPrice
		}
		if in.ExpectedDeliveryDate != nil {
			po.ExpectedDeliveryDate = in.ExpectedDeliveryDate
		}
		if in.Notes != nil {
			po.Notes = *in.Notes
		}
		po.TotalAmount = po.UnitPrice.Mul(decimalQty(po.OrderedQuantity))
		po.UpdatedAt = uc.now()
		return s.PurchaseOrders().Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toPOResponse(po), nil
}

// Send aprobación administrativa: draft → sent. Se avisa al proveedor por correo.
func (uc *PurchaseOrderUseCase) Send(ctx context.Context, id entity.Identity, poID string) (*dto.PurchaseOrderResponse, error) {
	if err := uc.gate.Check(id, authz.POSend); err != nil {
		return nil, err
	}
	var (
		po  *entity.PurchaseOrder
		sup *entity.Supplier
	)
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if po, err = lockPO(ctx, s, poID); err != nil {
			return err
		}
		next, err := workflow.PurchaseOrder.Next(po.Status, workflow.ActionSend)
		if err != nil {
			return err
		}
		if sup, err = s.Suppliers().GetByID(ctx, po.SupplierID); err != nil {
			return err
		}
		now := uc.now()
		po.Status = next
		po.ApprovedBy = id.UserID
		po.SentAt = &now
		po.UpdatedAt = now
		return s.PurchaseOrders().Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	if sup != nil && sup.Email != "" {
		uc.notifier.Notify(ctx, sup.Email, "Nueva orden de compra "+po.Number,
			fmt.Sprintf("La orden %s por %d unidades está disponible para su confirmación.", po.Number, po.OrderedQuantity))
	}
	return toPOResponse(po), nil
}

// Respond respuesta del proveedor dueño de la OC: acknowledge (sent → acknowledged) o decline (sent → cancelled).
// Cualquier otro proveedor recibe domain.ErrAccessDenied antes de evaluar el estado.
func (uc *PurchaseOrderUseCase) Respond(ctx context.Context, id entity.Identity, poID string, in dto.SupplierResponseRequest) (*dto.PurchaseOrderResponse, error) {
	if err := uc.gate.Check(id, authz.PORespond); err != nil {
		return nil, err
	}
	var action workflow.Action
	switch in.Action {
	case "acknowledge":
		action = workflow.ActionAck
	case "decline":
		action = workflow.ActionDecline
	default:
		return nil, domain.FieldError(domain.ErrValidation, "purchase_order", "action", "debe ser acknowledge o decline")
	}
	var po *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if po, err = lockPO(ctx, s, poID); err != nil {
			return err
		}
		if err := authz.RequireSupplier(id, po.SupplierID); err != nil {
			return err
		}
		next, err := workflow.PurchaseOrder.Next(po.Status, action)
		if err != nil {
			return err
		}
		now := uc.now()
		po.Status = next
		po.SupplierNotes = in.Notes
		po.RespondedAt = &now
		po.UpdatedAt = now
		return s.PurchaseOrders().Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	if action == workflow.ActionDecline {
		uc.notifier.Notify(ctx, string(entity.RoleAdmin), "Orden de compra rechazada por el proveedor "+po.Number, po.SupplierNotes)
	}
	return toPOResponse(po), nil
}

// Acknowledge atajo de Respond con acknowledge.
func (uc *PurchaseOrderUseCase) Acknowledge(ctx context.Context, id entity.Identity, poID, notes string) (*dto.PurchaseOrderResponse, error) {
	return uc.Respond(ctx, id, poID, dto.SupplierResponseRequest{Action: "acknowledge", Notes: notes})
}

// Decline atajo de Respond con decline.
func (uc *PurchaseOrderUseCase) Decline(ctx context.Context, id entity.Identity, poID, notes string) (*dto.PurchaseOrderResponse, error) {
	return uc.Respond(ctx, id, poID, dto.SupplierResponseRequest{Action: "decline", Notes: notes})
}

// Cancel cancelación administrativa de una OC no terminal; con recepción pendiente, la rechaza en la misma transacción.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, id entity.Identity, poID string, in dto.CancelPurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := uc.gate.Check(id, authz.POCancel); err != nil {
		return nil, err
	}
	var po *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		// La recepción se bloquea antes que la OC, en el mismo orden que su decisión.
		grn, err := s.GoodsReceipts().GetByPO(ctx, poID)
		if err != nil {
			return err
		}
		if grn != nil {
			if grn, err = s.GoodsReceipts().GetForUpdate(ctx, grn.ID); err != nil {
				return err
			}
		}
		if po, err = lockPO(ctx, s, poID); err != nil {
			return err
		}
		next, err := workflow.PurchaseOrder.Next(po.Status, workflow.ActionCancel)
		if err != nil {
			return err
		}
		now := uc.now()
		if po.Status == entity.POStatusPartiallyReceived && grn != nil {
			grnNext, err := workflow.GoodsReceipt.Next(grn.Status, workflow.ActionReject)
			if err != nil {
				return err
			}
			grn.Notes += entity.AuditLine(now, id, "po_cancelled", in.Reason)
			grn.Status = grnNext
			grn.UpdatedAt = now
			if err := s.GoodsReceipts().Update(ctx, grn); err != nil {
				return err
			}
		}
		po.Status = next
		po.CancelReason = in.Reason
		po.CancelledBy = id.UserID
		po.CancelledAt = &now
		po.UpdatedAt = now
		return s.PurchaseOrders().Update(ctx, po)
	})
	if err != nil {
		return nil, err
	}
	return toPOResponse(po), nil
}

// Get obtiene una OC. Un proveedor solo ve las propias.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, id entity.Identity, poID string) (*dto.PurchaseOrderResponse, error) {
	if err := uc.gate.Check(id, authz.POView); err != nil {
		return nil, err
	}
	var po *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		po, err = visiblePO(ctx, s, id, poID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toPOResponse(po), nil
}

// List lista con filtros. Para el rol supplier el filtro de proveedor se fuerza al suyo.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, id entity.Identity, in dto.DocumentListRequest) (*dto.PurchaseOrderListResponse, error) {
	if err := uc.gate.Check(id, authz.POView); err != nil {
		return nil, err
	}
	if id.Role == entity.RoleSupplier {
		in.SupplierID = id.SupplierID
	}
	in.DefaultPage()
	out := &dto.PurchaseOrderListResponse{Items: []dto.PurchaseOrderResponse{}, Page: dto.PageResponse{Limit: in.Limit, Offset: in.Offset}}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		list, err := s.PurchaseOrders().List(ctx, listFilter(in))
		for _, po := range list {
			out.Items = append(out.Items, *toPOResponse(po))
		}
		return err
	})
	return out, err
}

// PDF genera el documento imprimible de la OC.
func (uc *PurchaseOrderUseCase) PDF(ctx context.Context, id entity.Identity, poID string) ([]byte, string, error) {
	if err := uc.gate.Check(id, authz.POView); err != nil {
		return nil, "", err
	}
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("generador de PDF no configurado")
	}
	var doc PODocument
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		po, err := visiblePO(ctx, s, id, poID)
		if err != nil {
			return err
		}
		doc.PO = *po
		sup, err := s.Suppliers().GetByID(ctx, po.SupplierID)
		if err != nil {
			return err
		}
		if sup != nil {
			doc.Supplier = *sup
		}
		item, err := uc.catalog.Item(ctx, s, po.ItemID)
		if err != nil {
			return err
		}
		if item != nil {
			doc.Item = *item
		}
		wh, err := s.Warehouses().GetByID(ctx, po.WarehouseID)
		if err != nil {
			return err
		}
		if wh != nil {
			doc.Warehouse = *wh
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.GeneratePurchaseOrderPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("generar pdf de OC %s: %w", doc.PO.Number, err)
	}
	return b, doc.PO.Number + ".pdf", nil
}

func lockPO(ctx context.Context, s repository.Store, poID string) (*entity.PurchaseOrder, error) {
	po, err := s.PurchaseOrders().GetForUpdate(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.NotFound("purchase_order", poID)
	}
	return po, nil
}

func visiblePO(ctx context.Context, s repository.Store, id entity.Identity, poID string) (*entity.PurchaseOrder, error) {
	po, err := s.PurchaseOrders().GetByID(ctx, poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.NotFound("purchase_order", poID)
	}
	if id.Role == entity.RoleSupplier {
		if err := authz.RequireSupplier(id, po.SupplierID); err != nil {
			return nil, err
		}
	}
	return po, nil
}
