package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/inventory"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

// StockUseCase consultas del libro de stock, alta y mantenimiento de ubicaciones y tablero de reposición.
// Ninguna operación de este caso de uso modifica current_stock de una ubicación existente.
type StockUseCase struct {
	tx     repository.TxRunner
	gate   *authz.Gate
	ledger *Ledger
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(tx repository.TxRunner, gate *authz.Gate, ledger *Ledger) *StockUseCase {
	return &StockUseCase{tx: tx, gate: gate, ledger: ledger}
}

// GetStock devuelve la cantidad actual del par o domain.ErrNotFound.
func (uc *StockUseCase) GetStock(ctx context.Context, id entity.Identity, itemID, warehouseID string) (*dto.StockQueryResponse, error) {
	if err := uc.gate.Check(id, authz.StockView); err != nil {
		return nil, err
	}
	var out *dto.StockQueryResponse
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		loc, err := s.Stock().Get(ctx, itemID, warehouseID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.NotFound("stock_location", itemID+"@"+warehouseID)
		}
		out = &dto.StockQueryResponse{ItemID: itemID, WarehouseID: warehouseID, CurrentStock: loc.CurrentStock}
		return nil
	})
	return out, err
}

// CreateLocation da de alta una ubicación con saldo inicial opcional.
// Min/Max por defecto vienen de la configuración del libro.
func (uc *StockUseCase) CreateLocation(ctx context.Context, id entity.Identity, in dto.CreateStockLocationRequest) (*dto.StockLocationResponse, error) {
	if err := uc.gate.Check(id, authz.StockManage); err != nil {
		return nil, err
	}
	if in.CurrentStock < 0 {
		return nil, domain.FieldError(domain.ErrInvalidQuantity, "stock_location", "current_stock", "no puede ser negativo")
	}
	d := uc.ledger.Defaults()
	minStock, maxStock := d.MinStock, d.MaxStock
	if in.MinStock != nil {
		minStock = *in.MinStock
	}
	if in.MaxStock != nil {
		maxStock = *in.MaxStock
	}
	if minStock < 0 {
		return nil, domain.FieldError(domain.ErrValidation, "stock_location", "min_stock", "no puede ser negativo")
	}
	if maxStock < 1 {
		return nil, domain.FieldError(domain.ErrValidation, "stock_location", "max_stock", "debe ser al menos 1")
	}
	var loc *entity.StockLocation
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		item, err := s.Items().GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("item", in.ItemID)
		}
		wh, err := s.Warehouses().GetByID(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.NotFound("warehouse", in.WarehouseID)
		}
		now := time.Now()
		loc = &entity.StockLocation{
			ID:           uuid.New().String(),
			ItemID:       item.ID,
			WarehouseID:  wh.ID,
			Aisle:        in.Aisle,
			Rack:         in.Rack,
			Bin:          in.Bin,
			LocationCode: inventory.LocationCode(wh.Code, in.Aisle, in.Rack, in.Bin),
			CurrentStock: in.CurrentStock,
			MinStock:     minStock,
			MaxStock:     maxStock,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		return s.Stock().Create(ctx, loc)
	})
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// UpdateLocation cambia pasillo/estante/posición (regenera el código) y umbrales.
func (uc *StockUseCase) UpdateLocation(ctx context.Context, id entity.Identity, locationID string, in dto.UpdateStockLocationRequest) (*dto.StockLocationResponse, error) {
	if err := uc.gate.Check(id, authz.StockManage); err != nil {
		return nil, err
	}
	var loc *entity.StockLocation
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		loc, err = s.Stock().GetByID(ctx, locationID)
		if err != nil {
			return err
		}
		if loc == nil {
			return domain.NotFound("stock_location", locationID)
		}
		aisle, rack, bin := loc.Aisle, loc.Rack, loc.Bin
		if in.Aisle != nil {
			aisle = *in.Aisle
		}
		if in.Rack != nil {
			rack = *in.Rack
		}
		if in.Bin != nil {
			bin = *in.Bin
		}
		if inventory.LocationChanged(loc.Aisle, loc.Rack, loc.Bin, aisle, rack, bin) {
			wh, err := s.Warehouses().GetByID(ctx, loc.WarehouseID)
			if err != nil {
				return err
			}
			if wh == nil {
				return domain.NotFound("warehouse", loc.WarehouseID)
			}
			loc.Aisle, loc.Rack, loc.Bin = aisle, rack, bin
			loc.LocationCode = inventory.LocationCode(wh.Code, aisle, rack, bin)
		}
		if in.MinStock != nil {
			if *in.MinStock < 0 {
				return domain.FieldError(domain.ErrValidation, "stock_location", "min_stock", "no puede ser negativo")
			}
			loc.MinStock = *in.MinStock
		}
		if in.MaxStock != nil {
			if *in.MaxStock < 1 {
				return domain.FieldError(domain.ErrValidation, "stock_location", "max_stock", "debe ser al menos 1")
			}
			loc.MaxStock = *in.MaxStock
		}
		loc.UpdatedAt = time.Now()
		return s.Stock().Update(ctx, loc)
	})
	if err != nil {
		return nil, err
	}
	return toLocationResponse(loc), nil
}

// ListByWarehouse lista las ubicaciones de una bodega.
func (uc *StockUseCase) ListByWarehouse(ctx context.Context, id entity.Identity, warehouseID string, page dto.PageRequest) ([]dto.StockLocationResponse, error) {
	if err := uc.gate.Check(id, authz.StockView); err != nil {
		return nil, err
	}
	page.DefaultPage()
	out := []dto.StockLocationResponse{}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		list, err := s.Stock().ListByWarehouse(ctx, warehouseID, page.Limit, page.Offset)
		if err != nil {
			return err
		}
		for _, l := range list {
			out = append(out, *toLocationResponse(l))
		}
		return nil
	})
	return out, err
}

// LowStock tablero de reposición: ubicaciones bajo su mínimo efectivo, de mayor a menor urgencia.
// Solo lectura; no crea solicitudes.
func (uc *StockUseCase) LowStock(ctx context.Context, id entity.Identity) (*dto.LowStockResponse, error) {
	if err := uc.gate.Check(id, authz.DashboardView); err != nil {
		return nil, err
	}
	var snaps []entity.StockSnapshot
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		snaps, err = s.Stock().Snapshots(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	all := inventory.Plan(snaps)
	low := inventory.LowStock(all)
	out := &dto.LowStockResponse{Items: make([]dto.AssessmentResponse, 0, len(low)), Summary: inventory.Summarize(all)}
	for _, a := range low {
		out.Items = append(out.Items, ToAssessmentResponse(a))
	}
	return out, nil
}

// ToAssessmentResponse mapea una evaluación del planificador a su DTO.
func ToAssessmentResponse(a inventory.Assessment) dto.AssessmentResponse {
	return dto.AssessmentResponse{
		LocationID:          a.LocationID,
		ItemID:              a.ItemID,
		WarehouseID:         a.WarehouseID,
		SKU:                 a.SKU,
		ItemName:            a.ItemName,
		LocationCode:        a.LocationCode,
		CurrentStock:        a.CurrentStock,
		MinStock:            a.MinStock,
		MaxStock:            a.MaxStock,
		ReorderPoint:        a.ReorderPoint,
		EffectiveMinimum:    a.EffectiveMinimum,
		Urgency:             a.Urgency,
		SuggestedQuantity:   a.SuggestedQuantity,
		PreferredSupplierID: a.PreferredSupplierID,
	}
}

func toLocationResponse(l *entity.StockLocation) *dto.StockLocationResponse {
	return &dto.StockLocationResponse{
		ID:           l.ID,
		ItemID:       l.ItemID,
		WarehouseID:  l.WarehouseID,
		Aisle:        l.Aisle,
		Rack:         l.Rack,
		Bin:          l.Bin,
		LocationCode: l.LocationCode,
		CurrentStock: l.CurrentStock,
		MinStock:     l.MinStock,
		MaxStock:     l.MaxStock,
		Active:       l.Active,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
