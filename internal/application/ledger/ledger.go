// Package ledger es el único escritor de current_stock. Sus mutaciones operan
// sobre el repository.Store de la transacción del llamador.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/inventory"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

// Ledger mutaciones del libro de stock.
type Ledger struct {
	defaults entity.StockDefaults
}

// New crea el libro con los valores por defecto de ubicaciones nuevas.
func New(defaults entity.StockDefaults) *Ledger {
	if defaults.MaxStock < 1 {
		defaults.MaxStock = 1
	}
	return &Ledger{defaults: defaults}
}

// Defaults valores con los que EnsureLocation crea ubicaciones.
func (l *Ledger) Defaults() entity.StockDefaults { return l.defaults }

// Adjust aplica delta bajo bloqueo de fila. Falla con domain.ErrNegativeStock si el resultado sería negativo.
func (l *Ledger) Adjust(ctx context.Context, s repository.Store, itemID, warehouseID string, delta int64) (int64, error) {
	loc, err := s.Stock().GetForUpdate(ctx, itemID, warehouseID)
	if err != nil {
		return 0, err
	}
	if loc == nil {
		return 0, domain.NotFound("stock_location", itemID+"@"+warehouseID)
	}
	return l.apply(ctx, s, loc, delta, domain.ErrNegativeStock)
}

// EnsureLocation devuelve la ubicación bloqueada del par, creándola con los valores por defecto si no existe.
func (l *Ledger) EnsureLocation(ctx context.Context, s repository.Store, itemID, warehouseID string) (*entity.StockLocation, error) {
	loc, err := s.Stock().GetForUpdate(ctx, itemID, warehouseID)
	if err != nil || loc != nil {
		return loc, err
	}
	if _, err := l.create(ctx, s, itemID, warehouseID); err != nil && !errors.Is(err, domain.ErrDuplicate) {
		return nil, err
	}
	// Otra transacción pudo crearla primero; en ambos casos se relee con bloqueo.
	return s.Stock().GetForUpdate(ctx, itemID, warehouseID)
}

// Credit suma qty al par, creando la ubicación si hace falta.
func (l *Ledger) Credit(ctx context.Context, s repository.Store, itemID, warehouseID string, qty int64) (int64, error) {
	if qty < 1 {
		return 0, domain.FieldError(domain.ErrInvalidQuantity, "stock_location", "quantity", "debe ser mayor que cero")
	}
	loc, err := l.EnsureLocation(ctx, s, itemID, warehouseID)
	if err != nil {
		return 0, err
	}
	return l.apply(ctx, s, loc, qty, domain.ErrNegativeStock)
}

// Move debita origen y acredita destino en la misma transacción. Las dos filas se
// bloquean en orden ascendente de id. Falla con domain.ErrInsufficientStock si el
// origen no alcanza; en ese caso ninguna fila cambia.
func (l *Ledger) Move(ctx context.Context, s repository.Store, itemID, fromWarehouseID, toWarehouseID string, qty int64) error {
	if qty < 1 {
		return domain.FieldError(domain.ErrInvalidQuantity, "transfer_order", "transferred_quantity", "debe ser mayor que cero")
	}
	if fromWarehouseID == toWarehouseID {
		return domain.FieldError(domain.ErrValidation, "transfer_order", "to_warehouse_id", "origen y destino deben ser distintos")
	}
	src, err := s.Stock().Get(ctx, itemID, fromWarehouseID)
	if err != nil {
		return err
	}
	if src == nil {
		return domain.FieldError(domain.ErrInsufficientStock, "stock_location", "from_warehouse_id", "sin stock en la bodega de origen")
	}
	dst, err := s.Stock().Get(ctx, itemID, toWarehouseID)
	if err != nil {
		return err
	}
	if dst == nil {
		if dst, err = l.create(ctx, s, itemID, toWarehouseID); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		if dst == nil {
			if dst, err = s.Stock().Get(ctx, itemID, toWarehouseID); err != nil {
				return err
			}
		}
		if dst == nil {
			return fmt.Errorf("ledger: no se pudo crear la ubicación de destino")
		}
	}
	locked, err := s.Stock().LockByIDs(ctx, src.ID, dst.ID)
	if err != nil {
		return err
	}
	byID := make(map[string]*entity.StockLocation, len(locked))
	for _, loc := range locked {
		byID[loc.ID] = loc
	}
	src, dst = byID[src.ID], byID[dst.ID]
	if src == nil || dst == nil {
		return fmt.Errorf("ledger: ubicaciones del traslado desaparecieron durante el bloqueo")
	}
	if _, err := l.apply(ctx, s, src, -qty, domain.ErrInsufficientStock); err != nil {
		return err
	}
	_, err = l.apply(ctx, s, dst, qty, domain.ErrNegativeStock)
	return err
}

func (l *Ledger) apply(ctx context.Context, s repository.Store, loc *entity.StockLocation, delta int64, floorKind error) (int64, error) {
	next := loc.CurrentStock + delta
	if next < 0 {
		return loc.CurrentStock, &domain.Error{
			Kind:    floorKind,
			Entity:  "stock_location",
			Field:   "current_stock",
			Message: fmt.Sprintf("disponible %d, requerido %d", loc.CurrentStock, -delta),
		}
	}
	if err := s.Stock().UpdateQuantity(ctx, loc.ID, next); err != nil {
		return loc.CurrentStock, err
	}
	loc.CurrentStock = next
	return next, nil
}

func (l *Ledger) create(ctx context.Context, s repository.Store, itemID, warehouseID string) (*entity.StockLocation, error) {
	wh, err := s.Warehouses().GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.NotFound("warehouse", warehouseID)
	}
	now := time.Now()
	loc := &entity.StockLocation{
		ID:           uuid.New().String(),
		ItemID:       itemID,
		WarehouseID:  warehouseID,
		LocationCode: inventory.LocationCode(wh.Code, "", "", ""),
		MinStock:     l.defaults.MinStock,
		MaxStock:     l.defaults.MaxStock,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Stock().Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}
