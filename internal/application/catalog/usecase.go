// Package catalog datos de referencia: categorías, ítems, proveedores, catálogo proveedor↔ítem y bodegas.
package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/repository"
)

// CatalogUseCase casos de uso CRUD del catálogo.
type CatalogUseCase struct {
	tx    repository.TxRunner
	gate  *authz.Gate
	cache Cache
}

// NewCatalogUseCase construye el caso de uso. cache puede ser nil.
func NewCatalogUseCase(tx repository.TxRunner, gate *authz.Gate, cache Cache) *CatalogUseCase {
	if cache == nil {
		cache = NopCache{}
	}
	return &CatalogUseCase{tx: tx, gate: gate, cache: cache}
}

// ── lecturas con caché (consumidas por el flujo dentro de su transacción) ─────

// Item lee un ítem pasando por la caché.
func (uc *CatalogUseCase) Item(ctx context.Context, s repository.Store, id string) (*entity.Item, error) {
	var it entity.Item
	if uc.cache.Get(ctx, itemKey(id), &it) {
		return &it, nil
	}
	found, err := s.Items().GetByID(ctx, id)
	if err != nil || found == nil {
		return found, err
	}
	uc.cache.Set(ctx, itemKey(id), found)
	return found, nil
}

// SupplierItem lee la fila proveedor↔ítem pasando por la caché; nil si no existe.
func (uc *CatalogUseCase) SupplierItem(ctx context.Context, s repository.Store, supplierID, itemID string) (*entity.SupplierItem, error) {
	var si entity.SupplierItem
	if uc.cache.Get(ctx, supplierItemKey(supplierID, itemID), &si) {
		return &si, nil
	}
	found, err := s.SupplierItems().Get(ctx, supplierID, itemID)
	if err != nil || found == nil {
		return found, err
	}
	uc.cache.Set(ctx, supplierItemKey(supplierID, itemID), found)
	return found, nil
}

// ── categorías ───────────────────────────────────────────────────────────

// CreateCategory crea una categoría activa.
func (uc *CatalogUseCase) CreateCategory(ctx context.Context, id entity.Identity, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.FieldError(domain.ErrValidation, "category", "name", "requerido")
	}
	now := time.Now()
	c := &entity.Category{ID: uuid.New().String(), Name: strings.TrimSpace(in.Name), Description: in.Description, Active: true, CreatedAt: now, UpdatedAt: now}
	if in.Active != nil {
		c.Active = *in.Active
	}
	if err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		return s.Categories().Create(ctx, c)
	}); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// UpdateCategory reemplaza nombre, descripción y estado.
func (uc *CatalogUseCase) UpdateCategory(ctx context.Context, id entity.Identity, categoryID string, in dto.CategoryRequest) (*dto.CategoryResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return nil, err
	}
	var c *entity.Category
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if c, err = s.Categories().GetByID(ctx, categoryID); err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("category", categoryID)
		}
		if name := strings.TrimSpace(in.Name); name != "" {
			c.Name = name
		}
		c.Description = in.Description
		if in.Active != nil {
			c.Active = *in.Active
		}
		c.UpdatedAt = time.Now()
		return s.Categories().Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// ListCategories lista categorías.
func (uc *CatalogUseCase) ListCategories(ctx context.Context, id entity.Identity, page dto.PageRequest) ([]dto.CategoryResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogView); err != nil {
		return nil, err
	}
	page.DefaultPage()
	out := []dto.CategoryResponse{}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		list, err := s.Categories().List(ctx, page.Limit, page.Offset)
		for _, c := range list {
			out = append(out, *toCategoryResponse(c))
		}
		return err
	})
	return out, err
}

// DeleteCategory elimina una categoría sin ítems; con ítems devuelve domain.ErrInUse.
func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, id entity.Identity, categoryID string) error {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		c, err := s.Categories().GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("category", categoryID)
		}
		n, err := s.Items().CountByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		if n > 0 {
			return &domain.Error{Kind: domain.ErrInUse, Entity: "category", Field: "items", Message: "la categoría tiene ítems asociados"}
		}
		return s.Categories().Delete(ctx, categoryID)
	})
}

// ── ítems ────────────────────────────────────────────────────────────────

// CreateItem crea un ítem activo. SKU único.
func (uc *CatalogUseCase) CreateItem(ctx context.Context, id entity.Identity, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return nil, err
	}
	if err := validateItemNumbers(in.LeadTimeDays, in.DailyConsumption, in.SafetyStock, in.ReorderPoint, in.UnitPrice); err != nil {
		return nil, err
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "UND"
	}
	now := time.Now()
	it := &entity.Item{
		ID:                  uuid.New().String(),
		SKU:                 strings.TrimSpace(in.SKU),
		Name:                in.Name,
		CategoryID:          in.CategoryID,
		UnitMeasure:         in.UnitMeasure,
		LeadTimeDays:        in.LeadTimeDays,
		DailyConsumption:    in.DailyConsumption,
		SafetyStock:         in.SafetyStock,
		ReorderPoint:        in.ReorderPoint,
		UnitPrice:           in.UnitPrice,
		Active:              true,
		PreferredSupplierID: in.PreferredSupplierID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		if err := checkItemRefs(ctx, s, it.CategoryID, it.PreferredSupplierID); err != nil {
			return err
		}
		existing, err := s.Items().GetBySKU(ctx, it.SKU)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.FieldError(domain.ErrDuplicate, "item", "sku", "el SKU ya existe")
		}
		return s.Items().Create(ctx, it)
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(it), nil
}

// GetItem obtiene un ítem por ID.
func (uc *CatalogUseCase) GetItem(ctx context.Context, id entity.Identity, itemID string) (*dto.ItemResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogView); err != nil {
		return nil, err
	}
	var it *entity.Item
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		it, err = uc.Item(ctx, s, itemID)
		if err == nil && it == nil {
			err = domain.NotFound("item", itemID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(it), nil
}

// UpdateItem actualiza los campos informados e invalida la caché.
func (uc *CatalogUseCase) UpdateItem(ctx context.Context, id entity.Identity, itemID string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return nil, err
	}
	var it *entity.Item
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if it, err = s.Items().GetByID(ctx, itemID); err != nil {
			return err
		}
		if it == nil {
			return domain.NotFound("item", itemID)
		}
		if in.Name != nil {
			it.Name = *in.Name
		}
		if in.CategoryID != nil {
			it.CategoryID = *in.CategoryID
		}
		if in.UnitMeasure != nil {
			it.UnitMeasure = *in.UnitMeasure
		}
		if in.LeadTimeDays != nil {
			it.LeadTimeDays = *in.LeadTimeDays
		}
		if in.DailyConsumption != nil {
			it.DailyConsumption = *in.DailyConsumption
		}
		if in.SafetyStock != nil {
			it.SafetyStock = *in.SafetyStock
		}
		if in.ReorderPoint != nil {
			it.ReorderPoint = *in.ReorderPoint
		}
		if in.UnitPrice != nil {
			it.UnitPrice = *in.UnitPrice
		}
		if in.PreferredSupplierID != nil {
			it.PreferredSupplierID = *in.PreferredSupplierID
		}
		if in.Active != nil {
			it.Active = *in.Active
		}
		if err := validateItemNumbers(it.LeadTimeDays, it.DailyConsumption, it.SafetyStock, it.ReorderPoint, it.UnitPrice); err != nil {
			return err
		}
		if err := checkItemRefs(ctx, s, it.CategoryID, it.PreferredSupplierID); err != nil {
			return err
		}
		it.UpdatedAt = time.Now()
		return s.Items().Update(ctx, it)
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Delete(ctx, itemKey(itemID))
	return toItemResponse(it), nil
}

// ListItems lista ítems con paginación.
func (uc *CatalogUseCase) ListItems(ctx context.Context, id entity.Identity, page dto.PageRequest) (*dto.ItemListResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogView); err != nil {
		return nil, err
	}
	page.DefaultPage()
	out := &dto.ItemListResponse{Items: []dto.ItemResponse{}, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		list, err := s.Items().List(ctx, page.Limit, page.Offset)
		for _, it := range list {
			out.Items = append(out.Items, *toItemResponse(it))
		}
		return err
	})
	return out, err
}

// ── proveedores ──────────────────────────────────────────────────────────

// CreateSupplier crea un proveedor.
func (uc *CatalogUseCase) CreateSupplier(ctx context.Context, id entity.Identity, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.FieldError(domain.ErrValidation, "supplier", "name", "requerido")
	}
	now := time.Now()
	sup := &entity.Supplier{
		ID: uuid.New().String(), Name: in.Name, ContactName: in.ContactName, Email: in.Email, Phone: in.Phone,
		Active: true, CreatedAt: now, UpdatedAt: now,
	}
	if in.Active != nil {
		sup.Active = *in.Active
	}
	if err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		return s.Suppliers().Create(ctx, sup)
	}); err != nil {
		return nil, err
	}
	return toSupplierResponse(sup), nil
}

// GetSupplier obtiene un proveedor. Un usuario supplier solo ve el suyo.
func (uc *CatalogUseCase) GetSupplier(ctx context.Context, id entity.Identity, supplierID string) (*dto.SupplierResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogView); err != nil {
		return nil, err
	}
	if err := authz.RequireSupplier(id, supplierID); err != nil {
		return nil, err
	}
	var sup *entity.Supplier
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		sup, err = s.Suppliers().GetByID(ctx, supplierID)
		if err == nil && sup == nil {
			err = domain.NotFound("supplier", supplierID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(sup), nil
}

// UpdateSupplier reemplaza los datos de contacto y el estado.
func (uc *CatalogUseCase) UpdateSupplier(ctx context.Context, id entity.Identity, supplierID string, in dto.SupplierRequest) (*dto.SupplierResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return nil, err
	}
	var sup *entity.Supplier
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if sup, err = s.Suppliers().GetByID(ctx, supplierID); err != nil {
			return err
		}
		if sup == nil {
			return domain.NotFound("supplier", supplierID)
		}
		if in.Name != "" {
			sup.Name = in.Name
		}
		sup.ContactName, sup.Email, sup.Phone = in.ContactName, in.Email, in.Phone
		if in.Active != nil {
			sup.Active = *in.Active
		}
		sup.UpdatedAt = time.Now()
		return s.Suppliers().Update(ctx, sup)
	})
	if err != nil {
		return nil, err
	}
	return toSupplierResponse(sup), nil
}

// ListSuppliers lista proveedores.
func (uc *CatalogUseCase) ListSuppliers(ctx context.Context, id entity.Identity, page dto.PageRequest) ([]dto.SupplierResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return nil, err
	}
	page.DefaultPage()
	out := []dto.SupplierResponse{}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		list, err := s.Suppliers().List(ctx, page.Limit, page.Offset)
		for _, sup := range list {
			out = append(out, *toSupplierResponse(sup))
		}
		return err
	})
	return out, err
}

// AddSupplierItem agrega un ítem al catálogo del proveedor. El par repetido devuelve domain.ErrDuplicate.
func (uc *CatalogUseCase) AddSupplierItem(ctx context.Context, id entity.Identity, supplierID string, in dto.SupplierItemRequest) (*dto.SupplierItemResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return nil, err
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.FieldError(domain.ErrValidation, "supplier_item", "unit_price", "no puede ser negativo")
	}
	if in.LeadTimeDays < 0 || in.MinOrderQty < 0 {
		return nil, domain.FieldError(domain.ErrValidation, "supplier_item", "lead_time_days", "no puede ser negativo")
	}
	now := time.Now()
	si := &entity.SupplierItem{
		ID: uuid.New().String(), SupplierID: supplierID, ItemID: in.ItemID, SupplierSKU: in.SupplierSKU,
		UnitPrice: in.UnitPrice, LeadTimeDays: in.LeadTimeDays, MinOrderQty: in.MinOrderQty,
		CreatedAt: now, UpdatedAt: now,
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		sup, err := s.Suppliers().GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if sup == nil {
			return domain.NotFound("supplier", supplierID)
		}
		it, err := s.Items().GetByID(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if it == nil {
			return domain.NotFound("item", in.ItemID)
		}
		return s.SupplierItems().Create(ctx, si)
	})
	if err != nil {
		return nil, err
	}
	uc.cache.Delete(ctx, supplierItemKey(supplierID, in.ItemID))
	return toSupplierItemResponse(si), nil
}

// ListSupplierItems catálogo de un proveedor.
func (uc *CatalogUseCase) ListSupplierItems(ctx context.Context, id entity.Identity, supplierID string) ([]dto.SupplierItemResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogView); err != nil {
		return nil, err
	}
	if err := authz.RequireSupplier(id, supplierID); err != nil {
		return nil, err
	}
	out := []dto.SupplierItemResponse{}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		list, err := s.SupplierItems().ListBySupplier(ctx, supplierID)
		for _, si := range list {
			out = append(out, *toSupplierItemResponse(si))
		}
		return err
	})
	return out, err
}

// RemoveSupplierItem quita un ítem del catálogo del proveedor.
func (uc *CatalogUseCase) RemoveSupplierItem(ctx context.Context, id entity.Identity, supplierID, itemID string) error {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return err
	}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		si, err := s.SupplierItems().Get(ctx, supplierID, itemID)
		if err != nil {
			return err
		}
		if si == nil {
			return domain.NotFound("supplier_item", supplierID+":"+itemID)
		}
		return s.SupplierItems().Delete(ctx, si.ID)
	})
	if err == nil {
		uc.cache.Delete(ctx, supplierItemKey(supplierID, itemID))
	}
	return err
}

// ── bodegas ──────────────────────────────────────────────────────────────

// CreateWarehouse crea una bodega. El código es único.
func (uc *CatalogUseCase) CreateWarehouse(ctx context.Context, id entity.Identity, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return nil, err
	}
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	if code == "" {
		return nil, domain.FieldError(domain.ErrValidation, "warehouse", "code", "requerido")
	}
	now := time.Now()
	w := &entity.Warehouse{ID: uuid.New().String(), Code: code, Name: in.Name, Address: in.Address, Active: true, CreatedAt: now, UpdatedAt: now}
	if err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		return s.Warehouses().Create(ctx, w)
	}); err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// GetWarehouse obtiene una bodega.
func (uc *CatalogUseCase) GetWarehouse(ctx context.Context, id entity.Identity, warehouseID string) (*dto.WarehouseResponse, error) {
	if err := uc.gate.Check(id, authz.StockView); err != nil {
		return nil, err
	}
	var w *entity.Warehouse
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		w, err = s.Warehouses().GetByID(ctx, warehouseID)
		if err == nil && w == nil {
			err = domain.NotFound("warehouse", warehouseID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// UpdateWarehouse actualiza nombre, dirección y estado. El código es inmutable.
func (uc *CatalogUseCase) UpdateWarehouse(ctx context.Context, id entity.Identity, warehouseID string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return nil, err
	}
	var w *entity.Warehouse
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		var err error
		if w, err = s.Warehouses().GetByID(ctx, warehouseID); err != nil {
			return err
		}
		if w == nil {
			return domain.NotFound("warehouse", warehouseID)
		}
		if in.Name != nil {
			w.Name = *in.Name
		}
		if in.Address != nil {
			w.Address = *in.Address
		}
		if in.Active != nil {
			w.Active = *in.Active
		}
		w.UpdatedAt = time.Now()
		return s.Warehouses().Update(ctx, w)
	})
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(w), nil
}

// ListWarehouses lista bodegas.
func (uc *CatalogUseCase) ListWarehouses(ctx context.Context, id entity.Identity, page dto.PageRequest) (*dto.WarehouseListResponse, error) {
	if err := uc.gate.Check(id, authz.StockView); err != nil {
		return nil, err
	}
	page.DefaultPage()
	out := &dto.WarehouseListResponse{Items: []dto.WarehouseResponse{}, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}
	err := uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		list, err := s.Warehouses().List(ctx, page.Limit, page.Offset)
		for _, w := range list {
			out.Items = append(out.Items, *toWarehouseResponse(w))
		}
		return err
	})
	return out, err
}

// DeleteWarehouse elimina una bodega sin ubicaciones de stock; con ubicaciones devuelve domain.ErrInUse.
func (uc *CatalogUseCase) DeleteWarehouse(ctx context.Context, id entity.Identity, warehouseID string) error {
	if err := uc.gate.Check(id, authz.CatalogManage); err != nil {
		return err
	}
	return uc.tx.Run(ctx, func(ctx context.Context, s repository.Store) error {
		w, err := s.Warehouses().GetByID(ctx, warehouseID)
		if err != nil {
			return err
		}
		if w == nil {
			return domain.NotFound("warehouse", warehouseID)
		}
		n, err := s.Stock().CountByWarehouse(ctx, warehouseID)
		if err != nil {
			return err
		}
		if n > 0 {
			return &domain.Error{Kind: domain.ErrInUse, Entity: "warehouse", Field: "stock_locations", Message: "la bodega tiene ubicaciones de stock"}
		}
		return s.Warehouses().Delete(ctx, warehouseID)
	})
}

// ── helpers ──────────────────────────────────────────────────────────────

func validateItemNumbers(leadTime int, daily decimal.Decimal, safety, reorder int64, price decimal.Decimal) error {
	switch {
	case leadTime < 0:
		return domain.FieldError(domain.ErrValidation, "item", "lead_time_days", "no puede ser negativo")
	case daily.IsNegative():
		return domain.FieldError(domain.ErrValidation, "item", "daily_consumption", "no puede ser negativo")
	case safety < 0:
		return domain.FieldError(domain.ErrValidation, "item", "safety_stock", "no puede ser negativo")
	case reorder < 0:
		return domain.FieldError(domain.ErrValidation, "item", "reorder_point", "no puede ser negativo")
	case price.IsNegative():
		return domain.FieldError(domain.ErrValidation, "item", "unit_price", "no puede ser negativo")
	}
	return nil
}

func checkItemRefs(ctx context.Context, s repository.Store, categoryID, supplierID string) error {
	if categoryID != "" {
		c, err := s.Categories().GetByID(ctx, categoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NotFound("category", categoryID)
		}
	}
	if supplierID != "" {
		sup, err := s.Suppliers().GetByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if sup == nil {
			return domain.NotFound("supplier", supplierID)
		}
	}
	return nil
}
