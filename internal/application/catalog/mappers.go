package catalog

import (
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
)

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Description: c.Description, Active: c.Active, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func toItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:                  it.ID,
		SKU:                 it.SKU,
		Name:                it.Name,
		CategoryID:          it.CategoryID,
		UnitMeasure:         it.UnitMeasure,
		LeadTimeDays:        it.LeadTimeDays,
		DailyConsumption:    it.DailyConsumption,
		SafetyStock:         it.SafetyStock,
		ReorderPoint:        it.ReorderPoint,
		UnitPrice:           it.UnitPrice,
		Active:              it.Active,
		PreferredSupplierID: it.PreferredSupplierID,
		CreatedAt:           it.CreatedAt,
		UpdatedAt:           it.UpdatedAt,
	}
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID: s.ID, Name: s.Name, ContactName: s.ContactName, Email: s.Email, Phone: s.Phone,
		Active: s.Active, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

func toSupplierItemResponse(si *entity.SupplierItem) *dto.SupplierItemResponse {
	return &dto.SupplierItemResponse{
		ID: si.ID, SupplierID: si.SupplierID, ItemID: si.ItemID, SupplierSKU: si.SupplierSKU,
		UnitPrice: si.UnitPrice, LeadTimeDays: si.LeadTimeDays, MinOrderQty: si.MinOrderQty,
		CreatedAt: si.CreatedAt, UpdatedAt: si.UpdatedAt,
	}
}

func toWarehouseResponse(w *entity.Warehouse) *dto.WarehouseResponse {
	return &dto.WarehouseResponse{
		ID: w.ID, Code: w.Code, Name: w.Name, Address: w.Address, Active: w.Active,
		CreatedAt: w.CreatedAt, UpdatedAt: w.UpdatedAt,
	}
}
