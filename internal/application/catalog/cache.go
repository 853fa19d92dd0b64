package catalog

import "context"

// Cache caché de lectura del catálogo. Las lecturas del flujo toleran datos
// levemente desactualizados; las escrituras del catálogo invalidan las claves.
type Cache interface {
	Get(ctx context.Context, key string, dst any) bool
	Set(ctx context.Context, key string, v any)
	Delete(ctx context.Context, keys ...string)
}

// NopCache caché deshabilitada.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) bool { return false }
func (NopCache) Set(context.Context, string, any)      {}
func (NopCache) Delete(context.Context, ...string)     {}

func itemKey(id string) string { return "catalog:item:" + id }

func supplierItemKey(supplierID, itemID string) string {
	return "catalog:supplier_item:" + supplierID + ":" + itemID
}
