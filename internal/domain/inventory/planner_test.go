package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/inventory"
)

func snapshot(current, minStock, maxStock, reorderPoint int64) entity.StockSnapshot {
	return entity.StockSnapshot{
		Location: entity.StockLocation{ID: "loc-1", ItemID: "item-1", WarehouseID: "wh-1",
			CurrentStock: current, MinStock: minStock, MaxStock: maxStock, Active: true},
		Item: entity.Item{ID: "item-1", SKU: "SKU-1", ReorderPoint: reorderPoint, SafetyStock: 7, Active: true},
	}
}

func TestEffectiveMinimum_NoSumaStockDeSeguridad(t *testing.T) {
	a := inventory.Assess(snapshot(5, 10, 100, 12))
	assert.Equal(t, int64(12), a.EffectiveMinimum)

	a = inventory.Assess(snapshot(5, 15, 100, 12))
	assert.Equal(t, int64(15), a.EffectiveMinimum)
}

func TestClassify_Fronteras(t *testing.T) {
	cases := []struct {
		name    string
		current int64
		effMin  int64
		want    inventory.Urgency
	}{
		{"sin stock siempre urgente", 0, 10, inventory.UrgencyUrgent},
		{"sin stock con mínimo cero", 0, 0, inventory.UrgencyUrgent},
		{"mitad exacta es high", 5, 10, inventory.UrgencyHigh},
		{"mitad con mínimo impar", 5, 11, inventory.UrgencyHigh},
		{"sobre la mitad es medium", 6, 11, inventory.UrgencyMedium},
		{"igual al mínimo es medium", 10, 10, inventory.UrgencyMedium},
		{"mínimo más uno es low", 11, 10, inventory.UrgencyLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.Classify(tc.current, tc.effMin))
		})
	}
}

// La regla de la mitad manda sobre la de "medium": 5 con mínimo efectivo 10 es high y sigue siendo bajo stock.
func TestAssess_CincoSobreDiezEsHighYBajoStock(t *testing.T) {
	a := inventory.Assess(snapshot(5, 10, 100, 10))
	assert.Equal(t, int64(10), a.EffectiveMinimum)
	assert.Equal(t, inventory.UrgencyHigh, a.Urgency)
	assert.True(t, a.LowStock)
	assert.Equal(t, int64(95), a.SuggestedQuantity)
}

func TestAssess_MarcaBajoStock(t *testing.T) {
	assert.True(t, inventory.Assess(snapshot(10, 10, 100, 10)).LowStock)
	assert.False(t, inventory.Assess(snapshot(11, 10, 100, 10)).LowStock)
	assert.True(t, inventory.Assess(snapshot(0, 0, 1, 0)).LowStock)
}

func TestSuggestedQuantity_LlenaHastaElMaximo(t *testing.T) {
	assert.Equal(t, int64(95), inventory.Assess(snapshot(5, 10, 100, 10)).SuggestedQuantity)
	// máximo por debajo del mínimo efectivo: se repone hasta el mínimo
	assert.Equal(t, int64(15), inventory.SuggestedQuantity(5, 8, 20))
	assert.Equal(t, int64(1), inventory.SuggestedQuantity(30, 20, 10))
}

func TestPlan_OrdenaPorUrgenciaYExcluyeInactivos(t *testing.T) {
	inactive := snapshot(0, 10, 100, 10)
	inactive.Item.Active = false

	out := inventory.Plan([]entity.StockSnapshot{
		snapshot(50, 10, 100, 10),
		snapshot(0, 10, 100, 10),
		inactive,
		snapshot(8, 10, 100, 10),
	})
	require.Len(t, out, 3)
	assert.Equal(t, inventory.UrgencyUrgent, out[0].Urgency)
	assert.Equal(t, inventory.UrgencyMedium, out[1].Urgency)
	assert.Equal(t, inventory.UrgencyLow, out[2].Urgency)

	assert.Len(t, inventory.LowStock(out), 2)
	s := inventory.Summarize(out)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.LowStock)
	assert.Equal(t, 1, s.Urgent)
}

func TestPlan_NoModificaLaEntrada(t *testing.T) {
	in := []entity.StockSnapshot{snapshot(0, 10, 100, 10)}
	_ = inventory.Plan(in)
	assert.Equal(t, int64(0), in[0].Location.CurrentStock)
	assert.Equal(t, int64(10), in[0].Location.MinStock)
}
