package inventory

import (
	"sort"

	"github.com/jhoicas/replenishment-api/internal/domain/entity"
)

// Urgency clasificación de una ubicación para el tablero de reposición.
type Urgency string

const (
	UrgencyUrgent Urgency = "urgent"
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

var urgencyRank = map[Urgency]int{UrgencyUrgent: 0, UrgencyHigh: 1, UrgencyMedium: 2, UrgencyLow: 3}

// Assessment resultado del planificador para una ubicación.
type Assessment struct {
	LocationID          string
	ItemID              string
	WarehouseID         string
	SKU                 string
	ItemName            string
	LocationCode        string
	CurrentStock        int64
	MinStock            int64
	MaxStock            int64
	ReorderPoint        int64
	EffectiveMinimum    int64
	LowStock            bool
	Urgency             Urgency
	SuggestedQuantity   int64
	PreferredSupplierID string
}

// Summary conteo de ubicaciones por urgencia.
type Summary struct {
	Total    int `json:"total"`
	LowStock int `json:"low_stock"`
	Urgent   int `json:"urgent"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// EffectiveMinimum = max(minStock, reorderPoint). El punto de reorden ya incluye el stock de seguridad.
func EffectiveMinimum(minStock, reorderPoint int64) int64 {
	if reorderPoint > minStock {
		return reorderPoint
	}
	return minStock
}

// Classify asigna la urgencia: urgent si no hay stock, high si está en la mitad
// del mínimo efectivo o menos, medium si está en el mínimo o menos, low en otro caso.
func Classify(current, effectiveMinimum int64) Urgency {
	switch {
	case current <= 0:
		return UrgencyUrgent
	case current*2 <= effectiveMinimum:
		return UrgencyHigh
	case current <= effectiveMinimum:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// SuggestedQuantity cantidad a solicitar para llevar la ubicación a max(maxStock, mínimo efectivo); al menos 1.
func SuggestedQuantity(current, maxStock, effectiveMinimum int64) int64 {
	target := maxStock
	if effectiveMinimum > target {
		target = effectiveMinimum
	}
	if q := target - current; q > 0 {
		return q
	}
	return 1
}

// Assess evalúa una instantánea (ubicación + ítem).
func Assess(s entity.StockSnapshot) Assessment {
	loc, item := s.Location, s.Item
	effMin := EffectiveMinimum(loc.MinStock, item.ReorderPoint)
	return Assessment{
		LocationID:          loc.ID,
		ItemID:              item.ID,
		WarehouseID:         loc.WarehouseID,
		SKU:                 item.SKU,
		ItemName:            item.Name,
		LocationCode:        loc.LocationCode,
		CurrentStock:        loc.CurrentStock,
		MinStock:            loc.MinStock,
		MaxStock:            loc.MaxStock,
		ReorderPoint:        item.ReorderPoint,
		EffectiveMinimum:    effMin,
		LowStock:            loc.CurrentStock <= effMin,
		Urgency:             Classify(loc.CurrentStock, effMin),
		SuggestedQuantity:   SuggestedQuantity(loc.CurrentStock, loc.MaxStock, effMin),
		PreferredSupplierID: item.PreferredSupplierID,
	}
}

// Plan evalúa todas las ubicaciones activas con ítem activo, la más urgente primero.
// Sin efectos secundarios: la usan tanto el tablero como el programador.
func Plan(snapshots []entity.StockSnapshot) []Assessment {
	out := make([]Assessment, 0, len(snapshots))
	for _, s := range snapshots {
		if !s.Location.Active || !s.Item.Active {
			continue
		}
		out = append(out, Assess(s))
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := urgencyRank[out[i].Urgency], urgencyRank[out[j].Urgency]
		if ri != rj {
			return ri < rj
		}
		return out[i].EffectiveMinimum-out[i].CurrentStock > out[j].EffectiveMinimum-out[j].CurrentStock
	})
	return out
}

// LowStock filtra las evaluaciones marcadas por debajo del mínimo efectivo.
func LowStock(assessments []Assessment) []Assessment {
	out := make([]Assessment, 0)
	for _, a := range assessments {
		if a.LowStock {
			out = append(out, a)
		}
	}
	return out
}

// Summarize cuenta evaluaciones por urgencia.
func Summarize(assessments []Assessment) Summary {
	s := Summary{Total: len(assessments)}
	for _, a := range assessments {
		if a.LowStock {
			s.LowStock++
		}
		switch a.Urgency {
		case UrgencyUrgent:
			s.Urgent++
		case UrgencyHigh:
			s.High++
		case UrgencyMedium:
			s.Medium++
		default:
			s.Low++
		}
	}
	return s
}
