package entity

import "time"

// StockLocation es el registro del libro de stock para un par (ítem, bodega).
// CurrentStock solo lo modifican la aprobación de recepciones y la finalización de traslados.
type StockLocation struct {
	ID           string
	ItemID       string
	WarehouseID  string
	Aisle        string
	Rack         string
	Bin          string
	LocationCode string
	CurrentStock int64
	MinStock     int64
	MaxStock     int64
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StockDefaults valores con los que se crea una ubicación inexistente.
type StockDefaults struct {
	MinStock int64
	MaxStock int64
}

// StockSnapshot une una ubicación activa con su ítem activo (entrada del planificador).
type StockSnapshot struct {
	Location StockLocation
	Item     Item
}
