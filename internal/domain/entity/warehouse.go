package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario.
// Code participa en el código de ubicación de cada StockLocation.
type Warehouse struct {
	ID        string
	Code      string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
