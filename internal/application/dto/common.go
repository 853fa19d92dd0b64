package dto

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// DocumentListRequest filtros de listado para PR, OC, recepciones y traslados.
type DocumentListRequest struct {
	PageRequest
	Status      string `query:"status" validate:"omitempty,max=30"`
	ItemID      string `query:"item_id" validate:"omitempty,uuid"`
	WarehouseID string `query:"warehouse_id" validate:"omitempty,uuid"`
	SupplierID  string `query:"supplier_id" validate:"omitempty,uuid"`
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
// Field y State se informan cuando el error se refiere a un campo o al estado actual de un documento.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	State   string `json:"state,omitempty"`
}

// DecisionRequest cuerpo común de aprobar/rechazar.
type DecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	Notes  string `json:"notes" validate:"omitempty,max=1000"`
}

// NotesRequest cuerpo opcional con notas (cancelaciones, envíos).
type NotesRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=1000"`
}
