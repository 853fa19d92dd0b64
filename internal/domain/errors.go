package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrValidation        = errors.New("entrada inválida")
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrAccessDenied      = errors.New("acceso denegado")
	ErrInvalidState      = errors.New("operación no válida para el estado actual")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrNegativeStock     = errors.New("el stock no puede quedar negativo")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Refinamientos: cada uno satisface errors.Is contra su tipo padre.
var (
	ErrInvalidQuantity  = refine(ErrValidation, "cantidad fuera de rango")
	ErrAlreadyDecided   = refine(ErrInvalidState, "el documento ya fue decidido")
	ErrAlreadyConverted = refine(ErrInvalidState, "la solicitud ya no está disponible para conversión")
	ErrInUse            = refine(ErrInvalidState, "el recurso tiene dependencias")
	ErrDuplicateGRN     = refine(ErrDuplicate, "la orden de compra ya tiene una recepción")
)

type kindError struct {
	msg    string
	parent error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.parent }

func refine(parent error, msg string) error {
	return &kindError{msg: msg, parent: parent}
}

// Error lleva el detalle que el llamador necesita para reaccionar
// (entidad, campo o estado actual). Unwrap devuelve el tipo de error.
type Error struct {
	Kind    error
	Entity  string
	Field   string
	State   string
	Message string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.Error()
	}
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s (%s)", e.Entity, msg, e.Field)
	case e.State != "":
		return fmt.Sprintf("%s: %s (estado actual: %s)", e.Entity, msg, e.State)
	case e.Entity != "":
		return fmt.Sprintf("%s: %s", e.Entity, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

// FieldError construye un error de validación asociado a un campo.
func FieldError(kind error, entity, field, msg string) error {
	return &Error{Kind: kind, Entity: entity, Field: field, Message: msg}
}

// StateError construye un error de transición indicando el estado actual del documento.
func StateError(kind error, entity, state string) error {
	return &Error{Kind: kind, Entity: entity, State: state}
}

// NotFound indica que la entidad con el id dado no existe.
func NotFound(entity, id string) error {
	return &Error{Kind: ErrNotFound, Entity: entity, Field: "id", Message: "no encontrado: " + id}
}

// Details extrae el detalle de un *Error, si lo hay.
func Details(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
