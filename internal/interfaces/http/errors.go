package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/domain"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

// errorMapping un tipo de error de dominio y su respuesta HTTP.
type errorMapping struct {
	kind   error
	status int
	code   string
}

// errorTable se recorre en orden: los refinamientos van antes que su tipo padre.
var errorTable = []errorMapping{
	{domain.ErrInvalidQuantity, fiber.StatusBadRequest, "INVALID_QUANTITY"},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrAccessDenied, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrAlreadyDecided, fiber.StatusConflict, "ALREADY_DECIDED"},
	{domain.ErrAlreadyConverted, fiber.StatusConflict, "ALREADY_CONVERTED"},
	{domain.ErrInUse, fiber.StatusConflict, "IN_USE"},
	{domain.ErrInvalidState, fiber.StatusConflict, "INVALID_STATE"},
	{domain.ErrDuplicateGRN, fiber.StatusConflict, "DUPLICATE_GRN"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrNegativeStock, fiber.StatusConflict, "NEGATIVE_STOCK"},
}

// mapError devuelve status y cuerpo para err. Los errores fuera de la taxonomía de dominio
// se reportan como INTERNAL sin su mensaje.
func mapError(err error) (int, dto.ErrorResponse) {
	for _, m := range errorTable {
		if !errors.Is(err, m.kind) {
			continue
		}
		body := dto.ErrorResponse{Code: m.code, Message: err.Error()}
		if d, ok := domain.Details(err); ok {
			body.Field = d.Field
			body.State = d.State
		}
		return m.status, body
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

// writeError responde con el error mapeado; los 500 se registran con el detalle original.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, body := mapError(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error no controlado")
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler para fiber.Config: errores de fiber conservan su status, el resto pasa por la tabla.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		return writeError(c, log, err)
	}
}
