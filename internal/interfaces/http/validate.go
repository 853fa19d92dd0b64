package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/replenishment-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, key := range []string{"json", "query"} {
			if tag := strings.SplitN(f.Tag.Get(key), ",", 2)[0]; tag != "" && tag != "-" {
				return tag
			}
		}
		return f.Name
	})
	return v
}

// parseBody decodifica el JSON del cuerpo y valida las etiquetas validate.
func parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.FieldError(domain.ErrValidation, "", "body", "cuerpo inválido")
	}
	return validateStruct(dst)
}

// parseQuery decodifica query params (etiquetas query) y valida.
func parseQuery(c *fiber.Ctx, dst any) error {
	if err := c.QueryParser(dst); err != nil {
		return domain.FieldError(domain.ErrValidation, "", "query", "parámetros inválidos")
	}
	return validateStruct(dst)
}

func validateStruct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		kind := domain.ErrValidation
		if strings.Contains(fe.Field(), "quantity") {
			kind = domain.ErrInvalidQuantity
		}
		return domain.FieldError(kind, "", fe.Field(), validationMessage(fe))
	}
	return domain.FieldError(domain.ErrValidation, "", "", err.Error())
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " es requerido"
	case "min":
		return fmt.Sprintf("%s debe ser al menos %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s debe ser como máximo %s", fe.Field(), fe.Param())
	case "email":
		return fe.Field() + " debe ser un email válido"
	case "uuid":
		return fe.Field() + " debe ser un UUID"
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", fe.Field(), fe.Param())
	case "nefield":
		return fmt.Sprintf("%s debe ser distinto de %s", fe.Field(), fe.Param())
	}
	return fe.Field() + " es inválido"
}
