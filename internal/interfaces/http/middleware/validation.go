package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/francisjavinico/backend-tintado/internal/domain/shared"
	"github.com/francisjavinico/backend-tintado/internal/interfaces/http/dto"
)

// SetupValidator configures gin's validator engine: field names in error
// details come from the json/form tags, and the telefono_es tag accepts
// Spanish mobile numbers in any of the supported prefixes.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("telefono_es", func(fl validator.FieldLevel) bool {
		return shared.IsValidSpanishMobile(fl.Field().String())
	})
}

// FormatValidationErrors shapes binding failures into the standard error
// envelope. Non-validator errors (malformed JSON, wrong types) get a
// single generic detail.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: validationMessage(e),
			})
		}
	}

	return dto.NewValidationErrorResponse(
		"La solicitud no supera la validación",
		requestID,
		details,
	)
}

// HandleValidationError writes a 400 response for a binding failure
func HandleValidationError(c *gin.Context, err error) {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestID))
}

// validationMessage returns a human-readable message for a field error
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Este campo es obligatorio"
	case "email":
		return "El formato del email no es válido"
	case "telefono_es":
		return "El teléfono debe ser un móvil español válido"
	case "uuid":
		return "El identificador no tiene formato UUID"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Debe tener al menos " + e.Param() + " caracteres"
		}
		return "Debe ser como mínimo " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Debe tener como máximo " + e.Param() + " caracteres"
		}
		return "Debe ser como máximo " + e.Param()
	case "len":
		return "Debe tener exactamente " + e.Param() + " caracteres"
	case "oneof":
		return "Debe ser uno de: " + e.Param()
	case "gte":
		return "Debe ser mayor o igual que " + e.Param()
	case "lte":
		return "Debe ser menor o igual que " + e.Param()
	case "gt":
		return "Debe ser mayor que " + e.Param()
	case "dive":
		return "Contiene elementos no válidos"
	default:
		return "Valor no válido"
	}
}
