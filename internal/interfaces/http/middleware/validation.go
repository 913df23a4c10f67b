package middleware

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/tradelink/backend/internal/domain/standards"
	"github.com/tradelink/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for request ID
const RequestIDKey = "X-Request-ID"

// jsonFieldName resolves the wire name of a struct field so validation
// errors quote what the caller actually sent.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
	}
	return name
}

// SetupValidator registers the wire-name resolver and the trade item
// identifier checks. GTIN and eCl@ss codes are validated at the binding
// boundary so malformed codes never reach the domain layer.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(jsonFieldName)

	v.RegisterValidation("gtin", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		// Emptiness is the business of the required tag.
		return value == "" || standards.IsValidGTIN(value)
	})
	v.RegisterValidation("eclass", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || standards.IsValidEclass(value)
	})
}

// FormatValidationErrors formats validation errors into a standard response
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
		"Request validation failed",
		requestID,
		details,
	)
}

// HandleValidationError returns a validation error response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestID(c)))
}

// requestID reads the request id set by the RequestID middleware, falling
// back to the inbound header.
func requestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

// validationMessages maps validator tags to fixed human-readable text.
// Tags that embed their parameter are handled in validationMessage.
var validationMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"uuid":     "Invalid UUID format",
	"url":      "Invalid URL format",
	"numeric":  "Must be numeric",
	"alphanum": "Must be alphanumeric",
	"gtin":     "Invalid GTIN check digit or format",
	"eclass":   "Invalid eCl@ss code",
}

// validationMessage renders a human-readable message for one failed rule.
func validationMessage(e validator.FieldError) string {
	if msg, ok := validationMessages[e.Tag()]; ok {
		return msg
	}

	characters := ""
	if e.Type().Kind() == reflect.String {
		characters = " characters"
	}

	switch e.Tag() {
	case "min":
		return "Must be at least " + e.Param() + characters
	case "max":
		return "Must be at most " + e.Param() + characters
	case "len":
		return "Must be exactly " + e.Param() + " characters"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lt":
		return "Must be less than " + e.Param()
	default:
		return "Invalid value"
	}
}
