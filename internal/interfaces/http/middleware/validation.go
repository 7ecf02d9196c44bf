package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/realmfikri/pos-shoestore/internal/domain/ledger"
	"github.com/realmfikri/pos-shoestore/internal/domain/purchasing"
	"github.com/realmfikri/pos-shoestore/internal/domain/sales"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
)

// SetupValidator reports JSON field names in validation errors and registers
// the POS enum tags: ledger_type, adjust_reason, payment_method, po_status.
func SetupValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return RegisterValidations(v)
}

// RegisterValidations installs the custom tags on v
func RegisterValidations(v *validator.Validate) error {
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

	validations := map[string]validator.Func{
		"ledger_type": func(fl validator.FieldLevel) bool {
			_, err := ledger.ParseEntryType(fl.Field().String())
			return err == nil
		},
		"adjust_reason": func(fl validator.FieldLevel) bool {
			_, err := ledger.ParseAdjustmentReason(fl.Field().String())
			return err == nil
		},
		"payment_method": func(fl validator.FieldLevel) bool {
			_, err := sales.ParsePaymentMethod(fl.Field().String())
			return err == nil
		},
		"po_status": func(fl validator.FieldLevel) bool {
			return purchasing.OrderStatus(strings.ToUpper(fl.Field().String())).IsValid()
		},
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// HandleBindingError writes the response for a failed ShouldBind* call
func HandleBindingError(c *gin.Context, err error) {
	status, resp := BindingErrorResponse(err, GetRequestID(c))
	c.Set(ErrorCodeKey, resp.Error.Code)
	c.AbortWithStatusJSON(status, resp)
}

// BindingErrorResponse classifies a binding error into status and envelope
func BindingErrorResponse(err error, requestID string) (int, dto.Response) {
	var (
		validationErrs validator.ValidationErrors
		maxBytesErr    *http.MaxBytesError
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
	)

	switch {
	case errors.As(err, &validationErrs):
		details := make([]dto.ValidationDetail, 0, len(validationErrs))
		for _, e := range validationErrs {
			details = append(details, dto.ValidationDetail{
				Field:   e.Field(),
				Message: getValidationMessage(e),
			})
		}
		return http.StatusBadRequest, dto.NewErrorResponse(shared.CodeValidation, "Request validation failed", requestID,
			map[string]any{"fields": details})
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge, dto.NewErrorResponse(dto.ErrCodeRequestTooLarge,
			"Request body exceeds maximum allowed size", requestID, nil)
	case errors.As(err, &typeErr):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeInvalidJSON,
			"Field "+typeErr.Field+" has the wrong type", requestID, nil)
	case errors.As(err, &syntaxErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeInvalidJSON, "Malformed JSON body", requestID, nil)
	default:
		return http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, err.Error(), requestID, nil)
	}
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "Must be at least " + e.Param() + " characters"
		}
		if e.Type().Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " items"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "uuid":
		return "Invalid UUID format"
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "lte":
		return "Must be less than or equal to " + e.Param()
	case "ledger_type":
		return "Must be one of: INITIAL_COUNT ADJUSTMENT RECEIPT SALE"
	case "adjust_reason":
		return "Must be one of: damaged lost"
	case "payment_method":
		return "Must be one of: CASH CARD QRIS TRANSFER"
	case "po_status":
		return "Must be one of: DRAFT PARTIALLY_RECEIVED RECEIVED CANCELLED"
	default:
		return "Invalid value"
	}
}
