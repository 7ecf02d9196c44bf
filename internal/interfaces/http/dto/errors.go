package dto

import (
	"errors"
	"net/http"

	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
)

// Transport-level error codes. Domain codes come from shared.
const (
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeInvalidToken    = "INVALID_TOKEN"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:   http.StatusBadRequest,
	shared.CodeInvalidType:  http.StatusBadRequest,
	shared.CodeEmptyCart:    http.StatusBadRequest,
	shared.CodeEmptyReceipt: http.StatusBadRequest,
	ErrCodeBadRequest:       http.StatusBadRequest,
	ErrCodeInvalidJSON:      http.StatusBadRequest,

	shared.CodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeInvalidToken:     http.StatusUnauthorized,

	shared.CodeNotFound: http.StatusNotFound,

	shared.CodeAlreadyExists:         http.StatusConflict,
	shared.CodeConcurrencyConflict:   http.StatusConflict,
	shared.CodeIdempotencyInProgress: http.StatusConflict,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	shared.CodeInsufficientStock:   http.StatusUnprocessableEntity,
	shared.CodeInsufficientPayment: http.StatusUnprocessableEntity,
	shared.CodeOverReceipt:         http.StatusUnprocessableEntity,
	shared.CodeOrderClosed:         http.StatusUnprocessableEntity,

	shared.CodeDataIntegrity: http.StatusInternalServerError,
	ErrCodeInternal:          http.StatusInternalServerError,
}

// GetHTTPStatus returns the status for code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsBusinessRejection reports whether code is a rule violation rather than
// malformed input or a server fault.
func IsBusinessRejection(code string) bool {
	switch code {
	case shared.CodeInsufficientStock, shared.CodeInsufficientPayment, shared.CodeOverReceipt,
		shared.CodeOrderClosed, shared.CodeEmptyCart, shared.CodeEmptyReceipt,
		shared.CodeConcurrencyConflict, shared.CodeIdempotencyInProgress:
		return true
	}
	return false
}

// ErrorFromDomain resolves err into status and envelope fields. Errors that
// are not domain errors become a generic 500 without leaking their text.
func ErrorFromDomain(err error) (status int, info ErrorInfo) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return GetHTTPStatus(domainErr.Code), ErrorInfo{
			Code:    domainErr.Code,
			Message: domainErr.Message,
			Details: domainErr.Details,
		}
	}
	return http.StatusInternalServerError, ErrorInfo{
		Code:    ErrCodeInternal,
		Message: "An unexpected error occurred",
	}
}
