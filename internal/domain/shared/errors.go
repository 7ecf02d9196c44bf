package shared

import "fmt"

// Error codes shared by every bounded context.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeInvalidType           = "INVALID_TYPE"
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeInsufficientStock     = "INSUFFICIENT_STOCK"
	CodeInsufficientPayment   = "INSUFFICIENT_PAYMENT"
	CodeEmptyCart             = "EMPTY_CART"
	CodeEmptyReceipt          = "EMPTY_RECEIPT"
	CodeOverReceipt           = "OVER_RECEIPT"
	CodeOrderClosed           = "ORDER_CLOSED"
	CodeConcurrencyConflict   = "CONCURRENCY_CONFLICT"
	CodeDataIntegrity         = "DATA_INTEGRITY"
	CodeIdempotencyInProgress = "IDEMPOTENCY_IN_PROGRESS"
	CodeUnauthorized          = "UNAUTHORIZED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError carrying the same code, so
// errors.Is(err, shared.ErrNotFound) matches any not-found error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error with an extra detail attached
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{Code: e.Code, Message: e.Message, Details: details}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a VALIDATION_ERROR with a formatted message
func NewValidationError(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// Common domain errors
var (
	ErrNotFound              = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists         = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrValidation            = NewDomainError(CodeValidation, "Invalid input provided")
	ErrInvalidType           = NewDomainError(CodeInvalidType, "Unknown ledger entry type")
	ErrInsufficientStock     = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrInsufficientPayment   = NewDomainError(CodeInsufficientPayment, "Payments do not cover the sale total")
	ErrEmptyCart             = NewDomainError(CodeEmptyCart, "Cart has no lines")
	ErrEmptyReceipt          = NewDomainError(CodeEmptyReceipt, "Receipt has no received quantities")
	ErrOverReceipt           = NewDomainError(CodeOverReceipt, "Received quantity exceeds outstanding quantity")
	ErrOrderClosed           = NewDomainError(CodeOrderClosed, "Purchase order is closed")
	ErrConcurrencyConflict   = NewDomainError(CodeConcurrencyConflict, "Resource is locked by another transaction, retry the operation")
	ErrDataIntegrity         = NewDomainError(CodeDataIntegrity, "Ledger data integrity violation")
	ErrIdempotencyInProgress = NewDomainError(CodeIdempotencyInProgress, "A request with this idempotency key is still being processed")
	ErrUnauthorized          = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
)

// NewInsufficientStockError names the variant that cannot cover the requested quantity
func NewInsufficientStockError(variantID fmt.Stringer, requested, onHand int64) *DomainError {
	return &DomainError{
		Code:    CodeInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for variant %s: requested %d, on hand %d", variantID, requested, onHand),
		Details: map[string]any{
			"variant_id": variantID.String(),
			"requested":  requested,
			"on_hand":    onHand,
		},
	}
}
