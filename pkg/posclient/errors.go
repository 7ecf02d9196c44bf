package posclient

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response decoded from the error envelope
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("posclient: HTTP %d", e.Status)
	}
	return fmt.Sprintf("posclient: HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// ErrorCode returns the API error code carried by err, or "" when err is
// not an APIError.
func ErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}
