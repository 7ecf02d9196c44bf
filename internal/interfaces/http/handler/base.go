// Package handler holds the gin handlers of the POS API.
package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/infrastructure/logger"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error envelope, deriving the status from code
func (h *BaseHandler) Error(c *gin.Context, code, message string, details map[string]any) {
	c.Set(middleware.ErrorCodeKey, code)
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, message, middleware.GetRequestID(c), details))
}

// HandleError converts a service error into the error envelope. Unexpected
// errors are logged and hidden behind INTERNAL_ERROR.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	status, info := dto.ErrorFromDomain(err)
	if status >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("Request failed", zap.Error(err), zap.String("error_code", info.Code))
	}
	c.Set(middleware.ErrorCodeKey, info.Code)
	info.RequestID = middleware.GetRequestID(c)
	c.JSON(status, dto.Response{Success: false, Error: &info})
}

// BindJSON binds the body into req, writing the error response on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleBindingError(c, err)
		return false
	}
	return true
}

// BindQuery binds query parameters into req, writing the error response on failure
func (h *BaseHandler) BindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleBindingError(c, err)
		return false
	}
	return true
}

// ParamID parses a UUID path parameter, writing a 400 on failure
func (h *BaseHandler) ParamID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, shared.CodeValidation, "Invalid "+name+": must be a UUID", nil)
		return uuid.Nil, false
	}
	return id, true
}

// actorID returns the resolved actor of the request, nil when anonymous
func actorID(c *gin.Context) *uuid.UUID {
	return middleware.GetActorID(c)
}

// parseOptionalUUID parses a query value that may be empty
func parseOptionalUUID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, shared.NewValidationError("%s must be a UUID", field)
	}
	return &id, nil
}

// parseDateFrom accepts RFC3339 or YYYY-MM-DD (start of that UTC day)
func parseDateFrom(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, shared.NewValidationError("date_from must be RFC3339 or YYYY-MM-DD")
	}
	return &t, nil
}

// parseDateTo accepts RFC3339 or YYYY-MM-DD. A bare date includes the whole day.
func parseDateTo(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, shared.NewValidationError("date_to must be RFC3339 or YYYY-MM-DD")
	}
	end := t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return &end, nil
}

// parseOptionalBool parses "true"/"false" style query values
func parseOptionalBool(raw, field string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, shared.NewValidationError("%s must be true or false", field)
	}
	return &b, nil
}
