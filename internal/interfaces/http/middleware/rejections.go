package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
)

// ErrorCodeKey is where handlers leave the code of the error they returned
const ErrorCodeKey = "error_code"

// RejectionRecorder counts business rule rejections
type RejectionRecorder interface {
	RecordRejection(ctx context.Context, code string)
}

// Rejections reports every response whose error code is a business
// rejection (insufficient stock, over receipt and the like).
func Rejections(recorder RejectionRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if recorder == nil {
			return
		}
		code := c.GetString(ErrorCodeKey)
		if code != "" && dto.IsBusinessRejection(code) {
			recorder.RecordRejection(c.Request.Context(), code)
		}
	}
}
