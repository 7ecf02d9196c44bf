package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/realmfikri/pos-shoestore/internal/domain/shared"
	"github.com/realmfikri/pos-shoestore/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adjustmentBody struct {
	Reason   string `json:"reason" binding:"required,adjust_reason"`
	Quantity int64  `json:"quantity" binding:"required,gt=0"`
	Method   string `json:"method" binding:"omitempty,payment_method"`
	Type     string `json:"type" binding:"omitempty,ledger_type"`
}

func validationRouter(t *testing.T) *gin.Engine {
	require.NoError(t, SetupValidator())
	r := gin.New()
	r.Use(RequestID())
	r.POST("/x", func(c *gin.Context) {
		var body adjustmentBody
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleBindingError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return r
}

func post(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestBinding_CustomTags(t *testing.T) {
	r := validationRouter(t)

	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"valid", `{"reason":"Damaged","quantity":2,"method":"cash","type":"adjustment"}`, http.StatusOK, ""},
		{"unknown reason", `{"reason":"stolen","quantity":2}`, http.StatusBadRequest, "reason"},
		{"zero quantity", `{"reason":"lost","quantity":0}`, http.StatusBadRequest, "quantity"},
		{"unknown method", `{"reason":"lost","quantity":1,"method":"cheque"}`, http.StatusBadRequest, "method"},
		{"unknown type", `{"reason":"lost","quantity":1,"type":"TRANSFER"}`, http.StatusBadRequest, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(r, tt.body)
			require.Equal(t, tt.status, w.Code)
			if tt.field == "" {
				return
			}
			resp := decodeResponse(t, w)
			assert.Equal(t, shared.CodeValidation, resp.Error.Code)
			fields, ok := resp.Error.Details["fields"].([]any)
			require.True(t, ok)
			require.Len(t, fields, 1)
			assert.Equal(t, tt.field, fields[0].(map[string]any)["field"])
		})
	}
}

func TestBinding_MalformedJSON(t *testing.T) {
	r := validationRouter(t)

	w := post(r, `{"reason":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)

	w = post(r, `{"reason":"lost","quantity":"two"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidJSON, decodeResponse(t, w).Error.Code)
}
