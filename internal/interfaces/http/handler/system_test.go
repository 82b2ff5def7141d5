package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantState  string
		wantDB     string
	}{
		{"without database", nil, http.StatusOK, "healthy", ""},
		{"database reachable", fakePinger{}, http.StatusOK, "healthy", "ok"},
		{"database down", fakePinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable, "unhealthy", "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSystemHandler(tt.db)
			c, w := newTestContext("")

			h.Health(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			data, ok := resp.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantState, data["status"])
			if tt.wantDB == "" {
				assert.NotContains(t, data, "database")
			} else {
				assert.Equal(t, tt.wantDB, data["database"])
			}
		})
	}
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler(nil)

	router := gin.New()
	router.GET("/api/v1/ping", h.Ping)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "pong", data["message"])
	assert.NotEmpty(t, data["timestamp"])
}
