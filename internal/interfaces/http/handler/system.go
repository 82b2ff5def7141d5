package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/erp/custadmin/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler serves the public liveness endpoints
type SystemHandler struct {
	BaseHandler
	db          Pinger
	pingTimeout time.Duration
}

// NewSystemHandler creates a new SystemHandler. db may be nil.
func NewSystemHandler(db Pinger) *SystemHandler {
	return &SystemHandler{
		db:          db,
		pingTimeout: 2 * time.Second,
	}
}

// Health reports service health and, when configured, database reachability.
// An unreachable database answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := dto.HealthResponse{Status: "healthy"}
	if h.db == nil {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.pingTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}
	resp.Database = "ok"
	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping answers pong with the server time
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
