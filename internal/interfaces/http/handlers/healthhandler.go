package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/shared/biztime"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/version"
)

const healthPingTimeout = 3 * time.Second

type databasePinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db     databasePinger
	logger logger.Interface
}

func NewHealthHandler(db databasePinger, logger logger.Interface) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// HealthCheck godoc
// @Summary Health check
// @Description Reports service and database status. Answers 503 when the database is unreachable.
// @Tags system
// @Produce json
// @Success 200 {object} map[string]any "Healthy"
// @Failure 503 {object} map[string]any "Database unreachable"
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	status, dbStatus, code := "OK", "ok", http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Errorw("health check database ping failed", "error", err)
		status, dbStatus, code = "DEGRADED", "down", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"database":  dbStatus,
		"version":   version.String(),
		"timestamp": biztime.NowUTC(),
	})
}
