package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// HealthHandler проверяет доступность сервиса и его зависимостей.
type HealthHandler struct {
	db *sqlx.DB
}

// NewHealthHandler создаёт хэндлер проверки здоровья.
func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse формат ответа /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
}

// Check обрабатывает GET /health.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	healthy := true

	if err := h.db.PingContext(ctx); err != nil {
		checks["database"] = "unavailable: " + err.Error()
		healthy = false
	} else {
		checks["database"] = "ok"
	}

	stats := h.db.Stats()
	if stats.OpenConnections >= stats.MaxOpenConnections && stats.MaxOpenConnections > 0 {
		checks["pool"] = "exhausted"
		healthy = false
	} else {
		checks["pool"] = "ok"
	}

	resp := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}

	if !healthy {
		resp.Status = "degraded"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
