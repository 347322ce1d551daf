package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/repository"
)

type HealthHandler struct {
	db    *repository.PostgresDB
	redis *repository.RedisDB
}

func NewHealthHandler(db *repository.PostgresDB, redis *repository.RedisDB) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

// Check godoc
// @Summary Health check
// @Description Verify the service and its dependencies are reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	status := http.StatusOK
	result := gin.H{
		"status":   "ok",
		"postgres": "up",
		"redis":    "up",
	}

	if err := h.db.Ping(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		result["status"] = "degraded"
		result["postgres"] = "down"
	}
	if err := h.redis.Ping(c.Request.Context()); err != nil {
		status = http.StatusServiceUnavailable
		result["status"] = "degraded"
		result["redis"] = "down"
	}

	c.JSON(status, result)
}
