package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Izzycode820/huzilerz-go/internal/application/container"
)

// HealthHandlers serves liveness checks.
type HealthHandlers struct {
	container *container.Container
	started   time.Time
}

func NewHealthHandlers(container *container.Container) *HealthHandlers {
	return &HealthHandlers{container: container, started: time.Now().UTC()}
}

// GetHealth handles GET /api/v1/health.
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
		"stores": len(h.container.CacheManager.InitializedStores()),
	})
}
