package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Izzycode820/huzilerz-go/internal/application/container"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

// SysOpHandlers handles operator authentication, runtime introspection, and
// log streaming.
type SysOpHandlers struct {
	container *container.Container
}

// NewSysOpHandlers creates new SysOp handlers.
func NewSysOpHandlers(container *container.Container) *SysOpHandlers {
	return &SysOpHandlers{
		container: container,
	}
}

// AuthCheck handles GET /api/sysop/auth - reports whether sysop access is
// configured and whether the presented token is valid.
func (h *SysOpHandlers) AuthCheck(c *gin.Context) {
	response := gin.H{
		"passwordRequired": config.SysopPassword != "",
		"authenticated":    false,
	}
	if config.SysopPassword == "" {
		response["message"] = "Set SYSOP_PASSWORD to protect the operator surface"
	}

	if token := bearerToken(c); token != "" && h.container.SysopService.ValidateToken(token) {
		response["authenticated"] = true
	}
	c.JSON(http.StatusOK, response)
}

// Login handles POST /api/sysop/login.
func (h *SysOpHandlers) Login(c *gin.Context) {
	var request struct {
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result := h.container.SysopService.Authenticate(request.Password)
	if !result.Success {
		c.JSON(http.StatusUnauthorized, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SysOpAuthMiddleware guards the authenticated operator endpoints.
func (h *SysOpHandlers) SysOpAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.SysopPassword == "" {
			c.Next() // No password set, allow access
			return
		}
		if !h.container.SysopService.ValidateToken(bearerToken(c)) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetStores handles GET /api/sysop/stores - registry plus cache occupancy
// per store.
func (h *SysOpHandlers) GetStores(c *gin.Context) {
	registry := h.container.StoreManager.GetResolver().GetRegistry()
	cacheManager := h.container.CacheManager

	stores := make([]gin.H, 0, len(registry.Stores))
	for storeID, info := range registry.Stores {
		stores = append(stores, gin.H{
			"storeId":     storeID,
			"domains":     info.Domains,
			"status":      info.Status,
			"sessionKeys": len(cacheManager.GetAllSessionKeys(storeID)),
			"cachedCarts": len(cacheManager.GetAllCartSessionIDs(storeID)),
		})
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// GetActivity handles GET /api/sysop/activity - performance stats and
// pending debounced work.
func (h *SysOpHandlers) GetActivity(c *gin.Context) {
	storeID := c.DefaultQuery("storeId", "")
	stats := h.container.PerfTracker.GetStats(storeID)

	c.JSON(http.StatusOK, gin.H{
		"performance":       stats,
		"pendingFlushes":    h.container.CartService.FlushPending(),
		"initializedStores": h.container.CacheManager.InitializedStores(),
	})
}

// InvalidateStore handles POST /api/sysop/stores/invalidate - drops one
// store's cached state. Persistent sessions survive; shoppers re-hydrate on
// next request.
func (h *SysOpHandlers) InvalidateStore(c *gin.Context) {
	var req struct {
		StoreID string `json:"storeId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storeId is required"})
		return
	}

	h.container.CacheManager.InvalidateStore(req.StoreID)
	h.container.Logger.Cache().Info("Store cache invalidated by operator", "storeId", req.StoreID)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// StreamLogs handles the SSE connection for live log streaming.
func (h *SysOpHandlers) StreamLogs(c *gin.Context) {
	broadcaster := logging.GetBroadcaster()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	channelFilter := c.DefaultQuery("channel", "all")
	filters := logging.AppliedFilters{
		Channel: logging.Channel(channelFilter),
		Level:   parseLevel(c.DefaultQuery("level", "INFO"), slog.LevelInfo),
	}

	client := broadcaster.NewClient(filters)
	broadcaster.RegisterClient(client)
	defer broadcaster.UnregisterClient(client)

	fmt.Fprintf(c.Writer, ": connection established\n\n")
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client.Channel:
			if !ok {
				return false
			}
			fmt.Fprintf(w, "data: %s\n\n", message)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

// GetLogLevels handles GET /api/sysop/logs/levels.
func (h *SysOpHandlers) GetLogLevels(c *gin.Context) {
	c.JSON(http.StatusOK, h.container.Logger.GetChannelLevels())
}

// SetLogLevel handles POST /api/sysop/logs/levels.
func (h *SysOpHandlers) SetLogLevel(c *gin.Context) {
	var req struct {
		Channel string `json:"channel" binding:"required"`
		Level   string `json:"level" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	level := parseLevel(req.Level, slog.Level(127))
	if level == slog.Level(127) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log level specified"})
		return
	}

	if err := h.container.Logger.SetChannelLevel(logging.Channel(req.Channel), level); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set log level", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": fmt.Sprintf("Log level for channel '%s' set to '%s'", req.Channel, req.Level)})
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

func parseLevel(s string, fallback slog.Level) slog.Level {
	switch s {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return fallback
}
