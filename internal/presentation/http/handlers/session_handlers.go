// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Izzycode820/huzilerz-go/internal/application/services"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/performance"
	"github.com/Izzycode820/huzilerz-go/internal/presentation/http/middleware"
)

// SessionHandlers contains the session lifecycle HTTP handlers.
type SessionHandlers struct {
	sessionService *services.SessionService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewSessionHandlers creates session handlers with injected dependencies.
func NewSessionHandlers(sessionService *services.SessionService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SessionHandlers {
	return &SessionHandlers{
		sessionService: sessionService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// GetSession handles GET /api/v1/session - hydrates and returns the
// shopper's session snapshot.
func (h *SessionHandlers) GetSession(c *gin.Context) {
	storeCtx, exists := middleware.GetStoreContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store context not found"})
		return
	}
	clientKey := middleware.GetClientKey(c)

	marker := h.perfTracker.StartOperation("get_session_request", storeCtx.StoreID)
	defer marker.Complete()

	h.sessionService.Hydrate(c.Request.Context(), storeCtx, clientKey)
	snapshot := h.sessionService.Snapshot(storeCtx, clientKey)

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, snapshot)
}

// PostGuestSession handles POST /api/v1/session/guest - creates a guest cart
// session on demand. Failure to create is a 200 with an empty id; the
// storefront treats the cart as unavailable, not broken.
func (h *SessionHandlers) PostGuestSession(c *gin.Context) {
	storeCtx, exists := middleware.GetStoreContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store context not found"})
		return
	}
	clientKey := middleware.GetClientKey(c)

	start := time.Now()
	marker := h.perfTracker.StartOperation("post_guest_session_request", storeCtx.StoreID)
	defer marker.Complete()

	sessionID := h.sessionService.EnsureGuestSession(c.Request.Context(), storeCtx, clientKey)
	marker.SetSuccess(sessionID != "")

	h.logger.Session().Debug("Guest session ensured",
		"storeId", storeCtx.StoreID, "created", sessionID != "", "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"guestSessionId": sessionID})
}

// PostLogin handles POST /api/v1/auth/login - customer authentication.
func (h *SessionHandlers) PostLogin(c *gin.Context) {
	storeCtx, exists := middleware.GetStoreContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store context not found"})
		return
	}
	clientKey := middleware.GetClientKey(c)

	var loginReq struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
		return
	}

	start := time.Now()
	marker := h.perfTracker.StartOperation("post_login_request", storeCtx.StoreID)
	defer marker.Complete()

	result := h.sessionService.Login(c.Request.Context(), storeCtx, clientKey, loginReq.Email, loginReq.Password)
	marker.SetSuccess(result.Success)

	h.logger.Auth().Debug("Login attempt handled",
		"storeId", storeCtx.StoreID, "success", result.Success, "duration", time.Since(start))

	if !result.Success {
		c.JSON(http.StatusUnauthorized, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostLogout handles POST /api/v1/auth/logout. Always succeeds: local state
// is cleared whether or not the backend acknowledged.
func (h *SessionHandlers) PostLogout(c *gin.Context) {
	storeCtx, exists := middleware.GetStoreContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store context not found"})
		return
	}
	clientKey := middleware.GetClientKey(c)

	marker := h.perfTracker.StartOperation("post_logout_request", storeCtx.StoreID)
	defer marker.Complete()

	h.sessionService.Logout(c.Request.Context(), storeCtx, clientKey)
	marker.SetSuccess(true)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
