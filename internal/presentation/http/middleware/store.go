// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/performance"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/security"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/store"
)

const clientKeyCookie = "hz_client_key"

// clientKeyTTL matches the guest session lifetime so the browser identity
// outlives the cart it keys.
const clientKeyTTL = 30 * 24 * time.Hour

// StoreMiddleware resolves the storefront making the request into a full
// store context and pins a stable client key to the browser. Requests whose
// hostname maps to no registered store are rejected here.
func StoreMiddleware(storeManager *store.Manager, perfTracker *performance.Tracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		marker := perfTracker.StartOperation("middleware_store_resolution", "unknown")
		defer marker.Complete()

		marker.AddMetadata("path", c.Request.URL.Path)
		marker.AddMetadata("method", c.Request.Method)

		storeCtx, err := storeManager.GetContext(c)
		if err != nil {
			marker.SetSuccess(false)
			marker.SetError(err)
			c.JSON(http.StatusNotFound, gin.H{"error": "store not found"})
			c.Abort()
			return
		}
		marker.StoreID = storeCtx.StoreID

		clientKey := resolveClientKey(c)

		storeCtx.Logger.Store().Debug("Store context resolved",
			"storeId", storeCtx.StoreID,
			"host", storeCtx.StorefrontHost,
			"duration", time.Since(start))
		marker.SetSuccess(true)

		c.Set("storeContext", storeCtx)
		c.Set("clientKey", clientKey)
		c.Next()
	}
}

// resolveClientKey returns the browser's stable identity, minting one when
// absent. Header wins over cookie so embedded storefronts that cannot carry
// cookies still work; a fresh key is echoed both ways.
func resolveClientKey(c *gin.Context) string {
	if key := c.GetHeader("X-Client-Key"); key != "" {
		return key
	}
	if key, err := c.Cookie(clientKeyCookie); err == nil && key != "" {
		return key
	}

	key := security.GenerateULID()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(clientKeyCookie, key, int(clientKeyTTL.Seconds()), "/", "", false, true)
	c.Header("X-Client-Key", key)
	return key
}

// GetStoreContext retrieves the store context from gin context.
func GetStoreContext(c *gin.Context) (*store.Context, bool) {
	v, exists := c.Get("storeContext")
	if !exists {
		return nil, false
	}
	ctx, ok := v.(*store.Context)
	return ctx, ok
}

// GetClientKey retrieves the resolved client key from gin context.
func GetClientKey(c *gin.Context) string {
	return c.GetString("clientKey")
}
