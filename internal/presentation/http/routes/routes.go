// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/Izzycode820/huzilerz-go/internal/application/container"
	"github.com/Izzycode820/huzilerz-go/internal/presentation/http/handlers"
	"github.com/Izzycode820/huzilerz-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	sessionHandlers := handlers.NewSessionHandlers(container.SessionService, container.Logger, container.PerfTracker)
	cartHandlers := handlers.NewCartHandlers(container.CartService, container.Logger, container.PerfTracker)
	noticeHandlers := handlers.NewNoticeHandlers(container.Broadcaster, container.Logger)
	sysopHandlers := handlers.NewSysOpHandlers(container)
	healthHandlers := handlers.NewHealthHandlers(container)

	r.GET("/api/v1/health", healthHandlers.GetHealth)

	// Operator surface
	sysopAPI := r.Group("/api/sysop")
	{
		sysopAPI.GET("/auth", sysopHandlers.AuthCheck)
		sysopAPI.POST("/login", sysopHandlers.Login)

		sysopAPI.Use(sysopHandlers.SysOpAuthMiddleware())
		{
			sysopAPI.GET("/stores", sysopHandlers.GetStores)
			sysopAPI.GET("/activity", sysopHandlers.GetActivity)
			sysopAPI.POST("/stores/invalidate", sysopHandlers.InvalidateStore)
			sysopAPI.GET("/logs/levels", sysopHandlers.GetLogLevels)
			sysopAPI.POST("/logs/levels", sysopHandlers.SetLogLevel)
		}
	}

	// Log streaming is a special case and can remain at top level
	r.GET("/sysop-logs/stream", sysopHandlers.StreamLogs)

	// Storefront routes with store resolution middleware
	api := r.Group("/api/v1")
	api.Use(middleware.StoreMiddleware(container.StoreManager, container.PerfTracker))
	{
		api.GET("/session", sessionHandlers.GetSession)
		api.POST("/session/guest", sessionHandlers.PostGuestSession)
		api.POST("/auth/login", sessionHandlers.PostLogin)
		api.POST("/auth/logout", sessionHandlers.PostLogout)

		api.GET("/cart", cartHandlers.GetCart)
		api.POST("/cart/items", cartHandlers.PostCartItem)
		api.PUT("/cart/items", cartHandlers.PutCartItem)
		api.DELETE("/cart/items", cartHandlers.DeleteCartItem)
		api.POST("/cart/discount", cartHandlers.PostDiscount)
		api.DELETE("/cart/discount", cartHandlers.DeleteDiscount)

		api.GET("/notices/ws", noticeHandlers.StreamNotices)
	}

	return r
}
