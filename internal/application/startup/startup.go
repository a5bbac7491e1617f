// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Izzycode820/huzilerz-go/internal/application/container"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/cleanup"
	cachemanager "github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/manager"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/store"
	"github.com/Izzycode820/huzilerz-go/internal/presentation/http/server"
	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

// Initialize performs the complete storefront gateway startup sequence.
func Initialize() error {
	setupGin()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	log.Println("huzilerz storefront gateway")

	// Step 1: Channeled logging
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.Startup().Info("Channeled logging initialized")

	// Step 2: Cache system
	stepStart := time.Now()
	cacheManager := cachemanager.NewManager(logger)
	logger.LogStartupPhase("cache", time.Since(stepStart), true)

	// Step 3: Store resolution (registry, hostname mapping)
	stepStart = time.Now()
	storeManager, err := store.NewManager(cacheManager, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize store manager: %w", err)
	}
	logger.LogStartupPhase("store_manager", time.Since(stepStart), true)

	// Step 4: Preload registered stores so first requests skip cold setup
	stepStart = time.Now()
	preloaded, err := storeManager.PreloadRegisteredStores()
	if err != nil {
		logger.Startup().Warn("Store preload incomplete", "error", err.Error())
	}
	logger.Startup().Info("Stores preloaded", "count", preloaded, "duration", time.Since(stepStart))

	// Step 5: Dependency injection container
	stepStart = time.Now()
	appContainer := container.NewContainer(storeManager, cacheManager, logger)
	logger.LogStartupPhase("container", time.Since(stepStart), true)

	// Step 6: Background cleanup worker
	stepStart = time.Now()
	cleanupWorker := cleanup.NewWorker(cacheManager, appContainer.SessionStore, cleanup.NewConfig(), logger)
	go cleanupWorker.Start(ctx)
	logger.Startup().Info("Background cleanup worker started", "duration", time.Since(stepStart))

	// Step 7: HTTP server
	stepStart = time.Now()
	httpServer := server.New(config.Port, appContainer)
	logger.Startup().Info("HTTP server initialized", "port", config.Port, "duration", time.Since(stepStart))

	// Step 8: Graceful shutdown wiring
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+config.Port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"stores", preloaded,
		"port", config.Port)

	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	// Let in-flight debounced quantity flushes land before the transport
	// goes away.
	drainDeadline := time.Now().Add(config.QuantityDebounceWindow + time.Second)
	for appContainer.CartService.FlushPending() > 0 && time.Now().Before(drainDeadline) {
		time.Sleep(50 * time.Millisecond)
	}
	if pending := appContainer.CartService.FlushPending(); pending > 0 {
		logger.Shutdown().Warn("Quantity updates abandoned at shutdown", "pending", pending)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Shutdown().Info("Stopping HTTP server...")
	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	logger.Shutdown().Info("Closing container resources...")
	if err := appContainer.Close(); err != nil {
		logger.Shutdown().Error("Error closing container", "error", err.Error())
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return logger.Close()
}

func setupGin() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
}
