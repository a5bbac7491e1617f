// Package cleanup provides the background cache and session sweep worker.
package cleanup

import (
	"context"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/interfaces"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/sessionstore"
)

// Worker periodically removes expired guest sessions from persistent storage
// and stale session/cart entries from the in-memory cache.
type Worker struct {
	cache  interfaces.Cache
	store  sessionstore.Store
	config *Config
	logger *logging.ChanneledLogger
}

// NewWorker creates a new cleanup worker with injected configuration.
func NewWorker(cache interfaces.Cache, store sessionstore.Store, config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		cache:  cache,
		store:  store,
		config: config,
		logger: logger,
	}
}

// Start begins the cleanup routine, using the configured interval.
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.System().Info("Cache cleanup worker started",
		"interval", w.config.CleanupInterval,
		"verbose", w.config.VerboseReporting,
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.performCleanup()
		}
	}
}

func (w *Worker) performCleanup() {
	start := time.Now()

	var sweptGuests, sweptTokens int64
	if sqlStore, ok := w.store.(*sessionstore.SQLStore); ok {
		n, err := sqlStore.SweepExpiredGuests(time.Now())
		if err != nil {
			w.logger.Storage().Error("Expired guest sweep failed", "error", err.Error())
		} else {
			sweptGuests = n
		}

		if w.config.CustomerTokenTTL > 0 {
			n, err = sqlStore.SweepStaleTokens(time.Now(), w.config.CustomerTokenTTL)
			if err != nil {
				w.logger.Storage().Error("Stale token sweep failed", "error", err.Error())
			} else {
				sweptTokens = n
			}
		}
	}

	var sweptSessions, sweptCarts int
	for _, storeID := range w.cache.InitializedStores() {
		sessions, carts := w.cache.SweepStale(storeID, w.config.SessionStateTTL, w.config.CartCacheTTL)
		sweptSessions += sessions
		sweptCarts += carts
	}

	if w.config.VerboseReporting || sweptGuests > 0 || sweptTokens > 0 || sweptSessions > 0 || sweptCarts > 0 {
		w.logger.Cache().Info("Periodic cleanup completed",
			"expiredGuestRecords", sweptGuests,
			"staleCustomerTokens", sweptTokens,
			"staleSessionStates", sweptSessions,
			"staleCartSnapshots", sweptCarts,
			"duration", time.Since(start),
		)
	}
}
