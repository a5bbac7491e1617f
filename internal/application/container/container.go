// Package container provides dependency injection for all singleton services
package container

import (
	"log"

	"github.com/Izzycode820/huzilerz-go/internal/application/services"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/backend"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/manager"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/dispatch"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/messaging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/performance"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/sessionstore"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/store"
	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies.
type Container struct {
	// Application services (stateless singletons)
	SessionService *services.SessionService
	CartService    *services.CartService
	SysopService   *services.SysopService

	// Infrastructure
	StoreManager *store.Manager
	CacheManager *manager.Manager
	SessionStore sessionstore.Store
	Backend      *backend.Client
	Debouncer    *dispatch.KeyedDebouncer
	Broadcaster  *messaging.NoticeBroadcaster
	PerfTracker  *performance.Tracker
	Logger       *logging.ChanneledLogger
}

// NewContainer creates and wires all singleton services.
func NewContainer(storeManager *store.Manager, cacheManager *manager.Manager, logger *logging.ChanneledLogger) *Container {
	persistent := newSessionStore(logger)
	client := backend.NewClient(config.GraphQLEndpoint, config.BackendRequestTimeout, logger)
	debouncer := dispatch.NewKeyedDebouncer(config.QuantityDebounceWindow)
	broadcaster := messaging.NewNoticeBroadcaster(logger)
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())

	sessionService := services.NewSessionService(cacheManager, persistent, client, logger)
	cartService := services.NewCartService(
		cacheManager, sessionService, client, debouncer, broadcaster,
		perfTracker, logger, config.BackendRequestTimeout,
	)

	return &Container{
		SessionService: sessionService,
		CartService:    cartService,
		SysopService:   services.NewSysopService(logger),

		StoreManager: storeManager,
		CacheManager: cacheManager,
		SessionStore: persistent,
		Backend:      client,
		Debouncer:    debouncer,
		Broadcaster:  broadcaster,
		PerfTracker:  perfTracker,
		Logger:       logger,
	}
}

// newSessionStore opens the persistent session database, falling back to the
// in-memory no-op store when the database cannot be opened. The gateway stays
// up either way; sessions just stop surviving restarts.
func newSessionStore(logger *logging.ChanneledLogger) sessionstore.Store {
	sqlStore, err := sessionstore.NewSQLStore(sessionstore.OptionsFromConfig(), logger)
	if err != nil {
		log.Printf("Session database unavailable, sessions will not persist: %v", err)
		return sessionstore.NewNoop()
	}
	return sqlStore
}

// Close releases held resources in reverse dependency order.
func (c *Container) Close() error {
	c.Debouncer.Stop()
	return c.SessionStore.Close()
}
