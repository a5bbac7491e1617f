package store

import (
	"fmt"
	"sync"

	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/manager"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// Manager coordinates store resolution and context creation.
type Manager struct {
	resolver     *Resolver
	cacheManager *manager.Manager
	contexts     map[string]*Context
	globalMutex  sync.RWMutex
	logger       *logging.ChanneledLogger
}

// NewManager creates and initializes a new store manager.
func NewManager(cacheManager *manager.Manager, logger *logging.ChanneledLogger) (*Manager, error) {
	resolver, err := NewResolver(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store resolver: %w", err)
	}

	return &Manager{
		resolver:     resolver,
		cacheManager: cacheManager,
		contexts:     make(map[string]*Context),
		logger:       logger,
	}, nil
}

// GetContext creates or retrieves a store context for the request.
func (m *Manager) GetContext(c *gin.Context) (*Context, error) {
	storeID, host, err := m.resolver.ResolveStore(c)
	if err != nil {
		return nil, fmt.Errorf("store resolution failed: %w", err)
	}

	m.globalMutex.RLock()
	if ctx, exists := m.contexts[storeID]; exists {
		m.globalMutex.RUnlock()
		// StorefrontHost follows the request, not the cached context.
		scoped := *ctx
		scoped.StorefrontHost = host
		return &scoped, nil
	}
	m.globalMutex.RUnlock()

	return m.createContext(storeID, host)
}

// NewContextFromID creates a store context directly from a store ID, used
// during startup warmup and by background workers.
func (m *Manager) NewContextFromID(storeID string) (*Context, error) {
	return m.createContext(storeID, "")
}

func (m *Manager) createContext(storeID, host string) (*Context, error) {
	storeConfig, err := LoadStoreConfig(storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load store config: %w", err)
	}

	m.cacheManager.InitializeStore(storeID)

	ctx := &Context{
		StoreID:        storeID,
		StorefrontHost: host,
		Config:         storeConfig,
		CacheManager:   m.cacheManager,
		Logger:         m.logger,
	}

	m.globalMutex.Lock()
	m.contexts[storeID] = ctx
	m.globalMutex.Unlock()

	if m.logger != nil {
		m.logger.Store().Debug("Store context created", "storeId", storeID)
	}

	return ctx, nil
}

// PreloadRegisteredStores loads a context for every active registry entry so
// the first request pays no config-read latency.
func (m *Manager) PreloadRegisteredStores() (int, error) {
	registry := m.resolver.GetRegistry()

	loaded := 0
	for storeID, info := range registry.Stores {
		if info.Status != "active" {
			continue
		}
		if _, err := m.createContext(storeID, ""); err != nil {
			if m.logger != nil {
				m.logger.Store().Warn("Failed to preload store", "storeId", storeID, "error", err.Error())
			}
			continue
		}
		loaded++
	}
	return loaded, nil
}

// GetResolver returns the resolver, for the sysop surface.
func (m *Manager) GetResolver() *Resolver {
	return m.resolver
}

// GetCacheManager returns the shared cache manager.
func (m *Manager) GetCacheManager() *manager.Manager {
	return m.cacheManager
}
