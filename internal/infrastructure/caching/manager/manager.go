// Package manager composes the cache stores behind one facade.
package manager

import (
	"sync"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/commerce"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/stores"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/types"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
)

// Manager is the single cache authority for the gateway process: per-store
// session states and cart snapshots, all in memory, all guarded by the
// individual stores' locks.
type Manager struct {
	sessions *stores.SessionsStore
	carts    *stores.CartsStore

	initialized map[string]bool
	mu          sync.RWMutex
	logger      *logging.ChanneledLogger
}

// NewManager creates the cache manager with its component stores.
func NewManager(logger *logging.ChanneledLogger) *Manager {
	return &Manager{
		sessions:    stores.NewSessionsStore(logger),
		carts:       stores.NewCartsStore(logger),
		initialized: make(map[string]bool),
		logger:      logger,
	}
}

// InitializeStore prepares cache structures for a store.
func (m *Manager) InitializeStore(storeID string) {
	m.mu.Lock()
	m.initialized[storeID] = true
	m.mu.Unlock()

	m.sessions.InitializeStore(storeID)
	m.carts.InitializeStore(storeID)
}

// InitializedStores lists stores with cache structures.
func (m *Manager) InitializedStores() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.initialized))
	for id := range m.initialized {
		ids = append(ids, id)
	}
	return ids
}

func (m *Manager) GetSessionState(storeID, clientKey string) (*types.SessionState, bool) {
	return m.sessions.GetSessionState(storeID, clientKey)
}

func (m *Manager) SetSessionState(storeID, clientKey string, state *types.SessionState) {
	m.sessions.SetSessionState(storeID, clientKey, state)
}

func (m *Manager) UpdateSessionState(storeID, clientKey string, fn func(*types.SessionState)) *types.SessionState {
	return m.sessions.UpdateSessionState(storeID, clientKey, fn)
}

func (m *Manager) RemoveSessionState(storeID, clientKey string) {
	m.sessions.RemoveSessionState(storeID, clientKey)
}

func (m *Manager) GetAllSessionKeys(storeID string) []string {
	return m.sessions.GetAllSessionKeys(storeID)
}

func (m *Manager) GetCart(storeID, sessionID string) (*commerce.Cart, bool) {
	return m.carts.GetCart(storeID, sessionID)
}

func (m *Manager) WriteCart(storeID, sessionID string, cart *commerce.Cart) {
	m.carts.WriteCart(storeID, sessionID, cart)
}

func (m *Manager) SetEnrichment(storeID, sessionID, itemKey string, enrichment types.ItemEnrichment) {
	m.carts.SetEnrichment(storeID, sessionID, itemKey, enrichment)
}

func (m *Manager) AppendPendingItem(storeID, sessionID string, item commerce.LineItem) {
	m.carts.AppendPendingItem(storeID, sessionID, item)
}

func (m *Manager) UpdateItemQuantity(storeID, sessionID, itemKey string, quantity int) bool {
	return m.carts.UpdateItemQuantity(storeID, sessionID, itemKey, quantity)
}

func (m *Manager) RemoveCart(storeID, sessionID string) {
	m.carts.RemoveCart(storeID, sessionID)
}

func (m *Manager) GetAllCartSessionIDs(storeID string) []string {
	return m.carts.GetAllCartSessionIDs(storeID)
}

// SweepStale removes idle session states and stale cart snapshots for one
// store, returning counts for the cleanup report.
func (m *Manager) SweepStale(storeID string, sessionTTL, cartTTL time.Duration) (int, int) {
	sessions := m.sessions.SweepStale(storeID, sessionTTL)
	carts := m.carts.SweepStale(storeID, cartTTL)
	return sessions, carts
}

// InvalidateStore drops all cached state for a store.
func (m *Manager) InvalidateStore(storeID string) {
	m.sessions.InvalidateStore(storeID)
	m.carts.InvalidateStore(storeID)

	m.mu.Lock()
	delete(m.initialized, storeID)
	m.mu.Unlock()

	if m.logger != nil {
		m.logger.Cache().Info("Store cache invalidated", "storeId", storeID)
	}
}
