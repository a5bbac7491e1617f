// Package stores provides concrete cache store implementations
package stores

import (
	"sort"
	"sync"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/session"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/types"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

// SessionsStore implements session state caching with store isolation
type SessionsStore struct {
	storeCaches map[string]*types.StoreSessionCache
	mu          sync.RWMutex
	logger      *logging.ChanneledLogger
}

// NewSessionsStore creates a new sessions cache store
func NewSessionsStore(logger *logging.ChanneledLogger) *SessionsStore {
	if logger != nil {
		logger.Cache().Info("Initializing sessions cache store")
	}
	return &SessionsStore{
		storeCaches: make(map[string]*types.StoreSessionCache),
		logger:      logger,
	}
}

// InitializeStore creates cache structures for a store
func (ss *SessionsStore) InitializeStore(storeID string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if ss.storeCaches[storeID] == nil {
		ss.storeCaches[storeID] = &types.StoreSessionCache{
			SessionStates: make(map[string]*types.SessionState),
			LastLoaded:    time.Now().UTC(),
		}
		if ss.logger != nil {
			ss.logger.Cache().Debug("Initialized store session cache", "storeId", storeID)
		}
	}
}

func (ss *SessionsStore) cache(storeID string) *types.StoreSessionCache {
	if ss.storeCaches[storeID] == nil {
		ss.storeCaches[storeID] = &types.StoreSessionCache{
			SessionStates: make(map[string]*types.SessionState),
			LastLoaded:    time.Now().UTC(),
		}
	}
	return ss.storeCaches[storeID]
}

// GetSessionState returns a copy of the session state for a client key, if
// cached. The activity touch mutates the stored state, so reads take the
// write lock; callers mutate only through UpdateSessionState.
func (ss *SessionsStore) GetSessionState(storeID, clientKey string) (*types.SessionState, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	cache, exists := ss.storeCaches[storeID]
	if !exists {
		return nil, false
	}
	state, exists := cache.SessionStates[clientKey]
	if !exists {
		return nil, false
	}
	state.LastAccessed = time.Now().UTC()
	return state.Clone(), true
}

// SetSessionState stores the session state for a client key.
func (ss *SessionsStore) SetSessionState(storeID, clientKey string, state *types.SessionState) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	state.LastAccessed = time.Now().UTC()
	ss.cache(storeID).SessionStates[clientKey] = state
}

// UpdateSessionState applies fn to the state under the write lock, creating
// an empty state first when none exists. Mutations of guest/customer fields
// go through here so concurrent handlers never race on a shared pointer.
func (ss *SessionsStore) UpdateSessionState(storeID, clientKey string, fn func(*types.SessionState)) *types.SessionState {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	cache := ss.cache(storeID)
	state, exists := cache.SessionStates[clientKey]
	if !exists {
		if len(cache.SessionStates) >= config.MaxSessionsPerStore {
			// Keep the newest 80% so a flood of new shoppers can't grow unbounded
			ss.evictOldest(storeID, cache, config.MaxSessionsPerStore*8/10)
		}
		state = &types.SessionState{Customer: &session.CustomerSession{}}
		cache.SessionStates[clientKey] = state
	}
	fn(state)
	state.LastAccessed = time.Now().UTC()
	return state.Clone()
}

// evictOldest trims the store's session map down to keep entries, dropping
// the least recently accessed first. Caller holds ss.mu.
func (ss *SessionsStore) evictOldest(storeID string, cache *types.StoreSessionCache, keep int) {
	type aged struct {
		key  string
		last time.Time
	}
	entries := make([]aged, 0, len(cache.SessionStates))
	for key, state := range cache.SessionStates {
		entries = append(entries, aged{key: key, last: state.LastAccessed})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].last.Before(entries[j].last)
	})

	evicted := 0
	for _, entry := range entries {
		if len(cache.SessionStates) <= keep {
			break
		}
		delete(cache.SessionStates, entry.key)
		evicted++
	}
	if evicted > 0 && ss.logger != nil {
		ss.logger.Cache().Warn("Evicted oldest session states at capacity", "storeId", storeID, "evicted", evicted)
	}
}

// RemoveSessionState drops the state for a client key.
func (ss *SessionsStore) RemoveSessionState(storeID, clientKey string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if cache, exists := ss.storeCaches[storeID]; exists {
		delete(cache.SessionStates, clientKey)
	}
}

// GetAllSessionKeys returns every cached client key for a store.
func (ss *SessionsStore) GetAllSessionKeys(storeID string) []string {
	ss.mu.RLock()
	defer ss.mu.RUnlock()

	cache, exists := ss.storeCaches[storeID]
	if !exists {
		return nil
	}
	keys := make([]string, 0, len(cache.SessionStates))
	for key := range cache.SessionStates {
		keys = append(keys, key)
	}
	return keys
}

// SweepStale removes session states idle longer than ttl and returns the
// count removed.
func (ss *SessionsStore) SweepStale(storeID string, ttl time.Duration) int {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	cache, exists := ss.storeCaches[storeID]
	if !exists {
		return 0
	}

	cutoff := time.Now().UTC().Add(-ttl)
	removed := 0
	for key, state := range cache.SessionStates {
		if state.LastAccessed.Before(cutoff) {
			delete(cache.SessionStates, key)
			removed++
		}
	}

	if removed > 0 && ss.logger != nil {
		ss.logger.Cache().Debug("Swept stale session states", "storeId", storeID, "removed", removed)
	}
	return removed
}

// InvalidateStore drops the whole store cache.
func (ss *SessionsStore) InvalidateStore(storeID string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.storeCaches, storeID)
}
