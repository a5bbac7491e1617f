package stores

import (
	"sync"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/commerce"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/types"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
)

// CartsStore caches the last authoritative cart per guest session, plus the
// client-only enrichments carried across backend round trips.
type CartsStore struct {
	storeCaches map[string]*types.StoreCartCache
	mu          sync.RWMutex
	logger      *logging.ChanneledLogger
}

// NewCartsStore creates a new carts cache store
func NewCartsStore(logger *logging.ChanneledLogger) *CartsStore {
	if logger != nil {
		logger.Cache().Info("Initializing carts cache store")
	}
	return &CartsStore{
		storeCaches: make(map[string]*types.StoreCartCache),
		logger:      logger,
	}
}

// InitializeStore creates cache structures for a store
func (cs *CartsStore) InitializeStore(storeID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.storeCaches[storeID] == nil {
		cs.storeCaches[storeID] = &types.StoreCartCache{
			Carts:      make(map[string]*types.CartSnapshot),
			LastLoaded: time.Now().UTC(),
		}
	}
}

func (cs *CartsStore) cache(storeID string) *types.StoreCartCache {
	if cs.storeCaches[storeID] == nil {
		cs.storeCaches[storeID] = &types.StoreCartCache{
			Carts:      make(map[string]*types.CartSnapshot),
			LastLoaded: time.Now().UTC(),
		}
	}
	return cs.storeCaches[storeID]
}

// GetCart returns a clone of the cached cart with enrichments applied, or
// ok=false on a miss. Clones keep callers from mutating the snapshot.
func (cs *CartsStore) GetCart(storeID, sessionID string) (*commerce.Cart, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	cache, exists := cs.storeCaches[storeID]
	if !exists {
		return nil, false
	}
	snapshot, exists := cache.Carts[sessionID]
	if !exists || snapshot.Cart == nil {
		return nil, false
	}

	clone := &types.CartSnapshot{
		Cart:        snapshot.Cart.Clone(),
		Enrichments: snapshot.Enrichments,
	}
	clone.ApplyEnrichments()
	return clone.Cart, true
}

// WriteCart replaces the cached cart for a session, preserving previously
// carried enrichments and absorbing any enrichment-bearing fields already on
// the old cart's items (keyed by product+variant, never by position).
func (cs *CartsStore) WriteCart(storeID, sessionID string, cart *commerce.Cart) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cache := cs.cache(storeID)
	enrichments := make(map[string]types.ItemEnrichment)

	if prev, exists := cache.Carts[sessionID]; exists {
		for key, e := range prev.Enrichments {
			enrichments[key] = e
		}
		if prev.Cart != nil {
			for i := range prev.Cart.Items {
				item := &prev.Cart.Items[i]
				if item.ThumbnailURL != "" {
					enrichments[item.Key()] = types.ItemEnrichment{ThumbnailURL: item.ThumbnailURL}
				}
			}
		}
	}

	// Fields arriving on the new cart win over carried values.
	for i := range cart.Items {
		item := &cart.Items[i]
		if item.ThumbnailURL != "" {
			enrichments[item.Key()] = types.ItemEnrichment{ThumbnailURL: item.ThumbnailURL}
		}
	}

	cache.Carts[sessionID] = &types.CartSnapshot{
		Cart:        cart.Clone(),
		Enrichments: enrichments,
		LastLoaded:  time.Now().UTC(),
	}

	if cs.logger != nil {
		cs.logger.Cache().Debug("Cart cache written", "storeId", storeID, "items", len(cart.Items))
	}
}

// SetEnrichment records a client-only field for a line item before or after
// the item reaches the backend cart.
func (cs *CartsStore) SetEnrichment(storeID, sessionID, itemKey string, enrichment types.ItemEnrichment) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cache := cs.cache(storeID)
	snapshot, exists := cache.Carts[sessionID]
	if !exists {
		snapshot = &types.CartSnapshot{
			Enrichments: make(map[string]types.ItemEnrichment),
			LastLoaded:  time.Now().UTC(),
		}
		cache.Carts[sessionID] = snapshot
	}
	if snapshot.Enrichments == nil {
		snapshot.Enrichments = make(map[string]types.ItemEnrichment)
	}
	snapshot.Enrichments[itemKey] = enrichment
}

// AppendPendingItem writes an optimistic placeholder line for immediate
// feedback while the add-to-cart mutation is in flight.
func (cs *CartsStore) AppendPendingItem(storeID, sessionID string, item commerce.LineItem) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	item.Pending = true

	cache := cs.cache(storeID)
	snapshot, exists := cache.Carts[sessionID]
	if !exists || snapshot.Cart == nil {
		if snapshot == nil {
			snapshot = &types.CartSnapshot{
				Enrichments: make(map[string]types.ItemEnrichment),
				LastLoaded:  time.Now().UTC(),
			}
			cache.Carts[sessionID] = snapshot
		}
		if snapshot.Cart == nil {
			snapshot.Cart = &commerce.Cart{}
		}
	}

	// A pending line for the same product+variant is replaced, not duplicated.
	for i := range snapshot.Cart.Items {
		if snapshot.Cart.Items[i].Key() == item.Key() && snapshot.Cart.Items[i].Pending {
			snapshot.Cart.Items[i] = item
			return
		}
	}
	snapshot.Cart.Items = append(snapshot.Cart.Items, item)
}

// UpdateItemQuantity echoes a quantity change onto the cached cart so the
// storefront sees it before the debounced mutation flushes. Totals are left
// untouched; the authoritative rewrite arrives with the flush response.
func (cs *CartsStore) UpdateItemQuantity(storeID, sessionID, itemKey string, quantity int) bool {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cache, exists := cs.storeCaches[storeID]
	if !exists {
		return false
	}
	snapshot, exists := cache.Carts[sessionID]
	if !exists || snapshot.Cart == nil {
		return false
	}
	for i := range snapshot.Cart.Items {
		if snapshot.Cart.Items[i].Key() == itemKey {
			snapshot.Cart.Items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// RemoveCart drops the cached cart for a session.
func (cs *CartsStore) RemoveCart(storeID, sessionID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cache, exists := cs.storeCaches[storeID]; exists {
		delete(cache.Carts, sessionID)
	}
}

// GetAllCartSessionIDs returns every cached cart's session id for a store.
func (cs *CartsStore) GetAllCartSessionIDs(storeID string) []string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	cache, exists := cs.storeCaches[storeID]
	if !exists {
		return nil
	}
	ids := make([]string, 0, len(cache.Carts))
	for id := range cache.Carts {
		ids = append(ids, id)
	}
	return ids
}

// SweepStale removes cart snapshots older than ttl and returns the count.
func (cs *CartsStore) SweepStale(storeID string, ttl time.Duration) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cache, exists := cs.storeCaches[storeID]
	if !exists {
		return 0
	}

	cutoff := time.Now().UTC().Add(-ttl)
	removed := 0
	for id, snapshot := range cache.Carts {
		if snapshot.LastLoaded.Before(cutoff) {
			delete(cache.Carts, id)
			removed++
		}
	}
	return removed
}

// InvalidateStore drops the whole store cache.
func (cs *CartsStore) InvalidateStore(storeID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.storeCaches, storeID)
}
