// Package interfaces defines the cache contract consumed by the cleanup
// worker and the sysop surface.
package interfaces

import (
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/commerce"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/types"
)

// Cache is the composed cache surface of the gateway.
type Cache interface {
	InitializeStore(storeID string)
	InitializedStores() []string

	GetSessionState(storeID, clientKey string) (*types.SessionState, bool)
	SetSessionState(storeID, clientKey string, state *types.SessionState)
	UpdateSessionState(storeID, clientKey string, fn func(*types.SessionState)) *types.SessionState
	RemoveSessionState(storeID, clientKey string)
	GetAllSessionKeys(storeID string) []string

	GetCart(storeID, sessionID string) (*commerce.Cart, bool)
	WriteCart(storeID, sessionID string, cart *commerce.Cart)
	SetEnrichment(storeID, sessionID, itemKey string, enrichment types.ItemEnrichment)
	AppendPendingItem(storeID, sessionID string, item commerce.LineItem)
	UpdateItemQuantity(storeID, sessionID, itemKey string, quantity int) bool
	RemoveCart(storeID, sessionID string)
	GetAllCartSessionIDs(storeID string) []string

	SweepStale(storeID string, sessionTTL, cartTTL time.Duration) (sessions, carts int)
	InvalidateStore(storeID string)
}
