package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/commerce"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/backend"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/interfaces"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/types"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/dispatch"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/messaging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/performance"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/store"
)

// CartResult is the uniform shape cart operations hand back to the HTTP
// surface. Validation failures from the backend (bad discount code, unknown
// variant) appear as Success=false with Error, same as transport failures.
type CartResult struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Cart    *commerce.Cart `json:"cart,omitempty"`
}

// AddItemInput carries what the storefront already knows about the product
// being added. Display fields feed the optimistic pending line; the backend
// response replaces everything except the thumbnail, which the backend does
// not serve and the gateway re-applies on every cart write.
type AddItemInput struct {
	ProductID    string `json:"productId"`
	VariantID    string `json:"variantId,omitempty"`
	Quantity     int    `json:"quantity"`
	Title        string `json:"title,omitempty"`
	UnitPrice    string `json:"unitPrice,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// CartService coordinates cart mutations between the storefront and the
// commerce backend: optimistic pending lines for adds, trailing-debounced
// dispatch for quantity changes, awaited refetch for removals and discounts.
type CartService struct {
	cache     interfaces.Cache
	sessions  *SessionService
	backend   *backend.Client
	debouncer *dispatch.KeyedDebouncer
	notifier  messaging.Notifier
	perf      *performance.Tracker
	logger    *logging.ChanneledLogger

	// dispatchTimeout bounds the detached backend call a debounced quantity
	// flush makes after the originating request has already returned.
	dispatchTimeout time.Duration
}

func NewCartService(
	cache interfaces.Cache,
	sessions *SessionService,
	client *backend.Client,
	debouncer *dispatch.KeyedDebouncer,
	notifier messaging.Notifier,
	perf *performance.Tracker,
	logger *logging.ChanneledLogger,
	dispatchTimeout time.Duration,
) *CartService {
	return &CartService{
		cache:           cache,
		sessions:        sessions,
		backend:         client,
		debouncer:       debouncer,
		notifier:        notifier,
		perf:            perf,
		logger:          logger,
		dispatchTimeout: dispatchTimeout,
	}
}

// GetCart returns the shopper's cart. Without an active guest session there
// is no cart, which is an empty result rather than an error. Cached carts are
// served as-is; a miss triggers a backend fetch.
func (s *CartService) GetCart(ctx context.Context, storeCtx *store.Context, clientKey string) CartResult {
	state := s.sessions.Hydrate(ctx, storeCtx, clientKey)
	if !state.Guest.Active(time.Now()) {
		return CartResult{Success: true, Cart: &commerce.Cart{Items: []commerce.LineItem{}}}
	}
	sessionID := state.Guest.ID

	if cart, ok := s.cache.GetCart(storeCtx.StoreID, sessionID); ok {
		return CartResult{Success: true, Cart: cart}
	}
	return s.refetch(ctx, storeCtx, sessionID)
}

// AddToCart optimistically appends a pending line, dispatches the mutation,
// and reconciles the cache with the backend's authoritative cart. Failures
// roll the cache back by refetching and surface a notice to the shopper.
func (s *CartService) AddToCart(ctx context.Context, storeCtx *store.Context, clientKey string, input AddItemInput) CartResult {
	storeID := storeCtx.StoreID
	marker := s.perf.StartOperation("cart_add", storeID)
	defer marker.Complete()

	if input.Quantity < 1 {
		input.Quantity = 1
	}

	sessionID := s.sessions.EnsureGuestSession(ctx, storeCtx, clientKey)
	if sessionID == "" {
		marker.SetSuccess(false)
		s.notifier.NotifyError(storeID, clientKey, "Could not start a cart session")
		return CartResult{Success: false, Error: "no cart session"}
	}

	itemKey := commerce.ItemKey(input.ProductID, input.VariantID)
	if input.ThumbnailURL != "" {
		s.cache.SetEnrichment(storeID, sessionID, itemKey, types.ItemEnrichment{ThumbnailURL: input.ThumbnailURL})
	}
	s.cache.AppendPendingItem(storeID, sessionID, commerce.LineItem{
		ProductID:    input.ProductID,
		VariantID:    input.VariantID,
		Title:        input.Title,
		Quantity:     input.Quantity,
		UnitPrice:    input.UnitPrice,
		ThumbnailURL: input.ThumbnailURL,
		Pending:      true,
	})

	start := time.Now()
	payload, err := s.backend.AddToCart(ctx, storeCtx.Target(), sessionID, input.ProductID, input.VariantID, input.Quantity)
	if err != nil || !payload.Success || payload.Cart == nil {
		marker.SetSuccess(false)
		s.logger.LogCartOperation("add", storeID, sessionID, false, time.Since(start))
		// Drop the pending line by restoring the backend's view.
		s.refetch(ctx, storeCtx, sessionID)
		s.notifier.NotifyError(storeID, clientKey, "Could not add item to cart")
		return CartResult{Success: false, Error: failureReason(err, payload)}
	}

	s.cache.WriteCart(storeID, sessionID, payload.Cart)
	s.logger.LogCartOperation("add", storeID, sessionID, true, time.Since(start))
	cart, _ := s.cache.GetCart(storeID, sessionID)
	s.notifier.NotifyCartUpdated(storeID, clientKey, cart)
	return CartResult{Success: true, Cart: cart}
}

// UpdateQuantity applies the change to the cached cart immediately and
// schedules the backend mutation behind a trailing debounce keyed by line
// item, so a shopper clicking "+" five times produces one mutation carrying
// the final quantity. Quantities below one are dropped without dispatching:
// zero means removal, which is its own operation, and decrementing a line
// already at one must not produce a redundant mutation.
func (s *CartService) UpdateQuantity(ctx context.Context, storeCtx *store.Context, clientKey, productID, variantID string, quantity int) CartResult {
	storeID := storeCtx.StoreID
	state := s.sessions.Hydrate(ctx, storeCtx, clientKey)
	if !state.Guest.Active(time.Now()) {
		return CartResult{Success: false, Error: "no cart session"}
	}
	sessionID := state.Guest.ID
	itemKey := commerce.ItemKey(productID, variantID)

	if quantity < 1 {
		echoed, _ := s.cache.GetCart(storeID, sessionID)
		return CartResult{Success: true, Cart: echoed}
	}

	// Local echo so the UI reflects the change before the flush.
	if !s.cache.UpdateItemQuantity(storeID, sessionID, itemKey, quantity) {
		return CartResult{Success: false, Error: "item not in cart"}
	}

	target := storeCtx.Target()
	debounceKey := fmt.Sprintf("%s/%s/%s", storeID, sessionID, itemKey)
	s.debouncer.Schedule(debounceKey, func() {
		s.flushQuantity(target, storeID, clientKey, sessionID, productID, variantID, quantity)
	})

	echoed, _ := s.cache.GetCart(storeID, sessionID)
	return CartResult{Success: true, Cart: echoed}
}

// flushQuantity runs when the debounce window closes, detached from any
// request context.
func (s *CartService) flushQuantity(target backend.Target, storeID, clientKey, sessionID, productID, variantID string, quantity int) {
	ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
	defer cancel()

	start := time.Now()
	payload, err := s.backend.UpdateCartItem(ctx, target, sessionID, productID, variantID, quantity)
	if err != nil || !payload.Success || payload.Cart == nil {
		s.logger.LogCartOperation("update_quantity", storeID, sessionID, false, time.Since(start))
		s.refetchDetached(target, storeID, sessionID)
		s.notifier.NotifyError(storeID, clientKey, "Could not update quantity")
		return
	}

	s.cache.WriteCart(storeID, sessionID, payload.Cart)
	s.logger.LogCartOperation("update_quantity", storeID, sessionID, true, time.Since(start))
	cart, _ := s.cache.GetCart(storeID, sessionID)
	s.notifier.NotifyCartUpdated(storeID, clientKey, cart)
}

// RemoveItem deletes a line and refetches the cart rather than patching the
// cache, because removal shifts totals and discount allocation in ways only
// the backend computes.
func (s *CartService) RemoveItem(ctx context.Context, storeCtx *store.Context, clientKey, productID, variantID string) CartResult {
	storeID := storeCtx.StoreID
	state := s.sessions.Hydrate(ctx, storeCtx, clientKey)
	if !state.Guest.Active(time.Now()) {
		return CartResult{Success: false, Error: "no cart session"}
	}
	sessionID := state.Guest.ID

	// A pending quantity flush for this line would race the removal.
	s.debouncer.Cancel(fmt.Sprintf("%s/%s/%s", storeID, sessionID, commerce.ItemKey(productID, variantID)))

	start := time.Now()
	payload, err := s.backend.RemoveFromCart(ctx, storeCtx.Target(), sessionID, productID, variantID)
	if err != nil || !payload.Success {
		s.logger.LogCartOperation("remove", storeID, sessionID, false, time.Since(start))
		s.notifier.NotifyError(storeID, clientKey, "Could not remove item")
		return CartResult{Success: false, Error: failureReason(err, payload)}
	}
	s.logger.LogCartOperation("remove", storeID, sessionID, true, time.Since(start))

	result := s.refetch(ctx, storeCtx, sessionID)
	if result.Success {
		s.notifier.NotifyCartUpdated(storeID, clientKey, result.Cart)
	}
	return result
}

// ApplyDiscount applies a code and refetches. A rejected code is a normal
// Success=false result carrying the backend's reason.
func (s *CartService) ApplyDiscount(ctx context.Context, storeCtx *store.Context, clientKey, code string) CartResult {
	return s.discountOp(ctx, storeCtx, clientKey, "apply_discount", func(c context.Context, t backend.Target, sessionID string) (*backend.CartPayload, error) {
		return s.backend.ApplyDiscount(c, t, sessionID, code)
	})
}

// RemoveDiscount clears the applied code and refetches.
func (s *CartService) RemoveDiscount(ctx context.Context, storeCtx *store.Context, clientKey string) CartResult {
	return s.discountOp(ctx, storeCtx, clientKey, "remove_discount", func(c context.Context, t backend.Target, sessionID string) (*backend.CartPayload, error) {
		return s.backend.RemoveDiscount(c, t, sessionID)
	})
}

func (s *CartService) discountOp(ctx context.Context, storeCtx *store.Context, clientKey, operation string, call func(context.Context, backend.Target, string) (*backend.CartPayload, error)) CartResult {
	storeID := storeCtx.StoreID
	state := s.sessions.Hydrate(ctx, storeCtx, clientKey)
	if !state.Guest.Active(time.Now()) {
		return CartResult{Success: false, Error: "no cart session"}
	}
	sessionID := state.Guest.ID

	start := time.Now()
	payload, err := call(ctx, storeCtx.Target(), sessionID)
	if err != nil || !payload.Success {
		s.logger.LogCartOperation(operation, storeID, sessionID, false, time.Since(start))
		return CartResult{Success: false, Error: failureReason(err, payload)}
	}
	s.logger.LogCartOperation(operation, storeID, sessionID, true, time.Since(start))

	result := s.refetch(ctx, storeCtx, sessionID)
	if result.Success {
		s.notifier.NotifyCartUpdated(storeID, clientKey, result.Cart)
	}
	return result
}

// FlushPending reports scheduled-but-undispatched quantity changes; the
// sysop surface exposes it and shutdown waits on it reaching zero.
func (s *CartService) FlushPending() int {
	return s.debouncer.PendingCount()
}

// refetch replaces the cached cart with the backend's current view.
func (s *CartService) refetch(ctx context.Context, storeCtx *store.Context, sessionID string) CartResult {
	storeID := storeCtx.StoreID
	payload, err := s.backend.GetCart(ctx, storeCtx.Target(), sessionID)
	if err != nil || !payload.Success || payload.Cart == nil {
		s.logger.Cart().Warn("Cart refetch failed",
			"storeId", storeID, "sessionId", sessionID, "error", err)
		return CartResult{Success: false, Error: failureReason(err, payload)}
	}
	s.cache.WriteCart(storeID, sessionID, payload.Cart)
	cart, _ := s.cache.GetCart(storeID, sessionID)
	return CartResult{Success: true, Cart: cart}
}

func (s *CartService) refetchDetached(target backend.Target, storeID, sessionID string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.dispatchTimeout)
	defer cancel()

	payload, err := s.backend.GetCart(ctx, target, sessionID)
	if err != nil || !payload.Success || payload.Cart == nil {
		s.logger.Cart().Warn("Detached cart refetch failed",
			"storeId", storeID, "sessionId", sessionID, "error", err)
		return
	}
	s.cache.WriteCart(storeID, sessionID, payload.Cart)
}

// failureReason collapses the two failure shapes (transport error, backend
// Success=false) into one message.
func failureReason(err error, payload *backend.CartPayload) string {
	if err != nil {
		return "backend unavailable"
	}
	if payload != nil && payload.Error != "" {
		return payload.Error
	}
	return "operation failed"
}
