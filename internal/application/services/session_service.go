// Package services contains the application facades the HTTP surface calls
// into. Services hold no per-request state; everything shopper-scoped lives
// in the cache manager keyed by (storeID, clientKey).
package services

import (
	"context"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/session"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/backend"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/interfaces"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/types"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/security"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/sessionstore"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/store"
	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

// SessionSnapshot is the state exposed to the storefront. It mirrors what a
// theme needs to render header and account UI; Loading is true until the
// shopper's first hydration completes.
type SessionSnapshot struct {
	GuestSessionID  string           `json:"guestSessionId,omitempty"`
	GuestExpiresAt  *time.Time       `json:"guestExpiresAt,omitempty"`
	IsAuthenticated bool             `json:"isAuthenticated"`
	Profile         *session.Profile `json:"profile,omitempty"`
	Loading         bool             `json:"loading"`
}

// LoginResult reports a login attempt. Failures are data, never errors: a
// rejected credential pair and an unreachable backend both come back as
// Success=false so callers have exactly one path to handle.
type LoginResult struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Profile *session.Profile `json:"profile,omitempty"`
}

// SessionService is the single authority over both session lifecycles. All
// reads and writes of guest and customer session state go through it.
type SessionService struct {
	cache      interfaces.Cache
	persistent sessionstore.Store
	backend    *backend.Client
	logger     *logging.ChanneledLogger
}

func NewSessionService(cache interfaces.Cache, persistent sessionstore.Store, client *backend.Client, logger *logging.ChanneledLogger) *SessionService {
	return &SessionService{
		cache:      cache,
		persistent: persistent,
		backend:    client,
		logger:     logger,
	}
}

// Hydrate loads the shopper's persisted session identifiers into the cache
// and revalidates the customer token with the backend. It runs at most the
// work once per client key; subsequent calls are cheap cache reads.
func (s *SessionService) Hydrate(ctx context.Context, storeCtx *store.Context, clientKey string) *types.SessionState {
	storeID := storeCtx.StoreID

	if state, ok := s.cache.GetSessionState(storeID, clientKey); ok && state.Hydrated {
		return state
	}

	start := time.Now()
	guest, hasGuest := s.persistent.GetGuestSession(storeID, clientKey)
	token, hasToken := s.persistent.GetCustomerToken(storeID, clientKey)

	state := &types.SessionState{
		Guest:        &session.GuestSession{},
		Customer:     &session.CustomerSession{},
		Hydrated:     true,
		LastAccessed: time.Now().UTC(),
	}
	if hasGuest {
		state.Guest = &guest
	}

	if hasToken {
		state.Customer = s.revalidateCustomer(ctx, storeCtx, clientKey, token)
	}

	s.cache.SetSessionState(storeID, clientKey, state)
	s.logger.LogSessionOperation("hydrate", storeID, clientKey, true)
	s.logger.Session().Debug("Session hydrated",
		"storeId", storeID, "hasGuest", hasGuest, "hasCustomer", state.Customer.Authenticated(),
		"duration", time.Since(start))
	// The cache owns the stored pointer now; hand back a copy.
	return state.Clone()
}

// revalidateCustomer checks a persisted token before trusting it. Tokens
// whose embedded expiry has already passed are cleared without a network
// round trip; everything else is confirmed with the backend. A rejected
// token is cleared so it is never retried.
func (s *SessionService) revalidateCustomer(ctx context.Context, storeCtx *store.Context, clientKey, token string) *session.CustomerSession {
	storeID := storeCtx.StoreID

	if expiry, ok := security.TokenExpiry(token); ok && time.Now().After(expiry) {
		s.persistent.ClearCustomerToken(storeID, clientKey)
		s.logger.Auth().Debug("Customer token expired locally", "storeId", storeID)
		return &session.CustomerSession{}
	}

	payload, err := s.backend.ValidateCustomerSession(ctx, storeCtx.Target(), token)
	if err != nil || !payload.Success {
		s.persistent.ClearCustomerToken(storeID, clientKey)
		s.logger.Auth().Info("Customer token rejected on revalidation",
			"storeId", storeID, "networkError", err != nil)
		return &session.CustomerSession{}
	}

	return &session.CustomerSession{Token: token, Profile: payload.Profile}
}

// Snapshot returns the exposed session state for a shopper. A client key that
// has never hydrated reports Loading=true and nothing else.
func (s *SessionService) Snapshot(storeCtx *store.Context, clientKey string) SessionSnapshot {
	state, ok := s.cache.GetSessionState(storeCtx.StoreID, clientKey)
	if !ok || !state.Hydrated {
		return SessionSnapshot{Loading: true}
	}

	snap := SessionSnapshot{
		IsAuthenticated: state.IsAuthenticated(),
	}
	if state.Customer.Profile != nil {
		snap.Profile = state.Customer.Profile
	}
	if state.Guest.Active(time.Now()) {
		snap.GuestSessionID = state.Guest.ID
		expires := state.Guest.ExpiresAt
		snap.GuestExpiresAt = &expires
	}
	return snap
}

// CreateGuestSession asks the backend for a fresh cart session and persists
// it. It never fails loudly: any backend or storage trouble yields an empty
// id, and the storefront keeps rendering without a cart.
func (s *SessionService) CreateGuestSession(ctx context.Context, storeCtx *store.Context, clientKey string) string {
	storeID := storeCtx.StoreID

	payload, err := s.backend.CreateCart(ctx, storeCtx.Target())
	if err != nil || !payload.Success || payload.SessionID == "" {
		s.logger.LogSessionOperation("create_guest", storeID, clientKey, false)
		return ""
	}

	expiresAt, parseErr := time.Parse(time.RFC3339, payload.ExpiresAt)
	if parseErr != nil {
		// Backend expiry we cannot parse; fall back to the documented lifetime.
		expiresAt = time.Now().UTC().Add(config.GuestSessionTTL)
	}
	guest := session.GuestSession{ID: payload.SessionID, ExpiresAt: expiresAt}

	if storeErr := s.persistent.SetGuestSession(storeID, clientKey, guest); storeErr != nil {
		// Memory still carries the session; it just will not survive restart.
		s.logger.Storage().Warn("Guest session not persisted",
			"storeId", storeID, "error", storeErr)
	}
	s.cache.UpdateSessionState(storeID, clientKey, func(state *types.SessionState) {
		state.Guest = &guest
		state.Hydrated = true
	})

	s.logger.LogSessionOperation("create_guest", storeID, clientKey, true)
	return guest.ID
}

// EnsureGuestSession returns an active guest session id for the shopper,
// creating one when none exists or the stored one has expired. An empty
// return means the backend is unreachable.
func (s *SessionService) EnsureGuestSession(ctx context.Context, storeCtx *store.Context, clientKey string) string {
	state := s.Hydrate(ctx, storeCtx, clientKey)
	now := time.Now()

	if state.Guest.Active(now) {
		return state.Guest.ID
	}
	if state.Guest.State(now) == session.GuestExpired {
		s.persistent.ClearGuestSession(storeCtx.StoreID, clientKey)
		s.cache.UpdateSessionState(storeCtx.StoreID, clientKey, func(st *types.SessionState) {
			st.Guest = &session.GuestSession{}
		})
	}
	return s.CreateGuestSession(ctx, storeCtx, clientKey)
}

// Login authenticates the shopper with the commerce backend and, on success,
// persists the issued token alongside any existing guest session. The guest
// cart survives login untouched.
func (s *SessionService) Login(ctx context.Context, storeCtx *store.Context, clientKey, email, password string) LoginResult {
	storeID := storeCtx.StoreID
	s.Hydrate(ctx, storeCtx, clientKey)

	payload, err := s.backend.CustomerLogin(ctx, storeCtx.Target(), email, password)
	if err != nil {
		s.logger.LogSessionOperation("login", storeID, clientKey, false)
		return LoginResult{Success: false, Error: "login failed"}
	}
	if !payload.Success || payload.Token == "" {
		s.logger.LogSessionOperation("login", storeID, clientKey, false)
		reason := payload.Error
		if reason == "" {
			reason = "invalid credentials"
		}
		return LoginResult{Success: false, Error: reason}
	}

	if storeErr := s.persistent.SetCustomerToken(storeID, clientKey, payload.Token); storeErr != nil {
		s.logger.Storage().Warn("Customer token not persisted",
			"storeId", storeID, "error", storeErr)
	}
	s.cache.UpdateSessionState(storeID, clientKey, func(state *types.SessionState) {
		state.Customer = &session.CustomerSession{Token: payload.Token, Profile: payload.Profile}
		state.Hydrated = true
	})

	s.logger.LogSessionOperation("login", storeID, clientKey, true)
	return LoginResult{Success: true, Profile: payload.Profile}
}

// Logout ends the customer session. Local state is cleared unconditionally,
// even when the backend call fails; a token the backend never saw revoked
// still expires on its own within a day.
func (s *SessionService) Logout(ctx context.Context, storeCtx *store.Context, clientKey string) {
	storeID := storeCtx.StoreID

	defer func() {
		s.persistent.ClearCustomerToken(storeID, clientKey)
		s.cache.UpdateSessionState(storeID, clientKey, func(state *types.SessionState) {
			state.Customer = &session.CustomerSession{}
			state.Hydrated = true
		})
		s.logger.LogSessionOperation("logout", storeID, clientKey, true)
	}()

	state, ok := s.cache.GetSessionState(storeID, clientKey)
	if !ok || !state.Customer.Authenticated() {
		return
	}
	if _, err := s.backend.CustomerLogout(ctx, storeCtx.Target(), state.Customer.Token); err != nil {
		s.logger.Auth().Warn("Backend logout failed, clearing locally",
			"storeId", storeID, "error", err)
	}
}

// CustomerToken returns the held customer token for authenticated backend
// calls, or empty when the shopper is anonymous.
func (s *SessionService) CustomerToken(storeCtx *store.Context, clientKey string) string {
	state, ok := s.cache.GetSessionState(storeCtx.StoreID, clientKey)
	if !ok {
		return ""
	}
	if state.Customer.Authenticated() {
		return state.Customer.Token
	}
	return ""
}
