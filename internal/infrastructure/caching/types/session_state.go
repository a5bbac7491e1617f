// Package types defines cache value shapes for the storefront gateway.
package types

import (
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/session"
)

// SessionState is the in-memory view of one shopper's two sessions. It is
// hydrated once per client key from persistent storage; Hydrated stays false
// until that completes, which the HTTP surface reports as loading.
type SessionState struct {
	Guest        *session.GuestSession
	Customer     *session.CustomerSession
	Hydrated     bool
	LastAccessed time.Time
}

// Clone returns an independent copy so readers never share mutable state
// with the cache. Mutations go through the store's UpdateSessionState.
func (s *SessionState) Clone() *SessionState {
	if s == nil {
		return nil
	}
	out := &SessionState{
		Hydrated:     s.Hydrated,
		LastAccessed: s.LastAccessed,
	}
	if s.Guest != nil {
		guest := *s.Guest
		out.Guest = &guest
	}
	if s.Customer != nil {
		customer := *s.Customer
		if s.Customer.Profile != nil {
			profile := *s.Customer.Profile
			customer.Profile = &profile
		}
		out.Customer = &customer
	}
	return out
}

// IsAuthenticated reports whether a customer token is held.
func (s *SessionState) IsAuthenticated() bool {
	return s.Customer.Authenticated()
}

// StoreSessionCache holds all session states for one store.
type StoreSessionCache struct {
	SessionStates map[string]*SessionState
	LastLoaded    time.Time
}
