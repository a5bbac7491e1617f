// Package session provides domain entities for the two storefront session
// lifecycles: the anonymous cart-carrying guest and the authenticated
// customer. Each lifecycle is its own small state machine; the service layer
// composes them behind one facade.
package session

import "time"

// GuestState enumerates the guest session lifecycle.
type GuestState string

const (
	GuestAbsent  GuestState = "absent"
	GuestActive  GuestState = "active"
	GuestExpired GuestState = "expired"
)

// GuestSession is the anonymous, cart-scoped session. The commerce backend
// owns the cart keyed by ID; the gateway only tracks the identifier and its
// expiry. Default lifetime is seven days.
type GuestSession struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// State reports the lifecycle state at the given instant.
func (g *GuestSession) State(now time.Time) GuestState {
	if g == nil || g.ID == "" {
		return GuestAbsent
	}
	if !now.Before(g.ExpiresAt) {
		return GuestExpired
	}
	return GuestActive
}

// Active reports whether the session can still key cart operations.
func (g *GuestSession) Active(now time.Time) bool {
	return g.State(now) == GuestActive
}
