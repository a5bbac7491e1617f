// Package sessionstore persists the two storefront session identifiers per
// shopper. It is a plain key-value surface: guest session id, guest session
// expiry (RFC3339 string), customer token. No network access and no token
// validation beyond presence; the guest read additionally enforces expiry.
package sessionstore

import (
	"github.com/Izzycode820/huzilerz-go/internal/domain/session"
)

// Storage keys. These are the persisted wire format shared with whatever sits
// on top of the adapter, so they never change.
const (
	keyGuestID       = "guest_session_id"
	keyGuestExpiry   = "guest_session_expiry"
	keyCustomerToken = "customer_session_token"
)

// Store is the persistence contract for session state. All operations are
// synchronous. Implementations must treat an expired guest record as absent
// and clear it as a side effect of the read.
type Store interface {
	// GetGuestSession returns the stored guest session for the client, or
	// ok=false when absent or expired. An expired record is removed.
	GetGuestSession(storeID, clientKey string) (sess session.GuestSession, ok bool)
	SetGuestSession(storeID, clientKey string, sess session.GuestSession) error
	ClearGuestSession(storeID, clientKey string) error

	GetCustomerToken(storeID, clientKey string) (token string, ok bool)
	SetCustomerToken(storeID, clientKey, token string) error
	ClearCustomerToken(storeID, clientKey string) error

	Close() error
}

// Noop is the fallback store used when persistent storage is unavailable or
// disabled. Every read reports absent and every write succeeds silently.
type Noop struct{}

// NewNoop creates a no-op store.
func NewNoop() *Noop { return &Noop{} }

func (*Noop) GetGuestSession(storeID, clientKey string) (session.GuestSession, bool) {
	return session.GuestSession{}, false
}
func (*Noop) SetGuestSession(storeID, clientKey string, sess session.GuestSession) error { return nil }
func (*Noop) ClearGuestSession(storeID, clientKey string) error                          { return nil }
func (*Noop) GetCustomerToken(storeID, clientKey string) (string, bool)                  { return "", false }
func (*Noop) SetCustomerToken(storeID, clientKey, token string) error                    { return nil }
func (*Noop) ClearCustomerToken(storeID, clientKey string) error                         { return nil }
func (*Noop) Close() error                                                               { return nil }
