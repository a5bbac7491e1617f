package backend

import (
	"github.com/Izzycode820/huzilerz-go/internal/domain/commerce"
	"github.com/Izzycode820/huzilerz-go/internal/domain/session"
)

// CartSessionPayload is the createCart mutation result: the new guest cart
// session and its expiry, plus the (empty) cart.
type CartSessionPayload struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error,omitempty"`
	SessionID string         `json:"sessionId"`
	ExpiresAt string         `json:"expiresAt"`
	Cart      *commerce.Cart `json:"cart,omitempty"`
}

// CartPayload is the shared result shape of every cart mutation and the cart
// query. Validation failures (invalid discount code, quantity floor) arrive
// as Success=false with Error set, not as GraphQL errors.
type CartPayload struct {
	Success bool           `json:"success"`
	Error   string         `json:"error,omitempty"`
	Cart    *commerce.Cart `json:"cart,omitempty"`
}

// CustomerAuthPayload is the result of customerLogin and
// validateCustomerSession.
type CustomerAuthPayload struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Token   string           `json:"token,omitempty"`
	Profile *session.Profile `json:"customer,omitempty"`
}

// LogoutPayload is the result of customerLogout.
type LogoutPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
