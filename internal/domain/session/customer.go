package session

// CustomerState enumerates the customer session lifecycle. A token that the
// backend rejected on revalidation is invalid, not merely absent; invalid
// tokens are cleared so they are never retried.
type CustomerState string

const (
	CustomerAbsent  CustomerState = "absent"
	CustomerActive  CustomerState = "active"
	CustomerInvalid CustomerState = "invalid"
)

// Profile is the customer profile returned by the commerce backend on login
// or session validation.
type Profile struct {
	ID            string `json:"id"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Phone         string `json:"phone,omitempty"`
	EmailVerified bool   `json:"emailVerified"`
	PhoneVerified bool   `json:"phoneVerified"`
}

// CustomerSession is the authenticated session: an opaque token issued by the
// commerce backend (24h lifetime) plus the resolved profile.
type CustomerSession struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"profile,omitempty"`
}

// State reports the lifecycle state. The gateway cannot distinguish invalid
// from absent without a revalidation result, so State only reports what is
// locally known; the service layer records invalidity by clearing the token.
func (c *CustomerSession) State() CustomerState {
	if c == nil || c.Token == "" {
		return CustomerAbsent
	}
	return CustomerActive
}

// Authenticated reports whether a customer token is held.
func (c *CustomerSession) Authenticated() bool {
	return c.State() == CustomerActive
}
