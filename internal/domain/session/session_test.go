package session

import (
	"testing"
	"time"
)

func TestGuestSessionState(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		guest *GuestSession
		want  GuestState
	}{
		{"nil session", nil, GuestAbsent},
		{"empty id", &GuestSession{}, GuestAbsent},
		{"active", &GuestSession{ID: "gs_1", ExpiresAt: now.Add(time.Hour)}, GuestActive},
		{"expired", &GuestSession{ID: "gs_1", ExpiresAt: now.Add(-time.Hour)}, GuestExpired},
		{"expiring exactly now", &GuestSession{ID: "gs_1", ExpiresAt: now}, GuestExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.guest.State(now); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGuestSessionActive(t *testing.T) {
	now := time.Now()
	g := &GuestSession{ID: "gs_1", ExpiresAt: now.Add(time.Minute)}
	if !g.Active(now) {
		t.Error("session expiring in a minute should be active")
	}
	if g.Active(now.Add(2 * time.Minute)) {
		t.Error("session should not be active past expiry")
	}
}

func TestCustomerSessionState(t *testing.T) {
	var nilSession *CustomerSession
	if got := nilSession.State(); got != CustomerAbsent {
		t.Errorf("nil session State() = %v, want absent", got)
	}
	if got := (&CustomerSession{}).State(); got != CustomerAbsent {
		t.Errorf("empty session State() = %v, want absent", got)
	}

	active := &CustomerSession{Token: "tok_abc", Profile: &Profile{ID: "cust_1"}}
	if got := active.State(); got != CustomerActive {
		t.Errorf("State() = %v, want active", got)
	}
	if !active.Authenticated() {
		t.Error("session with token should report authenticated")
	}
}
