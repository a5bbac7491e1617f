package sessionstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/session"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := NewSQLStore(Options{
		SQLitePath: filepath.Join(t.TempDir(), "sessions.db"),
	}, nil)
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	return store
}

func TestGuestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)

	sess := session.GuestSession{
		ID:        "gs_roundtrip",
		ExpiresAt: time.Now().UTC().Add(time.Hour).Truncate(time.Second),
	}
	if err := store.SetGuestSession("store1", "client1", sess); err != nil {
		t.Fatalf("SetGuestSession: %v", err)
	}

	got, ok := store.GetGuestSession("store1", "client1")
	if !ok {
		t.Fatal("stored session not found")
	}
	if got.ID != sess.ID || !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Errorf("got %+v, want %+v", got, sess)
	}

	if err := store.ClearGuestSession("store1", "client1"); err != nil {
		t.Fatalf("ClearGuestSession: %v", err)
	}
	if _, ok := store.GetGuestSession("store1", "client1"); ok {
		t.Error("cleared session still readable")
	}
}

func TestExpiredGuestSessionClearedOnRead(t *testing.T) {
	store := newTestStore(t)

	expired := session.GuestSession{
		ID:        "gs_expired",
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	if err := store.SetGuestSession("store1", "client1", expired); err != nil {
		t.Fatalf("SetGuestSession: %v", err)
	}

	if _, ok := store.GetGuestSession("store1", "client1"); ok {
		t.Fatal("expired session must read as absent")
	}

	// The read must have removed the record, not just filtered it.
	if _, ok := store.get("store1", "client1", keyGuestID); ok {
		t.Error("expired guest id row still present after read")
	}
}

func TestCustomerTokenRoundTrip(t *testing.T) {
	store := newTestStore(t)

	if _, ok := store.GetCustomerToken("store1", "client1"); ok {
		t.Fatal("token present before any write")
	}

	if err := store.SetCustomerToken("store1", "client1", "tok_1"); err != nil {
		t.Fatalf("SetCustomerToken: %v", err)
	}
	token, ok := store.GetCustomerToken("store1", "client1")
	if !ok || token != "tok_1" {
		t.Errorf("GetCustomerToken = %q, %v", token, ok)
	}

	// Overwrite, then clear.
	if err := store.SetCustomerToken("store1", "client1", "tok_2"); err != nil {
		t.Fatalf("SetCustomerToken overwrite: %v", err)
	}
	token, _ = store.GetCustomerToken("store1", "client1")
	if token != "tok_2" {
		t.Errorf("token after overwrite = %q, want tok_2", token)
	}

	if err := store.ClearCustomerToken("store1", "client1"); err != nil {
		t.Fatalf("ClearCustomerToken: %v", err)
	}
	if _, ok := store.GetCustomerToken("store1", "client1"); ok {
		t.Error("cleared token still readable")
	}
}

func TestStoreScopedIsolation(t *testing.T) {
	store := newTestStore(t)

	store.SetCustomerToken("storeA", "client1", "tok_a")
	if _, ok := store.GetCustomerToken("storeB", "client1"); ok {
		t.Error("token leaked across stores for the same client key")
	}
}

func TestSweepExpiredGuests(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()

	store.SetGuestSession("store1", "gone", session.GuestSession{ID: "gs_old", ExpiresAt: now.Add(-time.Hour)})
	store.SetGuestSession("store1", "kept", session.GuestSession{ID: "gs_new", ExpiresAt: now.Add(time.Hour)})
	store.SetCustomerToken("store1", "gone", "tok_gone")

	removed, err := store.SweepExpiredGuests(now)
	if err != nil {
		t.Fatalf("SweepExpiredGuests: %v", err)
	}
	if removed != 2 { // guest id row + guest expiry row
		t.Errorf("removed %d rows, want 2", removed)
	}

	if _, ok := store.GetGuestSession("store1", "kept"); !ok {
		t.Error("active guest session removed by sweep")
	}
	if _, ok := store.get("store1", "gone", keyGuestID); ok {
		t.Error("expired guest id row survived the sweep")
	}
	// The sweep only touches guest keys; customer tokens age out on their own.
	if _, ok := store.GetCustomerToken("store1", "gone"); !ok {
		t.Error("customer token must not be removed by the guest sweep")
	}
}

func TestSweepStaleTokens(t *testing.T) {
	store := newTestStore(t)
	now := time.Now().UTC()

	store.SetCustomerToken("store1", "stale", "tok_stale")
	store.SetCustomerToken("store1", "fresh", "tok_fresh")
	store.SetGuestSession("store1", "stale", session.GuestSession{ID: "gs_1", ExpiresAt: now.Add(time.Hour)})

	// Backdate the stale token's write time past the 24h lifetime.
	if _, err := store.conn.Exec(
		`UPDATE session_values SET updated_at = ? WHERE client_key = ? AND k = ?`,
		now.Add(-48*time.Hour).Format(time.RFC3339), "stale", keyCustomerToken,
	); err != nil {
		t.Fatalf("backdate token: %v", err)
	}

	removed, err := store.SweepStaleTokens(now, 24*time.Hour)
	if err != nil {
		t.Fatalf("SweepStaleTokens: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed %d rows, want 1", removed)
	}

	if _, ok := store.GetCustomerToken("store1", "stale"); ok {
		t.Error("stale token survived the sweep")
	}
	if _, ok := store.GetCustomerToken("store1", "fresh"); !ok {
		t.Error("fresh token removed by the sweep")
	}
	if _, ok := store.GetGuestSession("store1", "stale"); !ok {
		t.Error("guest session must not be touched by the token sweep")
	}
}

func TestNoopStore(t *testing.T) {
	noop := NewNoop()
	if err := noop.SetCustomerToken("s", "c", "tok"); err != nil {
		t.Fatalf("noop write returned error: %v", err)
	}
	if _, ok := noop.GetCustomerToken("s", "c"); ok {
		t.Error("noop store must always read absent")
	}
}
