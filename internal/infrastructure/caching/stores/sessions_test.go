package stores

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/session"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/types"
	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

func TestUpdateSessionStateCreatesWhenAbsent(t *testing.T) {
	ss := NewSessionsStore(nil)

	state := ss.UpdateSessionState("store1", "client1", func(s *types.SessionState) {
		s.Guest = &session.GuestSession{ID: "gs_1", ExpiresAt: time.Now().Add(time.Hour)}
		s.Hydrated = true
	})

	if state.Guest.ID != "gs_1" || !state.Hydrated {
		t.Errorf("state = %+v, mutation not applied on created state", state)
	}

	got, ok := ss.GetSessionState("store1", "client1")
	if !ok || got.Guest.ID != "gs_1" {
		t.Error("updated state not readable back")
	}
}

func TestSessionStateStoreIsolation(t *testing.T) {
	ss := NewSessionsStore(nil)

	ss.SetSessionState("store1", "client1", &types.SessionState{
		Customer: &session.CustomerSession{Token: "tok"},
		Hydrated: true,
	})

	if _, ok := ss.GetSessionState("store2", "client1"); ok {
		t.Error("same client key in another store must not resolve")
	}
}

func TestSessionStateConcurrentReadersAndWriter(t *testing.T) {
	ss := NewSessionsStore(nil)
	ss.SetSessionState("store1", "client1", &types.SessionState{
		Guest:    &session.GuestSession{ID: "gs_1"},
		Customer: &session.CustomerSession{},
		Hydrated: true,
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if state, ok := ss.GetSessionState("store1", "client1"); ok {
					_ = state.Hydrated
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 200; j++ {
			ss.UpdateSessionState("store1", "client1", func(s *types.SessionState) {
				s.Guest = &session.GuestSession{ID: "gs_1"}
			})
		}
	}()
	wg.Wait()
}

func TestGetSessionStateReturnsCopy(t *testing.T) {
	ss := NewSessionsStore(nil)
	ss.SetSessionState("store1", "client1", &types.SessionState{
		Guest:    &session.GuestSession{ID: "gs_1"},
		Customer: &session.CustomerSession{Token: "tok", Profile: &session.Profile{Email: "a@b.c"}},
		Hydrated: true,
	})

	got, ok := ss.GetSessionState("store1", "client1")
	if !ok {
		t.Fatal("state not readable")
	}
	got.Guest.ID = "mutated"
	got.Customer.Profile.Email = "mutated"

	again, _ := ss.GetSessionState("store1", "client1")
	if again.Guest.ID != "gs_1" || again.Customer.Profile.Email != "a@b.c" {
		t.Error("mutating a returned state must not reach the cache")
	}
}

func TestSessionCapacityEvictsOldest(t *testing.T) {
	prev := config.MaxSessionsPerStore
	config.MaxSessionsPerStore = 5
	defer func() { config.MaxSessionsPerStore = prev }()

	ss := NewSessionsStore(nil)
	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("client%d", i)
		ss.UpdateSessionState("store1", key, func(s *types.SessionState) {
			s.Guest = &session.GuestSession{ID: key}
		})
		ss.mu.Lock()
		ss.storeCaches["store1"].SessionStates[key].LastAccessed = time.Now().UTC().Add(time.Duration(i) * time.Minute)
		ss.mu.Unlock()
	}

	ss.UpdateSessionState("store1", "newest", func(s *types.SessionState) {
		s.Guest = &session.GuestSession{ID: "newest"}
	})

	if _, ok := ss.GetSessionState("store1", "client0"); ok {
		t.Error("least recently accessed state must be evicted at capacity")
	}
	if _, ok := ss.GetSessionState("store1", "newest"); !ok {
		t.Error("incoming state must be stored after eviction")
	}
	if _, ok := ss.GetSessionState("store1", "client4"); !ok {
		t.Error("most recently accessed state must survive eviction")
	}
}

func TestSessionSweepStale(t *testing.T) {
	ss := NewSessionsStore(nil)

	ss.SetSessionState("store1", "idle", &types.SessionState{Customer: &session.CustomerSession{}})
	ss.SetSessionState("store1", "busy", &types.SessionState{Customer: &session.CustomerSession{}})

	ss.mu.Lock()
	ss.storeCaches["store1"].SessionStates["idle"].LastAccessed = time.Now().UTC().Add(-48 * time.Hour)
	ss.mu.Unlock()

	if removed := ss.SweepStale("store1", 24*time.Hour); removed != 1 {
		t.Errorf("SweepStale removed %d, want 1", removed)
	}
	if _, ok := ss.GetSessionState("store1", "busy"); !ok {
		t.Error("recently touched state must survive")
	}
}
