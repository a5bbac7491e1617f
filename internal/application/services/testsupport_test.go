package services

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/commerce"
	cachemanager "github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/manager"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/dispatch"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/backend"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/performance"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/sessionstore"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/store"
)

// fakeBackend is an httptest GraphQL server dispatching on operationName.
type fakeBackend struct {
	t  *testing.T
	mu sync.Mutex

	server   *httptest.Server
	calls    map[string]int
	handlers map[string]func(vars map[string]any) string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{
		t:        t,
		calls:    make(map[string]int),
		handlers: make(map[string]func(map[string]any) string),
	}
	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			OperationName string         `json:"operationName"`
			Variables     map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("malformed backend request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		fb.mu.Lock()
		fb.calls[req.OperationName]++
		handler := fb.handlers[req.OperationName]
		fb.mu.Unlock()

		if handler == nil {
			t.Errorf("unexpected backend operation %q", req.OperationName)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(handler(req.Variables)))
	}))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) on(operation string, handler func(vars map[string]any) string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.handlers[operation] = handler
}

func (fb *fakeBackend) callCount(operation string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[operation]
}

// fakeNotifier records pushed notices.
type fakeNotifier struct {
	mu          sync.Mutex
	errors      []string
	cartUpdates []*commerce.Cart
}

func (fn *fakeNotifier) NotifyError(storeID, clientKey, message string) {
	fn.mu.Lock()
	defer fn.mu.Unlock()
	fn.errors = append(fn.errors, message)
}

func (fn *fakeNotifier) NotifyCartUpdated(storeID, clientKey string, cart *commerce.Cart) {
	fn.mu.Lock()
	defer fn.mu.Unlock()
	fn.cartUpdates = append(fn.cartUpdates, cart)
}

func (fn *fakeNotifier) errorCount() int {
	fn.mu.Lock()
	defer fn.mu.Unlock()
	return len(fn.errors)
}

func (fn *fakeNotifier) cartUpdateCount() int {
	fn.mu.Lock()
	defer fn.mu.Unlock()
	return len(fn.cartUpdates)
}

// testEnv wires real cache, real sqlite persistence, and the fake backend.
type testEnv struct {
	sessions  *SessionService
	carts     *CartService
	cache     *cachemanager.Manager
	store     sessionstore.Store
	backend   *fakeBackend
	notifier  *fakeNotifier
	debouncer *dispatch.KeyedDebouncer
	storeCtx  *store.Context
}

func newTestEnv(t *testing.T, debounceWindow time.Duration) *testEnv {
	t.Helper()

	logger := quietLogger(t)
	fb := newFakeBackend(t)

	cache := cachemanager.NewManager(logger)
	cache.InitializeStore("store1")

	persistent, err := sessionstore.NewSQLStore(sessionstore.Options{
		SQLitePath: filepath.Join(t.TempDir(), "sessions.db"),
	}, logger)
	if err != nil {
		t.Fatalf("failed to open session store: %v", err)
	}

	client := backend.NewClient(fb.server.URL, 2*time.Second, logger)
	sessionService := NewSessionService(cache, persistent, client, logger)

	notifier := &fakeNotifier{}
	debouncer := dispatch.NewKeyedDebouncer(debounceWindow)
	t.Cleanup(debouncer.Stop)

	cartService := NewCartService(
		cache, sessionService, client, debouncer, notifier,
		performance.NewTracker(nil), logger, 2*time.Second,
	)

	return &testEnv{
		sessions:  sessionService,
		carts:     cartService,
		cache:     cache,
		store:     persistent,
		backend:   fb,
		notifier:  notifier,
		debouncer: debouncer,
		storeCtx: &store.Context{
			StoreID:        "store1",
			StorefrontHost: "acme.huzilerz.shop",
			CacheManager:   cache,
			Logger:         logger,
		},
	}
}

func quietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

// Canned responses.

func guestSessionResponse(sessionID string, expiresAt time.Time) string {
	body, _ := json.Marshal(map[string]any{
		"data": map[string]any{
			"createCart": map[string]any{
				"success":   true,
				"sessionId": sessionID,
				"expiresAt": expiresAt.UTC().Format(time.RFC3339),
				"cart":      map[string]any{"id": "cart_" + sessionID, "items": []any{}, "subtotal": "0.00", "total": "0.00"},
			},
		},
	})
	return string(body)
}

func cartResponse(field string, cart *commerce.Cart) string {
	body, _ := json.Marshal(map[string]any{
		"data": map[string]any{
			field: map[string]any{"success": true, "cart": cart},
		},
	})
	return string(body)
}

func failureResponse(field, message string) string {
	body, _ := json.Marshal(map[string]any{
		"data": map[string]any{
			field: map[string]any{"success": false, "error": message},
		},
	})
	return string(body)
}
