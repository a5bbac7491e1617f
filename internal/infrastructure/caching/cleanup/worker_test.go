package cleanup

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/session"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/manager"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/caching/types"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/sessionstore"
)

func quietLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   make(map[logging.Channel]slog.Level),
	})
	if err != nil {
		t.Fatalf("quiet logger: %v", err)
	}
	return logger
}

func TestPerformCleanupSweepsCacheAndStorage(t *testing.T) {
	logger := quietLogger(t)

	cache := manager.NewManager(logger)
	cache.InitializeStore("store1")
	cache.UpdateSessionState("store1", "client1", func(s *types.SessionState) {
		s.Hydrated = true
	})

	store, err := sessionstore.NewSQLStore(sessionstore.Options{
		SQLitePath: filepath.Join(t.TempDir(), "sessions.db"),
	}, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	if err := store.SetGuestSession("store1", "client1", session.GuestSession{
		ID:        "gs_old",
		ExpiresAt: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("seed guest: %v", err)
	}

	worker := NewWorker(cache, store, &Config{
		CleanupInterval: time.Minute,
		SessionStateTTL: time.Nanosecond,
		CartCacheTTL:    time.Nanosecond,
	}, logger)

	time.Sleep(5 * time.Millisecond)
	worker.performCleanup()

	if _, ok := cache.GetSessionState("store1", "client1"); ok {
		t.Error("stale cached session state must be swept")
	}
	if n, err := store.SweepExpiredGuests(time.Now()); err != nil || n != 0 {
		t.Errorf("expired guest rows should already be gone, second sweep removed %d (err %v)", n, err)
	}
}

func TestWorkerStopsOnContextCancel(t *testing.T) {
	logger := quietLogger(t)
	worker := NewWorker(manager.NewManager(logger), sessionstore.NewNoop(), &Config{
		CleanupInterval: 10 * time.Millisecond,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after context cancellation")
	}
}
