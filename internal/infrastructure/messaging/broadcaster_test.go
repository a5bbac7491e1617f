package messaging

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/Izzycode820/huzilerz-go/internal/domain/commerce"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
)

func testLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		DefaultLevel:  slog.LevelError,
		ChannelLevels: make(map[logging.Channel]slog.Level),
	})
	if err != nil {
		t.Fatalf("failed to create test logger: %v", err)
	}
	return logger
}

func TestNotifyErrorReachesSubscribedClient(t *testing.T) {
	b := NewNoticeBroadcaster(testLogger(t))

	ch := b.AddClient("store1", "client1")
	defer b.RemoveClient(ch, "store1", "client1")

	b.NotifyError("store1", "client1", "Could not add item to cart")

	select {
	case payload := <-ch:
		var notice Notice
		if err := json.Unmarshal(payload, &notice); err != nil {
			t.Fatalf("malformed notice: %v", err)
		}
		if notice.Type != "notice" || notice.Level != "error" {
			t.Errorf("notice = %+v", notice)
		}
		if notice.Message != "Could not add item to cart" {
			t.Errorf("message = %q", notice.Message)
		}
	default:
		t.Fatal("no notice delivered")
	}
}

func TestNotifyCartUpdatedCarriesCart(t *testing.T) {
	b := NewNoticeBroadcaster(testLogger(t))

	ch := b.AddClient("store1", "client1")
	defer b.RemoveClient(ch, "store1", "client1")

	b.NotifyCartUpdated("store1", "client1", &commerce.Cart{ID: "cart1", Total: "9.99"})

	payload := <-ch
	var notice Notice
	if err := json.Unmarshal(payload, &notice); err != nil {
		t.Fatalf("malformed notice: %v", err)
	}
	if notice.Type != "cartUpdated" || notice.Cart == nil || notice.Cart.ID != "cart1" {
		t.Errorf("notice = %+v", notice)
	}
}

func TestNoticesAreScopedToShopper(t *testing.T) {
	b := NewNoticeBroadcaster(testLogger(t))

	mine := b.AddClient("store1", "client1")
	other := b.AddClient("store1", "client2")
	otherStore := b.AddClient("store2", "client1")
	defer b.RemoveClient(mine, "store1", "client1")
	defer b.RemoveClient(other, "store1", "client2")
	defer b.RemoveClient(otherStore, "store2", "client1")

	b.NotifyError("store1", "client1", "only for me")

	if len(mine) != 1 {
		t.Error("targeted client missed the notice")
	}
	if len(other) != 0 || len(otherStore) != 0 {
		t.Error("notice leaked to another shopper or store")
	}
}

func TestTwoTabsBothReceive(t *testing.T) {
	b := NewNoticeBroadcaster(testLogger(t))

	tab1 := b.AddClient("store1", "client1")
	tab2 := b.AddClient("store1", "client1")
	defer b.RemoveClient(tab1, "store1", "client1")
	defer b.RemoveClient(tab2, "store1", "client1")

	if n := b.ClientCount("store1", "client1"); n != 2 {
		t.Fatalf("ClientCount = %d, want 2", n)
	}

	b.NotifyCartUpdated("store1", "client1", &commerce.Cart{ID: "cart1"})

	if len(tab1) != 1 || len(tab2) != 1 {
		t.Error("both open tabs must receive the cart update")
	}
}

func TestRemoveClientClosesChannel(t *testing.T) {
	b := NewNoticeBroadcaster(testLogger(t))

	ch := b.AddClient("store1", "client1")
	b.RemoveClient(ch, "store1", "client1")

	if _, open := <-ch; open {
		t.Error("removed client's channel must be closed")
	}
	if n := b.ClientCount("store1", "client1"); n != 0 {
		t.Errorf("ClientCount after removal = %d", n)
	}

	// Sending to a fully deregistered shopper is a no-op.
	b.NotifyError("store1", "client1", "nobody listening")
}

func TestSlowClientIsSkippedNotBlocked(t *testing.T) {
	b := NewNoticeBroadcaster(testLogger(t))

	ch := b.AddClient("store1", "client1")
	defer b.RemoveClient(ch, "store1", "client1")

	// Fill the buffer past capacity; send must return promptly every time.
	for i := 0; i < cap(ch)+10; i++ {
		b.NotifyError("store1", "client1", "flood")
	}

	if len(ch) != cap(ch) {
		t.Errorf("buffered = %d, want full buffer %d", len(ch), cap(ch))
	}
}
