// Package messaging provides per-shopper notice delivery over persistent
// connections (websocket on the presentation side).
package messaging

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Izzycode820/huzilerz-go/internal/domain/commerce"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/pkg/config"
)

// Notice is the wire shape delivered to storefront clients.
type Notice struct {
	Type      string         `json:"type"` // "notice" | "cartUpdated"
	Level     string         `json:"level,omitempty"`
	Message   string         `json:"message,omitempty"`
	Cart      *commerce.Cart `json:"cart,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// shopperSessions maps clientKey to the set of open delivery channels
// for one store. A shopper with two tabs holds two channels.
type shopperSessions struct {
	channels map[string][]chan []byte
}

// NoticeBroadcaster fans notices out to subscribed storefront clients.
// Delivery is best effort: a slow client's channel is skipped, never
// blocked on.
type NoticeBroadcaster struct {
	mu     sync.RWMutex
	stores map[string]*shopperSessions
	logger *logging.ChanneledLogger
}

func NewNoticeBroadcaster(logger *logging.ChanneledLogger) *NoticeBroadcaster {
	return &NoticeBroadcaster{
		stores: make(map[string]*shopperSessions),
		logger: logger,
	}
}

// AddClient registers a delivery channel for the shopper and returns it.
func (b *NoticeBroadcaster) AddClient(storeID, clientKey string) chan []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	store, exists := b.stores[storeID]
	if !exists {
		store = &shopperSessions{channels: make(map[string][]chan []byte)}
		b.stores[storeID] = store
	}

	ch := make(chan []byte, config.NoticeStreamBuffer)
	store.channels[clientKey] = append(store.channels[clientKey], ch)

	b.logger.SSE().Debug("Notice client connected",
		"storeId", storeID, "clientKey", clientKey,
		"clients", len(store.channels[clientKey]))
	return ch
}

// RemoveClient deregisters and closes a delivery channel.
func (b *NoticeBroadcaster) RemoveClient(ch chan []byte, storeID, clientKey string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	store, exists := b.stores[storeID]
	if !exists {
		return
	}
	channels := store.channels[clientKey]
	for i, c := range channels {
		if c == ch {
			store.channels[clientKey] = append(channels[:i], channels[i+1:]...)
			close(c)
			break
		}
	}
	if len(store.channels[clientKey]) == 0 {
		delete(store.channels, clientKey)
	}
	if len(store.channels) == 0 {
		delete(b.stores, storeID)
	}
}

// ClientCount reports open channels for one shopper.
func (b *NoticeBroadcaster) ClientCount(storeID, clientKey string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	store, exists := b.stores[storeID]
	if !exists {
		return 0
	}
	return len(store.channels[clientKey])
}

// NotifyError pushes an error toast to the shopper.
func (b *NoticeBroadcaster) NotifyError(storeID, clientKey, message string) {
	b.send(storeID, clientKey, Notice{
		Type:      "notice",
		Level:     "error",
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

// NotifyCartUpdated pushes the authoritative cart to the shopper so open
// tabs converge after a mutation lands.
func (b *NoticeBroadcaster) NotifyCartUpdated(storeID, clientKey string, cart *commerce.Cart) {
	b.send(storeID, clientKey, Notice{
		Type:      "cartUpdated",
		Cart:      cart,
		Timestamp: time.Now().UTC(),
	})
}

func (b *NoticeBroadcaster) send(storeID, clientKey string, notice Notice) {
	payload, err := json.Marshal(notice)
	if err != nil {
		b.logger.SSE().Error("Notice marshal failed", "error", err)
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	store, exists := b.stores[storeID]
	if !exists {
		return
	}
	delivered := 0
	for _, ch := range store.channels[clientKey] {
		select {
		case ch <- payload:
			delivered++
		default:
			// Buffer full, drop for this client rather than stall.
		}
	}
	if delivered > 0 {
		b.logger.SSE().Debug("Notice delivered",
			"storeId", storeID, "clientKey", clientKey,
			"type", notice.Type, "clients", delivered)
	}
}
