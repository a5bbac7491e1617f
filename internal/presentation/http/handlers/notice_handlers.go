package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/messaging"
	"github.com/Izzycode820/huzilerz-go/internal/infrastructure/observability/logging"
	"github.com/Izzycode820/huzilerz-go/internal/presentation/http/middleware"
)

const (
	noticeWriteWait = 10 * time.Second
	noticePingEvery = 30 * time.Second
)

// NoticeHandlers serves the websocket stream carrying cart updates and
// error toasts to the storefront.
type NoticeHandlers struct {
	broadcaster messaging.Broadcaster
	logger      *logging.ChanneledLogger
	upgrader    websocket.Upgrader
}

// NewNoticeHandlers creates notice handlers with injected dependencies.
func NewNoticeHandlers(broadcaster messaging.Broadcaster, logger *logging.ChanneledLogger) *NoticeHandlers {
	return &NoticeHandlers{
		broadcaster: broadcaster,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens in the CORS layer; the store
			// middleware has already vetted the hostname by the time the
			// upgrade request gets here.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// StreamNotices handles GET /api/v1/notices/ws - upgrades to a websocket and
// relays the shopper's notices until either side disconnects.
func (h *NoticeHandlers) StreamNotices(c *gin.Context) {
	storeCtx, exists := middleware.GetStoreContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "store context not found"})
		return
	}
	clientKey := middleware.GetClientKey(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.SSE().Warn("Websocket upgrade failed",
			"storeId", storeCtx.StoreID, "error", err.Error())
		return
	}
	defer conn.Close()

	ch := h.broadcaster.AddClient(storeCtx.StoreID, clientKey)
	defer h.broadcaster.RemoveClient(ch, storeCtx.StoreID, clientKey)

	// Reader goroutine only watches for close; the storefront never sends.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(noticePingEvery)
	defer ping.Stop()

	for {
		select {
		case payload, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(noticeWriteWait))
			if writeErr := conn.WriteMessage(websocket.TextMessage, payload); writeErr != nil {
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(noticeWriteWait))
			if writeErr := conn.WriteMessage(websocket.PingMessage, nil); writeErr != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
