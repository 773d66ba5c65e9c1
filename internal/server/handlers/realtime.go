package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/apperrors"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Клиенты кассы не браузеры, Origin не проверяем
	CheckOrigin: func(r *http.Request) bool { return true },
}

// subscriber is one websocket following the changes of a table.
type subscriber struct {
	conn  *websocket.Conn
	send  chan []byte
	id    string
	table string
}

// Hub fans record changes out to the websocket subscribers of each table.
// All subscriber bookkeeping happens on the Run goroutine.
type Hub struct {
	logger      *slog.Logger
	subscribers map[*subscriber]struct{}
	register    chan *subscriber
	unregister  chan *subscriber
	broadcast   chan api.ChangeEvent
	done        chan struct{}
	count       chan int
}

// NewHub creates a hub. Call Run to start delivering events.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:      logger,
		subscribers: make(map[*subscriber]struct{}),
		register:    make(chan *subscriber),
		unregister:  make(chan *subscriber),
		broadcast:   make(chan api.ChangeEvent, 256),
		done:        make(chan struct{}),
		count:       make(chan int),
	}
}

// Run delivers events until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for sub := range h.subscribers {
				h.drop(sub)
			}
			return

		case sub := <-h.register:
			h.subscribers[sub] = struct{}{}
			h.logger.Debug("realtime subscriber connected",
				slog.String("subscriber", sub.id),
				slog.String("table", sub.table),
				slog.Int("total", len(h.subscribers)))

		case sub := <-h.unregister:
			if _, ok := h.subscribers[sub]; ok {
				h.drop(sub)
				h.logger.Debug("realtime subscriber disconnected",
					slog.String("subscriber", sub.id),
					slog.Int("total", len(h.subscribers)))
			}

		case event := <-h.broadcast:
			h.deliver(event)

		case h.count <- len(h.subscribers):
		}
	}
}

func (h *Hub) deliver(event api.ChangeEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to encode change event", slog.Any("error", err))
		return
	}
	for sub := range h.subscribers {
		if sub.table != event.Table {
			continue
		}
		select {
		case sub.send <- msg:
		default:
			// Буфер переполнен, отключаем медленного клиента
			h.logger.Warn("realtime subscriber is too slow, dropping",
				slog.String("subscriber", sub.id))
			h.drop(sub)
		}
	}
}

func (h *Hub) drop(sub *subscriber) {
	delete(h.subscribers, sub)
	close(sub.send)
}

// Publish queues an event for delivery. It is a no-op once the hub stopped.
func (h *Hub) Publish(event api.ChangeEvent) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	}
}

// Subscribers returns the number of connected websockets.
func (h *Hub) Subscribers() int {
	select {
	case n := <-h.count:
		return n
	case <-h.done:
		return 0
	}
}

// ServeWS обрабатывает GET /v1/realtime?table=...
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if _, err := codecOf(table); err != nil {
		sendError(h.logger, w, apperrors.CodeValidation, "unknown table "+table)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	sub := &subscriber{
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		id:    uuid.New().String(),
		table: table,
	}
	select {
	case h.register <- sub:
	case <-h.done:
		_ = conn.Close()
		return
	}

	h.logger.Info("realtime subscription opened",
		slog.String("table", table),
		slog.String("user_id", userID(r)))

	go h.writePump(sub)
	h.readPump(sub)
}

// readPump держит соединение и ловит закрытие со стороны клиента
func (h *Hub) readPump(sub *subscriber) {
	defer func() {
		select {
		case h.unregister <- sub:
		case <-h.done:
		}
		_ = sub.conn.Close()
	}()

	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("realtime read error", slog.String("subscriber", sub.id), slog.Any("error", err))
			}
			return
		}
	}
}

func (h *Hub) writePump(sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sub.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
