package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/ports"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Hub tracks live websocket viewers per board. It only relays events;
// card order always comes from the database.
type Hub struct {
	mu       sync.RWMutex
	boards   map[string]map[*client]struct{}
	upgrader websocket.Upgrader
}

var _ ports.BoardNotifier = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{
		boards: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

type client struct {
	hub     *Hub
	boardID string
	conn    *websocket.Conn
	send    chan []byte
	once    sync.Once
}

// Publish delivers event to every viewer of its board. Viewers whose buffer
// is full are disconnected rather than blocking the caller.
func (h *Hub) Publish(ctx context.Context, event ports.BoardEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "encode board event")
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.boards[event.BoardID] {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		logging.Warn(ctx, "dropping slow board viewer", slog.String("board_id", event.BoardID))
		h.unregister(c)
	}
	return nil
}

// Subscribers reports how many viewers are attached to boardID.
func (h *Hub) Subscribers(boardID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.boards[boardID])
}

// ServeBoard upgrades the request and streams events of boardID until the peer leaves.
func (h *Hub) ServeBoard(w http.ResponseWriter, r *http.Request, boardID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return errs.Wrap(err, "upgrade websocket")
	}

	c := &client{
		hub:     h,
		boardID: boardID,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
	}
	h.register(c)

	go c.writePump()
	go c.readPump(logging.WithAttrs(context.Background(), logging.Attrs(r.Context())...))
	return nil
}

// Close drops every viewer, used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	all := make([]*client, 0)
	for _, clients := range h.boards {
		for c := range clients {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		h.unregister(c)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.boards[c.boardID]
	if !ok {
		clients = make(map[*client]struct{})
		h.boards[c.boardID] = clients
	}
	clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.boards[c.boardID]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.boards, c.boardID)
		}
	}
	// Closed under the lock so Publish never sends on a closed channel.
	c.once.Do(func() { close(c.send) })
}

// readPump discards inbound frames and keeps the read deadline fresh.
func (c *client) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn(ctx, "board viewer closed unexpectedly", slog.Any("err", errs.Loggable(err)))
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
