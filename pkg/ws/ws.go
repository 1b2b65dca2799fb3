// Package ws pushes server events to browsers over WebSocket using
// gorilla/websocket.
//
// Connections are grouped by user. A message published for a user reaches
// every connection of that user plus every admin connection.
//
//	hub := ws.NewHub()
//	go hub.Run(ctx)
//
//	g.Get("/ws/orders", "ws.orders", func(w http.ResponseWriter, r *http.Request) {
//	    hub.Serve(w, r, userID, isAdmin)
//	})
//
//	hub.Publish(userID, payload)
package ws

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shashiranjanraj/kashvi-shop/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// ─── Client ───────────────────────────────────────────────────────────────────

// Client is one connected socket.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
	admin  bool
}

// readPump only drains control frames; the feed is server-to-client.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "user_id", c.userID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ─── Hub ──────────────────────────────────────────────────────────────────────

type envelope struct {
	userID string
	data   []byte
}

// Hub owns every connection. All map access happens on the Run goroutine.
type Hub struct {
	users      map[string]map[*Client]bool
	admins     map[*Client]bool
	publish    chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	count      atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		users:      make(map[string]map[*Client]bool),
		admins:     make(map[*Client]bool),
		publish:    make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run is the hub event loop. It returns when ctx is done, closing every
// connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.all() {
				h.drop(c)
			}
			return

		case c := <-h.register:
			if h.users[c.userID] == nil {
				h.users[c.userID] = make(map[*Client]bool)
			}
			h.users[c.userID][c] = true
			if c.admin {
				h.admins[c] = true
			}
			h.count.Add(1)
			logger.Debug("ws: client connected", "user_id", c.userID, "total", h.count.Load())

		case c := <-h.unregister:
			h.drop(c)

		case env := <-h.publish:
			seen := make(map[*Client]bool)
			for c := range h.users[env.userID] {
				seen[c] = true
				h.deliver(c, env.data)
			}
			for c := range h.admins {
				if !seen[c] {
					h.deliver(c, env.data)
				}
			}
		}
	}
}

func (h *Hub) all() map[*Client]bool {
	out := make(map[*Client]bool)
	for _, cs := range h.users {
		for c := range cs {
			out[c] = true
		}
	}
	return out
}

// deliver drops a client whose buffer is full rather than block the hub.
func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.drop(c)
	}
}

func (h *Hub) drop(c *Client) {
	cs, ok := h.users[c.userID]
	if !ok || !cs[c] {
		return
	}
	delete(cs, c)
	if len(cs) == 0 {
		delete(h.users, c.userID)
	}
	delete(h.admins, c)
	close(c.send)
	h.count.Add(-1)
	logger.Debug("ws: client disconnected", "user_id", c.userID, "total", h.count.Load())
}

// Publish queues data for userID's connections and every admin connection.
// It never blocks; when the hub is saturated the message is dropped.
func (h *Hub) Publish(userID string, data []byte) {
	select {
	case h.publish <- envelope{userID: userID, data: data}:
	default:
		logger.Warn("ws: publish queue full, message dropped", "user_id", userID)
	}
}

// ClientCount returns the number of open connections.
func (h *Hub) ClientCount() int { return int(h.count.Load()) }

// ─── Upgrade ─────────────────────────────────────────────────────────────────

// Serve upgrades the request and registers the connection for userID.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID string, admin bool) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithCtx(r.Context()).Warn("ws: upgrade failed", "error", err)
		return
	}
	c := &Client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), userID: userID, admin: admin}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}
