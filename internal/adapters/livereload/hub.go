// Package livereload pushes reload notifications to connected browsers
// over websockets.
package livereload

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.trai.ch/cinder/internal/core/domain"
	"go.trai.ch/cinder/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Reloader = (*Hub)(nil)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingEvery  = (pongWait * 9) / 10
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// The hub binds locally and serves same-machine browsers.
		return true
	},
}

type client struct {
	conn *websocket.Conn
	send chan domain.Notification
}

// Hub accepts websocket clients and broadcasts reload notifications.
// A slow client drops its oldest pending notification rather than
// stalling the broadcast.
type Hub struct {
	addr   string
	logger ports.Logger
	server *http.Server

	mu       sync.Mutex
	listener net.Listener
	clients  map[*client]struct{}
	closed   bool
}

// NewHub creates a Hub listening on addr once started.
func NewHub(addr string, logger ports.Logger) *Hub {
	return &Hub{
		addr:    addr,
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Start binds the listen address and begins serving websocket upgrades
// on /livereload.
func (h *Hub) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", h.addr)
	if err != nil {
		return zerr.Wrap(err, "failed to bind livereload address")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/livereload", h.handleWS)

	h.mu.Lock()
	h.listener = listener
	h.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	h.mu.Unlock()

	h.logger.Info(fmt.Sprintf("livereload listening on %s", listener.Addr()))

	go func() {
		if err := h.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.logger.Error(zerr.Wrap(err, "livereload server terminated"))
		}
	}()

	go func() {
		<-ctx.Done()
		_ = h.Stop()
	}()

	return nil
}

// Addr returns the bound listen address. Empty before Start.
func (h *Hub) Addr() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Stop disconnects all clients and shuts the server down.
func (h *Hub) Stop() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	server := h.server
	h.mu.Unlock()

	if server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}

// Emit broadcasts a notification to every connected client.
func (h *Hub) Emit(kind domain.ReloadKind, path string) {
	note := domain.Notification{Type: kind, Path: path}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	for _, c := range targets {
		push(c.send, note)
	}
}

// push enqueues a notification, dropping the client's oldest pending one
// when the buffer is full.
func push(send chan domain.Notification, note domain.Notification) {
	select {
	case send <- note:
		return
	default:
	}
	select {
	case <-send:
	default:
	}
	select {
	case send <- note:
	default:
	}
}

func (h *Hub) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{
		conn: conn,
		send: make(chan domain.Notification, sendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)
	h.readLoop(c)
}

// writeLoop serializes all writes to one connection and keeps it alive
// with pings.
func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(pingEvery)
	defer ticker.Stop()
	defer func() { _ = c.conn.Close() }()

	for {
		select {
		case note, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteJSON(note); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop consumes control frames until the client goes away.
func (h *Hub) readLoop(c *client) {
	defer h.drop(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}
