package http

import (
	"go-clipboard-converter/domain"
	"go-clipboard-converter/sink"
	"net/http"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/gorilla/websocket"
)

const writeWait = time.Second

// Hub streams conversion results to websocket clients. It is a monitor.ResultSink.
type Hub struct {
	upgrader websocket.Upgrader

	// lock guards clients
	lock    sync.Mutex
	clients map[*websocket.Conn]struct{}

	logger log.Logger
}

// NewHub returns a Hub without clients
func NewHub(logger log.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: map[*websocket.Conn]struct{}{},
		logger:  logger,
	}
}

// ServeHTTP upgrades the request and keeps the client subscribed until it disconnects
func (h *Hub) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		level.Warn(h.logger).Log("msg", "websocket upgrade failed", "err", err)
		return
	}
	h.add(conn)
	defer h.remove(conn)

	// clients only ever send control frames; reading processes them and detects disconnects
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// Accept sends r to every connected client, dropping clients that cannot keep up
func (h *Hub) Accept(r domain.ConversionResult) {
	event := sink.NewConversionEvent(r)

	h.lock.Lock()
	defer h.lock.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(event); err != nil {
			level.Warn(h.logger).Log("msg", "websocket send failed", "remote", conn.RemoteAddr(), "err", err)
			delete(h.clients, conn)
			_ = conn.Close()
		}
	}
}

// Clients the number of connected clients
func (h *Hub) Clients() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

// Close disconnects every client
func (h *Hub) Close() {
	h.lock.Lock()
	defer h.lock.Unlock()
	for conn := range h.clients {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
		_ = conn.Close()
		delete(h.clients, conn)
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.clients[conn] = struct{}{}
	level.Debug(h.logger).Log("msg", "websocket connected", "remote", conn.RemoteAddr(), "clients", len(h.clients))
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		_ = conn.Close()
	}
}
