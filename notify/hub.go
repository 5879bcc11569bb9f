package notify

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const sendBuffer = 16

type client struct {
	conn      *websocket.Conn
	audiences map[string]bool
	send      chan []byte
}

func (c *client) wants(n Notification) bool {
	if len(n.Audience) == 0 {
		return true
	}
	for _, a := range n.Audience {
		if c.audiences[a] {
			return true
		}
	}
	return false
}

// Hub pushes notifications to websocket subscribers.
type Hub struct {
	upgrader websocket.Upgrader
	log      logrus.FieldLogger

	mu      sync.RWMutex
	clients map[*client]struct{}
}

var _ Dispatcher = (*Hub)(nil)

func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log:     log,
		clients: make(map[*client]struct{}),
	}
}

// Serve upgrades the request and blocks until the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, audiences ...string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &client{conn: conn, audiences: make(map[string]bool, len(audiences)), send: make(chan []byte, sendBuffer)}
	for _, a := range audiences {
		c.audiences[a] = true
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
	return nil
}

func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.log.WithError(err).Debug("websocket write failed")
			c.conn.Close()
			return
		}
	}
	c.conn.Close()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Dispatch delivers n to matching clients. Slow clients drop messages rather
// than block the caller.
func (h *Hub) Dispatch(e Event) error {
	n, ok := e.(Notification)
	if !ok {
		n = Notification{Kind: e.Type(), Level: Info}
	}
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.wants(n) {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.WithField("type", n.Kind).Warn("⚠️ dropping notification for slow websocket client")
		}
	}
	return nil
}

func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
