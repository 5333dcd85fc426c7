package live

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arnavshah/readiness-api-go/pkg/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

// Hub fans snapshots and alerts out to the WebSocket subscribers of each
// unit. Subscribers of different units are independent streams; a slow or
// dead subscriber is dropped rather than blocking delivery to the rest.
type Hub struct {
	mu    sync.Mutex
	units map[string]map[*Client]bool
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{units: make(map[string]map[*Client]bool)}
}

// Client is one WebSocket subscriber of one unit
type Client struct {
	hub    *Hub
	unitID string
	conn   *websocket.Conn
	send   chan models.Envelope
}

// NewClient wraps an upgraded connection as a subscriber of the unit.
// The caller must start Run to begin delivery.
func (h *Hub) NewClient(unitID string, conn *websocket.Conn) *Client {
	return &Client{
		hub:    h,
		unitID: unitID,
		conn:   conn,
		send:   make(chan models.Envelope, sendBufferSize),
	}
}

// Register adds the client to its unit's subscriber set
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.units[c.unitID] == nil {
		h.units[c.unitID] = make(map[*Client]bool)
	}
	h.units[c.unitID][c] = true
	log.Printf("live: subscriber connected for unit %s (total %d)", c.unitID, len(h.units[c.unitID]))
}

// Unregister removes the client and closes its delivery channel
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.units[c.unitID]
	if !ok || !subs[c] {
		return
	}
	delete(subs, c)
	close(c.send)
	if len(subs) == 0 {
		delete(h.units, c.unitID)
	}
	log.Printf("live: subscriber disconnected for unit %s", c.unitID)
}

// Broadcast queues the envelope for every subscriber of the unit. Delivery
// never blocks: a subscriber whose buffer is full is dropped.
func (h *Hub) Broadcast(unitID string, env models.Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.units[unitID] {
		select {
		case c.send <- env:
		default:
			delete(h.units[unitID], c)
			close(c.send)
			log.Printf("live: dropping slow subscriber for unit %s", unitID)
		}
	}
	if len(h.units[unitID]) == 0 {
		delete(h.units, unitID)
	}
}

// SubscriberCount returns the number of live subscribers for a unit
func (h *Hub) SubscriberCount(unitID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.units[unitID])
}

// Send queues an envelope for this client only, e.g. the initial snapshot
// delivered on connect
func (c *Client) Send(env models.Envelope) {
	select {
	case c.send <- env:
	default:
	}
}

// Run pumps queued envelopes to the connection until it fails or the
// client is unregistered. It also reads (and discards) inbound frames so
// close and pong control messages are processed.
func (c *Client) Run() {
	go c.readLoop()
	c.writeLoop()
}

func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				c.hub.Unregister(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.hub.Unregister(c)
				return
			}
		}
	}
}

func (c *Client) readLoop() {
	defer c.hub.Unregister(c)
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
