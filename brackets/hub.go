package brackets

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quadrahub/chaveamento/models"
)

// Event types pushed to presentation clients after a mutation.
const (
	EventBracketUpdated = "BRACKET_UPDATED"
	EventTeamsUpdated   = "TEAMS_UPDATED"
)

// Event is the wire format for hub pushes. Room carries the modality
// so a client following both sports can demultiplex.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
	Room    string      `json:"room,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one websocket connection subscribed to a modality room.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	room     models.Modality
	closed   bool
	closedMu sync.Mutex
}

// Hub fans bracket and team updates out to websocket clients grouped
// by modality.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[models.Modality]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[models.Modality]map[*Client]bool),
		logger:     logger,
	}
}

// Run processes client registration; call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Info("websocket client registered",
				slog.String("room", string(client.room)),
				slog.Int("clients", len(h.rooms[client.room])))
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, okClient := clients[client]; okClient {
					client.closeSend()
					delete(clients, client)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
					h.logger.Info("websocket client unregistered",
						slog.String("room", string(client.room)))
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends an event to every client watching the modality.
// Purely observational: marshal or delivery failures are logged and
// never surface to the operation that triggered the push.
func (h *Hub) Broadcast(modality models.Modality, eventType string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[modality]
	if !ok {
		return
	}

	msg, err := json.Marshal(Event{Type: eventType, Payload: payload, Room: string(modality)})
	if err != nil {
		h.logger.Error("failed to marshal websocket event",
			slog.String("type", eventType), slog.Any("error", err))
		return
	}

	for client := range clients {
		client.closedMu.Lock()
		if client.closed {
			client.closedMu.Unlock()
			continue
		}
		select {
		case client.send <- msg:
		default:
			h.logger.Warn("websocket client send buffer full, dropping event",
				slog.String("room", string(modality)))
		}
		client.closedMu.Unlock()
	}
}

// NewClient wraps an upgraded connection and registers it with the hub.
// The caller must start ReadPump and WritePump.
func (h *Hub) NewClient(conn *websocket.Conn, modality models.Modality) *Client {
	c := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		room: modality,
	}
	h.register <- c
	return c
}

func (c *Client) closeSend() {
	c.closedMu.Lock()
	defer c.closedMu.Unlock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
}

// ReadPump drains inbound frames so pings and close frames are handled.
// Clients are read-only consumers; any payload they send is ignored.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read error",
					slog.String("room", string(c.room)), slog.Any("error", err))
			}
			return
		}
	}
}

// WritePump relays hub events to the connection and keeps it alive
// with pings.
func (c *Client) WritePump() {
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
