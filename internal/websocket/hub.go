package statsws

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Hub fans live metrics updates out to a user's open dashboard
// connections. Updates stay private to their owner; there is no
// cross-user broadcast.
type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *delivery
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
}

// MetricsSource recomputes a metrics frame on demand, used when a client
// asks for a refresh over the socket.
type MetricsSource interface {
	MetricsUpdate(ctx context.Context, userID, girlID int64) (*Update, error)
}

// Update is the frame pushed to dashboard clients after a write or on
// request.
type Update struct {
	Type      string `json:"type"`
	GirlID    int64  `json:"girl_id,omitempty"`
	Girl      any    `json:"girl_metrics,omitempty"`
	Global    any    `json:"global_metrics,omitempty"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

type delivery struct {
	userID  string
	payload []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *delivery, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case d := <-h.broadcast:
			h.sendToUser(d.userID, d.payload)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast queues an update for every open connection of one user.
func (h *Hub) Broadcast(userID string, update *Update) {
	if update.Timestamp == "" {
		update.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	payload, err := json.Marshal(update)
	if err != nil {
		zap.L().Error("stats hub encode update", zap.Error(err))
		return
	}
	h.broadcast <- &delivery{userID: userID, payload: payload}
}

func (h *Hub) sendToUser(userID string, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

// ReadPump serves client-initiated refresh requests until the connection
// drops.
func (c *Client) ReadPump(source MetricsSource) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	userID, err := strconv.ParseInt(c.userID, 10, 64)
	if err != nil {
		c.writeError("invalid user")
		return
	}

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type   string `json:"type"`
			GirlID int64  `json:"girl_id"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			c.writeError("invalid message payload")
			continue
		}
		if incoming.Type != "refresh" {
			c.writeError("unsupported message type")
			continue
		}

		update, err := source.MetricsUpdate(context.Background(), userID, incoming.GirlID)
		if err != nil {
			c.writeError("failed to refresh metrics")
			continue
		}
		c.hub.Broadcast(c.userID, update)
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (c *Client) writeError(message string) {
	payload, err := json.Marshal(Update{
		Type:      "error",
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
		c.hub.Unregister(c)
	}
}
