package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ultraverse/market-web/internal/countdown"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins (for development)
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SubscribeMessage subscribes a client to the countdown of one listing
type SubscribeMessage struct {
	NFTID  string `json:"nftId"`
	EndsAt int64  `json:"endsAt"` // epoch milliseconds
}

// CountdownMessage is one countdown tick pushed to subscribers
type CountdownMessage struct {
	NFTID string `json:"nftId"`
	Label string `json:"label"`
	Ended bool   `json:"ended"`
}

// Client represents a WebSocket client connection
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string
}

type subscription struct {
	client *Client
	nftID  string
	endsAt int64
}

// Hub maintains the set of active clients and pushes countdown ticks to the
// subscribers of each listing. One timer runs per subscribed listing,
// regardless of how many clients watch it; the timer is released when the
// last watcher leaves or the countdown ends.
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Clients by listing ID that they're watching
	listingClients map[string]map[*Client]bool

	// Running countdown timers by listing ID
	timers map[string]*countdown.Timer

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	subscribe   chan subscription
	unsubscribe chan subscription

	// Ticks emitted by the countdown timers
	ticks chan CountdownMessage

	log *zap.Logger
}

// NewHub creates a new hub
func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients:        make(map[*Client]bool),
		listingClients: make(map[string]map[*Client]bool),
		timers:         make(map[string]*countdown.Timer),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		subscribe:      make(chan subscription),
		unsubscribe:    make(chan subscription),
		ticks:          make(chan CountdownMessage, 64),
		log:            log,
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.dropClient(client)
			}

		case sub := <-h.subscribe:
			h.addSubscriber(sub)

		case sub := <-h.unsubscribe:
			h.removeSubscriber(sub.client, sub.nftID)

		case tick := <-h.ticks:
			h.broadcastTick(tick)
		}
	}
}

func (h *Hub) dropClient(client *Client) {
	delete(h.clients, client)
	close(client.send)
	for nftID := range h.listingClients {
		h.removeSubscriber(client, nftID)
	}
}

func (h *Hub) addSubscriber(sub subscription) {
	if _, ok := h.listingClients[sub.nftID]; !ok {
		h.listingClients[sub.nftID] = make(map[*Client]bool)
	}
	h.listingClients[sub.nftID][sub.client] = true

	if _, running := h.timers[sub.nftID]; !running {
		h.timers[sub.nftID] = h.startTimer(sub.nftID, sub.endsAt)
	}
}

func (h *Hub) removeSubscriber(client *Client, nftID string) {
	watchers, ok := h.listingClients[nftID]
	if !ok {
		return
	}
	delete(watchers, client)
	if len(watchers) > 0 {
		return
	}
	delete(h.listingClients, nftID)
	if timer, ok := h.timers[nftID]; ok {
		delete(h.timers, nftID)
		timer.Stop()
	}
}

// startTimer runs one countdown for a listing. The emit is non-blocking so a
// busy hub drops a tick instead of stalling the timer goroutine.
func (h *Hub) startTimer(nftID string, endsAt int64) *countdown.Timer {
	return countdown.NewTimer(time.UnixMilli(endsAt), func(label string, ended bool) {
		select {
		case h.ticks <- CountdownMessage{NFTID: nftID, Label: label, Ended: ended}:
		default:
		}
	})
}

func (h *Hub) broadcastTick(tick CountdownMessage) {
	payload, err := json.Marshal(tick)
	if err != nil {
		h.log.Error("marshal countdown tick failed", zap.Error(err))
		return
	}
	message, _ := json.Marshal(WebSocketMessage{Type: "countdown", Payload: payload})

	for client := range h.listingClients[tick.NFTID] {
		select {
		case client.send <- message:
		default:
			h.dropClient(client)
		}
	}

	// an ended countdown schedules no further ticks
	if tick.Ended {
		delete(h.timers, tick.NFTID)
		delete(h.listingClients, tick.NFTID)
	}
}

// readPump pumps messages from the WebSocket connection to the hub
func (c *Client) readPump() {
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
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn("websocket read failed", zap.String("client_id", c.id), zap.Error(err))
			}
			break
		}

		// Parse the message
		var wsMessage WebSocketMessage
		if err := json.Unmarshal(message, &wsMessage); err != nil {
			c.hub.log.Warn("invalid websocket message", zap.String("client_id", c.id), zap.Error(err))
			continue
		}

		switch wsMessage.Type {
		case "subscribe":
			var sub SubscribeMessage
			if err := json.Unmarshal(wsMessage.Payload, &sub); err != nil || sub.NFTID == "" {
				c.hub.log.Warn("invalid subscribe payload", zap.String("client_id", c.id), zap.Error(err))
				continue
			}
			c.hub.subscribe <- subscription{client: c, nftID: sub.NFTID, endsAt: sub.EndsAt}

		case "unsubscribe":
			var sub SubscribeMessage
			if err := json.Unmarshal(wsMessage.Payload, &sub); err != nil || sub.NFTID == "" {
				c.hub.log.Warn("invalid unsubscribe payload", zap.String("client_id", c.id), zap.Error(err))
				continue
			}
			c.hub.unsubscribe <- subscription{client: c, nftID: sub.NFTID}
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
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

// ServeWs handles WebSocket requests from clients
func ServeWs(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			hub.log.Warn("websocket upgrade failed", zap.Error(err))
			return
		}

		client := &Client{
			hub:  hub,
			conn: conn,
			send: make(chan []byte, 256),
			id:   uuid.NewString(),
		}
		client.hub.register <- client

		// Send welcome message
		welcomeMsg := WebSocketMessage{
			Type:    "welcome",
			Payload: json.RawMessage(`{"message":"Connected to Ultraverse live updates"}`),
		}
		welcomeBytes, _ := json.Marshal(welcomeMsg)
		client.send <- welcomeBytes

		go client.writePump()
		go client.readPump()
	}
}
