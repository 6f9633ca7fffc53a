// Package gateway bridges websocket clients to the event bus: inbound
// frames become text/reaction events, outbound presentation frames are
// broadcast to every client in the target channel.
package gateway

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ITKKhan/HorrorWatchBot/internal/errors"
	"github.com/ITKKhan/HorrorWatchBot/internal/events"
	"github.com/ITKKhan/HorrorWatchBot/internal/logger"
	"github.com/ITKKhan/HorrorWatchBot/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // LAN deployment; all origins accepted
	},
}

// inboundFrame is the wire shape of one client-to-server frame
type inboundFrame struct {
	Type      string `json:"type"` // "message" or "reaction"
	Content   string `json:"content,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Emoji     string `json:"emoji,omitempty"`
	Added     *bool  `json:"added,omitempty"`
}

// Hub maintains the set of active clients, feeds their frames into the
// event bus, and broadcasts presentation frames back out
type Hub struct {
	log        logger.Logger
	bus        *events.Bus
	adminToken string

	clients    map[*Client]bool
	broadcast  chan models.WSMessage
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
}

// Client is a middleman between one websocket connection and the hub
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan models.WSMessage
	user    models.User
	channel string
}

// New creates a new Hub. Clients presenting adminToken connect with the
// elevated capability.
func New(log logger.Logger, bus *events.Bus, adminToken string) *Hub {
	return &Hub{
		log:        log,
		bus:        bus,
		adminToken: adminToken,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan models.WSMessage),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// run handles client registration/unregistration and message broadcasting
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.log.Debug("Client connected", "user", client.user.Name, "channel", client.channel, "total_clients", len(h.clients))

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			h.log.Debug("Client disconnected", "user", client.user.Name, "total_clients", len(h.clients))

		case message := <-h.broadcast:
			h.mutex.RLock()
			for client := range h.clients {
				if message.Channel != "" && client.channel != message.Channel {
					continue
				}
				select {
				case client.send <- message:
				default:
					// Client's send channel is full, unregister
					go func(c *Client) {
						h.unregister <- c
					}(client)
				}
			}
			h.mutex.RUnlock()
		}
	}
}

// Send implements the bot's Presenter: it stamps the frame with a fresh
// message id, broadcasts it to the channel, and returns the id so
// reaction events can be tied back to the frame.
func (h *Hub) Send(channel string, frame models.WSMessage) (string, error) {
	frame.Channel = channel
	frame.MessageID = uuid.NewString()
	h.broadcast <- frame
	return frame.MessageID, nil
}

// RevokeReaction asks clients to withdraw one user's reaction from a
// message. Returns an error when nobody in the channel can honor it.
func (h *Hub) RevokeReaction(channel, messageID, emoji, userID string) error {
	h.mutex.RLock()
	reachable := false
	for client := range h.clients {
		if client.channel == channel {
			reachable = true
			break
		}
	}
	h.mutex.RUnlock()
	if !reachable {
		return errors.NotFoundf("no connected clients in channel %s", channel)
	}

	h.broadcast <- models.WSMessage{
		Type:    "revoke_reaction",
		Channel: channel,
		Payload: map[string]string{
			"message_id": messageID,
			"emoji":      emoji,
			"user_id":    userID,
		},
	}
	return nil
}

// readPump pumps frames from the websocket connection into the event bus
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("WebSocket error", "error", err)
			}
			break
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.hub.log.Debug("Dropping malformed frame", "user", c.user.Name, "error", err)
			continue
		}
		c.dispatch(frame)
	}
}

// dispatch converts one inbound frame into a bus event carrying the
// client's identity and channel
func (c *Client) dispatch(frame inboundFrame) {
	if c.hub.log.IsTrafficLoggingEnabled() {
		c.hub.log.Debug("Inbound frame", "type", frame.Type, "user", c.user.Name, "channel", c.channel)
	}

	switch frame.Type {
	case "message":
		c.hub.bus.PublishText(models.TextEvent{
			Author:    c.user,
			Channel:   c.channel,
			Content:   frame.Content,
			Timestamp: time.Now(),
		})
	case "reaction":
		added := true
		if frame.Added != nil {
			added = *frame.Added
		}
		c.hub.bus.PublishReaction(models.ReactionEvent{
			User:      c.user,
			Channel:   c.channel,
			MessageID: frame.MessageID,
			Emoji:     frame.Emoji,
			Added:     added,
			Timestamp: time.Now(),
		})
	default:
		c.hub.log.Debug("Unknown frame type", "type", frame.Type, "user", c.user.Name)
	}
}

// writePump pumps frames from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}

			msgBytes, _ := json.Marshal(message)
			w.Write(msgBytes)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs handles websocket requests from clients. Identity comes from
// query parameters; presenting the admin token grants the elevated
// capability.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	userID := query.Get("user")
	name := query.Get("name")
	if userID == "" {
		userID = uuid.NewString()
	}
	if name == "" {
		name = "guest-" + userID
		if len(name) > 14 {
			name = name[:14]
		}
	}
	channel := query.Get("channel")
	if channel == "" {
		channel = "general"
	}
	elevated := h.adminToken != "" && query.Get("token") == h.adminToken

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:     h,
		conn:    conn,
		send:    make(chan models.WSMessage, 256),
		user:    models.User{ID: userID, Name: name, Elevated: elevated},
		channel: channel,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
