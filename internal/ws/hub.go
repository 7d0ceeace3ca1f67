// Package ws implements the live notification channel. Each connected client
// joins a room keyed by its user id; ADMIN sessions additionally join the
// admin room, which receives a "new-order" event for every checkout.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

// Event is the wire envelope for every push message.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type client struct {
	userID  uuid.UUID
	isAdmin bool
	conn    *websocket.Conn
	send    chan []byte
}

// Hub tracks connected sessions and fans events out to rooms. A slow client
// whose send buffer fills up is dropped rather than blocking the emitter.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*client]struct{}
	admins map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:  make(map[uuid.UUID]map[*client]struct{}),
		admins: make(map[*client]struct{}),
	}
}

// Register attaches a websocket connection to the hub and starts its read
// and write pumps. It returns immediately; the connection is cleaned up when
// either pump exits.
func (h *Hub) Register(userID uuid.UUID, isAdmin bool, conn *websocket.Conn) {
	c := &client{
		userID:  userID,
		isAdmin: isAdmin,
		conn:    conn,
		send:    make(chan []byte, 16),
	}

	h.mu.Lock()
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*client]struct{})
	}
	h.rooms[userID][c] = struct{}{}
	if isAdmin {
		h.admins[c] = struct{}{}
	}
	h.mu.Unlock()

	log.Debug().Str("user_id", userID.String()).Bool("admin", isAdmin).Msg("ws: client connected")

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if room, ok := h.rooms[c.userID]; ok {
		if _, ok := room[c]; ok {
			delete(room, c)
			close(c.send)
			if len(room) == 0 {
				delete(h.rooms, c.userID)
			}
		}
	}
	delete(h.admins, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

// EmitToUser pushes an event to every session in a user's room.
func (h *Hub) EmitToUser(userID uuid.UUID, event string, payload interface{}) {
	data, err := json.Marshal(Event{Type: event, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("ws: marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[userID] {
		select {
		case c.send <- data:
		default:
			// Buffer full — client is stalled, let the write pump die.
		}
	}
}

// EmitToAdmins broadcasts an event to the admin room.
func (h *Hub) EmitToAdmins(event string, payload interface{}) {
	data, err := json.Marshal(Event{Type: event, Payload: payload})
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("ws: marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.admins {
		select {
		case c.send <- data:
		default:
		}
	}
}

// readPump drains inbound frames (clients don't send application messages)
// and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer h.unregister(c)

	c.conn.SetReadLimit(1024)
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

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
