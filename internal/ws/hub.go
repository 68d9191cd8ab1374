package ws

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 256
)

const (
	EventAttendanceRecorded = "attendance_recorded"
	EventSessionUpdated     = "session_updated"
)

// Event is pushed to every dashboard watching the session.
type Event struct {
	Type      string      `json:"type"`
	SessionID uint        `json:"session_id"`
	Data      interface{} `json:"data,omitempty"`
	SentAt    time.Time   `json:"sent_at"`
}

type sessionMessage struct {
	sessionID uint
	payload   []byte
}

// Hub fans session events out to the websocket clients subscribed to that session.
type Hub struct {
	register   chan *client
	unregister chan *client
	broadcast  chan sessionMessage
	count      chan countRequest
	clients    map[uint]map[*client]struct{}
	done       chan struct{}
}

type countRequest struct {
	sessionID uint
	reply     chan int
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan sessionMessage, 256),
		count:      make(chan countRequest),
		clients:    make(map[uint]map[*client]struct{}),
		done:       make(chan struct{}),
	}
}

// Run owns the subscriber set until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for _, set := range h.clients {
				for c := range set {
					h.drop(c)
				}
			}
			return
		case c := <-h.register:
			set, ok := h.clients[c.sessionID]
			if !ok {
				set = make(map[*client]struct{})
				h.clients[c.sessionID] = set
			}
			set[c] = struct{}{}
		case c := <-h.unregister:
			h.drop(c)
		case req := <-h.count:
			req.reply <- len(h.clients[req.sessionID])
		case msg := <-h.broadcast:
			for c := range h.clients[msg.sessionID] {
				select {
				case c.send <- msg.payload:
				default:
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	set, ok := h.clients[c.sessionID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.sessionID)
	}
	close(c.send)
	c.conn.Close()
}

func (h *Hub) subscribers(sessionID uint) int {
	reply := make(chan int, 1)
	select {
	case h.count <- countRequest{sessionID: sessionID, reply: reply}:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Broadcast queues an event for the session's subscribers. A nil hub is a no-op.
func (h *Hub) Broadcast(sessionID uint, eventType string, data interface{}) {
	if h == nil {
		return
	}
	payload, err := json.Marshal(Event{Type: eventType, SessionID: sessionID, Data: data, SentAt: time.Now().UTC()})
	if err != nil {
		log.Printf("ws: failed to marshal event: %v", err)
		return
	}
	select {
	case h.broadcast <- sessionMessage{sessionID: sessionID, payload: payload}:
	default:
		log.Printf("ws: broadcast queue full, dropping %s for session %d", eventType, sessionID)
	}
}

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID uint
}

func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
	}()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *client) writePump() {
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
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
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
