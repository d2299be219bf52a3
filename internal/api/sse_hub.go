package api

import (
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RefreshEvent tells connected dashboards the merged table was rebuilt and
// they should re-fetch table and chart data.
type RefreshEvent struct {
	EventType string    `json:"event_type"` // "refresh" or "ping"
	Rows      int       `json:"rows"`
	Changed   []string  `json:"changed,omitempty"` // workbook paths whose hash changed
	Timestamp time.Time `json:"timestamp"`
}

// SSEHub fans refresh events out to every connected dashboard. Refreshes
// are global: the merged table is shared, only filter selections are
// session-scoped.
type SSEHub struct {
	clients    map[chan RefreshEvent]bool
	clientsMu  sync.RWMutex
	register   chan chan RefreshEvent
	unregister chan chan RefreshEvent
	broadcast  chan RefreshEvent
}

// NewSSEHub creates a new SSE hub
func NewSSEHub() *SSEHub {
	hub := &SSEHub{
		clients:    make(map[chan RefreshEvent]bool),
		register:   make(chan chan RefreshEvent, 10),
		unregister: make(chan chan RefreshEvent, 10),
		broadcast:  make(chan RefreshEvent, 100),
	}

	go hub.run()
	return hub
}

// run processes SSE hub operations
func (h *SSEHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			log.Printf("[SSE] Client registered (total clients: %d)", len(h.clients))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, exists := h.clients[client]; exists {
				delete(h.clients, client)
				close(client)
				log.Printf("[SSE] Client unregistered (remaining clients: %d)", len(h.clients))
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for clientChan := range h.clients {
				select {
				case clientChan <- event:
					// Event sent successfully
				default:
					// Client channel is full, skip
					log.Printf("[SSE] Client channel full, skipping event")
				}
			}
			h.clientsMu.RUnlock()
		}
	}
}

// Broadcast sends a refresh event to every connected client.
func (h *SSEHub) Broadcast(event RefreshEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[SSE] Broadcast channel full, dropping event: %s", event.EventType)
	}
}

// HandleSSE handles the Server-Sent Events endpoint.
func (h *SSEHub) HandleSSE(c *gin.Context) {
	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientChan := make(chan RefreshEvent, 10)

	select {
	case h.register <- clientChan:
	default:
		c.JSON(500, gin.H{"error": "SSE hub registration failed"})
		return
	}

	defer func() {
		select {
		case h.unregister <- clientChan:
		default:
			// Hub might be overloaded, just close channel
		}
	}()

	// Keep connection alive and stream events
	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-clientChan:
			eventJSON, err := json.Marshal(event)
			if err != nil {
				log.Printf("[SSE] Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent("refresh", string(eventJSON))
			return true

		case <-time.After(30 * time.Second):
			// Send ping to keep connection alive
			c.SSEvent("ping", `{"status": "alive", "timestamp": "`+time.Now().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			// Client disconnected
			return false
		}
	})
}

// ClientCount returns the number of connected clients.
func (h *SSEHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}
