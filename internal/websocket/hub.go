package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message is a report lifecycle notification pushed to connected dashboards.
type Message struct {
	Type     string         `json:"type"`
	ReportID int64          `json:"report_id,omitempty"`
	Status   string         `json:"status,omitempty"`
	Progress int            `json:"progress,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// ReportStatus builds the message broadcast when a report changes state.
func ReportStatus(reportID int64, status string, progress int) Message {
	return Message{
		Type:     "report_status",
		ReportID: reportID,
		Status:   status,
		Progress: progress,
	}
}

// Hub maintains the set of active WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client buffer full, drop the message to avoid blocking the hub
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
