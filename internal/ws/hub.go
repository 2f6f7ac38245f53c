package ws

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Event is one item on the live operations feed: trip transitions, vehicles
// entering or leaving the shop, and similar back-office activity.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	At      time.Time   `json:"at"`
}

const (
	EventTripCreated          = "trip.created"
	EventTripTransitioned     = "trip.transitioned"
	EventMaintenanceOpened    = "maintenance.opened"
	EventMaintenanceCompleted = "maintenance.completed"
)

// Hub fans events out to every connected back-office client. Clients only
// listen; inbound frames are discarded.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		logger:     logger,
	}
}

// Run owns the client set. It must run on its own goroutine before any
// client connects.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.logger.Info("ops feed client connected", zap.Int64("user_id", c.userID))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Info("ops feed client disconnected", zap.Int64("user_id", c.userID))
			}
		case msg := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow consumer; drop it rather than block the feed.
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Publish queues an event for every connected client. Never blocks the
// caller; when the feed is saturated the event is dropped.
func (h *Hub) Publish(eventType string, payload interface{}) {
	data, err := json.Marshal(Event{Type: eventType, Payload: payload, At: time.Now()})
	if err != nil {
		h.logger.Warn("failed to encode ops event", zap.String("type", eventType), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("ops feed saturated, event dropped", zap.String("type", eventType))
	}
}
