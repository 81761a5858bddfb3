// Package ws pushes ledger, menu and profile changes to connected dashboard
// screens over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Streams a client can subscribe to.
const (
	StreamLedger  = "ledger"
	StreamMenu    = "menu"
	StreamProfile = "profile"
)

// Event types.
const (
	EventTransactionCreated = "transaction.created"
	EventExpenditureCreated = "expenditure.created"
	EventExpenditureDeleted = "expenditure.deleted"
	EventMenuUpdated        = "menu.updated"
	EventProfileUpdated     = "profile.updated"
	EventDataReset          = "data.reset"
)

func IsStream(s string) bool {
	switch s {
	case StreamLedger, StreamMenu, StreamProfile:
		return true
	}
	return false
}

// Event represents a WebSocket message to be broadcast
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func NewEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return Event{Type: eventType, Payload: raw}, nil
}

type streamEvent struct {
	Stream string
	Event  Event
}

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Registered clients by stream
	rooms map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *streamEvent
	done       chan struct{}

	mu     sync.RWMutex
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *streamEvent, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub's main loop. It returns when ctx is done, after closing
// every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for stream, clients := range h.rooms {
				for client := range clients {
					close(client.send)
				}
				delete(h.rooms, stream)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.stream] == nil {
				h.rooms[client.stream] = make(map[*Client]bool)
			}
			h.rooms[client.stream][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case event := <-h.broadcast:
			message, err := json.Marshal(event.Event)
			if err != nil {
				h.logger.Error("marshal event", zap.String("type", event.Event.Type), zap.Error(err))
				continue
			}

			h.mu.Lock()
			for client := range h.rooms[event.Stream] {
				select {
				case client.send <- message:
				default:
					// Slow consumer.
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// subscribe and unsubscribe give up once Run has returned.
func (h *Hub) subscribe(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unsubscribe(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.rooms[client.stream]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.rooms, client.stream)
	}
}

// Broadcast queues event for every client on stream. It never blocks: when
// the queue is full the event is dropped and logged.
func (h *Hub) Broadcast(stream string, event Event) {
	select {
	case h.broadcast <- &streamEvent{Stream: stream, Event: event}:
	default:
		h.logger.Warn("broadcast queue full, dropping event",
			zap.String("stream", stream),
			zap.String("type", event.Type),
		)
	}
}

// Clients returns the number of clients subscribed to stream.
func (h *Hub) Clients(stream string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[stream])
}
