// Package hub fans relationship events out to each user's open event streams.
package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// clientBuffer is how many undelivered events a client may hold before
// further events to it are dropped.
const clientBuffer = 16

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Client is one open stream. The SSE handler reads encoded events from it
// until it is closed.
type Client chan []byte

// Hub tracks the open streams of every connected user.
type Hub struct {
	users map[uuid.UUID]map[Client]struct{}
	mu    sync.RWMutex
	log   logrus.FieldLogger
}

// New creates an empty Hub.
func New(log logrus.FieldLogger) *Hub {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Hub{
		users: make(map[uuid.UUID]map[Client]struct{}),
		log:   log.WithField("component", "hub"),
	}
}

// Subscribe opens a new stream for user.
func (h *Hub) Subscribe(user uuid.UUID) Client {
	client := make(Client, clientBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.users[user]; !ok {
		h.users[user] = make(map[Client]struct{})
	}
	h.users[user][client] = struct{}{}
	return client
}

// Unsubscribe closes client and forgets it.
func (h *Hub) Unsubscribe(user uuid.UUID, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.users[user]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client)
	if len(clients) == 0 {
		delete(h.users, user)
	}
}

// Subscribers returns how many streams user has open.
func (h *Hub) Subscribers(user uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[user])
}

// Publish sends event to every stream of user without blocking. A client
// whose buffer is full misses the event.
func (h *Hub) Publish(user uuid.UUID, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.users[user]
	if !ok {
		return
	}
	msg, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).WithField("type", event.Type).Error("Failed to encode event")
		return
	}

	for client := range clients {
		select {
		case client <- msg:
		default:
			h.log.WithFields(logrus.Fields{"user_id": user, "type": event.Type}).Warn("Dropping event for slow client")
		}
	}
}

// Notify publishes an event of the given type.
func (h *Hub) Notify(user uuid.UUID, eventType string, payload any) {
	h.Publish(user, Event{Type: eventType, Payload: payload})
}
