package application

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// EventType names a UI re-render trigger.
type EventType string

const (
	EventRoutesUpdated  EventType = "routes.updated"
	EventRouteSelected  EventType = "route.selected"
	EventOverlayToggled EventType = "overlay.toggled"
	EventNotification   EventType = "notification"
)

// Event is one message on the event stream.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
	At   time.Time `json:"at"`
}

// EventHub fans events out to stream subscribers. Slow subscribers miss
// events instead of blocking publishers.
type EventHub struct {
	mu     sync.RWMutex
	subs   map[chan Event]struct{}
	buffer int
	logger *zap.Logger
}

// NewEventHub creates a hub whose subscriber channels hold buffer events.
func NewEventHub(buffer int, logger *zap.Logger) *EventHub {
	return &EventHub{
		subs:   make(map[chan Event]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a new subscriber. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *EventHub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Publish delivers an event to every subscriber without blocking.
func (h *EventHub) Publish(eventType EventType, data any) {
	evt := Event{Type: eventType, Data: data, At: time.Now().UTC()}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
			h.logger.Debug("dropping event for slow subscriber", zap.String("type", string(eventType)))
		}
	}
}

// Subscribers returns the number of active subscribers.
func (h *EventHub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
