package syncx

import (
	"sync"

	"pokerclock/pkg/logger"

	"go.uber.org/zap"
)

// Sink is the publish half of the transport abstraction. The hub and the
// redis relay both implement it, so the store never knows which transports
// are live.
type Sink interface {
	Publish(msg Message)
}

// Hub is the local broadcast channel: subscribers are in-process views
// (each backed by a websocket connection). Sends never block the
// publisher; a subscriber that cannot keep up drops messages, which is
// safe because every FULL_SYNC supersedes the last.
type Hub struct {
	mu     sync.Mutex
	subs   map[int64]chan Message
	nextID int64
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int64]chan Message)}
}

func (h *Hub) Subscribe() (int64, <-chan Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	ch := make(chan Message, 8)
	h.subs[id] = ch
	return id, ch
}

func (h *Hub) Unsubscribe(id int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *Hub) Publish(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		select {
		case ch <- msg:
		default:
			logger.Log.Warn("sync subscriber channel full, dropping message",
				zap.Int64("subscriberID", id),
				zap.String("kind", string(msg.Kind)),
			)
		}
	}
}

func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Fanout publishes one message to every configured transport.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Publish(msg Message) {
	for _, s := range f.sinks {
		s.Publish(msg)
	}
}
