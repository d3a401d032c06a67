package syncx

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// SnapshotFunc builds the current full-state message on demand. Returning
// false skips the send (e.g. the store could not be read).
type SnapshotFunc func() (Message, bool)

// Throttle rate-limits FULL_SYNC broadcasts to one per interval with
// trailing-edge behavior: a request landing inside the cooldown window arms
// a one-shot timer that sends the latest state when the window closes, so
// rapid interactive edits coalesce but the final state is never dropped.
type Throttle struct {
	clock    clockwork.Clock
	interval time.Duration
	snapshot SnapshotFunc
	out      Sink

	mu       sync.Mutex
	lastSent time.Time
	pending  bool
}

func NewThrottle(clock clockwork.Clock, interval time.Duration, snapshot SnapshotFunc, out Sink) *Throttle {
	if interval <= 0 {
		interval = time.Second
	}
	return &Throttle{
		clock:    clock,
		interval: interval,
		snapshot: snapshot,
		out:      out,
	}
}

// Request asks for a broadcast of the current state. Safe to call from any
// mutation path at any rate.
func (t *Throttle) Request() {
	t.mu.Lock()
	now := t.clock.Now()
	elapsed := now.Sub(t.lastSent)
	if !t.pending && (t.lastSent.IsZero() || elapsed >= t.interval) {
		t.lastSent = now
		t.mu.Unlock()
		t.send()
		return
	}
	if t.pending {
		t.mu.Unlock()
		return
	}
	t.pending = true
	delay := t.interval - elapsed
	t.mu.Unlock()

	t.clock.AfterFunc(delay, func() {
		t.mu.Lock()
		t.pending = false
		t.lastSent = t.clock.Now()
		t.mu.Unlock()
		t.send()
	})
}

func (t *Throttle) send() {
	msg, ok := t.snapshot()
	if !ok {
		return
	}
	t.out.Publish(msg)
}
