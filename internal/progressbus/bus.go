// Package progressbus implements the single-producer-multi-consumer event
// channel described in spec section 4.6/5: one logical writer per agent,
// many independent subscribers, delivery at-most-once per subscriber and
// lossless - a full subscriber buffer blocks the publisher rather than
// dropping events, preserving per-agent ordering.
package progressbus

import (
	"sync"

	"github.com/sourcelens/engine/internal/codeintel"
)

// Event is one item published on the bus: either an intermediate
// ProgressUpdate or a terminal AgentExecution snapshot. Exactly one of
// Update/Terminal is set.
type Event struct {
	Update   *codeintel.ProgressUpdate
	Terminal *codeintel.AgentExecution
}

// defaultBufferSize bounds each subscriber's channel. The publisher
// blocks once a slow subscriber's buffer fills, by design (spec section
// 5's "choose blocking to preserve ordering").
const defaultBufferSize = 64

// Bus fans out events to every subscriber in publication order. Per the
// concurrency model, events for one agent_id are totally ordered; events
// across different agent_ids are only partially ordered relative to each
// other, so Bus makes no attempt to interleave by agent beyond publishing
// each Publish call to every subscriber before returning.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[int]chan Event
	nextID      int
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[int]chan Event)}
}

// Subscription is a live subscriber handle. Events arrive on C; call
// Unsubscribe when the consumer is done to stop receiving (and let the
// bus release its buffer).
type Subscription struct {
	id  int
	bus *Bus
	C   <-chan Event
}

// Subscribe attaches a new subscriber. Its lifetime is independent of the
// orchestrator's - it keeps receiving events until Unsubscribe is called,
// even across multiple orchestrator runs sharing this Bus.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, defaultBufferSize)
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch
	return &Subscription{id: id, bus: b, C: ch}
}

// Unsubscribe detaches s, closing its channel. Safe to call once; a
// second call is a no-op.
func (s *Subscription) Unsubscribe() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if ch, ok := s.bus.subscribers[s.id]; ok {
		delete(s.bus.subscribers, s.id)
		close(ch)
	}
}

// PublishProgress fans an intermediate update out to every subscriber.
// Blocks until every subscriber's buffer has room, preserving the
// lossless/blocking backpressure policy.
func (b *Bus) PublishProgress(update codeintel.ProgressUpdate) {
	b.publish(Event{Update: &update})
}

// PublishTerminal fans a terminal snapshot out to every subscriber.
func (b *Bus) PublishTerminal(execution codeintel.AgentExecution) {
	b.publish(Event{Terminal: &execution})
}

func (b *Bus) publish(evt Event) {
	b.mu.RLock()
	targets := make([]chan Event, 0, len(b.subscribers))
	for _, ch := range b.subscribers {
		targets = append(targets, ch)
	}
	b.mu.RUnlock()

	for _, ch := range targets {
		ch <- evt
	}
}
