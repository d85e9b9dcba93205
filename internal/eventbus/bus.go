// Package eventbus is the in-process publish/subscribe fabric that keeps
// independently-fetching screens consistent. Dispatch is synchronous within
// the publishing call; payloads are informational only and subscribers are
// expected to re-fetch authoritative state from the backend.
package eventbus

import (
	"log"
	"sync"

	"github.com/pminsight/client/internal/models"
)

// Topic is the closed set of broadcast topics.
type Topic string

const (
	TopicRequestSent          Topic = "requestSent"
	TopicRequestAttended      Topic = "requestAttended"
	TopicRequestRejected      Topic = "requestRejected"
	TopicLiquidationSubmitted Topic = "liquidationSubmitted"
	TopicLiquidationApproved  Topic = "liquidationApproved"
	TopicLiquidationRejected  Topic = "liquidationRejected"
	TopicCashBoxMovement      Topic = "cashBoxMovement"
	TopicCashBoxClosed        Topic = "cashBoxClosed"
	TopicGuideDispatched      Topic = "guideDispatched"
)

// Event is the uniform payload carried on every topic: the request's
// sequence number and its new state. Subscribers must not treat it as
// complete; it identifies what changed, not the full record.
type Event struct {
	Topic    Topic
	Sequence string
	State    models.State
}

// Handler receives published events.
type Handler func(Event)

type subscription struct {
	id      int
	handler Handler
}

// Bus dispatches events to subscribed handlers in registration order.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[Topic][]subscription
}

// New constructs an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribe registers handler for topic and returns its removal function.
// Calling the removal function more than once is a no-op.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.remove(topic, id)
		})
	}
}

func (b *Bus) remove(topic Topic, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish invokes every handler currently registered for ev.Topic, in
// registration order, synchronously. A panicking handler does not prevent
// the remaining handlers from running. Publishing with no subscribers is
// a no-op.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	subs := append([]subscription(nil), b.subs[ev.Topic]...)
	b.mu.Unlock()

	for _, s := range subs {
		dispatch(s.handler, ev)
	}
}

func dispatch(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[BUS] Handler panic on topic %s: %v", ev.Topic, r)
		}
	}()
	h(ev)
}

// Default is the process-wide bus shared by all screens.
var Default = New()

// Subscribe registers a handler on the default bus.
func Subscribe(topic Topic, handler Handler) func() {
	return Default.Subscribe(topic, handler)
}

// Publish broadcasts on the default bus.
func Publish(ev Event) {
	Default.Publish(ev)
}
