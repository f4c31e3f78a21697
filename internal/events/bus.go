package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/leefowlercu/diary/internal/metrics"
)

// DefaultQueueSize is the number of undelivered events each subscriber
// may hold before new events are dropped for it.
const DefaultQueueSize = 64

// Bus is the interface for the event bus.
type Bus interface {
	// Publish queues an event for every subscriber of its type. It never
	// waits on a handler. An error is returned when the bus is closed or
	// the payload does not match the event type.
	Publish(ctx context.Context, event Event) error

	// Subscribe registers a handler for one event type and returns a
	// function that removes it.
	Subscribe(eventType EventType, handler EventHandler) (unsubscribe func())

	// SubscribeAll registers a handler for every event type and returns a
	// function that removes it.
	SubscribeAll(handler EventHandler) (unsubscribe func())

	// Close stops accepting events and waits for queued events to be
	// handled.
	Close() error
}

// subscriber delivers events to one handler, in publish order, on its own
// goroutine.
type subscriber struct {
	id      uint64
	topic   EventType
	handler EventHandler
	queue   chan Event
	once    sync.Once
}

func (s *subscriber) stop() {
	s.once.Do(func() { close(s.queue) })
}

// EventBus is the in-process Bus implementation.
type EventBus struct {
	mu       sync.RWMutex
	topics   map[EventType][]*subscriber
	wildcard []*subscriber
	closed   bool

	nextID    atomic.Uint64
	published atomic.Int64
	dropped   atomic.Int64
	workers   sync.WaitGroup

	queueSize int
	logger    *slog.Logger
}

// BusOption configures the event bus.
type BusOption func(*EventBus)

// WithQueueSize sets the per-subscriber queue length.
func WithQueueSize(size int) BusOption {
	return func(b *EventBus) {
		if size > 0 {
			b.queueSize = size
		}
	}
}

// WithLogger sets the logger for the event bus.
func WithLogger(logger *slog.Logger) BusOption {
	return func(b *EventBus) {
		b.logger = logger
	}
}

// NewBus creates an event bus.
func NewBus(opts ...BusOption) *EventBus {
	b := &EventBus{
		topics:    make(map[EventType][]*subscriber),
		queueSize: DefaultQueueSize,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish queues event for its subscribers. A subscriber whose queue is
// full misses the event; the drop is logged and counted.
func (b *EventBus) Publish(ctx context.Context, event Event) error {
	if err := ValidatePayload(event); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBusClosed
	}
	b.published.Add(1)

	targets := [][]*subscriber{b.topics[event.Type], b.wildcard}
	for _, subs := range targets {
		for _, sub := range subs {
			select {
			case sub.queue <- event:
			case <-ctx.Done():
				return ctx.Err()
			default:
				b.dropped.Add(1)
				metrics.EventBusDroppedEvents.WithLabelValues(string(event.Type)).Inc()
				b.logger.Warn("subscriber queue full; dropping event",
					"event_type", event.Type,
					"subscriber_id", sub.id)
			}
		}
	}

	return nil
}

// Subscribe registers handler for eventType.
func (b *EventBus) Subscribe(eventType EventType, handler EventHandler) func() {
	return b.add(eventType, handler)
}

// SubscribeAll registers handler for every event type.
func (b *EventBus) SubscribeAll(handler EventHandler) func() {
	return b.add("", handler)
}

func (b *EventBus) add(topic EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	sub := &subscriber{
		id:      b.nextID.Add(1),
		topic:   topic,
		handler: handler,
		queue:   make(chan Event, b.queueSize),
	}
	if topic == "" {
		b.wildcard = append(b.wildcard, sub)
	} else {
		b.topics[topic] = append(b.topics[topic], sub)
	}

	b.workers.Add(1)
	go b.deliver(sub)

	return func() { b.remove(sub) }
}

// deliver runs the handler for each queued event until the queue closes.
func (b *EventBus) deliver(sub *subscriber) {
	defer b.workers.Done()
	for event := range sub.queue {
		b.call(sub, event)
	}
}

// call invokes the handler, recovering from panics so one faulty handler
// cannot stop delivery to the others.
func (b *EventBus) call(sub *subscriber, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				"subscriber_id", sub.id,
				"event_type", event.Type,
				"panic", r)
		}
	}()
	sub.handler(event)
}

func (b *EventBus) remove(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	without := func(subs []*subscriber) []*subscriber {
		return slices.DeleteFunc(subs, func(s *subscriber) bool { return s == sub })
	}
	if sub.topic == "" {
		b.wildcard = without(b.wildcard)
	} else if subs := without(b.topics[sub.topic]); len(subs) > 0 {
		b.topics[sub.topic] = subs
	} else {
		delete(b.topics, sub.topic)
	}

	sub.stop()
}

// Close rejects further events and blocks until every queued event has
// been handled. Calling Close from inside a handler deadlocks.
func (b *EventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true

	for _, subs := range b.topics {
		for _, sub := range subs {
			sub.stop()
		}
	}
	for _, sub := range b.wildcard {
		sub.stop()
	}
	b.topics = make(map[EventType][]*subscriber)
	b.wildcard = nil
	b.mu.Unlock()

	b.workers.Wait()
	return nil
}

// Stats returns current bus statistics.
func (b *EventBus) Stats() BusStats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := len(b.wildcard)
	for _, subs := range b.topics {
		count += len(subs)
	}

	return BusStats{
		Subscribers: count,
		Published:   b.published.Load(),
		Dropped:     b.dropped.Load(),
		Closed:      b.closed,
	}
}

// BusStats contains event bus statistics.
type BusStats struct {
	Subscribers int
	Published   int64
	Dropped     int64
	Closed      bool
}
