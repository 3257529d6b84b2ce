package events

import (
	"context"
	"sync"
	"time"

	"swapstay/pkg/kafka"
	"swapstay/pkg/logger"
	"swapstay/pkg/middleware"
)

const (
	publishTimeout = 5 * time.Second
	queueSize      = 256
)

type Publisher interface {
	Publish(ctx context.Context, events ...Event)
	Close()
}

type messageProducer interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type batch struct {
	correlationID string
	events        []Event
}

// KafkaPublisher hands events to a background sender so a slow or absent
// broker never delays the response of a write that already committed.
type KafkaPublisher struct {
	producer messageProducer
	source   string
	log      *logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan batch
	done   chan struct{}
}

// NewPublisher returns a Kafka publisher, or a no-op one when producer is nil
// (Kafka disabled).
func NewPublisher(producer *kafka.Producer, source string, log *logger.Logger) Publisher {
	if producer == nil {
		log.Info("Kafka disabled, domain events will not be published")
		return NopPublisher{}
	}
	return newKafkaPublisher(producer, source, log, queueSize)
}

func newKafkaPublisher(producer messageProducer, source string, log *logger.Logger, size int) *KafkaPublisher {
	p := &KafkaPublisher{
		producer: producer,
		source:   source,
		log:      log,
		queue:    make(chan batch, size),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

// Publish queues the events and returns at once. Events are dropped with an
// error log when the queue is full or the publisher is closed.
func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) {
	if len(events) == 0 {
		return
	}
	b := batch{correlationID: middleware.RequestIDFromContext(ctx), events: events}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		p.log.Error("Publisher closed, dropping events", "count", len(events), "first_event_id", events[0].ID)
		return
	}
	select {
	case p.queue <- b:
	default:
		p.log.Error("Event queue full, dropping events", "count", len(events), "first_event_id", events[0].ID)
	}
}

// Close stops accepting events and waits until the queued ones were sent.
func (p *KafkaPublisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.queue)
	}
	p.mu.Unlock()
	<-p.done
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for b := range p.queue {
		p.send(b)
	}
}

func (p *KafkaPublisher) send(b batch) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	for _, ev := range b.events {
		msg, err := kafka.NewMessage().
			WithKey(ev.Key()).
			WithValue(ev).
			WithEventID(ev.ID).
			WithEventType(string(ev.Type)).
			WithCorrelationID(b.correlationID).
			WithSchemaVersion(SchemaVersion).
			WithSource(p.source).
			WithTimestamp(ev.OccurredAt).
			Build()
		if err != nil {
			p.log.Error("Failed to build event message", "event_type", ev.Type, "event_id", ev.ID, "error", err)
			continue
		}

		if err := p.producer.Publish(ctx, msg); err != nil {
			p.log.Error("Failed to publish event",
				"event_type", ev.Type,
				"event_id", ev.ID,
				"key", ev.Key(),
				"error", err,
			)
		}
	}
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) {}

func (NopPublisher) Close() {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, events ...Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
}

func (r *Recorder) Close() {}

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]Type, len(r.events))
	for i, ev := range r.events {
		types[i] = ev.Type
	}
	return types
}
