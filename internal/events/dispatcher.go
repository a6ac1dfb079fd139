package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EventHandler handles a published event.
type EventHandler func(context.Context, Event) error

// Dispatcher decouples event producers from notification delivery. Publish
// never blocks and never fails the caller; handlers run on a background
// worker goroutine.
type Dispatcher interface {
	Publish(event Event)
	Subscribe(eventType EventType, handler EventHandler)
	Close()
}

type asyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	queue     chan Event
	logger    *zap.Logger
	done      chan struct{}
	closeOnce sync.Once
}

// NewAsyncDispatcher creates a dispatcher backed by a buffered queue and a
// single worker goroutine. queueSize bounds in-flight events; when the buffer
// is full the event is dropped with a warning rather than blocking the
// write path.
func NewAsyncDispatcher(queueSize int, logger *zap.Logger) Dispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	d := &asyncDispatcher{
		listeners: make(map[EventType][]EventHandler),
		queue:     make(chan Event, queueSize),
		logger:    logger,
		done:      make(chan struct{}),
	}
	go d.run()
	return d
}

// Publish enqueues the event for asynchronous delivery.
func (d *asyncDispatcher) Publish(event Event) {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("event queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID))
	}
}

// Subscribe registers a handler for the given event type.
func (d *asyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Close stops accepting events and drains the queue.
func (d *asyncDispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
		<-d.done
	})
}

func (d *asyncDispatcher) run() {
	defer close(d.done)
	for event := range d.queue {
		d.mu.RLock()
		handlers := append([]EventHandler{}, d.listeners[event.Type]...)
		d.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(context.Background(), event); err != nil {
				d.logger.Warn("event handler failed",
					zap.String("event_type", string(event.Type)),
					zap.String("ticket_id", event.TicketID),
					zap.Error(err))
			}
		}
	}
}
