package eventbus

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"carousel/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventSlideChanged   = domain.EventSlideChanged
	EventGestureBegan   = domain.EventGestureBegan
	EventGestureEnded   = domain.EventGestureEnded
	EventGestureExpired = domain.EventGestureExpired
	EventError          = domain.EventError
	EventDeckLoaded     = domain.EventDeckLoaded
	EventDeckChanged    = domain.EventDeckChanged
	EventConfigLoaded   = domain.EventConfigLoaded
	EventConfigSaved    = domain.EventConfigSaved
)

// Re-export domain event types
type SlideChangedEvent = domain.SlideChangedEvent
type GestureBeganEvent = domain.GestureBeganEvent
type GestureEndedEvent = domain.GestureEndedEvent
type GestureExpiredEvent = domain.GestureExpiredEvent
type ErrorEvent = domain.ErrorEvent
type DeckLoadedEvent = domain.DeckLoadedEvent
type DeckChangedEvent = domain.DeckChangedEvent
type ConfigLoadedEvent = domain.ConfigLoadedEvent
type ConfigSavedEvent = domain.ConfigSavedEvent

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	inflight  sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

// New creates a new event bus
func New(logger *zap.Logger) EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 256),
		quit:      make(chan struct{}),
		logger:    logger.Named("eventbus"),
	}

	// Start the event dispatcher
	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Gesture and slide events fire on every drag, keep them out of info logs
	switch event.Type() {
	case EventSlideChanged, EventGestureBegan, EventGestureEnded:
		b.logger.Debug("publishing event", zap.String("type", string(event.Type())))
	default:
		b.logger.Info("publishing event", zap.String("type", string(event.Type())))
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		b.logger.Warn("event bus channel full, dropping event", zap.String("type", string(event.Type())))
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher and waits for running handlers
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
		b.inflight.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.deliver(event)

		case <-b.quit:
			// Deliver what was published before Close; inflight covers the handlers
			for {
				select {
				case event := <-b.eventChan:
					b.deliver(event)
				default:
					return
				}
			}
		}
	}
}

// deliver runs every subscriber of the event on its own goroutine
func (b *bus) deliver(event DomainEvent) {
	b.mu.RLock()
	subs := b.handlers[event.Type()]
	// Copy so handlers run without the lock held
	handlersCopy := make([]EventHandler, len(subs))
	for i, s := range subs {
		handlersCopy[i] = s.handler
	}
	b.mu.RUnlock()

	for _, handler := range handlersCopy {
		b.inflight.Add(1)
		go func(h EventHandler, eventType EventType) {
			defer b.inflight.Done()
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event handler panic",
						zap.String("type", string(eventType)),
						zap.Any("panic", r),
						zap.ByteString("stack", debug.Stack()))
				}
			}()
			h(event)
		}(handler, event.Type())
	}
}
