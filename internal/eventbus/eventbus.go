package eventbus

import (
	"runtime/debug"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"hnstories/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventSearchTermChanged = domain.EventSearchTermChanged
	EventSearchSubmitted   = domain.EventSearchSubmitted
	EventFetchStarted      = domain.EventFetchStarted
	EventFetchSucceeded    = domain.EventFetchSucceeded
	EventFetchFailed       = domain.EventFetchFailed
	EventFetchDiscarded    = domain.EventFetchDiscarded
	EventStoryDismissed    = domain.EventStoryDismissed
	EventPersistFailed     = domain.EventPersistFailed
	EventConfigLoaded      = domain.EventConfigLoaded
	EventConfigSaved       = domain.EventConfigSaved
)

// Re-export domain event types
type SearchTermChangedEvent = domain.SearchTermChangedEvent
type SearchSubmittedEvent = domain.SearchSubmittedEvent
type FetchStartedEvent = domain.FetchStartedEvent
type FetchSucceededEvent = domain.FetchSucceededEvent
type FetchFailedEvent = domain.FetchFailedEvent
type FetchDiscardedEvent = domain.FetchDiscardedEvent
type StoryDismissedEvent = domain.StoryDismissedEvent
type PersistFailedEvent = domain.PersistFailedEvent
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
	handlerWg sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	logger    atomic.Pointer[zap.Logger]
}

// New creates a new event bus
func New(logger *zap.Logger) EventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}
	b.logger.Store(logger)

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// SetLogger replaces the logger, for buses created before logging is configured
func (b *bus) SetLogger(logger *zap.Logger) {
	if logger != nil {
		b.logger.Store(logger)
	}
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Keystrokes are too frequent to be worth logging
	if event.Type() != EventSearchTermChanged {
		b.logger.Load().Debug("publishing event", zap.String("event", string(event.Type())))
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		b.logger.Load().Warn("event bus channel full, dropping event", zap.String("event", string(event.Type())))
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

// Close stops the dispatcher and waits for running handlers to finish.
// Events still queued are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
		b.handlerWg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := make([]subscription, len(b.handlers[event.Type()]))
			copy(subs, b.handlers[event.Type()])
			b.mu.RUnlock()

			for _, s := range subs {
				b.handlerWg.Add(1)
				go func(h EventHandler, eventType EventType) {
					defer b.handlerWg.Done()
					defer func() {
						if r := recover(); r != nil {
							b.logger.Load().Error("event handler panic",
								zap.String("event", string(eventType)),
								zap.Any("panic", r),
								zap.ByteString("stack", debug.Stack()))
						}
					}()
					h(event)
				}(s.handler, event.Type())
			}

		case <-b.quit:
			// Drain remaining events
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
