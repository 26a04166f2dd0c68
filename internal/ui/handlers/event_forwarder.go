package handlers

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"hnstories/internal/eventbus"
)

// Sender is satisfied by *tea.Program
type Sender interface {
	Send(msg tea.Msg)
}

// EventForwarder relays domain events from the bus into the program loop,
// so every UI state change still happens inside Update.
type EventForwarder struct {
	bus    eventbus.EventBus
	sender Sender
	wrap   func(eventbus.DomainEvent) tea.Msg

	mu     sync.Mutex
	unsubs []func()
}

// NewEventForwarder creates a forwarder. wrap turns an event into the
// message type the model expects.
func NewEventForwarder(bus eventbus.EventBus, sender Sender, wrap func(eventbus.DomainEvent) tea.Msg) *EventForwarder {
	return &EventForwarder{
		bus:    bus,
		sender: sender,
		wrap:   wrap,
	}
}

// Forward subscribes to the given event types
func (f *EventForwarder) Forward(types ...eventbus.EventType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range types {
		f.unsubs = append(f.unsubs, f.bus.Subscribe(t, f.handle))
	}
}

func (f *EventForwarder) handle(event eventbus.DomainEvent) {
	if msg := f.wrap(event); msg != nil {
		f.sender.Send(msg)
	}
}

// Close removes every subscription made by Forward
func (f *EventForwarder) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, unsub := range f.unsubs {
		unsub()
	}
	f.unsubs = nil
}
