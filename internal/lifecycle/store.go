package lifecycle

import "sync"

// Dispatcher accepts actions
type Dispatcher interface {
	Dispatch(a Action) State
}

// Observer is notified after every transition
type Observer func(prev, next State, a Action)

// Store owns a State and is its only writer. Dispatch calls are
// serialized, so concurrent callers never see a torn state.
type Store struct {
	mu        sync.Mutex
	state     State
	observers []Observer
}

// NewStore creates a store holding the initial state
func NewStore() *Store {
	return &Store{state: Initial()}
}

// Dispatch applies a and returns a copy of the new state
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	prev := s.state
	s.state = Reduce(s.state, a)
	next := s.state
	observers := s.observers
	s.mu.Unlock()

	for _, o := range observers {
		o(prev.Clone(), next.Clone(), a)
	}
	return next.Clone()
}

// State returns a copy of the current state
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Observe registers o for every later transition
func (s *Store) Observe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers[:len(s.observers):len(s.observers)], o)
}
