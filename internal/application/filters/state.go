// Package filters holds the shared dashboard filter state and its change
// notification. Aggregation calls receive the state explicitly; widgets and
// connected dashboards learn about changes through subscriptions.
package filters

import "sync"

// FilterState is the set of parameters every aggregation call is scoped by.
type FilterState struct {
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	AccountCode string `json:"accountCode"`
	UserID      string `json:"userId"`
}

// Store is the process-wide filter state with observer-style change
// notification. Subscribers are invoked synchronously on Set, after the
// state has been swapped.
type Store struct {
	mu          sync.Mutex
	state       FilterState
	nextID      int
	subscribers map[int]func(FilterState)
}

// NewStore creates an empty filter store.
func NewStore() *Store {
	return &Store{subscribers: make(map[int]func(FilterState))}
}

// Get returns the current filter state.
func (s *Store) Get() FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set replaces the filter state and notifies every subscriber. Returns
// whether the state actually changed.
func (s *Store) Set(state FilterState) bool {
	s.mu.Lock()
	if s.state == state {
		s.mu.Unlock()
		return false
	}
	s.state = state
	subs := make([]func(FilterState), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
	return true
}

// Subscribe registers a change callback and returns an unsubscribe func.
func (s *Store) Subscribe(fn func(FilterState)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}
