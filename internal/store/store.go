package store

import (
	"io"
	"log/slog"
)

// Reducer computes the next state for an action. It must not mutate s.
type Reducer[S, A any] func(s S, a A) (S, error)

// Store holds one piece of state and applies actions to it through a reducer.
//
// A Store is not safe for concurrent dispatch. Callers serialize writes through
// a single update loop; any number of readers may call State between writes.
type Store[S, A any] struct {
	state  S
	reduce Reducer[S, A]

	nextSub int
	subs    map[int]func(S)
}

// New creates a Store with the given initial state and reducer.
func New[S, A any](initial S, reduce Reducer[S, A]) *Store[S, A] {
	return &Store[S, A]{
		state:  initial,
		reduce: reduce,
		subs:   make(map[int]func(S)),
	}
}

// State returns the current state.
func (s *Store[S, A]) State() S {
	return s.state
}

// Dispatch applies a to the current state. The reducer's result is stored even
// when it also returns an error, so reducers can record a value and still
// report a soft failure.
func (s *Store[S, A]) Dispatch(a A) error {
	next, err := s.reduce(s.state, a)
	s.state = next
	for _, fn := range s.subs {
		fn(next)
	}
	return err
}

// Subscribe registers fn to be called with the new state after every dispatch.
// The returned function removes the subscription.
func (s *Store[S, A]) Subscribe(fn func(S)) (unsubscribe func()) {
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() { delete(s.subs, id) }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
