package client

import (
	"context"
	"sync"
)

// State is a snapshot of a Store. Entities is replaced wholesale by every
// list fetch and must not be modified.
type State[E any] struct {
	Entities   []E
	TotalItems int64
	// Entity is the record of the last FetchOne, Create or Update; Delete
	// clears it
	Entity        *E
	Loading       bool
	Updating      bool
	UpdateSuccess bool
	Err           error
}

type subscriber[E any] struct {
	id int
	fn func(State[E])
}

// Store holds the client state of one entity type and performs the remote
// calls changing it. Responses are applied in arrival order.
type Store[E any] struct {
	api Gateway[E]

	mu     sync.Mutex
	state  State[E]
	subs   []subscriber[E]
	nextID int

	// notifyMu keeps notifications in transition order
	notifyMu sync.Mutex
}

// NewStore returns an empty Store backed by the passed Gateway
func NewStore[E any](api Gateway[E]) *Store[E] {
	return &Store[E]{api: api}
}

// State returns the current state
func (s *Store[E]) State() State[E] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with the new state after every
// transition and returns a function removing the subscription. fn must not
// dispatch intents synchronously.
func (s *Store[E]) Subscribe(fn func(State[E])) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs = append(
		s.subs, subscriber[E]{
			id: id,
			fn: fn,
		},
	)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store[E]) transition(apply func(*State[E])) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	apply(&s.state)
	snapshot := s.state
	subs := append([]subscriber[E](nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snapshot)
	}
}

func startFetch[E any](st *State[E]) {
	st.Err = nil
	st.UpdateSuccess = false
	st.Loading = true
}

func startMutation[E any](st *State[E]) {
	st.Err = nil
	st.UpdateSuccess = false
	st.Updating = true
}

func (s *Store[E]) fail(err error) error {
	s.transition(
		func(st *State[E]) {
			st.Loading = false
			st.Updating = false
			st.UpdateSuccess = false
			st.Err = err
		},
	)
	return err
}

// FetchList loads a page of entities. An empty sort requests the server's
// default page.
func (s *Store[E]) FetchList(ctx context.Context, page, size int, sort string) error {
	s.transition(startFetch[E])
	return s.completeFetchList(
		ctx, PageRequest{
			Page: page,
			Size: size,
			Sort: sort,
		},
	)
}

func (s *Store[E]) completeFetchList(ctx context.Context, req PageRequest) error {
	p, err := s.api.List(ctx, req)
	if err != nil {
		return s.fail(err)
	}
	s.transition(
		func(st *State[E]) {
			st.Loading = false
			st.Entities = p.Items
			st.TotalItems = p.TotalItems
		},
	)
	return nil
}

// FetchOne loads the entity with the passed id into State.Entity
func (s *Store[E]) FetchOne(ctx context.Context, id int64) error {
	s.transition(startFetch[E])
	e, err := s.api.Get(ctx, id)
	if err != nil {
		return s.fail(err)
	}
	s.transition(
		func(st *State[E]) {
			st.Loading = false
			st.Entity = e
		},
	)
	return nil
}

func (s *Store[E]) saved(e *E) {
	s.transition(
		func(st *State[E]) {
			st.Updating = false
			st.UpdateSuccess = true
			st.Entity = e
		},
	)
}

// Create stores a new entity and reloads the default page of the list.
func (s *Store[E]) Create(ctx context.Context, e *E) error {
	s.transition(startMutation[E])
	created, err := s.api.Create(ctx, e)
	if err != nil {
		return s.fail(err)
	}
	s.saved(created)
	return s.FetchList(ctx, 0, 0, "")
}

// Update stores the changed entity
func (s *Store[E]) Update(ctx context.Context, e *E) error {
	s.transition(startMutation[E])
	updated, err := s.api.Update(ctx, e)
	if err != nil {
		return s.fail(err)
	}
	s.saved(updated)
	return nil
}

// Delete deletes the entity with the passed id and reloads the default page
// of the list.
func (s *Store[E]) Delete(ctx context.Context, id int64) error {
	s.transition(startMutation[E])
	if err := s.api.Delete(ctx, id); err != nil {
		return s.fail(err)
	}
	s.transition(
		func(st *State[E]) {
			st.Updating = false
			st.UpdateSuccess = true
			st.Entity = nil
		},
	)
	return s.FetchList(ctx, 0, 0, "")
}

// Reset restores the initial state
func (s *Store[E]) Reset() {
	s.transition(
		func(st *State[E]) {
			*st = State[E]{}
		},
	)
}
