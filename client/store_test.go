package client

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

func decodeJSON(req *http.Request, v any) error {
	defer req.Body.Close()
	return json.NewDecoder(req.Body).Decode(v)
}

// memoryGateway is an in-memory Gateway for events
type memoryGateway struct {
	mu      sync.Mutex
	events  []model.Event
	nextID  int64
	failAll error
	lists   []PageRequest
}

func (g *memoryGateway) List(_ context.Context, req PageRequest) (Page[model.Event], error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lists = append(g.lists, req)
	if g.failAll != nil {
		return Page[model.Event]{}, g.failAll
	}
	return Page[model.Event]{
		Items:      slices.Clone(g.events),
		TotalItems: int64(len(g.events)),
	}, nil
}

func (g *memoryGateway) Get(_ context.Context, id int64) (*model.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll != nil {
		return nil, g.failAll
	}
	for _, e := range g.events {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, &APIError{Status: http.StatusNotFound}
}

func (g *memoryGateway) Create(_ context.Context, e *model.Event) (*model.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll != nil {
		return nil, g.failAll
	}
	g.nextID++
	created := *e
	created.ID = g.nextID
	g.events = append(g.events, created)
	return &created, nil
}

func (g *memoryGateway) Update(_ context.Context, e *model.Event) (*model.Event, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll != nil {
		return nil, g.failAll
	}
	for i := range g.events {
		if g.events[i].ID == e.ID {
			g.events[i] = *e
		}
	}
	updated := *e
	return &updated, nil
}

func (g *memoryGateway) Delete(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAll != nil {
		return g.failAll
	}
	g.events = slices.DeleteFunc(g.events, func(e model.Event) bool { return e.ID == id })
	return nil
}

func record(s *Store[model.Event]) *[]State[model.Event] {
	var states []State[model.Event]
	s.Subscribe(func(st State[model.Event]) { states = append(states, st) })
	return &states
}

func TestStoreFetchList(t *testing.T) {
	g := &memoryGateway{events: []model.Event{{ID: 1}, {ID: 2}}}
	s := NewStore[model.Event](g)
	states := record(s)

	if err := s.FetchList(context.Background(), 1, 5, "id,asc"); err != nil {
		t.Fatalf("FetchList: %v", err)
	}
	if len(*states) != 2 || !(*states)[0].Loading || (*states)[1].Loading {
		t.Fatalf("expected loading then loaded, got %+v", *states)
	}
	st := s.State()
	if st.TotalItems != 2 || len(st.Entities) != 2 || st.Err != nil {
		t.Fatalf("unexpected state %+v", st)
	}
	if g.lists[0] != (PageRequest{Page: 1, Size: 5, Sort: "id,asc"}) {
		t.Fatalf("unexpected request %+v", g.lists[0])
	}
}

func TestStoreCreateRefetchesList(t *testing.T) {
	g := &memoryGateway{}
	s := NewStore[model.Event](g)
	states := record(s)

	if err := s.Create(context.Background(), &model.Event{Title: "new"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	var sawSuccess bool
	for _, st := range *states {
		sawSuccess = sawSuccess || st.UpdateSuccess
	}
	if !sawSuccess {
		t.Fatalf("expected a transition with UpdateSuccess")
	}
	if !(*states)[0].Updating {
		t.Fatalf("expected Updating to be set first")
	}
	st := s.State()
	if st.Entity == nil || st.Entity.ID != 1 || st.TotalItems != 1 || st.Updating || st.Loading {
		t.Fatalf("unexpected state %+v", st)
	}
	if len(g.lists) != 1 || g.lists[0] != (PageRequest{}) {
		t.Fatalf("expected one refetch with default paging, got %+v", g.lists)
	}
}

func TestStoreUpdateAndDelete(t *testing.T) {
	g := &memoryGateway{
		events: []model.Event{{ID: 1, Title: "old"}},
		nextID: 1,
	}
	s := NewStore[model.Event](g)
	ctx := context.Background()

	if err := s.Update(ctx, &model.Event{ID: 1, Title: "new"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	st := s.State()
	if !st.UpdateSuccess || st.Entity == nil || st.Entity.Title != "new" {
		t.Fatalf("unexpected state after update %+v", st)
	}
	if len(g.lists) != 0 {
		t.Fatalf("update must not refetch the list")
	}

	if err := s.Delete(ctx, 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	st = s.State()
	if st.Entity != nil || st.TotalItems != 0 || len(g.lists) != 1 {
		t.Fatalf("unexpected state after delete %+v", st)
	}
}

func TestStoreFailure(t *testing.T) {
	boom := errors.New("boom")
	g := &memoryGateway{failAll: boom}
	s := NewStore[model.Event](g)

	if err := s.FetchOne(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	st := s.State()
	if !errors.Is(st.Err, boom) || st.Loading || st.UpdateSuccess {
		t.Fatalf("unexpected state %+v", st)
	}

	if err := s.Update(context.Background(), &model.Event{ID: 1}); err == nil {
		t.Fatalf("expected update to fail")
	}
	if st = s.State(); st.Updating || st.UpdateSuccess || st.Err == nil {
		t.Fatalf("unexpected state %+v", st)
	}

	g.failAll = nil
	g.events = []model.Event{{ID: 1}}
	if err := s.FetchOne(context.Background(), 1); err != nil {
		t.Fatalf("FetchOne: %v", err)
	}
	if st = s.State(); st.Err != nil || st.Entity == nil {
		t.Fatalf("expected error to be cleared, got %+v", st)
	}
}

func TestStoreResetAndUnsubscribe(t *testing.T) {
	s := NewStore[model.Event](&memoryGateway{events: []model.Event{{ID: 1}}})
	calls := 0
	unsubscribe := s.Subscribe(func(State[model.Event]) { calls++ })
	if err := s.FetchList(context.Background(), 0, 20, "id,asc"); err != nil {
		t.Fatalf("FetchList: %v", err)
	}
	unsubscribe()
	s.Reset()
	if calls != 2 {
		t.Fatalf("expected 2 notifications, got %d", calls)
	}
	if st := s.State(); st.TotalItems != 0 || st.Entities != nil {
		t.Fatalf("expected reset state, got %+v", st)
	}
}
