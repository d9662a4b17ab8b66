package restapi

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

func (env *testEnv) count(t *testing.T, path string) int64 {
	t.Helper()
	resp := env.do(t, http.MethodGet, path, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET %s: status %d", path, resp.StatusCode)
	}
	var n int64
	if _, err := fmt.Sscan(resp.Header.Get(headerTotalCount), &n); err != nil {
		t.Fatalf("X-Total-Count: %v", err)
	}
	return n
}

func TestCreateWithIDIsRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	before := env.count(t, "/api/employees")

	resp := env.do(t, http.MethodPost, "/api/employees", map[string]any{"id": 1, "firstName": "Ada"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var problem Problem
	resp.decode(t, &problem)
	if problem.ErrorKey != ErrorKeyIDExists || problem.EntityName != "employee" ||
		problem.Message != "error.idexists" || problem.Type != problemWithMessage || problem.Status != 400 {
		t.Fatalf("unexpected problem: %+v", problem)
	}
	if got := resp.Header.Get(errorHeaderName); got != "error.idexists" {
		t.Errorf("unexpected error header %q", got)
	}
	if got := resp.Header.Get(paramsHeaderName); got != "employee" {
		t.Errorf("unexpected params header %q", got)
	}
	if after := env.count(t, "/api/employees"); after != before {
		t.Fatalf("collection size changed from %d to %d", before, after)
	}
}

func TestCreate(t *testing.T) {
	env := newTestEnv(t, nil)
	before := env.count(t, "/api/vacation-requests")

	resp := env.do(
		t, http.MethodPost, "/api/vacation-requests", map[string]any{
			"status":    true,
			"owner":     "alice",
			"startDate": "2024-07-01T08:00:00Z",
		},
	)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, resp.body)
	}
	var created model.VacationRequest
	resp.decode(t, &created)
	if created.ID == 0 || !created.Status || created.Owner != "alice" {
		t.Fatalf("unexpected body: %+v", created)
	}
	if loc := resp.Header.Get("Location"); loc != fmt.Sprintf("/api/vacation-requests/%d", created.ID) {
		t.Errorf("unexpected location %q", loc)
	}
	wantAlert := fmt.Sprintf("A new vacationRequest is created with identifier %d", created.ID)
	if got := resp.Header.Get(alertHeaderName); got != wantAlert {
		t.Errorf("unexpected alert %q", got)
	}
	if got := resp.Header.Get(paramsHeaderName); got != fmt.Sprint(created.ID) {
		t.Errorf("unexpected params %q", got)
	}
	if after := env.count(t, "/api/vacation-requests"); after != before+1 {
		t.Fatalf("expected %d records, got %d", before+1, after)
	}
}

func TestUpdateWithoutIDIsRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodPut, "/api/events", map[string]any{"title": "Retro"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var problem Problem
	resp.decode(t, &problem)
	if problem.ErrorKey != ErrorKeyIDNull || problem.EntityName != "event" {
		t.Fatalf("unexpected problem: %+v", problem)
	}
	if n := env.count(t, "/api/events"); n != 0 {
		t.Fatalf("rejected update must not write, got %d events", n)
	}
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodPost, "/api/events", map[string]any{"title": "Retro"})
	var ev model.Event
	resp.decode(t, &ev)

	resp = env.do(t, http.MethodPut, "/api/events", map[string]any{"id": ev.ID, "title": "Planning", "inviteOnly": true})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get(alertHeaderName); got != fmt.Sprintf("A event is updated with identifier %d", ev.ID) {
		t.Errorf("unexpected alert %q", got)
	}
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/events/%d", ev.ID), nil)
	var got model.Event
	resp.decode(t, &got)
	if got.Title != "Planning" || !got.InviteOnly {
		t.Fatalf("update not persisted: %+v", got)
	}

	// an unknown id is inserted
	resp = env.do(t, http.MethodPut, "/api/events", map[string]any{"id": 777, "title": "Upsert"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for unknown id, got %d", resp.StatusCode)
	}
	if resp = env.do(t, http.MethodGet, "/api/events/777", nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected upserted event, got %d", resp.StatusCode)
	}
}

func TestGetUnknownIsNotFound(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodGet, fmt.Sprintf("/api/sick-leaves/%d", int64(math.MaxInt64)), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if len(resp.body) != 0 {
		t.Fatalf("expected empty body, got %q", resp.body)
	}
	if resp = env.do(t, http.MethodGet, "/api/sick-leaves/abc", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non numeric id, got %d", resp.StatusCode)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodPost, "/api/vacation-requests", map[string]any{"owner": "bob"})
	var vr model.VacationRequest
	resp.decode(t, &vr)
	path := fmt.Sprintf("/api/vacation-requests/%d", vr.ID)

	resp = env.do(t, http.MethodDelete, path, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get(alertHeaderName); got != fmt.Sprintf("A vacationRequest is deleted with identifier %d", vr.ID) {
		t.Errorf("unexpected alert %q", got)
	}
	if resp = env.do(t, http.MethodGet, path, nil); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
	if resp = env.do(t, http.MethodDelete, path, nil); resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected repeated delete to return 204, got %d", resp.StatusCode)
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodPost, "/api/employees", map[string]any{"firstName": "Grace", "team": "Core"})
	var host model.Employee
	resp.decode(t, &host)

	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.FixedZone("", 3600))
	end := start.Add(2 * time.Hour)
	resp = env.do(
		t, http.MethodPost, "/api/events", map[string]any{
			"title":       "Offsite",
			"description": "yearly",
			"location":    "Berlin",
			"startDate":   start.Format(time.RFC3339),
			"endDate":     end.Format(time.RFC3339),
			"inviteOnly":  true,
			"host":        map[string]any{"id": host.ID},
		},
	)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, resp.body)
	}
	var created model.Event
	resp.decode(t, &created)

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/events/%d", created.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got model.Event
	resp.decode(t, &got)
	if got.Title != "Offsite" || got.Description != "yearly" || got.Location != "Berlin" || !got.InviteOnly {
		t.Fatalf("fields changed: %+v", got)
	}
	if got.StartDate == nil || !got.StartDate.Equal(start) || got.EndDate == nil || !got.EndDate.Equal(end) {
		t.Fatalf("timestamps changed: %v %v", got.StartDate, got.EndDate)
	}
	if got.Host == nil || got.Host.ID != host.ID || got.Host.FirstName != "Grace" {
		t.Fatalf("host reference not loaded: %+v", got.Host)
	}
	if got.Participant != nil {
		t.Fatalf("unexpected participant")
	}

	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/employees/%d", host.ID), nil)
	var withEvents model.Employee
	resp.decode(t, &withEvents)
	if len(withEvents.Events) != 1 || withEvents.Events[0].ID != created.ID || withEvents.Events[0].Host != nil {
		t.Fatalf("expected hosted event without back reference: %+v", withEvents.Events)
	}
}

func TestListPagination(t *testing.T) {
	env := newTestEnv(t, nil)
	for i := 0; i < 5; i++ {
		env.do(t, http.MethodPost, "/api/events", map[string]any{"title": fmt.Sprintf("event %d", i)})
	}
	resp := env.do(t, http.MethodGet, "/api/events?page=1&size=2&sort=title,desc", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get(headerTotalCount); got != "5" {
		t.Fatalf("unexpected total count %q", got)
	}
	var events []model.Event
	resp.decode(t, &events)
	if len(events) != 2 || events[0].Title != "event 2" || events[1].Title != "event 1" {
		t.Fatalf("unexpected page: %+v", events)
	}
	link := resp.Header.Get("Link")
	for _, want := range []string{
		`page=2&size=2&sort=title%2Cdesc>; rel="next"`,
		`page=0&size=2&sort=title%2Cdesc>; rel="prev"`,
		`page=2&size=2&sort=title%2Cdesc>; rel="last"`,
		`page=0&size=2&sort=title%2Cdesc>; rel="first"`,
	} {
		if !strings.Contains(link, want) {
			t.Errorf("Link header %q misses %q", link, want)
		}
	}

	resp = env.do(t, http.MethodGet, "/api/events", nil)
	resp.decode(t, &events)
	if len(events) != 5 || events[0].Title != "event 0" {
		t.Fatalf("expected default paging sorted by id: %+v", events)
	}
}

func TestListRejectsInvalidParameters(t *testing.T) {
	env := newTestEnv(t, nil)
	for path, key := range map[string]string{
		"/api/employees?sort=salary,desc":                 ErrorKeySortInvalid,
		"/api/employees?page=first":                       ErrorKeyPageInvalid,
		"/api/employees?page=9223372036854775807&size=20": ErrorKeyPageInvalid,
		"/api/employees?size=ten":                         ErrorKeyPageInvalid,
	} {
		resp := env.do(t, http.MethodGet, path, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, resp.StatusCode)
			continue
		}
		var problem Problem
		resp.decode(t, &problem)
		if problem.ErrorKey != key {
			t.Errorf("%s: expected error key %s, got %s", path, key, problem.ErrorKey)
		}
	}
}

func TestListByOwner(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, owner := range []string{"alice", "bob", "alice"} {
		env.do(t, http.MethodPost, "/api/vacation-requests", map[string]any{"owner": owner})
	}
	if n := env.count(t, "/api/vacation-requests?owner=alice"); n != 2 {
		t.Fatalf("expected 2 requests of alice, got %d", n)
	}
	if n := env.count(t, "/api/vacation-requests"); n != 3 {
		t.Fatalf("expected 3 requests without owner filter, got %d", n)
	}

	resp := env.do(t, http.MethodPost, "/api/employees", map[string]any{"firstName": "Alice"})
	var alice model.Employee
	resp.decode(t, &alice)
	env.do(t, http.MethodPost, "/api/sick-leaves", map[string]any{"employee": map[string]any{"id": alice.ID}})
	env.do(t, http.MethodPost, "/api/sick-leaves", map[string]any{})
	if n := env.count(t, fmt.Sprintf("/api/sick-leaves?owner=%d", alice.ID)); n != 1 {
		t.Fatalf("expected 1 sick leave of employee %d, got %d", alice.ID, n)
	}
	if n := env.count(t, "/api/sick-leaves?owner=alice"); n != 0 {
		t.Fatalf("expected no sick leaves for non numeric owner, got %d", n)
	}
}

func TestDeleteEmployeeKeepsReferencingRecords(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodPost, "/api/employees", map[string]any{"firstName": "Bob"})
	var bob model.Employee
	resp.decode(t, &bob)
	resp = env.do(t, http.MethodPost, "/api/sick-leaves", map[string]any{"employee": map[string]any{"id": bob.ID}})
	var leave model.SickLeave
	resp.decode(t, &leave)

	if resp = env.do(t, http.MethodDelete, fmt.Sprintf("/api/employees/%d", bob.ID), nil); resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	resp = env.do(t, http.MethodGet, fmt.Sprintf("/api/sick-leaves/%d", leave.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sick leave must survive employee deletion, got %d", resp.StatusCode)
	}
	var got model.SickLeave
	resp.decode(t, &got)
	if got.Employee != nil {
		t.Fatalf("expected orphaned sick leave, got employee %+v", got.Employee)
	}
}

func TestAuditTrail(t *testing.T) {
	env := newTestEnv(t, nil)
	resp := env.do(t, http.MethodPost, "/api/events", map[string]any{"title": "Audited"})
	var ev model.Event
	resp.decode(t, &ev)
	env.do(t, http.MethodDelete, fmt.Sprintf("/api/events/%d", ev.ID), nil)
	// rejected requests are not audited
	env.do(t, http.MethodPut, "/api/events", map[string]any{"title": "no id"})

	page, err := env.storage.AuditStorage().List(context.Background(), model.Pageable{})
	if err != nil {
		t.Fatalf("list audits: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 audit events, got %d", page.Total)
	}
	types := map[string]bool{}
	for _, a := range page.Content {
		types[a.Type] = true
		if a.Entity != "event" || a.EntityID != ev.ID || a.Principal != anonymousPrincipal {
			t.Errorf("unexpected audit event %+v", a)
		}
	}
	if !types[model.AuditEntityCreated] || !types[model.AuditEntityDeleted] {
		t.Fatalf("unexpected audit types %v", types)
	}

	resp = env.do(t, http.MethodGet, "/management/audits?sort=timestamp,asc", nil)
	if resp.StatusCode != http.StatusOK || resp.Header.Get(headerTotalCount) != "2" {
		t.Fatalf("unexpected audit listing: %d %s", resp.StatusCode, resp.body)
	}
}
