package relaxedbase

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"

	"github.com/relaxedbase/relaxedbase/client"
	"github.com/relaxedbase/relaxedbase/client/views"
	"github.com/relaxedbase/relaxedbase/storage"
	"github.com/relaxedbase/relaxedbase/storage/model"
)

func newTestStores(t *testing.T) *client.Stores {
	t.Helper()
	s, err := storage.NewStorage(
		storage.Config{
			Driver:  storage.DriverSQLite,
			DataDir: t.TempDir(),
		},
	)
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	server, err := NewServer(ServerConf{}, s.Backends(), ServerOptions{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(server.HttpHandlerFunc())
	t.Cleanup(ts.Close)
	return client.NewStores(client.New(ts.URL))
}

func TestViewsAgainstServer(t *testing.T) {
	stores := newTestStores(t)
	ctx := context.Background()

	newEmployee := views.NewUpdateView[model.Employee, *model.Employee](stores.Employees, stores.Employees, 0)
	if err := newEmployee.Mount(ctx); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := newEmployee.Submit(ctx, views.Form{"firstName": "Grace", "lastName": "Hopper"}); err != nil {
		t.Fatalf("Submit employee: %v", err)
	}
	newEmployee.Unmount()
	grace := stores.Employees.State().Entity
	if !newEmployee.Done() || grace == nil || grace.ID == 0 {
		t.Fatalf("employee not created: %+v", grace)
	}

	newRequest := views.NewUpdateView[model.VacationRequest, *model.VacationRequest](
		stores.VacationRequests, stores.Employees, 0,
	)
	if err := newRequest.Mount(ctx); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if len(newRequest.Employees()) != 1 {
		t.Fatalf("expected the employee as reference choice")
	}
	form, err := newRequest.Values()
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	form["owner"] = "grace"
	form["applicant"] = fmt.Sprint(grace.ID)
	if err = newRequest.Submit(ctx, form); err != nil {
		t.Fatalf("Submit request: %v", err)
	}
	newRequest.Unmount()
	created := stores.VacationRequests.State().Entity

	list := views.NewListView(stores.VacationRequests, "page=1&sort=id,desc")
	if err = list.Mount(ctx); err != nil {
		t.Fatalf("Mount list: %v", err)
	}
	if st := list.State(); st.TotalItems != 1 || st.Entities[0].Applicant == nil || st.Entities[0].Applicant.FirstName != "Grace" {
		t.Fatalf("unexpected list state %+v", st)
	}

	detail := views.NewDetailView(stores.Employees, grace.ID)
	if err = detail.Mount(ctx); err != nil {
		t.Fatalf("Mount detail: %v", err)
	}
	if e := detail.Entity(); len(e.VacationRequests) != 0 || e.FirstName != "Grace" {
		t.Fatalf("unexpected employee %+v", e)
	}

	edit := views.NewUpdateView[model.VacationRequest, *model.VacationRequest](
		stores.VacationRequests, stores.Employees, created.ID,
	)
	if err = edit.Mount(ctx); err != nil {
		t.Fatalf("Mount edit: %v", err)
	}
	if err = edit.Submit(ctx, views.Form{"status": "true", "standIn": fmt.Sprint(grace.ID)}); err != nil {
		t.Fatalf("Submit edit: %v", err)
	}
	edit.Unmount()
	if !edit.Done() {
		t.Fatalf("edit not done: %v", edit.Err())
	}

	if err = detail.Mount(ctx); err != nil {
		t.Fatalf("Mount detail: %v", err)
	}
	if e := detail.Entity(); len(e.VacationRequests) != 1 || !e.VacationRequests[0].Status {
		t.Fatalf("expected stand-in request on employee, got %+v", e.VacationRequests)
	}

	dialog := views.NewDeleteDialog(stores.VacationRequests, created.ID)
	if err = dialog.Mount(ctx); err != nil {
		t.Fatalf("Mount dialog: %v", err)
	}
	if err = dialog.Confirm(ctx); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	dialog.Unmount()
	if !dialog.Done() || stores.VacationRequests.State().TotalItems != 0 {
		t.Fatalf("request not deleted")
	}

	err = stores.VacationRequests.Create(ctx, &model.VacationRequest{ID: 5})
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.Problem == nil || apiErr.Problem.ErrorKey != "idexists" {
		t.Fatalf("expected idexists problem, got %v", err)
	}
}
