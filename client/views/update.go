package views

import (
	"context"
	"sync"
	"time"

	"github.com/relaxedbase/relaxedbase/client"
	"github.com/relaxedbase/relaxedbase/storage/model"
)

// UpdateView is the form creating a record (id 0) or editing an existing
// one. References to employees are selected from the employee list loaded
// on Mount.
type UpdateView[E any, P model.RecordPtr[E]] struct {
	store     *client.Store[E]
	employees *client.Store[model.Employee]
	id        int64

	mu          sync.Mutex
	submitted   bool
	done        bool
	unsubscribe func()
}

// NewUpdateView returns the UpdateView for the record with the passed id or,
// if id is 0, for a new record
func NewUpdateView[E any, P model.RecordPtr[E]](
	store *client.Store[E], employees *client.Store[model.Employee], id int64,
) *UpdateView[E, P] {
	return &UpdateView[E, P]{
		store:     store,
		employees: employees,
		id:        id,
	}
}

// IsNew reports whether the form creates a record
func (v *UpdateView[E, P]) IsNew() bool {
	return v.id == 0
}

// Mount resets the store for a new record or fetches the edited one, and
// loads the employees for the reference selectors.
func (v *UpdateView[E, P]) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.unsubscribe == nil {
		v.unsubscribe = v.store.Subscribe(v.observe)
	}
	v.mu.Unlock()

	if v.IsNew() {
		v.store.Reset()
	} else if err := v.store.FetchOne(ctx, v.id); err != nil {
		return err
	}
	return v.employees.FetchList(ctx, 0, 0, "")
}

// Unmount stops observing the store
func (v *UpdateView[E, P]) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

// observe latches a successful submit; the list refetch following a create
// clears UpdateSuccess again
func (v *UpdateView[E, P]) observe(st client.State[E]) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.submitted && st.UpdateSuccess {
		v.done = true
	}
}

// Values returns the initial form input: the edited record, or for a new
// record empty fields with timestamps set to the start of today
func (v *UpdateView[E, P]) Values() (Form, error) {
	if !v.IsNew() {
		return FormValues[E, P](v.store.State().Entity)
	}
	form, err := FormValues[E, P](nil)
	if err != nil {
		return nil, err
	}
	for _, col := range P(new(E)).Columns() {
		if col.Type == model.ColumnTimestamp {
			form[col.Field] = DefaultDateTime(time.Now())
		}
	}
	return form, nil
}

// Submit applies the form over the loaded record and creates or updates it.
// Invalid input is rejected before any request is made.
func (v *UpdateView[E, P]) Submit(ctx context.Context, form Form) error {
	var base *E
	if !v.IsNew() {
		base = v.store.State().Entity
	}
	e, err := applyForm[E, P](base, form)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.submitted = true
	v.done = false
	v.mu.Unlock()

	if v.IsNew() {
		return v.store.Create(ctx, e)
	}
	return v.store.Update(ctx, e)
}

// Done reports whether the submitted record was saved and the form can be
// left
func (v *UpdateView[E, P]) Done() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.done
}

// Updating reports whether a submit is in flight
func (v *UpdateView[E, P]) Updating() bool {
	return v.store.State().Updating
}

// Err returns the error of the last request
func (v *UpdateView[E, P]) Err() error {
	return v.store.State().Err
}

// Employees returns the choices for employee references
func (v *UpdateView[E, P]) Employees() []model.Employee {
	return v.employees.State().Entities
}
