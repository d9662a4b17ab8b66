package views

import (
	"context"
	"sync"

	"github.com/relaxedbase/relaxedbase/client"
)

// DeleteDialog asks for confirmation before deleting a record. It stays
// open if the deletion fails.
type DeleteDialog[E any] struct {
	store *client.Store[E]
	id    int64

	mu          sync.Mutex
	confirmed   bool
	done        bool
	unsubscribe func()
}

// NewDeleteDialog returns the dialog for the record with the passed id
func NewDeleteDialog[E any](store *client.Store[E], id int64) *DeleteDialog[E] {
	return &DeleteDialog[E]{
		store: store,
		id:    id,
	}
}

// Mount fetches the record to be deleted
func (d *DeleteDialog[E]) Mount(ctx context.Context) error {
	d.mu.Lock()
	if d.unsubscribe == nil {
		d.unsubscribe = d.store.Subscribe(d.observe)
	}
	d.mu.Unlock()
	return d.store.FetchOne(ctx, d.id)
}

// Unmount stops observing the store
func (d *DeleteDialog[E]) Unmount() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
}

func (d *DeleteDialog[E]) observe(st client.State[E]) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.confirmed && st.UpdateSuccess {
		d.done = true
	}
}

// Entity returns the record to be deleted
func (d *DeleteDialog[E]) Entity() *E {
	return d.store.State().Entity
}

// Confirm deletes the record
func (d *DeleteDialog[E]) Confirm(ctx context.Context) error {
	d.mu.Lock()
	d.confirmed = true
	d.mu.Unlock()
	return d.store.Delete(ctx, d.id)
}

// Done reports whether the record was deleted and the dialog can close
func (d *DeleteDialog[E]) Done() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.done
}

// Err returns the error of the last request
func (d *DeleteDialog[E]) Err() error {
	return d.store.State().Err
}
