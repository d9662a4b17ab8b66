package views

import (
	"context"

	"github.com/relaxedbase/relaxedbase/client"
)

// DetailView shows a single record read-only
type DetailView[E any] struct {
	store *client.Store[E]
	id    int64
}

// NewDetailView returns the DetailView of the record with the passed id
func NewDetailView[E any](store *client.Store[E], id int64) *DetailView[E] {
	return &DetailView[E]{
		store: store,
		id:    id,
	}
}

// Mount fetches the record
func (v *DetailView[E]) Mount(ctx context.Context) error {
	return v.store.FetchOne(ctx, v.id)
}

// Entity returns the loaded record, nil while loading or on failure
func (v *DetailView[E]) Entity() *E {
	st := v.store.State()
	if st.Loading || st.Err != nil {
		return nil
	}
	return st.Entity
}

// Err returns the error of the last fetch
func (v *DetailView[E]) Err() error {
	return v.store.State().Err
}
