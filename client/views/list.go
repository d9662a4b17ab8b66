package views

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/relaxedbase/relaxedbase/client"
	"github.com/relaxedbase/relaxedbase/storage/model"
)

// ListView shows one page of an entity. Its paging and sort state is kept in
// sync with a query string of the form page=1&sort=id,asc, the page being
// one-based.
type ListView[E any] struct {
	store *client.Store[E]

	ActivePage   int
	ItemsPerPage int
	Sort         string
	Order        string
}

// NewListView returns a ListView with the state parsed from query
func NewListView[E any](store *client.Store[E], query string) *ListView[E] {
	v := &ListView[E]{
		store:        store,
		ActivePage:   1,
		ItemsPerPage: model.DefaultPageSize,
		Sort:         "id",
		Order:        "asc",
	}
	v.parseQuery(query)
	return v
}

// parseQuery only applies a query carrying both page and sort
func (v *ListView[E]) parseQuery(query string) bool {
	params, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return false
	}
	page, sort := params.Get("page"), params.Get("sort")
	if page == "" || sort == "" {
		return false
	}
	p, err := strconv.Atoi(page)
	if err != nil || p < 1 {
		return false
	}
	prop, order, _ := strings.Cut(sort, ",")
	if order != "desc" {
		order = "asc"
	}
	changed := p != v.ActivePage || prop != v.Sort || order != v.Order
	v.ActivePage, v.Sort, v.Order = p, prop, order
	return changed
}

// Query renders the paging and sort state
func (v *ListView[E]) Query() string {
	return fmt.Sprintf("page=%d&sort=%s,%s", v.ActivePage, v.Sort, v.Order)
}

// Mount fetches the current page
func (v *ListView[E]) Mount(ctx context.Context) error {
	return v.fetch(ctx)
}

func (v *ListView[E]) fetch(ctx context.Context) error {
	return v.store.FetchList(ctx, v.ActivePage-1, v.ItemsPerPage, v.Sort+","+v.Order)
}

// Navigate applies a changed query string, e.g. after the user edited the
// location, and refetches if the state changed
func (v *ListView[E]) Navigate(ctx context.Context, query string) error {
	if !v.parseQuery(query) {
		return nil
	}
	return v.fetch(ctx)
}

// SortBy sorts by the passed property, flipping the order on every call
func (v *ListView[E]) SortBy(ctx context.Context, property string) error {
	if v.Order == "asc" {
		v.Order = "desc"
	} else {
		v.Order = "asc"
	}
	v.Sort = property
	return v.fetch(ctx)
}

// SetPage switches to the passed one-based page
func (v *ListView[E]) SetPage(ctx context.Context, page int) error {
	if page < 1 || page == v.ActivePage {
		return nil
	}
	v.ActivePage = page
	return v.fetch(ctx)
}

// State returns the state of the underlying store
func (v *ListView[E]) State() client.State[E] {
	return v.store.State()
}

// ShowPagination reports whether there is anything to page through
func (v *ListView[E]) ShowPagination() bool {
	return v.store.State().TotalItems > 0
}

// TotalPages returns the number of pages for the current page size
func (v *ListView[E]) TotalPages() int {
	total := v.store.State().TotalItems
	return int((total + int64(v.ItemsPerPage) - 1) / int64(v.ItemsPerPage))
}
