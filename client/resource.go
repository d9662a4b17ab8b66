package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/relaxedbase/relaxedbase/api/restapi"
)

// PageRequest selects a page of a listing. Without Sort no paging parameters
// are sent and the server defaults apply.
type PageRequest struct {
	// Page is zero-based
	Page int
	Size int
	// Sort has the form property,asc or property,desc
	Sort string
}

// Page is one page of a listing
type Page[E any] struct {
	Items      []E
	TotalItems int64
	Link       string
}

// Gateway is the remote API of one entity as used by Store
type Gateway[E any] interface {
	List(ctx context.Context, req PageRequest) (Page[E], error)
	Get(ctx context.Context, id int64) (*E, error)
	Create(ctx context.Context, e *E) (*E, error)
	Update(ctx context.Context, e *E) (*E, error)
	Delete(ctx context.Context, id int64) error
}

// Resource implements Gateway over the REST endpoints at /api/{path}
type Resource[E any] struct {
	c    *Client
	path string
}

// NewResource returns the Resource for the entity at /api/{path}, e.g.
// NewResource[model.Event](c, "events")
func NewResource[E any](c *Client, path string) *Resource[E] {
	return &Resource[E]{
		c:    c,
		path: "/api/" + path,
	}
}

func (r *Resource[E]) request(ctx context.Context) *resty.Request {
	return r.c.rc.R().SetContext(ctx).SetError(&restapi.Problem{})
}

func (r *Resource[E]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// List fetches a page of entities
func (r *Resource[E]) List(ctx context.Context, req PageRequest) (Page[E], error) {
	var items []E
	rq := r.request(ctx).SetResult(&items)
	if req.Sort != "" {
		rq.SetQueryParams(
			map[string]string{
				"page": strconv.Itoa(req.Page),
				"size": strconv.Itoa(req.Size),
				"sort": req.Sort,
			},
		)
	}
	resp, err := rq.Get(r.path)
	if err != nil {
		return Page[E]{}, errors.Wrapf(err, "failed to list %s", r.path)
	}
	if resp.IsError() {
		return Page[E]{}, apiError(resp)
	}
	page := Page[E]{
		Items: items,
		Link:  resp.Header().Get("Link"),
	}
	if total := resp.Header().Get("X-Total-Count"); total != "" {
		if page.TotalItems, err = strconv.ParseInt(total, 10, 64); err != nil {
			return Page[E]{}, errors.Wrap(err, "invalid X-Total-Count header")
		}
	}
	return page, nil
}

// Get fetches the entity with the passed id
func (r *Resource[E]) Get(ctx context.Context, id int64) (*E, error) {
	var e E
	resp, err := r.request(ctx).SetResult(&e).Get(r.itemPath(id))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get %s", r.itemPath(id))
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &e, nil
}

// Create posts a new entity and returns it as stored by the server
func (r *Resource[E]) Create(ctx context.Context, e *E) (*E, error) {
	return r.save(ctx, http.MethodPost, e)
}

// Update puts the entity and returns it as stored by the server
func (r *Resource[E]) Update(ctx context.Context, e *E) (*E, error) {
	return r.save(ctx, http.MethodPut, e)
}

func (r *Resource[E]) save(ctx context.Context, method string, e *E) (*E, error) {
	var saved E
	resp, err := r.request(ctx).SetBody(e).SetResult(&saved).Execute(method, r.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to save %s", r.path)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &saved, nil
}

// Delete deletes the entity with the passed id
func (r *Resource[E]) Delete(ctx context.Context, id int64) error {
	resp, err := r.request(ctx).Delete(r.itemPath(id))
	if err != nil {
		return errors.Wrapf(err, "failed to delete %s", r.itemPath(id))
	}
	if resp.IsError() {
		return apiError(resp)
	}
	return nil
}
