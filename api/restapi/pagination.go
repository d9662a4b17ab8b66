package restapi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

const headerTotalCount = "X-Total-Count"

// parsePageable reads page, size and sort from the query string.
// Sort parameters have the form property[,property...][,asc|desc] and may be
// repeated.
func parsePageable(c *fiber.Ctx, entityName string) (model.Pageable, error) {
	var p model.Pageable
	var err error
	if v := c.Query("page"); v != "" {
		if p.Page, err = strconv.Atoi(v); err != nil || p.Page > model.MaxPage {
			return p, BadRequestAlert{
				Title:      "Invalid page parameter",
				EntityName: entityName,
				ErrorKey:   ErrorKeyPageInvalid,
			}
		}
	}
	if v := c.Query("size"); v != "" {
		if p.Size, err = strconv.Atoi(v); err != nil {
			return p, BadRequestAlert{
				Title:      "Invalid size parameter",
				EntityName: entityName,
				ErrorKey:   ErrorKeyPageInvalid,
			}
		}
	}
	for _, raw := range c.Context().QueryArgs().PeekMulti("sort") {
		p.Sort = append(p.Sort, parseSort(string(raw))...)
	}
	return p.Normalize(), nil
}

func parseSort(v string) []model.Order {
	parts := strings.Split(v, ",")
	desc := false
	switch strings.ToLower(parts[len(parts)-1]) {
	case "desc":
		desc = true
		parts = parts[:len(parts)-1]
	case "asc":
		parts = parts[:len(parts)-1]
	}
	orders := make([]model.Order, 0, len(parts))
	for _, prop := range parts {
		if prop = strings.TrimSpace(prop); prop != "" {
			orders = append(
				orders, model.Order{
					Property: prop,
					Desc:     desc,
				},
			)
		}
	}
	return orders
}

// setPaginationHeaders sets X-Total-Count and a Link header with the
// next, prev, last and first pages
func setPaginationHeaders[E any](c *fiber.Ctx, page model.Page[E]) {
	c.Set(headerTotalCount, strconv.FormatInt(page.Total, 10))

	base := c.BaseURL() + c.Path()
	query := url.Values{}
	c.Context().QueryArgs().VisitAll(
		func(k, v []byte) {
			query.Add(string(k), string(v))
		},
	)
	link := func(number int, rel string) string {
		query.Set("page", strconv.Itoa(number))
		query.Set("size", strconv.Itoa(page.Size))
		return fmt.Sprintf(`<%s?%s>; rel="%s"`, base, query.Encode(), rel)
	}

	totalPages := page.TotalPages()
	var links []string
	if page.Number+1 < totalPages {
		links = append(links, link(page.Number+1, "next"))
	}
	if page.Number > 0 {
		links = append(links, link(page.Number-1, "prev"))
	}
	last := 0
	if totalPages > 0 {
		last = totalPages - 1
	}
	links = append(links, link(last, "last"), link(0, "first"))
	c.Set(fiber.HeaderLink, strings.Join(links, ","))
}
