package restapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/relaxedbase/relaxedbase/internal/version"
	"github.com/relaxedbase/relaxedbase/storage/model"
)

const healthCheckTimeout = 2 * time.Second

type healthStatus struct {
	Status     string                  `json:"status"`
	Components map[string]healthStatus `json:"components,omitempty"`
	Details    map[string]string       `json:"details,omitempty"`
}

func registerHealth(r fiber.Router, ping func(ctx context.Context) error) {
	r.Get(
		"/health", func(c *fiber.Ctx) error {
			db := healthStatus{Status: "UP"}
			if ping != nil {
				ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
				defer cancel()
				if err := ping(ctx); err != nil {
					db = healthStatus{
						Status:  "DOWN",
						Details: map[string]string{"error": err.Error()},
					}
				}
			}
			status := fiber.StatusOK
			if db.Status != "UP" {
				status = fiber.StatusServiceUnavailable
			}
			return c.Status(status).JSON(
				healthStatus{
					Status:     db.Status,
					Components: map[string]healthStatus{"db": db},
				},
			)
		},
	)
}

func registerInfo(r fiber.Router, appName string) {
	r.Get(
		"/info", func(c *fiber.Ctx) error {
			return c.JSON(
				fiber.Map{
					"app":     appName,
					"version": version.VERSION,
				},
			)
		},
	)
}

func registerAudits(r fiber.Router, audits model.AuditEventsStore) {
	r.Get(
		"/audits", func(c *fiber.Ctx) error {
			pageable, err := parsePageable(c, "audit")
			if err != nil {
				return err
			}
			page, err := audits.List(c.UserContext(), pageable)
			if err != nil {
				var unknown model.UnknownColumnError
				if errors.As(err, &unknown) {
					return BadRequestAlert{
						Title:      unknown.Error(),
						EntityName: "audit",
						ErrorKey:   ErrorKeySortInvalid,
					}
				}
				return err
			}
			setPaginationHeaders(c, page)
			return c.JSON(page.Content)
		},
	)
}
