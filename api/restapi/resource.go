package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

// resource exposes one entity type as REST endpoints below /api/{path}
type resource[E any, P model.RecordPtr[E]] struct {
	path        string
	displayName string
	store       model.Gateway[E]
	// owned is set for entities supporting the owner query parameter
	owned   model.OwnedGateway[E]
	appName string
	audits  model.AuditEventsStore
}

func (res *resource[E, P]) entityName() string {
	return P(new(E)).EntityName()
}

func (res *resource[E, P]) logger() *log.Entry {
	return log.WithField("entity", res.entityName())
}

func (res *resource[E, P]) register(r fiber.Router, middlewares ...fiber.Handler) {
	g := r.Group("/"+res.path, middlewares...)
	g.Post("", res.create)
	g.Put("", res.update)
	g.Get("", res.list)
	g.Get("/:id", res.get)
	g.Delete("/:id", res.delete)
}

func (res *resource[E, P]) parseBody(c *fiber.Ctx) (*E, error) {
	var e E
	if err := c.BodyParser(&e); err != nil {
		return nil, BadRequestAlert{
			Title:      fmt.Sprintf("Invalid %s: %s", res.entityName(), err.Error()),
			EntityName: res.entityName(),
			ErrorKey:   ErrorKeyBodyInvalid,
		}
	}
	return &e, nil
}

func (res *resource[E, P]) create(c *fiber.Ctx) error {
	e, err := res.parseBody(c)
	if err != nil {
		return err
	}
	res.logger().Debugf("REST request to save %s", res.displayName)
	if P(e).GetID() != 0 {
		return BadRequestAlert{
			Title:      fmt.Sprintf("A new %s cannot already have an ID", res.entityName()),
			EntityName: res.entityName(),
			ErrorKey:   ErrorKeyIDExists,
		}
	}
	saved, err := res.store.Save(c.UserContext(), e)
	if err != nil {
		return err
	}
	id := strconv.FormatInt(P(saved).GetID(), 10)
	if err = res.audit(c, model.AuditEntityCreated, saved); err != nil {
		return err
	}
	c.Location(fmt.Sprintf("/api/%s/%s", res.path, id))
	setCreationAlert(c, res.appName, res.entityName(), id)
	return c.Status(fiber.StatusCreated).JSON(saved)
}

func (res *resource[E, P]) update(c *fiber.Ctx) error {
	e, err := res.parseBody(c)
	if err != nil {
		return err
	}
	res.logger().Debugf("REST request to update %s", res.displayName)
	if P(e).GetID() == 0 {
		return BadRequestAlert{
			Title:      "Invalid id",
			EntityName: res.entityName(),
			ErrorKey:   ErrorKeyIDNull,
		}
	}
	saved, err := res.store.Save(c.UserContext(), e)
	if err != nil {
		return err
	}
	if err = res.audit(c, model.AuditEntityUpdated, saved); err != nil {
		return err
	}
	setUpdateAlert(c, res.appName, res.entityName(), strconv.FormatInt(P(saved).GetID(), 10))
	return c.JSON(saved)
}

func (res *resource[E, P]) list(c *fiber.Ctx) error {
	res.logger().Debugf("REST request to get a page of %ss", res.displayName)
	pageable, err := parsePageable(c, res.entityName())
	if err != nil {
		return err
	}
	var page model.Page[E]
	if owner := c.Query("owner"); owner != "" && res.owned != nil {
		page, err = res.owned.FindAllByOwner(c.UserContext(), pageable, owner)
	} else {
		page, err = res.store.FindAll(c.UserContext(), pageable)
	}
	if err != nil {
		var unknown model.UnknownColumnError
		if errors.As(err, &unknown) {
			return BadRequestAlert{
				Title:      unknown.Error(),
				EntityName: res.entityName(),
				ErrorKey:   ErrorKeySortInvalid,
			}
		}
		return err
	}
	setPaginationHeaders(c, page)
	return c.JSON(page.Content)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (res *resource[E, P]) get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	res.logger().WithField("id", id).Debugf("REST request to get %s", res.displayName)
	e, err := res.store.FindByID(c.UserContext(), id)
	if err != nil {
		var notFound model.NotFoundError
		if errors.As(err, &notFound) {
			c.Status(fiber.StatusNotFound)
			return nil
		}
		return err
	}
	return c.JSON(e)
}

func (res *resource[E, P]) delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	res.logger().WithField("id", id).Debugf("REST request to delete %s", res.displayName)
	if err = res.store.DeleteByID(c.UserContext(), id); err != nil {
		return err
	}
	if err = res.addAudit(c.UserContext(), principal(c), model.AuditEntityDeleted, id, nil); err != nil {
		return err
	}
	setDeletionAlert(c, res.appName, res.entityName(), strconv.FormatInt(id, 10))
	return c.SendStatus(fiber.StatusNoContent)
}

func (res *resource[E, P]) audit(c *fiber.Ctx, eventType string, e *E) error {
	data, err := json.Marshal(e)
	if err != nil {
		return errors.WithStack(err)
	}
	return res.addAudit(c.UserContext(), principal(c), eventType, P(e).GetID(), data)
}

func (res *resource[E, P]) addAudit(ctx context.Context, who, eventType string, id int64, data []byte) error {
	if res.audits == nil {
		return nil
	}
	return res.audits.Add(
		ctx, model.AuditEvent{
			Timestamp: time.Now(),
			Principal: who,
			Type:      eventType,
			Entity:    res.entityName(),
			EntityID:  id,
			Data:      data,
		},
	)
}
