package restapi

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

const userEntityName = "userManagement"

type userRequest struct {
	Login       string   `json:"login"`
	Password    *string  `json:"password"`
	FirstName   *string  `json:"firstName"`
	LastName    *string  `json:"lastName"`
	Email       *string  `json:"email"`
	Activated   *bool    `json:"activated"`
	Authorities []string `json:"authorities"`
}

func (req userRequest) isAdmin() *bool {
	if req.Authorities == nil {
		return nil
	}
	admin := false
	for _, a := range req.Authorities {
		admin = admin || a == model.AuthorityAdmin
	}
	return &admin
}

func deref[T any](p *T) (v T) {
	if p != nil {
		v = *p
	}
	return
}

// registerUsers wires the user management handlers
func registerUsers(r fiber.Router, users model.UsersStore, appName string, middlewares ...fiber.Handler) {
	g := r.Group("/admin/users", middlewares...)

	g.Get(
		"", func(c *fiber.Ctx) error {
			list, err := users.List(c.UserContext())
			if err != nil {
				return err
			}
			out := make([]account, len(list))
			for i, u := range list {
				out[i] = accountResponse(u)
			}
			c.Set(headerTotalCount, fmt.Sprint(len(out)))
			return c.JSON(out)
		},
	)

	g.Post(
		"", func(c *fiber.Ctx) error {
			var req userRequest
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid body")
			}
			log.WithField("login", req.Login).Debug("REST request to save User")
			if req.Login == "" || deref(req.Password) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "login and password are required")
			}
			u, err := users.Create(
				c.UserContext(), model.User{
					Login:     req.Login,
					FirstName: deref(req.FirstName),
					LastName:  deref(req.LastName),
					Email:     deref(req.Email),
					Admin:     deref(req.isAdmin()),
				}, *req.Password,
			)
			if err != nil {
				var exists model.AlreadyExistsError
				if errors.As(err, &exists) {
					return BadRequestAlert{
						Title:      "Login name already used!",
						EntityName: userEntityName,
						ErrorKey:   ErrorKeyUserExists,
					}
				}
				return err
			}
			c.Location("/api/admin/users/" + u.Login)
			setCreationAlert(c, appName, "user", u.Login)
			return c.Status(fiber.StatusCreated).JSON(accountResponse(*u))
		},
	)

	g.Put(
		"", func(c *fiber.Ctx) error {
			var req userRequest
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid body")
			}
			log.WithField("login", req.Login).Debug("REST request to update User")
			u, err := users.Update(
				c.UserContext(), req.Login, model.UserUpdate{
					FirstName: req.FirstName,
					LastName:  req.LastName,
					Email:     req.Email,
					Password:  req.Password,
					Admin:     req.isAdmin(),
					Activated: req.Activated,
				},
			)
			if err != nil {
				var notFound model.NotFoundError
				if errors.As(err, &notFound) {
					c.Status(fiber.StatusNotFound)
					return nil
				}
				return err
			}
			setUpdateAlert(c, appName, "user", u.Login)
			return c.JSON(accountResponse(*u))
		},
	)

	g.Get(
		"/:login", func(c *fiber.Ctx) error {
			u, err := users.Get(c.UserContext(), c.Params("login"))
			if err != nil {
				var notFound model.NotFoundError
				if errors.As(err, &notFound) {
					c.Status(fiber.StatusNotFound)
					return nil
				}
				return err
			}
			return c.JSON(accountResponse(*u))
		},
	)

	g.Delete(
		"/:login", func(c *fiber.Ctx) error {
			login := c.Params("login")
			log.WithField("login", login).Debug("REST request to delete User")
			if err := users.Delete(c.UserContext(), login); err != nil {
				var notFound model.NotFoundError
				if !errors.As(err, &notFound) {
					return err
				}
			}
			setDeletionAlert(c, appName, "user", login)
			return c.SendStatus(fiber.StatusNoContent)
		},
	)
}
