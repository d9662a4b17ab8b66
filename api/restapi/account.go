package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
}

type tokenResponse struct {
	IDToken string `json:"id_token"`
}

// registerAuthenticate mounts the login endpoint, which must stay reachable
// without credentials
func registerAuthenticate(r fiber.Router, users model.UsersStore, tokens *TokenIssuer) {
	r.Post(
		"/authenticate", func(c *fiber.Ctx) error {
			var req loginRequest
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid body")
			}
			u, err := users.Authenticate(c.UserContext(), req.Username, req.Password)
			if err != nil {
				log.WithField("login", req.Username).Debug("failed authentication")
				return unauthorized(c, "invalid credentials")
			}
			token, err := tokens.Issue(*u, req.RememberMe)
			if err != nil {
				return err
			}
			c.Set(fiber.HeaderAuthorization, "Bearer "+token)
			return c.JSON(tokenResponse{IDToken: token})
		},
	)
}

// registerAccount mounts the endpoints describing the current principal
func registerAccount(r fiber.Router, users model.UsersStore, middlewares ...fiber.Handler) {
	r.Get(
		"/authenticate", func(c *fiber.Ctx) error {
			p := principal(c)
			if p == anonymousPrincipal {
				return c.SendString("")
			}
			return c.SendString(p)
		},
	)

	g := r.Group("/account", middlewares...)
	g.Get(
		"", func(c *fiber.Ctx) error {
			p := principal(c)
			if p == anonymousPrincipal {
				return unauthorized(c, "not authenticated")
			}
			u, err := users.Get(c.UserContext(), p)
			if err != nil {
				var notFound model.NotFoundError
				if errors.As(err, &notFound) {
					return unauthorized(c, "user could not be found")
				}
				return err
			}
			return c.JSON(accountResponse(*u))
		},
	)
}

type account struct {
	model.User
	Authorities []string `json:"authorities"`
}

func accountResponse(u model.User) account {
	return account{
		User:        u,
		Authorities: u.Authorities(),
	}
}
