package restapi

import (
	"encoding/base64"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/relaxedbase/relaxedbase/storage/model"
)

const (
	localsPrincipal   = "principal"
	localsAuthorities = "authorities"

	// anonymousPrincipal is the principal of requests while no users exist
	anonymousPrincipal = "anonymousUser"
)

// authMiddleware enforces optional authentication for API routes.
// If there are no users in storage, all requests are allowed and act with
// all authorities. If there is at least one user, a Bearer token issued by
// /api/authenticate or HTTP Basic credentials are required.
func authMiddleware(users model.UsersStore, tokens *TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, err := users.Count(c.UserContext())
		if err != nil {
			return err
		}
		if count == 0 {
			c.Locals(localsPrincipal, anonymousPrincipal)
			c.Locals(localsAuthorities, []string{model.AuthorityAdmin, model.AuthorityUser})
			return c.Next()
		}

		auth := c.Get(fiber.HeaderAuthorization)
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok && tokens != nil {
			login, authorities, err := tokens.Verify(token)
			if err != nil {
				return unauthorized(c, "invalid token")
			}
			c.Locals(localsPrincipal, login)
			c.Locals(localsAuthorities, authorities)
			return c.Next()
		}

		username, password, ok := parseBasicAuth(c)
		if !ok {
			c.Set(fiber.HeaderWWWAuthenticate, "Basic realm=relaxedbase")
			return unauthorized(c, "missing credentials")
		}
		u, err := users.Authenticate(c.UserContext(), username, password)
		if err != nil {
			c.Set(fiber.HeaderWWWAuthenticate, "Basic realm=relaxedbase")
			return unauthorized(c, "invalid credentials")
		}
		c.Locals(localsPrincipal, u.Login)
		c.Locals(localsAuthorities, u.Authorities())
		return c.Next()
	}
}

// requireAuthority rejects requests whose principal lacks the authority
func requireAuthority(authority string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorities, _ := c.Locals(localsAuthorities).([]string)
		if !slices.Contains(authorities, authority) {
			return sendProblem(
				c, Problem{
					Type:    problemWithMessage,
					Title:   "Forbidden",
					Status:  fiber.StatusForbidden,
					Message: "error.http.403",
				},
			)
		}
		return c.Next()
	}
}

func principal(c *fiber.Ctx) string {
	if p, ok := c.Locals(localsPrincipal).(string); ok {
		return p
	}
	return anonymousPrincipal
}

func unauthorized(c *fiber.Ctx, detail string) error {
	return sendProblem(
		c, Problem{
			Type:    problemWithMessage,
			Title:   "Unauthorized",
			Status:  fiber.StatusUnauthorized,
			Detail:  detail,
			Message: "error.http.401",
		},
	)
}

// parseBasicAuth extracts Basic auth credentials from request headers
func parseBasicAuth(c *fiber.Ctx) (username, password string, ok bool) {
	auth := c.Get(fiber.HeaderAuthorization)
	encoded, found := strings.CutPrefix(auth, "Basic ")
	if !found {
		return "", "", false
	}
	b, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", "", false
	}
	return strings.Cut(string(b), ":")
}
