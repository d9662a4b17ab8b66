package restapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"

	"github.com/relaxedbase/relaxedbase/internal/cache"
	"github.com/relaxedbase/relaxedbase/storage/model"
)

// DefaultAppName prefixes the alert headers if no other name is configured
const DefaultAppName = "relaxedbaseApp"

// Options controls optional features of the API registration.
type Options struct {
	// AppName is used in the alert headers, e.g. X-relaxedbaseApp-alert
	AppName string
	// UsersEnabled controls whether the user management API is mounted.
	UsersEnabled bool
	// Tokens issues the tokens of /api/authenticate; without it only
	// HTTP Basic authentication is available
	Tokens *TokenIssuer
	// Cache holds GET responses of the entity endpoints; nil disables caching
	Cache    cache.Cache
	CacheTTL time.Duration
}

func (o *Options) appName() string {
	if o == nil || o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

// Register mounts all entity, account and user routes under the provided
// group, usually /api.
func Register(r fiber.Router, storages model.Backends, opts *Options) error {
	if storages.Users == nil || storages.Tx == nil {
		return errors.New("restapi: users store and transaction manager are required")
	}
	if opts == nil {
		opts = &Options{UsersEnabled: true}
	}
	appName := opts.appName()

	if opts.Tokens != nil {
		registerAuthenticate(r, storages.Users, opts.Tokens)
	}
	r.Use(authMiddleware(storages.Users, opts.Tokens))

	tx := transactionMiddleware(storages.Tx)
	entityMiddlewares := []fiber.Handler{tx}
	if opts.Cache != nil {
		entityMiddlewares = []fiber.Handler{responseCacheMiddleware(opts.Cache, opts.CacheTTL), tx}
	}
	registerEmployees(r, storages, appName, entityMiddlewares...)
	registerVacationRequests(r, storages, appName, entityMiddlewares...)
	registerSickLeaves(r, storages, appName, entityMiddlewares...)
	registerEvents(r, storages, appName, entityMiddlewares...)

	registerAccount(r, storages.Users, tx)
	if opts.UsersEnabled {
		registerUsers(r, storages.Users, appName, requireAuthority(model.AuthorityAdmin), tx)
	}
	return nil
}

// RegisterManagement mounts the health, info and audit routes under the
// provided group, usually /management. Health and info are public; audits
// require the admin authority.
func RegisterManagement(r fiber.Router, storages model.Backends, opts *Options) {
	registerHealth(r, storages.Ping)
	registerInfo(r, opts.appName())
	if storages.Audits != nil && storages.Users != nil {
		var tokens *TokenIssuer
		if opts != nil {
			tokens = opts.Tokens
		}
		r.Use(authMiddleware(storages.Users, tokens), requireAuthority(model.AuthorityAdmin))
		registerAudits(r, storages.Audits)
	}
}
