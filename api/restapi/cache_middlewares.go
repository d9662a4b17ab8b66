package restapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/relaxedbase/relaxedbase/internal/cache"
)

const cacheKeyResponses = "responses"

type cachedResponse struct {
	ContentType string
	TotalCount  string
	Link        string
	Body        []byte
}

// responseCacheMiddleware serves successful GET responses from the cache and
// wipes all cached responses after a request successfully modified data.
// Cached employee responses embed other entities, so every mutation clears
// every entity's responses.
func responseCacheMiddleware(store cache.Cache, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			if err := c.Next(); err != nil {
				return err
			}
			status := c.Response().StatusCode()
			if status >= 200 && status < 400 {
				if err := store.Clear(c.UserContext(), cacheKeyResponses); err != nil {
					log.WithError(err).Warn("failed to clear response cache")
				}
			}
			return nil
		}

		key := cache.Key(cacheKeyResponses, string(c.Request().URI().RequestURI()))
		var cached cachedResponse
		found, err := store.Get(c.UserContext(), key, &cached)
		if err != nil {
			log.WithError(err).Warn("failed to read response cache")
		}
		if found {
			c.Set(fiber.HeaderContentType, cached.ContentType)
			if cached.TotalCount != "" {
				c.Set(headerTotalCount, cached.TotalCount)
			}
			if cached.Link != "" {
				c.Set(fiber.HeaderLink, cached.Link)
			}
			return c.Send(cached.Body)
		}

		if err = c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}
		cached = cachedResponse{
			ContentType: string(c.Response().Header.ContentType()),
			TotalCount:  c.GetRespHeader(headerTotalCount),
			Link:        c.GetRespHeader(fiber.HeaderLink),
			Body:        append([]byte(nil), c.Response().Body()...),
		}
		if err = store.Set(c.UserContext(), key, cached, ttl); err != nil {
			log.WithError(err).Warn("failed to write response cache")
		}
		return nil
	}
}
