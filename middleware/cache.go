// middleware/cache.go
package middleware

import (
	"context"
	"time"

	"movie-vote-system/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// ResponseCache serves GET responses from Redis for ttl. Only 200 JSON
// bodies are stored; anything else passes through untouched. The derived
// read endpoints (trending, weekly totals) sit behind this so repeated
// polling does not re-scan the ledger.
func ResponseCache(rdb *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rdb == nil || c.Method() != fiber.MethodGet {
			return c.Next()
		}

		key := "cache:" + c.Path() + "?" + string(c.Request().URI().QueryString())
		ctx, cancel := context.WithTimeout(c.UserContext(), 200*time.Millisecond)
		defer cancel()

		if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			c.Set("X-Cache", "HIT")
			return c.Send(body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		if c.Response().StatusCode() == fiber.StatusOK {
			body := make([]byte, len(c.Response().Body()))
			copy(body, c.Response().Body())
			storeCtx, storeCancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer storeCancel()
			if err := rdb.Set(storeCtx, key, body, ttl).Err(); err != nil {
				logging.Log.Debugf("cache: store failed for %s: %v", key, err)
			}
		}
		return nil
	}
}
