package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Atomic INCR plus EXPIRE on first increment of the window.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RateLimit applies a fixed-window per-IP limit backed by Redis. The check
// fails open on Redis errors so a cache outage never takes the API down.
// Standard X-RateLimit-* headers are set on every response.
func RateLimit(rdb *redis.Client, max int, window time.Duration) echo.MiddlewareFunc {
	if rdb == nil || max <= 0 || window <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodOptions {
				return next(c)
			}

			ctx := c.Request().Context()
			key := "rl:ip:" + c.RealIP()

			count, err := incrExpireScript.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int64()
			if err != nil {
				return next(c)
			}

			ttl, _ := rdb.TTL(ctx, key).Result()
			resetSec := 0
			if ttl > 0 {
				resetSec = int(ttl.Seconds())
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(max))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max-int(count)))
			h.Set("X-RateLimit-Reset", strconv.Itoa(resetSec))

			if int(count) > max {
				if resetSec > 0 {
					h.Set("Retry-After", strconv.Itoa(resetSec))
				}
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return next(c)
		}
	}
}
