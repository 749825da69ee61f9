package ratelimit

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/teamshift/internal/logging"
)

type Options struct {
	// Scope prefixes the key so different routes keep separate counters.
	Scope string
	// OnLimited is called for every rejected request.
	OnLimited func(path string)
}

// Middleware keys on client IP. A limiter failure lets the request through.
func Middleware(l Limiter, opts Options) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := opts.Scope + ":" + c.RealIP()

			res, err := l.Allow(ctx, key)
			if err != nil {
				logging.FromContext(ctx).Warn("rate_limit_error", "error", err)
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if !res.Allowed {
				secs := int(math.Ceil(res.RetryAfter.Seconds()))
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				if opts.OnLimited != nil {
					opts.OnLimited(c.Path())
				}
				logging.FromContext(ctx).Warn("rate_limited", "status", http.StatusTooManyRequests, "scope", opts.Scope)
				return echo.NewHTTPError(http.StatusTooManyRequests, "too many requests")
			}
			return next(c)
		}
	}
}
