package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-catalog/internal/config"
)

// NewFixedWindow limits each client IP to cfg.Requests calls per route
// within cfg.Window. Counters live in Redis so every instance shares them.
// Redis failures let the request through.
func NewFixedWindow(cfg config.RateLimitConfig, rdb *redis.Client, log zerolog.Logger) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	limit := strconv.Itoa(cfg.Requests)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			now := time.Now()
			window := windowStart(now, cfg.Window)
			key := rateKey(cfg.Prefix, c.RealIP(), c.Request().Method, c.Path(), window)

			count, err := hit(c.Request().Context(), rdb, key, cfg.Window)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				return next(c)
			}

			remaining := max(int64(cfg.Requests)-count, 0)
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if count > int64(cfg.Requests) {
				retry := window.Add(cfg.Window).Sub(now)
				h.Set("Retry-After", strconv.Itoa(int(retry.Round(time.Second)/time.Second)))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "Demasiadas solicitudes, intente más tarde"})
			}
			return next(c)
		}
	}
}

// hit increments the window counter and sets its expiry on first use.
func hit(ctx context.Context, rdb *redis.Client, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func windowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}

func rateKey(prefix, ip, method, route string, window time.Time) string {
	if ip == "" {
		ip = "unknown"
	}
	return strings.Join([]string{prefix, ip, method, route, strconv.FormatInt(window.Unix(), 10)}, ":")
}
