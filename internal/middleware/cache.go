package middleware

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/healthtrack/backend/internal/config"
)

// bodyCapture tees the response body so a successful reply can be stored
// in the cache after the handler runs.
type bodyCapture struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (w *bodyCapture) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// NewResponseCache caches successful GET responses in Redis for cfg.TTL.
// Keys combine the route path and raw query, so the summary endpoints
// (daily intake, exercise summary, progress) are served from cache between
// writes. Oversized bodies are served but not stored. A nil Redis client
// disables caching entirely.
func NewResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}
			key := cfg.Prefix + ":" + c.Request().URL.Path + "?" + c.Request().URL.RawQuery

			ctx := c.Request().Context()
			if cached, err := rdb.Get(ctx, key).Bytes(); err == nil {
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, cached)
			}

			capture := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK}
			c.Response().Writer = capture
			if err := next(c); err != nil {
				return err
			}

			if capture.status == http.StatusOK && capture.buf.Len() <= cfg.MaxBodyBytes {
				rdb.Set(ctx, key, capture.buf.Bytes(), cfg.TTL)
			}
			return nil
		}
	}
}
