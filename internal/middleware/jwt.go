// Package middleware contains reusable HTTP middleware: access-token
// authentication, role enforcement, Redis rate limiting and response
// caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/healthtrack/backend/internal/utils"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxLogin = "login"
	CtxRole  = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access token
// through the codec and injects the subject and role claims into the
// request context. Refresh tokens are rejected here: the codec refuses any
// token whose kind is not access.
func JWTAuth(codec *utils.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			subject, role, err := codec.Verify(raw, utils.KindAccess)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(CtxLogin, subject)
			c.Set(CtxRole, role)
			return next(c)
		}
	}
}
