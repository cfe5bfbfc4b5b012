package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-system/internal/core/ports"
)

// Context keys under which the auth middleware stores verified claims.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Auth extracts the bearer token, verifies it, and injects the identity
// claims into the request context. On any failure the request is rejected
// before reaching the handler.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)

			return next(c)
		}
	}
}
