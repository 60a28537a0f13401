package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/habitcoach/coaching-system/internal/core/ports"
)

const (
	// ContextUserID is the echo context key holding the authenticated user id.
	ContextUserID = "user_id"
	// ContextRole is the echo context key holding the authenticated role.
	ContextRole = "role"
)

// Auth validates the bearer token against the session store and places the
// resolved identity in the request context. Expired or revoked sessions are
// rejected even when the token itself is well formed.
func Auth(users ports.UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			user, err := users.ResolveSession(c.Request().Context(), parts[1])
			if err != nil {
				return err
			}

			c.Set(ContextUserID, user.ID)
			c.Set(ContextRole, user.Role)
			return next(c)
		}
	}
}
