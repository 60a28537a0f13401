package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/habitcoach/coaching-system/internal/api/middleware"
)

// ctxIdentity extracts the authenticated identity injected by the Auth
// middleware. A missing identity means the middleware did not run; fail
// fast with 401 before any service call.
func ctxIdentity(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get(middleware.ContextUserID).(string)
	role, _ = c.Get(middleware.ContextRole).(string)
	if userID == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return userID, role, nil
}

// targetUser resolves the user a request operates on. Clients always act on
// themselves; admins may name another user via the user_id query parameter.
func targetUser(c echo.Context, actorID string) string {
	if target := c.QueryParam("user_id"); target != "" {
		return target
	}
	return actorID
}
