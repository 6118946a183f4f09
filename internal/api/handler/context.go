package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// ctxIdentity extracts the caller identity injected by the Auth middleware
// and performs a fast-fail check before any service call: role and user id
// must both be present, proving the middleware ran.
func ctxIdentity(c echo.Context) (ports.Identity, error) {
	role, _ := c.Get("role").(string)
	userID, _ := c.Get("user_id").(string)
	if role == "" || userID == "" {
		return ports.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	username, _ := c.Get("username").(string)
	return ports.Identity{UserID: userID, Username: username, Role: role}, nil
}

// optionalIdentity returns whatever claims are present without failing.
// Public routes use it so anonymous callers get the student view.
func optionalIdentity(c echo.Context) ports.Identity {
	role, _ := c.Get("role").(string)
	userID, _ := c.Get("user_id").(string)
	username, _ := c.Get("username").(string)
	return ports.Identity{UserID: userID, Username: username, Role: role}
}
