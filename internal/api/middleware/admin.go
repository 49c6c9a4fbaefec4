package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
)

// RequireAdmin lets the request through only when the caller's profile is
// currently flagged as admin. The flag is re-read on every request so a
// revocation takes effect without a new login. Must run after Auth.
func RequireAdmin(profiles ports.ProfileService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := c.Get(SessionContextKey).(*domain.Session)
			if sess == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
			}
			if !profiles.IsAdmin(c.Request().Context(), sess.User.ID) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
