package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/vidshare/vidshare/internal/api/middleware"
	"github.com/vidshare/vidshare/internal/core/domain"
)

// ctxSession extracts the session injected by the Auth middleware. A missing
// or ownerless session means the middleware did not run; reject with 401.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get(middleware.SessionContextKey).(*domain.Session)
	if sess == nil || sess.User.ID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return sess, nil
}
