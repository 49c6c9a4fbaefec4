package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/vidshare/vidshare/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs backend and unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error", "kind", "details"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		resp := errorResponse{Error: fmt.Sprintf("%v", he.Message)}
		if he.Code == http.StatusRequestEntityTooLarge {
			resp.Kind = string(domain.KindFileTooLarge)
		}
		return he.Code, resp
	}

	kind := domain.KindOf(err)
	resp := errorResponse{Kind: string(kind)}

	switch kind {
	case domain.KindAuth:
		resp.Error = authMessage(err)
		return http.StatusUnauthorized, resp
	case domain.KindProfileProvision:
		resp.Error = "profile could not be provisioned, try again later"
		logError(log, c, err, "profile provisioning failed")
		return http.StatusServiceUnavailable, resp
	case domain.KindFileTooLarge:
		resp.Error = err.Error()
		return http.StatusRequestEntityTooLarge, resp
	case domain.KindUnsupportedFormat:
		resp.Error = err.Error()
		if errors.Is(err, domain.ErrInvalidFileName) {
			return http.StatusBadRequest, resp
		}
		return http.StatusUnsupportedMediaType, resp
	case domain.KindUploadTimeout:
		resp.Error = "upload timed out"
		return http.StatusGatewayTimeout, resp
	case domain.KindInsertRejected:
		resp.Error = "video record rejected by backend"
		var rejected *domain.InsertRejectedError
		if errors.As(err, &rejected) {
			resp.Details = rejected.Body
		}
		return http.StatusBadGateway, resp
	case domain.KindBackend:
		resp.Error = "backend unavailable"
		logError(log, c, err, "backend error")
		return http.StatusBadGateway, resp
	case domain.KindForbidden:
		resp.Error = "access forbidden"
		return http.StatusForbidden, resp
	case domain.KindNotFound:
		resp.Error = err.Error()
		return http.StatusNotFound, resp
	case domain.KindConflict:
		resp.Error = err.Error()
		return http.StatusConflict, resp
	case domain.KindInvalidInput:
		resp.Error = err.Error()
		return http.StatusBadRequest, resp
	}

	// Unexpected error: log the real cause, return a generic message.
	logError(log, c, err, "unhandled error")
	resp.Error = "internal server error"
	return http.StatusInternalServerError, resp
}

func authMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmailNotConfirmed):
		return "email not confirmed"
	case errors.Is(err, domain.ErrSessionNotFound):
		return "session expired"
	default:
		return "invalid credentials"
	}
}

func logError(log zerolog.Logger, c echo.Context, err error, msg string) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg(msg)
}
