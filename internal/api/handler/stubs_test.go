package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/vidshare/vidshare/internal/api/middleware"
	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
)

type stubAuthService struct {
	signUpFn func(ctx context.Context, email, password string) (*ports.SignUpResult, error)
	loginFn  func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	logoutFn func(ctx context.Context, sessionID string) error
}

func (s *stubAuthService) SignUp(ctx context.Context, email, password string) (*ports.SignUpResult, error) {
	return s.signUpFn(ctx, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	return s.logoutFn(ctx, sessionID)
}

type stubUploadService struct {
	uploadFn func(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error)
}

func (s *stubUploadService) Upload(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
	return s.uploadFn(ctx, in)
}

type stubCatalogService struct {
	listFn func(ctx context.Context, sess *domain.Session, q ports.CatalogQuery) (*ports.CatalogResult, error)
	playFn func(ctx context.Context, sess *domain.Session, videoID string) (*domain.ViewEvent, error)
}

func (s *stubCatalogService) List(ctx context.Context, sess *domain.Session, q ports.CatalogQuery) (*ports.CatalogResult, error) {
	return s.listFn(ctx, sess, q)
}

func (s *stubCatalogService) RecordPlay(ctx context.Context, sess *domain.Session, videoID string) (*domain.ViewEvent, error) {
	return s.playFn(ctx, sess, videoID)
}

type stubDashboardService struct {
	reportFn func(ctx context.Context) ([]ports.PlayCount, error)
}

func (s *stubDashboardService) PlayReport(ctx context.Context) ([]ports.PlayCount, error) {
	return s.reportFn(ctx)
}

type stubObjectReader struct {
	openFn func(ctx context.Context, key string) (*ports.StoredObject, error)
}

func (s *stubObjectReader) Open(ctx context.Context, key string) (*ports.StoredObject, error) {
	return s.openFn(ctx, key)
}

// newContext builds an echo context wired with the validator the router uses.
func newContext(req *http.Request) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withSession(c echo.Context, userID string, admin bool) *domain.Session {
	sess := &domain.Session{
		ID:      "sess-1",
		User:    domain.User{ID: userID, Email: userID + "@example.com", Confirmed: true},
		Profile: domain.Profile{ID: userID, IsAdmin: admin},
	}
	c.Set(middleware.SessionContextKey, sess)
	return sess
}

func mustNotCall(t *testing.T) {
	t.Helper()
	t.Fatalf("should not be called")
}

type nopCloser struct{ io.Reader }

func (nopCloser) Close() error { return nil }
