package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
	"github.com/vidshare/vidshare/internal/infrastructure/http/handlers"
)

const testSecret = "router-test-secret"

type routerSessions struct{ sessions map[string]*domain.Session }

func (s *routerSessions) Save(context.Context, *domain.Session) error { return nil }
func (s *routerSessions) Delete(context.Context, string) error        { return nil }
func (s *routerSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, domain.ErrSessionNotFound
}

type routerProfiles struct{ admins map[string]bool }

func (p *routerProfiles) EnsureProfile(_ context.Context, id string) (*domain.Profile, error) {
	return &domain.Profile{ID: id, IsAdmin: p.admins[id]}, nil
}
func (p *routerProfiles) IsAdmin(_ context.Context, id string) bool { return p.admins[id] }

type routerAuth struct{}

func (routerAuth) SignUp(context.Context, string, string) (*ports.SignUpResult, error) {
	return nil, domain.ErrUserExists
}
func (routerAuth) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return nil, domain.ErrInvalidCredentials
}
func (routerAuth) Logout(context.Context, string) error { return nil }

type routerCatalog struct{}

func (routerCatalog) List(_ context.Context, sess *domain.Session, _ ports.CatalogQuery) (*ports.CatalogResult, error) {
	return &ports.CatalogResult{Items: []domain.VideoRecord{{ID: "v1", UserID: sess.User.ID}}, Total: 1}, nil
}
func (routerCatalog) RecordPlay(context.Context, *domain.Session, string) (*domain.ViewEvent, error) {
	return nil, domain.ErrVideoNotFound
}

type routerUploads struct{ calls int }

func (u *routerUploads) Upload(_ context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
	u.calls++
	if _, err := io.Copy(io.Discard, in.Body); err != nil {
		return nil, err
	}
	return &ports.UploadResult{ID: "v9", Key: in.Owner.ID + "/" + in.FileName}, nil
}

type routerDashboard struct{}

func (routerDashboard) PlayReport(context.Context) ([]ports.PlayCount, error) {
	return []ports.PlayCount{{VideoID: "v1", Title: "First", Plays: 2}}, nil
}

const testMaxUpload = 1 << 20

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	return newTestRouterWithUploads(t, &routerUploads{})
}

func newTestRouterWithUploads(t *testing.T, uploads *routerUploads) *echo.Echo {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewRouter(Dependencies{
		Auth:     routerAuth{},
		Profiles: &routerProfiles{admins: map[string]bool{"admin": true}},
		Sessions: &routerSessions{sessions: map[string]*domain.Session{
			"s-user":  {ID: "s-user", User: domain.User{ID: "u1"}},
			"s-admin": {ID: "s-admin", User: domain.User{ID: "admin"}},
		}},
		Uploads:        uploads,
		Catalog:        routerCatalog{},
		Dashboard:      routerDashboard{},
		JWTSecret:      testSecret,
		MaxUploadBytes: testMaxUpload,
		HealthChecks: map[string]handlers.Checker{
			"store": func(context.Context) error { return nil },
		},
		Registerer: reg,
		Gatherer:   reg,
		Log:        zerolog.Nop(),
	})
}

func bearer(t *testing.T, sub, sid string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"sid": sid,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + tok
}

func TestRouter_Routes(t *testing.T) {
	e := newTestRouter(t)

	cases := []struct {
		name     string
		method   string
		path     string
		body     string
		auth     string
		wantCode int
		wantBody string
	}{
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK, `"status":"ok"`},
		{"readiness", http.MethodGet, "/health/ready", "", "", http.StatusOK, `"store"`},
		{"login rejected", http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"x"}`, "", http.StatusUnauthorized, `"kind":"auth_error"`},
		{"signup validation", http.MethodPost, "/auth/signup", `{"email":"nope","password":"x"}`, "", http.StatusBadRequest, `"kind":"invalid_input"`},
		{"signup conflict", http.MethodPost, "/auth/signup", `{"email":"a@example.com","password":"secret1"}`, "", http.StatusConflict, `"kind":"conflict"`},
		{"videos need auth", http.MethodGet, "/v1/videos", "", "", http.StatusUnauthorized, "missing authorization header"},
		{"videos listed", http.MethodGet, "/v1/videos", "", "user", http.StatusOK, `"id":"v1"`},
		{"play unknown video", http.MethodPost, "/v1/videos/nope/plays", "", "user", http.StatusNotFound, `"kind":"not_found"`},
		{"dashboard forbidden", http.MethodGet, "/v1/dashboard/plays", "", "user", http.StatusForbidden, `"kind":"forbidden"`},
		{"dashboard for admin", http.MethodGet, "/v1/dashboard/plays", "", "admin", http.StatusOK, `"plays":2`},
		{"logout", http.MethodPost, "/auth/logout", "", "user", http.StatusNoContent, ""},
		{"objects disabled", http.MethodGet, "/objects/videos/u1/clip.mp4", "", "", http.StatusNotFound, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			if tc.body != "" {
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			}
			switch tc.auth {
			case "user":
				req.Header.Set("Authorization", bearer(t, "u1", "s-user"))
			case "admin":
				req.Header.Set("Authorization", bearer(t, "admin", "s-admin"))
			}
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
			if tc.wantBody != "" && !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Fatalf("expected body to contain %s, got %s", tc.wantBody, rec.Body.String())
			}
		})
	}
}

func TestRouter_Metrics(t *testing.T) {
	e := newTestRouter(t)

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "vidshare_requests_total") {
		t.Fatalf("expected http metrics, got %s", rec.Body.String())
	}
}

func uploadBody(t *testing.T, size int) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "clip.mp4")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(bytes.Repeat([]byte{0}, size)); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestRouter_UploadBodyLimit(t *testing.T) {
	cases := []struct {
		name      string
		size      int
		wantCode  int
		wantCalls int
	}{
		{"within limit", 1024, http.StatusCreated, 1},
		{"over limit", testMaxUpload + multipartOverhead + 4096, http.StatusRequestEntityTooLarge, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uploads := &routerUploads{}
			e := newTestRouterWithUploads(t, uploads)
			body, contentType := uploadBody(t, tc.size)
			req := httptest.NewRequest(http.MethodPost, "/v1/videos", body)
			req.Header.Set(echo.HeaderContentType, contentType)
			req.Header.Set("Authorization", bearer(t, "u1", "s-user"))
			rec := httptest.NewRecorder()

			e.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
			if uploads.calls != tc.wantCalls {
				t.Fatalf("expected %d upload calls, got %d", tc.wantCalls, uploads.calls)
			}
			if tc.wantCode == http.StatusRequestEntityTooLarge && !strings.Contains(rec.Body.String(), `"kind":"file_too_large"`) {
				t.Fatalf("expected file_too_large kind, got %s", rec.Body.String())
			}
		})
	}
}

func TestUploadBodyLimit_Disabled(t *testing.T) {
	if mws := uploadBodyLimit(0); len(mws) != 0 {
		t.Fatalf("expected no limit middleware, got %d", len(mws))
	}
	if mws := uploadBodyLimit(testMaxUpload); len(mws) != 1 {
		t.Fatalf("expected one limit middleware, got %d", len(mws))
	}
}
