package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/vidshare/vidshare/internal/core/domain"
)

type stubSessionStore struct {
	getFn func(ctx context.Context, id string) (*domain.Session, error)
}

func (s *stubSessionStore) Save(context.Context, *domain.Session) error { return nil }
func (s *stubSessionStore) Delete(context.Context, string) error        { return nil }
func (s *stubSessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	return s.getFn(ctx, id)
}

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": "u1",
		"sid": "s1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
}

func knownSession() *stubSessionStore {
	return &stubSessionStore{getFn: func(_ context.Context, id string) (*domain.Session, error) {
		if id != "s1" {
			return nil, domain.ErrSessionNotFound
		}
		return &domain.Session{ID: "s1", User: domain.User{ID: "u1", Email: "a@example.com"}}, nil
	}}
}

func runAuth(t *testing.T, header string, sessions *stubSessionStore) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret", sessions)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	signed := signToken(t, jwt.SigningMethodHS256, []byte("secret"), validClaims())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth("secret", knownSession())(func(c echo.Context) error {
		called = true
		sess, _ := c.Get(SessionContextKey).(*domain.Session)
		if sess == nil || sess.User.ID != "u1" {
			t.Fatalf("session not set")
		}
		if c.Get("user_id") != "u1" {
			t.Fatalf("user_id not set")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	wrongAlg := signToken(t, jwt.SigningMethodHS512, []byte("secret"), validClaims())
	wrongKey := signToken(t, jwt.SigningMethodHS256, []byte("other"), validClaims())
	expired := signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
		"sub": "u1", "sid": "s1", "exp": time.Now().Add(-time.Minute).Unix(),
	})
	noSession := signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "u1"})
	closedSession := signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "u1", "sid": "gone"})
	otherUser := signToken(t, jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{"sub": "u2", "sid": "s1"})

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"invalid header format", "Token abc"},
		{"not a token", "Bearer not-a-token"},
		{"wrong algorithm", "Bearer " + wrongAlg},
		{"wrong key", "Bearer " + wrongKey},
		{"expired", "Bearer " + expired},
		{"no session id", "Bearer " + noSession},
		{"closed session", "Bearer " + closedSession},
		{"session of another user", "Bearer " + otherUser},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, called := runAuth(t, tc.header, knownSession())
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_SessionStoreFailure(t *testing.T) {
	boom := errors.New("redis down")
	sessions := &stubSessionStore{getFn: func(context.Context, string) (*domain.Session, error) {
		return nil, boom
	}}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, jwt.SigningMethodHS256, []byte("secret"), validClaims()))
	c := e.NewContext(req, httptest.NewRecorder())

	err := Auth("secret", sessions)(func(echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}
