package ports

import (
	"context"
	"io"
	"time"

	"github.com/vidshare/vidshare/internal/core/domain"
)

// ObjectStore keeps uploaded binaries and issues public locators for them.
type ObjectStore interface {
	// Put stores size bytes read from r under key, replacing any previous
	// object with the same key.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

// ObjectReader is implemented by stores that can serve their own objects.
type ObjectReader interface {
	Open(ctx context.Context, key string) (*StoredObject, error)
}

// StoredObject is an open object ready to be streamed to a client.
type StoredObject struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// SessionStore holds the per-login session context.
type SessionStore interface {
	Save(ctx context.Context, s *domain.Session) error
	// Get returns domain.ErrSessionNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}
