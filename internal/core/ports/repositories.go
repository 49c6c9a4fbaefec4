package ports

import (
	"context"

	"github.com/vidshare/vidshare/internal/core/domain"
)

// UserRepository persists accounts for credential authentication.
type UserRepository interface {
	// Create stores a new user. Returns domain.ErrUserExists on duplicate email.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Confirm marks the account with the given email as confirmed.
	Confirm(ctx context.Context, email string) error
}

// ProfileRepository persists one profile row per user.
type ProfileRepository interface {
	// FindByID returns domain.ErrProfileNotFound when no row exists.
	FindByID(ctx context.Context, id string) (*domain.Profile, error)
	// Insert never overwrites. It returns domain.ErrProfileExists when the row
	// is already there and domain.ErrIdentityNotVisible when the referenced
	// user cannot be seen yet.
	Insert(ctx context.Context, profile *domain.Profile) error
	// SetAdmin changes the admin flag. Only used by operator tooling.
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
}

// VideoRepository reads and writes video metadata rows.
type VideoRepository interface {
	Create(ctx context.Context, v *domain.VideoRecord) (string, error)
	FindByID(ctx context.Context, id string) (*domain.VideoRecord, error)
	// List returns records ordered by created_at descending. An empty ownerID
	// lists every record.
	List(ctx context.Context, ownerID string) ([]domain.VideoRecord, error)
}

// VideoWriter is the metadata write path used by the upload pipeline.
type VideoWriter interface {
	Insert(ctx context.Context, v *domain.VideoRecord) (string, error)
}

// ViewRepository appends play events and aggregates them.
type ViewRepository interface {
	Insert(ctx context.Context, e *domain.ViewEvent) error
	// CountByVideo returns the number of events per video id.
	CountByVideo(ctx context.Context) (map[string]int64, error)
}
