package ports

import (
	"context"
	"io"

	"github.com/vidshare/vidshare/internal/core/domain"
)

// SignUpResult is returned after an account is created.
type SignUpResult struct {
	User    *domain.User
	Profile *domain.Profile
	// Warning is set when the account exists but needs operator attention,
	// e.g. the profile could not be provisioned.
	Warning string
}

// LoginResult carries the issued token and the opened session.
type LoginResult struct {
	Token   string
	Session *domain.Session
	Warning string
}

// AuthService handles account creation and the session lifecycle.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*SignUpResult, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

// ProfileService provisions and inspects profiles.
type ProfileService interface {
	EnsureProfile(ctx context.Context, userID string) (*domain.Profile, error)
	IsAdmin(ctx context.Context, userID string) bool
}

// UploadInput is everything the upload pipeline needs from the transport layer.
type UploadInput struct {
	Owner       domain.User
	Body        io.Reader
	Size        int64
	FileName    string
	Title       string
	Description string
	RawTags     string
	Category    string
}

// UploadResult identifies the stored object and its metadata row.
type UploadResult struct {
	ID  string
	Key string
	URL string
}

// UploadService stores a video and records its metadata.
type UploadService interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
}

// CatalogQuery carries the client-side filters of a listing.
type CatalogQuery struct {
	Categories []string
	RawTags    string
	Search     string
}

// CatalogResult is a filtered listing plus the categories present before
// filtering, for building filter controls.
type CatalogResult struct {
	Items      []domain.VideoRecord
	Categories []string
	Total      int
}

// CatalogService lists videos and records plays.
type CatalogService interface {
	List(ctx context.Context, s *domain.Session, q CatalogQuery) (*CatalogResult, error)
	RecordPlay(ctx context.Context, s *domain.Session, videoID string) (*domain.ViewEvent, error)
}

// PlayCount is one bar of the admin dashboard.
type PlayCount struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title"`
	Plays   int64  `json:"plays"`
}

// DashboardService aggregates play events.
type DashboardService interface {
	PlayReport(ctx context.Context) ([]PlayCount, error)
}
