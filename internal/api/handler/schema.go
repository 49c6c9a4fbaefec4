package handler

import (
	"time"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// --- Auth ---

type signUpRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type signUpResponse struct {
	User    *domain.User    `json:"user"`
	Profile *domain.Profile `json:"profile,omitempty"`
	Warning string          `json:"warning,omitempty"`
}

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      domain.User    `json:"user"`
	Profile   domain.Profile `json:"profile"`
	Warning   string         `json:"warning,omitempty"`
}

type meResponse struct {
	User      domain.User    `json:"user"`
	Profile   domain.Profile `json:"profile"`
	SessionID string         `json:"session_id"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// --- Videos ---

// uploadForm holds the text fields of the multipart upload; the file part is
// read separately.
type uploadForm struct {
	Title       string `form:"title"       validate:"max=200"`
	Description string `form:"description" validate:"max=5000"`
	Tags        string `form:"tags"        validate:"max=1000"`
	Category    string `form:"category"    validate:"omitempty,oneof=Education Entertainment Tutorial Other"`
}

type uploadResponse struct {
	ID  string `json:"id"`
	Key string `json:"key"`
	URL string `json:"url"`
}

type videoResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

type listVideosResponse struct {
	Items      []videoResponse `json:"items"`
	Categories []string        `json:"categories"`
	Total      int             `json:"total"`
}

type playResponse struct {
	VideoID    string    `json:"video_id"`
	RecordedAt time.Time `json:"recorded_at"`
}

// --- Dashboard ---

type playReportResponse struct {
	Items []ports.PlayCount `json:"items"`
}
