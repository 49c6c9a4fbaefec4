// Package postgres implements the repositories on PostgreSQL through lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/vidshare/vidshare/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// pq error codes the repositories branch on.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	confirmed     BOOLEAN NOT NULL DEFAULT FALSE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS profiles (
	id         TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
	is_admin   BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS videos (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	file_name   TEXT NOT NULL,
	url         TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	tags        TEXT[] NOT NULL DEFAULT '{}',
	category    TEXT NOT NULL DEFAULT 'Other',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
ALTER TABLE videos ALTER COLUMN id SET DEFAULT gen_random_uuid()::text;
CREATE INDEX IF NOT EXISTS idx_videos_user_created ON videos(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS video_views (
	id         BIGSERIAL PRIMARY KEY,
	user_id    TEXT NOT NULL,
	video_id   TEXT NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_video_views_video ON video_views(video_id);
`

// NewConnection opens the pool and pings it.
func NewConnection(ctx context.Context, connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return db, nil
}

// Ping reports whether the pool answers.
func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return db.PingContext(ctx)
}

// InitSchema creates the tables when missing.
func InitSchema(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// classifyProfileInsert maps the constraint violations of a profile insert
// to the domain errors the provisioner understands.
func classifyProfileInsert(err error) error {
	switch pqCode(err) {
	case codeUniqueViolation:
		return domain.ErrProfileExists
	case codeForeignKeyViolation:
		return domain.ErrIdentityNotVisible
	default:
		return fmt.Errorf("insert profile: %w", err)
	}
}
