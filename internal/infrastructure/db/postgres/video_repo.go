package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/vidshare/vidshare/internal/core/domain"
)

const videoColumns = `id, user_id, file_name, url, title, description, tags, category, created_at`

type VideoRepo struct {
	db *sql.DB
}

func NewVideoRepo(db *sql.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

func (r *VideoRepo) Create(ctx context.Context, v *domain.VideoRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := v.ID
	if id == "" {
		id = uuid.NewString()
	}
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}

	query := `
		INSERT INTO videos (` + videoColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		id, v.UserID, v.FileName, v.URL, v.Title, v.Description, pq.Array(tags), v.Category, v.CreatedAt)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return "", fmt.Errorf("insert video: %w", domain.ErrForbidden)
		}
		return "", fmt.Errorf("insert video: %w", err)
	}
	return id, nil
}

func (r *VideoRepo) FindByID(ctx context.Context, id string) (*domain.VideoRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, id)
	v, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVideoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find video: %w", err)
	}
	return v, nil
}

// List returns videos newest first. An empty ownerID lists every video.
func (r *VideoRepo) List(ctx context.Context, ownerID string) ([]domain.VideoRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + videoColumns + ` FROM videos`
	args := []any{}
	if ownerID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, ownerID)
	}
	query += ` ORDER BY created_at DESC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	out := []domain.VideoRecord{}
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(s scanner) (*domain.VideoRecord, error) {
	var v domain.VideoRecord
	var tags pq.StringArray
	if err := s.Scan(&v.ID, &v.UserID, &v.FileName, &v.URL, &v.Title, &v.Description, &tags, &v.Category, &v.CreatedAt); err != nil {
		return nil, err
	}
	v.Tags = []string(tags)
	if v.Tags == nil {
		v.Tags = []string{}
	}
	v.CreatedAt = v.CreatedAt.UTC()
	return &v, nil
}
