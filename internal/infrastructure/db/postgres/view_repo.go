package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vidshare/vidshare/internal/core/domain"
)

type ViewRepo struct {
	db *sql.DB
}

func NewViewRepo(db *sql.DB) *ViewRepo {
	return &ViewRepo{db: db}
}

func (r *ViewRepo) Insert(ctx context.Context, e *domain.ViewEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO video_views (user_id, video_id, created_at) VALUES ($1, $2, $3)`,
		e.UserID, e.VideoID, e.CreatedAt)
	if err != nil {
		if pqCode(err) == codeForeignKeyViolation {
			return domain.ErrVideoNotFound
		}
		return fmt.Errorf("insert view: %w", err)
	}
	return nil
}

func (r *ViewRepo) CountByVideo(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT video_id, COUNT(*) FROM video_views GROUP BY video_id`)
	if err != nil {
		return nil, fmt.Errorf("count views: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var id string
		var n int64
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan view count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
