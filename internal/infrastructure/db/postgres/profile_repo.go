package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vidshare/vidshare/internal/core/domain"
)

// ProfileRepo relies on the profiles.id foreign key: inserting before the
// user row is visible fails with a foreign key violation.
type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db}
}

func (r *ProfileRepo) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p domain.Profile
	err := r.db.QueryRowContext(ctx, `SELECT id, is_admin, created_at FROM profiles WHERE id = $1`, id).
		Scan(&p.ID, &p.IsAdmin, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func (r *ProfileRepo) Insert(ctx context.Context, p *domain.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profiles (id, is_admin, created_at) VALUES ($1, $2, $3)`,
		p.ID, p.IsAdmin, p.CreatedAt)
	if err != nil {
		return classifyProfileInsert(err)
	}
	return nil
}

func (r *ProfileRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET is_admin = $2 WHERE id = $1`, id, isAdmin)
	if err != nil {
		return fmt.Errorf("set admin: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
