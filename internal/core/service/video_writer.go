package service

import (
	"context"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
)

// RepositoryWriter writes metadata through the regular video repository. The
// ownership check has already run in UploadService by the time Insert is
// called; it is repeated here so the writer is safe on its own.
type RepositoryWriter struct {
	repo ports.VideoRepository
}

func NewRepositoryWriter(repo ports.VideoRepository) *RepositoryWriter {
	return &RepositoryWriter{repo: repo}
}

func (w *RepositoryWriter) Insert(ctx context.Context, v *domain.VideoRecord) (string, error) {
	if v == nil || v.UserID == "" {
		return "", domain.ErrForbidden
	}
	return w.repo.Create(ctx, v)
}
