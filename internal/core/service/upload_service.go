package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
	"github.com/vidshare/vidshare/internal/metrics"
)

// DefaultMaxUploadBytes is 100 MiB.
const DefaultMaxUploadBytes int64 = 100 * 1024 * 1024

// UploadService stores video binaries and writes their metadata records.
type UploadService struct {
	store    ports.ObjectStore
	writer   ports.VideoWriter
	maxBytes int64
	log      zerolog.Logger
	now      func() time.Time
}

func NewUploadService(store ports.ObjectStore, writer ports.VideoWriter, maxBytes int64, log zerolog.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &UploadService{store: store, writer: writer, maxBytes: maxBytes, log: log, now: time.Now}
}

// Upload validates the file, stores it under {user_id}/{file_name} and
// records its metadata. Nothing touches the network before the size, name and
// format checks pass. Storage failures are not retried.
//
// A metadata failure after the object was stored leaves the object in place.
func (s *UploadService) Upload(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
	res, err := s.upload(ctx, in)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues(string(domain.KindOf(err))).Inc()
		return nil, err
	}
	metrics.UploadsTotal.WithLabelValues("ok").Inc()
	metrics.UploadBytes.Observe(float64(in.Size))
	return res, nil
}

func (s *UploadService) upload(ctx context.Context, in ports.UploadInput) (*ports.UploadResult, error) {
	if in.Size > s.maxBytes {
		return nil, fmt.Errorf("%w: %.2f MiB exceeds the %d MiB limit",
			domain.ErrFileTooLarge, float64(in.Size)/(1<<20), s.maxBytes/(1<<20))
	}
	if in.Owner.ID == "" {
		return nil, domain.ErrForbidden
	}

	fileName, err := sanitizeFileName(in.FileName)
	if err != nil {
		return nil, err
	}
	contentType, ok := domain.ContentTypeFor(fileName)
	if !ok {
		return nil, fmt.Errorf("%w: %q (accepted: mp4, mov, avi)", domain.ErrUnsupportedFormat, filepath.Ext(fileName))
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = domain.CategoryOther
	}
	if !domain.ValidCategory(category) {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, category)
	}

	key := domain.ObjectKey(in.Owner.ID, fileName)
	if err := s.store.Put(ctx, key, in.Body, in.Size, contentType); err != nil {
		return nil, classifyStoreError(key, err)
	}
	url := s.store.PublicURL(key)

	record := &domain.VideoRecord{
		UserID:      in.Owner.ID,
		FileName:    fileName,
		URL:         url,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Tags:        domain.NormalizeTags(in.RawTags),
		Category:    category,
		CreatedAt:   s.now().UTC(),
	}
	if err := domain.AuthorizeOwner(in.Owner, record); err != nil {
		return nil, err
	}

	id, err := s.writer.Insert(ctx, record)
	if err != nil {
		metrics.OrphanedObjectsTotal.Inc()
		s.log.Warn().Err(err).
			Str("key", key).
			Str("user_id", in.Owner.ID).
			Msg("metadata write failed, stored object left orphaned")
		if errors.Is(err, domain.ErrInsertRejected) || errors.Is(err, domain.ErrForbidden) {
			return nil, fmt.Errorf("insert video record: %w", err)
		}
		return nil, fmt.Errorf("insert video record: %w: %v", domain.ErrBackend, err)
	}

	s.log.Info().
		Str("video_id", id).
		Str("key", key).
		Str("user_id", in.Owner.ID).
		Int64("bytes", in.Size).
		Msg("video uploaded")

	return &ports.UploadResult{ID: id, Key: key, URL: url}, nil
}

// sanitizeFileName keeps the base name so the owner prefix of the object key
// cannot be escaped.
func sanitizeFileName(name string) (string, error) {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	base := path.Base(name)
	if name == "" || base == "." || base == ".." || base == "/" {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidFileName, name)
	}
	return base, nil
}

func classifyStoreError(key string, err error) error {
	if isTimeout(err) {
		return fmt.Errorf("store object %s: %w: %v", key, domain.ErrUploadTimeout, err)
	}
	return fmt.Errorf("store object %s: %w: %v", key, domain.ErrBackend, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}
