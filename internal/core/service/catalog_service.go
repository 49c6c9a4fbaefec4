package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
	"github.com/vidshare/vidshare/internal/metrics"
)

// CatalogService lists the videos a session may see and records plays.
type CatalogService struct {
	videos   ports.VideoRepository
	views    ports.ViewRepository
	profiles ports.ProfileService
	log      zerolog.Logger
	now      func() time.Time
}

func NewCatalogService(videos ports.VideoRepository, views ports.ViewRepository, profiles ports.ProfileService, log zerolog.Logger) *CatalogService {
	return &CatalogService{videos: videos, views: views, profiles: profiles, log: log, now: time.Now}
}

// List returns every record for admins and the caller's own records
// otherwise, newest first, narrowed by the query filters. The admin flag is
// re-read, so a revocation applies to sessions opened before it.
func (s *CatalogService) List(ctx context.Context, sess *domain.Session, q ports.CatalogQuery) (*ports.CatalogResult, error) {
	if sess == nil {
		return nil, domain.ErrSessionNotFound
	}

	owner := sess.User.ID
	if s.profiles.IsAdmin(ctx, sess.User.ID) {
		owner = ""
	}
	all, err := s.videos.List(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w: %v", domain.ErrBackend, err)
	}

	items := domain.FilterVideos(all, domain.VideoFilter{
		Categories: q.Categories,
		Tags:       domain.NormalizeTags(q.RawTags),
		Search:     q.Search,
	})

	return &ports.CatalogResult{
		Items:      items,
		Categories: distinctCategories(all),
		Total:      len(items),
	}, nil
}

// RecordPlay appends one view event for a video visible to the session.
func (s *CatalogService) RecordPlay(ctx context.Context, sess *domain.Session, videoID string) (*domain.ViewEvent, error) {
	if sess == nil {
		return nil, domain.ErrSessionNotFound
	}

	video, err := s.videos.FindByID(ctx, videoID)
	if err != nil {
		if errors.Is(err, domain.ErrVideoNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find video: %w: %v", domain.ErrBackend, err)
	}
	if !domain.CanView(sess.User.ID, s.profiles.IsAdmin(ctx, sess.User.ID), video) {
		return nil, domain.ErrForbidden
	}

	event := &domain.ViewEvent{
		UserID:    sess.User.ID,
		VideoID:   video.ID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.views.Insert(ctx, event); err != nil {
		return nil, fmt.Errorf("record play: %w: %v", domain.ErrBackend, err)
	}

	metrics.PlaysRecordedTotal.Inc()
	s.log.Debug().Str("video_id", video.ID).Str("user_id", sess.User.ID).Msg("play recorded")
	return event, nil
}

func distinctCategories(records []domain.VideoRecord) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range records {
		if r.Category == "" {
			continue
		}
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		out = append(out, r.Category)
	}
	sort.Strings(out)
	return out
}
