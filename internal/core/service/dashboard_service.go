package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
)

// DashboardService builds the admin play-count report.
type DashboardService struct {
	videos ports.VideoRepository
	views  ports.ViewRepository
}

func NewDashboardService(videos ports.VideoRepository, views ports.ViewRepository) *DashboardService {
	return &DashboardService{videos: videos, views: views}
}

// PlayReport counts plays per video, joins the titles and ranks by plays.
// Events whose video no longer exists are dropped.
func (s *DashboardService) PlayReport(ctx context.Context) ([]ports.PlayCount, error) {
	counts, err := s.views.CountByVideo(ctx)
	if err != nil {
		return nil, fmt.Errorf("count plays: %w: %v", domain.ErrBackend, err)
	}
	if len(counts) == 0 {
		return []ports.PlayCount{}, nil
	}

	videos, err := s.videos.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list videos: %w: %v", domain.ErrBackend, err)
	}

	report := make([]ports.PlayCount, 0, len(counts))
	for _, v := range videos {
		plays, ok := counts[v.ID]
		if !ok {
			continue
		}
		report = append(report, ports.PlayCount{VideoID: v.ID, Title: v.Title, Plays: plays})
	}

	sort.SliceStable(report, func(i, j int) bool {
		if report[i].Plays != report[j].Plays {
			return report[i].Plays > report[j].Plays
		}
		if report[i].Title != report[j].Title {
			return report[i].Title < report[j].Title
		}
		return report[i].VideoID < report[j].VideoID
	})
	return report, nil
}
