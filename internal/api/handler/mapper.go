package handler

import (
	"strings"

	"github.com/vidshare/vidshare/internal/core/domain"
	"github.com/vidshare/vidshare/internal/core/ports"
)

// --- Request → Service input ---

// toCatalogQuery accepts categories as repeated or comma-separated values.
func toCatalogQuery(categories []string, tags, search string) ports.CatalogQuery {
	var cats []string
	for _, raw := range categories {
		for _, c := range strings.Split(raw, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cats = append(cats, c)
			}
		}
	}
	return ports.CatalogQuery{Categories: cats, RawTags: tags, Search: strings.TrimSpace(search)}
}

// --- Domain → Response ---

func toVideoResponse(v domain.VideoRecord) videoResponse {
	tags := v.Tags
	if tags == nil {
		tags = []string{}
	}
	return videoResponse{
		ID:          v.ID,
		UserID:      v.UserID,
		FileName:    v.FileName,
		URL:         v.URL,
		Title:       v.Title,
		Description: v.Description,
		Tags:        tags,
		Category:    v.Category,
		CreatedAt:   v.CreatedAt,
	}
}

func toListVideosResponse(res *ports.CatalogResult) listVideosResponse {
	items := make([]videoResponse, 0, len(res.Items))
	for _, v := range res.Items {
		items = append(items, toVideoResponse(v))
	}
	cats := res.Categories
	if cats == nil {
		cats = []string{}
	}
	return listVideosResponse{Items: items, Categories: cats, Total: res.Total}
}
