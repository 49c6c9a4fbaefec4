package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// VideoFilter narrows a catalog listing. Zero-valued fields match everything.
type VideoFilter struct {
	Categories []string
	Tags       []string
	Search     string
}

// IsZero reports whether the filter would keep every record.
func (f VideoFilter) IsZero() bool {
	return len(f.Categories) == 0 && len(f.Tags) == 0 && strings.TrimSpace(f.Search) == ""
}

// FilterVideos keeps the records matching every predicate of f, in input order.
func FilterVideos(records []VideoRecord, f VideoFilter) []VideoRecord {
	out := make([]VideoRecord, 0, len(records))
	for i := range records {
		if f.Match(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// Match is the conjunction of the category, tag and text predicates.
func (f VideoFilter) Match(v *VideoRecord) bool {
	return MatchCategory(v, f.Categories) && MatchTags(v, f.Tags) && MatchText(v, f.Search)
}

// MatchCategory keeps records whose category is one of cats.
func MatchCategory(v *VideoRecord, cats []string) bool {
	if len(cats) == 0 {
		return true
	}
	for _, c := range cats {
		if v.Category == c {
			return true
		}
	}
	return false
}

// MatchTags keeps records carrying all of tags.
func MatchTags(v *VideoRecord, tags []string) bool {
	for _, t := range tags {
		if !v.HasTag(t) {
			return false
		}
	}
	return true
}

// MatchText is a case-insensitive substring match on title or description.
func MatchText(v *VideoRecord, search string) bool {
	search = strings.TrimSpace(search)
	if search == "" {
		return true
	}
	fold := cases.Fold()
	needle := fold.String(search)
	return strings.Contains(fold.String(v.Title), needle) ||
		strings.Contains(fold.String(v.Description), needle)
}
