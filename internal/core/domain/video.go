package domain

import (
	"path"
	"strings"
	"time"
)

const (
	CategoryEducation     = "Education"
	CategoryEntertainment = "Entertainment"
	CategoryTutorial      = "Tutorial"
	CategoryOther         = "Other"
)

// Categories lists the accepted video categories in display order.
var Categories = []string{CategoryEducation, CategoryEntertainment, CategoryTutorial, CategoryOther}

// ValidCategory reports whether c is one of Categories.
func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// VideoRecord is the metadata row written after the binary is stored.
type VideoRecord struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	FileName    string    `json:"file_name"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
}

// HasTag reports whether the record carries tag exactly.
func (v *VideoRecord) HasTag(tag string) bool {
	for _, t := range v.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ViewEvent is one play action. Rows are only ever appended.
type ViewEvent struct {
	UserID    string    `json:"user_id"`
	VideoID   string    `json:"video_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeTags splits comma-separated input, trims each entry and drops the
// empty ones. Order is kept and duplicates are not removed.
func NormalizeTags(raw string) []string {
	tags := []string{}
	for _, part := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// videoContentTypes is the upload allow-list, keyed by lower-case extension.
var videoContentTypes = map[string]string{
	".mp4": "video/mp4",
	".mov": "video/quicktime",
	".avi": "video/x-msvideo",
}

// ContentTypeFor returns the content type for a file name, or false when the
// extension is not an accepted video format.
func ContentTypeFor(fileName string) (string, bool) {
	ct, ok := videoContentTypes[strings.ToLower(path.Ext(fileName))]
	return ct, ok
}

// ObjectKey namespaces a stored file under its owner so two users uploading
// the same file name never share a key.
func ObjectKey(userID, fileName string) string {
	return userID + "/" + fileName
}

// AuthorizeOwner checks that the record is being written on behalf of its owner.
func AuthorizeOwner(caller User, record *VideoRecord) error {
	if caller.ID == "" || record == nil || record.UserID != caller.ID {
		return ErrForbidden
	}
	return nil
}

// CanView reports whether userID may see the record: admins see every record,
// everyone else only their own. isAdmin must be the current flag, not the one
// captured at login.
func CanView(userID string, isAdmin bool, record *VideoRecord) bool {
	if userID == "" || record == nil {
		return false
	}
	return isAdmin || record.UserID == userID
}
