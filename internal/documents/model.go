package documents

import "time"

// Document represents an uploaded resume owned by a user.
type Document struct {
	ID               string
	UserID           string
	FileName         string
	ContentType      string
	SizeBytes        int64
	StorageKey       string
	ExtractedTextKey string
	CreatedAt        time.Time
}
