package scans

import (
	"context"
	"time"
)

// StatusUpdate carries the mutable fields written as a scan advances.
type StatusUpdate struct {
	Status       string
	Result       map[string]any
	ErrorCode    string
	ErrorMessage string
	CompletedAt  *time.Time
}

// Repo defines persistence operations for scans.
type Repo interface {
	Create(ctx context.Context, scan Scan) error
	GetByID(ctx context.Context, scanID string) (Scan, error)
	UpdateStatus(ctx context.Context, scanID string, update StatusUpdate) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Scan, error)
}
