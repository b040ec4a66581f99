package scans

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Scan
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Scan)}
}

// Create stores a new scan.
func (r *MemoryRepo) Create(ctx context.Context, scan Scan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[scan.ID] = scan
	return nil
}

// GetByID returns a scan by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, scanID string) (Scan, error) {
	if err := ctx.Err(); err != nil {
		return Scan{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	scan, ok := r.data[scanID]
	if !ok {
		return Scan{}, ErrNotFound
	}
	return scan, nil
}

// UpdateStatus applies a status update to a scan.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, scanID string, update StatusUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	scan, ok := r.data[scanID]
	if !ok {
		return ErrNotFound
	}
	scan.Status = update.Status
	if update.Result != nil {
		scan.Result = update.Result
	}
	scan.ErrorCode = update.ErrorCode
	scan.ErrorMessage = update.ErrorMessage
	if update.CompletedAt != nil {
		scan.CompletedAt = update.CompletedAt
	}
	r.data[scanID] = scan
	return nil
}

// ListByUser returns scans for a user, newest first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Scan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	var out []Scan
	for _, scan := range r.data {
		if scan.UserID == userID {
			out = append(out, scan)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Scan{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

// ClaimGuest reassigns a guest's scans to an authenticated user.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for id, scan := range r.data {
		if scan.UserID == guestUserID {
			scan.UserID = authedUserID
			r.data[id] = scan
			count++
		}
	}
	return count, nil
}

var _ Repo = (*MemoryRepo)(nil)
