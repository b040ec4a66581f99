package scans

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const scanColumns = `id, user_id, document_id, status, strategy, prompt_version, version, provider, model,
       job_description, result, error_code, error_message, created_at, completed_at`

// Create inserts a new scan.
func (r *PGRepo) Create(ctx context.Context, scan Scan) error {
	const query = `
INSERT INTO scans (
	id, user_id, document_id, status, strategy, prompt_version, version, provider, model,
	job_description, result, error_code, error_message, created_at, completed_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	resultPayload, err := marshalJSONB(scan.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		scan.ID,
		scan.UserID,
		scan.DocumentID,
		scan.Status,
		scan.Strategy,
		scan.PromptVersion,
		scan.Version,
		scan.Provider,
		scan.Model,
		scan.JobDescription,
		resultPayload,
		scan.ErrorCode,
		scan.ErrorMessage,
		scan.CreatedAt,
		scan.CompletedAt,
	)
	return err
}

// GetByID returns a scan by ID.
func (r *PGRepo) GetByID(ctx context.Context, scanID string) (Scan, error) {
	const query = `
SELECT ` + scanColumns + `
FROM scans
WHERE id = $1
LIMIT 1`
	return scanRow(r.DB.QueryRowContext(ctx, query, scanID))
}

// UpdateStatus applies a status update to a scan.
func (r *PGRepo) UpdateStatus(ctx context.Context, scanID string, update StatusUpdate) error {
	const query = `
UPDATE scans
SET status = $1,
    result = COALESCE($2, result),
    error_code = $3,
    error_message = $4,
    completed_at = COALESCE($5, completed_at)
WHERE id = $6`

	resultPayload, err := marshalJSONB(update.Result)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		update.Status,
		resultPayload,
		update.ErrorCode,
		update.ErrorMessage,
		update.CompletedAt,
		scanID,
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser lists scans for a user ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Scan, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + scanColumns + `
FROM scans
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, scan)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(row rowScanner) (Scan, error) {
	var s Scan
	var result sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.DocumentID,
		&s.Status,
		&s.Strategy,
		&s.PromptVersion,
		&s.Version,
		&s.Provider,
		&s.Model,
		&s.JobDescription,
		&result,
		&s.ErrorCode,
		&s.ErrorMessage,
		&s.CreatedAt,
		&completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Scan{}, ErrNotFound
		}
		return Scan{}, err
	}
	if result.Valid && result.String != "" {
		if err := json.Unmarshal([]byte(result.String), &s.Result); err != nil {
			return Scan{}, err
		}
	}
	if completedAt.Valid {
		s.CompletedAt = &completedAt.Time
	}
	return s, nil
}

func marshalJSONB(value map[string]any) (any, error) {
	if value == nil {
		return nil, nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// ClaimGuest reassigns a guest's scans to an authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE scans SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	count, _ := res.RowsAffected()
	return int(count), nil
}

var _ Repo = (*PGRepo)(nil)
