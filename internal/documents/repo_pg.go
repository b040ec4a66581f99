package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, user_id, file_name, content_type, size_bytes, storage_key, extracted_text_key, created_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (id, user_id, file_name, content_type, size_bytes, storage_key, extracted_text_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.ContentType,
		doc.SizeBytes,
		doc.StorageKey,
		doc.ExtractedTextKey,
		doc.CreatedAt,
	)
	return err
}

// GetByID fetches a document by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, userID, documentID))
}

// GetCurrentByUser returns the latest document for a user.
func (r *PGRepo) GetCurrentByUser(ctx context.Context, userID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, userID))
}

// ListByUser lists documents ordered newest-first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
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
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// UpdateExtraction stores the extracted text key for a document, first write wins.
func (r *PGRepo) UpdateExtraction(ctx context.Context, userID, documentID, extractedKey string) error {
	const query = `
UPDATE documents
SET extracted_text_key = $1
WHERE user_id = $2 AND id = $3 AND extracted_text_key = ''`
	_, err := r.DB.ExecContext(ctx, query, extractedKey, userID, documentID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.FileName,
		&doc.ContentType,
		&doc.SizeBytes,
		&doc.StorageKey,
		&doc.ExtractedTextKey,
		&doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ClaimGuest reassigns a guest's documents to an authenticated user.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE documents SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return 0, err
	}
	count, _ := res.RowsAffected()
	return int(count), nil
}

var _ DocumentsRepo = (*PGRepo)(nil)
