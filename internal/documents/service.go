package documents

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"matchscore-backend/internal/shared/storage/object"
)

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  DocumentsRepo
}

// Upload saves the file to object storage and records the document.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Document, error) {
	if fileName == "" {
		return Document{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:          uuid.NewString(),
		UserID:      userID,
		FileName:    fileName,
		ContentType: mimeType,
		SizeBytes:   size,
		StorageKey:  storageKey,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	return doc, nil
}

// Get returns a document by ID for a user.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if userID == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// Current returns the current document for a user.
func (s *Service) Current(ctx context.Context, userID string) (Document, error) {
	if userID == "" {
		return Document{}, errors.New("user id required")
	}
	return s.Repo.GetCurrentByUser(ctx, userID)
}

// List returns documents for a user, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Document, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}
