package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"matchscore-backend/internal/documents"
	"matchscore-backend/internal/scans"
)

type Service struct {
	DocRepo  documents.DocumentsRepo
	ScanRepo scans.Repo
}

type ClaimResult struct {
	MigratedDocuments int `json:"migratedDocuments"`
	MigratedScans     int `json:"migratedScans"`
}

func NewService(docRepo documents.DocumentsRepo, scanRepo scans.Repo) *Service {
	return &Service{DocRepo: docRepo, ScanRepo: scanRepo}
}

// ClaimGuest moves a guest identity's documents and scans onto the
// authenticated user so history survives login.
func (s *Service) ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (ClaimResult, error) {
	if strings.TrimSpace(guestUserID) == "" || strings.TrimSpace(authedUserID) == "" {
		return ClaimResult{}, errors.New("guestUserID and authedUserID are required")
	}

	// Prefer a single transaction when both repos share a database.
	if docPG, ok := s.DocRepo.(*documents.PGRepo); ok && docPG != nil && docPG.DB != nil {
		if scanPG, ok := s.ScanRepo.(*scans.PGRepo); ok && scanPG != nil && scanPG.DB != nil {
			return claimWithTx(ctx, docPG.DB, guestUserID, authedUserID)
		}
	}

	docCount, err := claimDocs(ctx, s.DocRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	scanCount, err := claimScans(ctx, s.ScanRepo, guestUserID, authedUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedDocuments: docCount, MigratedScans: scanCount}, nil
}

func claimWithTx(ctx context.Context, db *sql.DB, guestUserID, authedUserID string) (ClaimResult, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return ClaimResult{}, err
	}
	defer tx.Rollback()

	docRes, err := tx.ExecContext(ctx, `UPDATE documents SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	docCount, _ := docRes.RowsAffected()

	scanRes, err := tx.ExecContext(ctx, `UPDATE scans SET user_id = $1 WHERE user_id = $2`, authedUserID, guestUserID)
	if err != nil {
		return ClaimResult{}, err
	}
	scanCount, _ := scanRes.RowsAffected()

	if err := tx.Commit(); err != nil {
		return ClaimResult{}, err
	}
	return ClaimResult{MigratedDocuments: int(docCount), MigratedScans: int(scanCount)}, nil
}

type guestClaimer interface {
	ClaimGuest(ctx context.Context, guestUserID, authedUserID string) (int, error)
}

func claimDocs(ctx context.Context, repo documents.DocumentsRepo, guestUserID, authedUserID string) (int, error) {
	if claimer, ok := repo.(guestClaimer); ok {
		return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
	}
	return 0, errors.New("documents repo does not support claim")
}

func claimScans(ctx context.Context, repo scans.Repo, guestUserID, authedUserID string) (int, error) {
	if claimer, ok := repo.(guestClaimer); ok {
		return claimer.ClaimGuest(ctx, guestUserID, authedUserID)
	}
	return 0, errors.New("scans repo does not support claim")
}
