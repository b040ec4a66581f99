package scans

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoCreateInsertsAllColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	scan := Scan{
		ID:             "scan-1",
		UserID:         "user-1",
		DocumentID:     "doc-1",
		Status:         StatusQueued,
		Strategy:       StrategyComposite,
		PromptVersion:  "v1",
		Version:        "composite:v1",
		Provider:       "openai",
		Model:          "gpt-4o-mini",
		JobDescription: "jd",
		CreatedAt:      time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO scans").
		WithArgs(
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
			nil, // result
			"",  // error_code
			"",  // error_message
			sqlmock.AnyArg(),
			nil, // completed_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), scan); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDDecodesResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	createdAt := time.Now().UTC()
	completedAt := createdAt.Add(2 * time.Second)

	rows := sqlmock.NewRows([]string{
		"id", "user_id", "document_id", "status", "strategy", "prompt_version", "version",
		"provider", "model", "job_description", "result", "error_code", "error_message",
		"created_at", "completed_at",
	}).AddRow(
		"scan-1", "user-1", "doc-1", StatusCompleted, StrategyPenalty, "v1", "composite:v1",
		"openai", "gpt-4o-mini", "jd", `{"strategy":"penalty"}`, "", "",
		createdAt, completedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM scans").
		WithArgs("scan-1").
		WillReturnRows(rows)

	scan, err := repo.GetByID(context.Background(), "scan-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if scan.Result["strategy"] != "penalty" {
		t.Fatalf("result strategy = %v, want penalty", scan.Result["strategy"])
	}
	if scan.CompletedAt == nil || !scan.CompletedAt.Equal(completedAt) {
		t.Fatalf("completedAt = %v, want %v", scan.CompletedAt, completedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM scans").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("GetByID err = %v, want ErrNotFound", err)
	}
}

func TestPGRepoUpdateStatusMissingScan(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	mock.ExpectExec("UPDATE scans").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateStatus(context.Background(), "missing", StatusUpdate{Status: StatusProcessing})
	if err != ErrNotFound {
		t.Fatalf("UpdateStatus err = %v, want ErrNotFound", err)
	}
}
