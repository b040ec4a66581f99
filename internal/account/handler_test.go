package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"matchscore-backend/internal/documents"
	"matchscore-backend/internal/scans"
)

const guestID = "11111111-2222-3333-4444-555555555555"

func setupRouter(t *testing.T, authedUserID string, isGuest bool) (*gin.Engine, *documents.MemoryRepo, *scans.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docRepo := documents.NewMemoryRepo()
	scanRepo := scans.NewMemoryRepo()
	handler := NewHandler(NewService(docRepo, scanRepo))

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("userId", authedUserID)
		c.Set("isGuest", isGuest)
		c.Next()
	})
	handler.RegisterRoutes(router.Group("/api/v1"))
	return router, docRepo, scanRepo
}

func seedGuestData(t *testing.T, docRepo *documents.MemoryRepo, scanRepo *scans.MemoryRepo) {
	t.Helper()
	ctx := context.Background()
	guestUserID := "guest:" + guestID

	err := docRepo.Create(ctx, documents.Document{
		ID:        "doc-1",
		UserID:    guestUserID,
		FileName:  "resume.pdf",
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("seed document: %v", err)
	}
	for _, id := range []string{"scan-1", "scan-2"} {
		err := scanRepo.Create(ctx, scans.Scan{
			ID:         id,
			UserID:     guestUserID,
			DocumentID: "doc-1",
			Status:     scans.StatusCompleted,
			Strategy:   "composite",
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("seed scan: %v", err)
		}
	}
}

func TestClaimGuestMigratesDocumentsAndScans(t *testing.T) {
	router, docRepo, scanRepo := setupRouter(t, "google:123", false)
	seedGuestData(t, docRepo, scanRepo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result ClaimResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.MigratedDocuments != 1 {
		t.Fatalf("expected 1 migrated document, got %d", result.MigratedDocuments)
	}
	if result.MigratedScans != 2 {
		t.Fatalf("expected 2 migrated scans, got %d", result.MigratedScans)
	}

	ctx := context.Background()
	if _, err := docRepo.GetByID(ctx, "google:123", "doc-1"); err != nil {
		t.Fatalf("document not visible to authed user: %v", err)
	}
	scansAfter, err := scanRepo.ListByUser(ctx, "google:123", 10, 0)
	if err != nil {
		t.Fatalf("list scans: %v", err)
	}
	if len(scansAfter) != 2 {
		t.Fatalf("expected 2 scans for authed user, got %d", len(scansAfter))
	}
	guestScans, err := scanRepo.ListByUser(ctx, "guest:"+guestID, 10, 0)
	if err != nil {
		t.Fatalf("list guest scans: %v", err)
	}
	if len(guestScans) != 0 {
		t.Fatalf("expected 0 scans left on guest, got %d", len(guestScans))
	}
}

func TestClaimGuestRejectsGuestCallers(t *testing.T) {
	router, _, _ := setupRouter(t, "guest:"+guestID, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", guestID)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestClaimGuestRequiresGuestHeader(t *testing.T) {
	router, _, _ := setupRouter(t, "google:123", false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClaimGuestRejectsMalformedGuestID(t *testing.T) {
	router, _, _ := setupRouter(t, "google:123", false)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/account/claim-guest", nil)
	req.Header.Set("X-Guest-Id", "not-a-uuid")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
