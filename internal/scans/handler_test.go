package scans_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"matchscore-backend/internal/bootstrap"
	"matchscore-backend/internal/llm"
	"matchscore-backend/internal/queue"
	"matchscore-backend/internal/scans"
	"matchscore-backend/internal/shared/config"
)

const analysisFixture = `{
	"hardSkills": [
		{"skill": "Go", "foundInResume": true, "requiredForJob": true, "skillCategory": "programming"},
		{"skill": "Kubernetes", "foundInResume": false, "requiredForJob": true, "skillCategory": "infrastructure"}
	],
	"experienceAnalysis": {
		"requiredYears": "5 years",
		"totalYearsExperience": "6 years",
		"requiredLevel": "senior",
		"currentLevel": "senior",
		"experienceMatch": "strong"
	},
	"missingCriticalSkills": [{"skill": "Kubernetes", "priority": "high", "impact": "high"}],
	"overallScore": 70
}`

type fixtureLLM struct{}

func (fixtureLLM) ExtractAnalysis(ctx context.Context, input llm.ExtractInput) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return json.RawMessage(analysisFixture), nil
}

type stubQueue struct {
	sent []queue.Message
}

func (q *stubQueue) Send(ctx context.Context, msg queue.Message) error {
	_ = ctx
	q.sent = append(q.sent, msg)
	return nil
}

func buildTestApp(t *testing.T) (*bootstrap.App, *stubQueue) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		Env:             "dev",
		ObjectStoreType: "local",
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	q := &stubQueue{}
	app.ScansService.LLM = fixtureLLM{}
	app.ScansService.Queue = q
	return app, q
}

func uploadDocument(t *testing.T, app *bootstrap.App, guestID string) string {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	fileWriter, err := writer.CreateFormFile("file", "resume.txt")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fileWriter.Write([]byte("Jane Doe, Senior Go Engineer, 6 years experience")); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Guest-Id", guestID)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body %s", resp.Code, resp.Body.String())
	}

	var created struct {
		DocumentID string `json:"documentId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return created.DocumentID
}

func TestScanLifecycleOverHTTP(t *testing.T) {
	app, q := buildTestApp(t)
	docID := uploadDocument(t, app, "g-scan")

	// Start a penalty scan. With a queue wired, the handler returns
	// queued without processing inline.
	startBody := strings.NewReader(`{"jobDescription": "Senior Go engineer", "strategy": "penalty"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+docID+"/scans", startBody)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "g-scan")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("start scan status = %d, body %s", resp.Code, resp.Body.String())
	}
	var started struct {
		ScanID   string `json:"scanId"`
		Status   string `json:"status"`
		Strategy string `json:"strategy"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	if started.Status != scans.StatusQueued || started.Strategy != scans.StrategyPenalty {
		t.Fatalf("started = %+v", started)
	}
	if len(q.sent) != 1 || q.sent[0].ScanID != started.ScanID {
		t.Fatalf("queue sent = %+v", q.sent)
	}

	// Drain the queue the way the worker would.
	if err := app.ScanProcessor.Process(context.Background(), started.ScanID); err != nil {
		t.Fatalf("process scan: %v", err)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+started.ScanID, nil)
	reqGet.Header.Set("X-Guest-Id", "g-scan")
	respGet := httptest.NewRecorder()
	app.Router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusOK {
		t.Fatalf("get scan status = %d, body %s", respGet.Code, respGet.Body.String())
	}
	var fetched struct {
		Status string `json:"status"`
		Result struct {
			Strategy string         `json:"strategy"`
			Report   map[string]any `json:"report"`
		} `json:"result"`
	}
	if err := json.NewDecoder(respGet.Body).Decode(&fetched); err != nil {
		t.Fatalf("decode get response: %v", err)
	}
	if fetched.Status != scans.StatusCompleted {
		t.Fatalf("status = %q, body %s", fetched.Status, respGet.Body.String())
	}
	if fetched.Result.Strategy != scans.StrategyPenalty {
		t.Fatalf("result strategy = %q", fetched.Result.Strategy)
	}
	if _, ok := fetched.Result.Report["overallScore"]; !ok {
		t.Fatalf("report missing overallScore: %v", fetched.Result.Report)
	}
}

func TestScanHiddenFromOtherUsers(t *testing.T) {
	app, _ := buildTestApp(t)
	docID := uploadDocument(t, app, "g-owner")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+docID+"/scans", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "g-owner")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("start scan status = %d, body %s", resp.Code, resp.Body.String())
	}
	var started struct {
		ScanID string `json:"scanId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		t.Fatalf("decode start response: %v", err)
	}

	reqGet := httptest.NewRequest(http.MethodGet, "/api/v1/scans/"+started.ScanID, nil)
	reqGet.Header.Set("X-Guest-Id", "g-intruder")
	respGet := httptest.NewRecorder()
	app.Router.ServeHTTP(respGet, reqGet)

	if respGet.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's scan, got %d", respGet.Code)
	}
}

func TestStartScanRejectsUnknownStrategy(t *testing.T) {
	app, _ := buildTestApp(t)
	docID := uploadDocument(t, app, "g-strategy")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+docID+"/scans", strings.NewReader(`{"strategy": "weighted"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "g-strategy")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown strategy, got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestRecalibrateEndpoint(t *testing.T) {
	app, _ := buildTestApp(t)
	docID := uploadDocument(t, app, "g-recal")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/"+docID+"/scans", strings.NewReader(`{"jobDescription": "jd"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Guest-Id", "g-recal")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("start scan status = %d, body %s", resp.Code, resp.Body.String())
	}
	var started struct {
		ScanID string `json:"scanId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&started); err != nil {
		t.Fatalf("decode start response: %v", err)
	}
	if err := app.ScanProcessor.Process(context.Background(), started.ScanID); err != nil {
		t.Fatalf("process scan: %v", err)
	}

	reqRecal := httptest.NewRequest(http.MethodPost, "/api/v1/scans/"+started.ScanID+"/recalibrate", nil)
	reqRecal.Header.Set("X-Guest-Id", "g-recal")
	respRecal := httptest.NewRecorder()
	app.Router.ServeHTTP(respRecal, reqRecal)

	if respRecal.Code != http.StatusOK {
		t.Fatalf("recalibrate status = %d, body %s", respRecal.Code, respRecal.Body.String())
	}
	var recal struct {
		Strategy string `json:"strategy"`
		Result   struct {
			Strategy string `json:"strategy"`
		} `json:"result"`
	}
	if err := json.NewDecoder(respRecal.Body).Decode(&recal); err != nil {
		t.Fatalf("decode recalibrate response: %v", err)
	}
	if recal.Result.Strategy != scans.StrategyPenalty {
		t.Fatalf("recalibrated strategy = %q", recal.Result.Strategy)
	}
}

func TestListScansRequiresLogin(t *testing.T) {
	app, _ := buildTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scans", nil)
	req.Header.Set("X-Guest-Id", "g-list")
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest history, got %d", resp.Code)
	}
}
