package scans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"matchscore-backend/internal/documents"
	"matchscore-backend/internal/extract"
	"matchscore-backend/internal/llm"
	"matchscore-backend/internal/queue"
	"matchscore-backend/internal/scoring"
	"matchscore-backend/internal/shared/metrics"
	"matchscore-backend/internal/shared/storage/object"
	"matchscore-backend/internal/shared/telemetry"
	"matchscore-backend/internal/usage"
)

// Service contains business logic for scans.
type Service struct {
	Repo          Repo
	Usage         *usage.Service
	DocRepo       documents.DocumentsRepo
	Store         object.ObjectStore
	LLM           llm.Client
	Queue         queue.Client
	Provider      string
	Model         string
	ScanVersion   string
	PromptVersion string
}

// Create enqueues a new scan for a document the caller owns.
func (s *Service) Create(ctx context.Context, documentID, userID, jobDescription, strategy string) (Scan, error) {
	if documentID == "" || userID == "" {
		return Scan{}, errors.New("documentID and userID are required")
	}
	strategy, err := normalizeStrategy(strategy)
	if err != nil {
		return Scan{}, err
	}

	if _, err := s.DocRepo.GetByID(ctx, userID, documentID); err != nil {
		return Scan{}, err
	}

	if s.Usage != nil {
		ok, _, err := s.Usage.CanConsume(ctx, userID, 1)
		if err != nil {
			return Scan{}, err
		}
		if !ok {
			return Scan{}, usage.ErrLimitReached
		}
	}

	scan := Scan{
		ID:             uuid.NewString(),
		DocumentID:     documentID,
		UserID:         userID,
		JobDescription: jobDescription,
		Strategy:       strategy,
		PromptVersion:  normalizePromptVersion(s.PromptVersion),
		Version:        normalizeScanVersion(s.ScanVersion),
		Provider:       normalizeProvider(s.Provider),
		Model:          s.Model,
		Status:         StatusQueued,
		CreatedAt:      time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, scan); err != nil {
		return Scan{}, err
	}

	if s.Usage != nil {
		if _, err := s.Usage.Consume(ctx, userID, 1); err != nil {
			return Scan{}, err
		}
	}

	s.dispatch(ctx, scan.ID)

	return scan, nil
}

// Get returns a scan by ID.
func (s *Service) Get(ctx context.Context, scanID string) (Scan, error) {
	if scanID == "" {
		return Scan{}, errors.New("scanID is required")
	}
	return s.Repo.GetByID(ctx, scanID)
}

// List returns scans for a user ordered newest-first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Scan, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Recalibrate re-runs penalty calibration against the stored analysis of a
// completed scan and replaces its report in place.
func (s *Service) Recalibrate(ctx context.Context, scanID, userID string) (Scan, error) {
	scan, err := s.Repo.GetByID(ctx, scanID)
	if err != nil {
		return Scan{}, err
	}
	if scan.UserID != userID {
		return Scan{}, ErrNotFound
	}
	if scan.Status != StatusCompleted {
		return Scan{}, ErrNotCompleted
	}

	payload, err := json.Marshal(scan.Result["analysis"])
	if err != nil {
		return Scan{}, fmt.Errorf("scan analysis payload: %w", err)
	}
	var parsed scoring.ScoredAnalysis
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return Scan{}, fmt.Errorf("scan analysis payload: %w", err)
	}

	calibrated := scoring.CalibrateScore(parsed)
	metrics.IncCalibration()

	report, err := asMap(calibrated)
	if err != nil {
		return Scan{}, err
	}
	result := map[string]any{
		"strategy": StrategyPenalty,
		"analysis": scan.Result["analysis"],
		"report":   report,
	}
	if err := s.Repo.UpdateStatus(ctx, scanID, StatusUpdate{Status: StatusCompleted, Result: result, CompletedAt: scan.CompletedAt}); err != nil {
		return Scan{}, err
	}
	telemetry.Info("scan.recalibrated", map[string]any{
		"request_id": requestIDFromContext(ctx),
		"user_id":    userID,
		"scan_id":    scanID,
	})
	return s.Repo.GetByID(ctx, scanID)
}

func (s *Service) dispatch(ctx context.Context, scanID string) {
	if s.Queue != nil {
		msg := queue.Message{
			ScanID:     scanID,
			RequestID:  requestIDFromContext(ctx),
			EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
			Version:    1,
		}
		err := s.Queue.Send(ctx, msg)
		if err == nil {
			return
		}
		// Fall through to in-process completion so the scan is not stranded.
		telemetry.Warn("scan.enqueue_failed", map[string]any{
			"request_id": requestIDFromContext(ctx),
			"scan_id":    scanID,
			"error":      err.Error(),
		})
	}
	go s.completeAsync(backgroundWithRequestID(ctx), scanID)
}

func (s *Service) completeAsync(ctx context.Context, scanID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failScan(ctx, scanID, "", "", fmt.Errorf("panic: %v", r), nil)
		}
	}()
	_ = s.Process(ctx, scanID)
}

// Process runs a queued scan to completion. It is called in-process after
// Create when no queue is configured, and by the worker for queued messages.
// Failures are persisted on the scan before the error is returned.
func (s *Service) Process(ctx context.Context, scanID string) error {
	startedAt := time.Now().UTC()
	if err := s.Repo.UpdateStatus(ctx, scanID, StatusUpdate{Status: StatusProcessing}); err != nil {
		err = fmt.Errorf("set processing failed: %w", err)
		s.failScan(ctx, scanID, "", "", err, &startedAt)
		return err
	}

	scan, err := s.Repo.GetByID(ctx, scanID)
	if err != nil {
		err = fmt.Errorf("scan lookup: %w", err)
		s.failScan(ctx, scanID, "", "", err, &startedAt)
		return err
	}
	metrics.IncScanStarted()
	telemetry.Info("scan.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           scan.UserID,
		"document_id":       scan.DocumentID,
		"scan_id":           scan.ID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})
	if s.DocRepo == nil || s.Store == nil {
		err := errors.New("missing document store dependencies")
		s.failScan(ctx, scanID, scan.UserID, scan.DocumentID, err, &startedAt)
		return err
	}
	if s.LLM == nil {
		err := errors.New("missing llm client")
		s.failScan(ctx, scanID, scan.UserID, scan.DocumentID, err, &startedAt)
		return err
	}

	doc, err := s.DocRepo.GetByID(ctx, scan.UserID, scan.DocumentID)
	if err != nil {
		err = fmt.Errorf("document lookup id=%s: %w", scan.DocumentID, err)
		s.failScan(ctx, scanID, scan.UserID, scan.DocumentID, err, &startedAt)
		return err
	}

	extractedKey := doc.ExtractedTextKey
	if extractedKey == "" {
		if _, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.ContentType, doc.FileName); err != nil {
			err = fmt.Errorf("document %s mime %s: %w", doc.ID, doc.ContentType, err)
			s.failScan(ctx, scanID, scan.UserID, scan.DocumentID, err, &startedAt)
			return err
		}
		extractedKey = extract.ExtractedKey(doc.StorageKey)
		if err := s.DocRepo.UpdateExtraction(ctx, doc.UserID, doc.ID, extractedKey); err != nil {
			err = fmt.Errorf("document %s mime %s: update extraction: %w", doc.ID, doc.ContentType, err)
			s.failScan(ctx, scanID, scan.UserID, scan.DocumentID, err, &startedAt)
			return err
		}
	}

	resumeText, err := loadText(ctx, s.Store, extractedKey)
	if err != nil {
		err = fmt.Errorf("document %s mime %s: load extracted text: %w", doc.ID, doc.ContentType, err)
		s.failScan(ctx, scanID, scan.UserID, scan.DocumentID, err, &startedAt)
		return err
	}

	input := llm.ExtractInput{
		ResumeText:     resumeText,
		JobDescription: scan.JobDescription,
		PromptVersion:  scan.PromptVersion,
	}
	raw, err := s.LLM.ExtractAnalysis(ctx, input)
	if err != nil {
		err = fmt.Errorf("llm extract: %w", err)
		s.failScan(ctx, scanID, scan.UserID, scan.DocumentID, err, &startedAt)
		return err
	}

	parsed, err := decodeAnalysis(raw)
	if err != nil {
		rawRetry, retryErr := s.LLM.ExtractAnalysis(llm.WithFixJSON(ctx, string(raw)), input)
		if retryErr != nil {
			retryErr = fmt.Errorf("llm extract retry: %w", retryErr)
			s.failScan(ctx, scanID, scan.UserID, scan.DocumentID, retryErr, &startedAt)
			return retryErr
		}
		parsed, err = decodeAnalysis(rawRetry)
		if err != nil {
			err = fmt.Errorf("llm output invalid: %w", err)
			s.failScan(ctx, scanID, scan.UserID, scan.DocumentID, err, &startedAt)
			return err
		}
		raw = rawRetry
	}

	result, err := buildResult(scan.Strategy, raw, parsed)
	if err != nil {
		err = fmt.Errorf("llm output invalid: %w", err)
		s.failScan(ctx, scanID, scan.UserID, scan.DocumentID, err, &startedAt)
		return err
	}

	completedAt := time.Now().UTC()
	if err := s.Repo.UpdateStatus(ctx, scanID, StatusUpdate{Status: StatusCompleted, Result: result, CompletedAt: &completedAt}); err != nil {
		err = fmt.Errorf("set scan result failed: %w", err)
		s.failScan(ctx, scanID, scan.UserID, scan.DocumentID, err, &startedAt)
		return err
	}
	metrics.IncScanCompleted()
	metrics.ObserveScanDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("scan.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           scan.UserID,
		"document_id":       scan.DocumentID,
		"scan_id":           scan.ID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
	return nil
}

func (s *Service) failScan(ctx context.Context, scanID, userID, documentID string, err error, startedAt *time.Time) {
	code := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	update := StatusUpdate{
		Status:       StatusFailed,
		ErrorCode:    code,
		ErrorMessage: msg,
		CompletedAt:  &completedAt,
	}
	if updateErr := s.Repo.UpdateStatus(context.Background(), scanID, update); updateErr != nil {
		telemetry.Error("scan.fail_update", map[string]any{
			"scan_id": scanID,
			"error":   updateErr.Error(),
			"cause":   msg,
		})
	}
	metrics.IncScanFailed()
	if startedAt != nil {
		metrics.ObserveScanDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("scan.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"document_id":       documentID,
		"scan_id":           scanID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func decodeAnalysis(raw json.RawMessage) (scoring.ScoredAnalysis, error) {
	var parsed scoring.ScoredAnalysis
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return scoring.ScoredAnalysis{}, err
	}
	return parsed, nil
}

func buildResult(strategy string, raw json.RawMessage, parsed scoring.ScoredAnalysis) (map[string]any, error) {
	var analysisDoc any
	if err := json.Unmarshal(raw, &analysisDoc); err != nil {
		return nil, err
	}

	var report map[string]any
	var err error
	switch strategy {
	case StrategyPenalty:
		calibrated := scoring.CalibrateScore(parsed)
		metrics.IncCalibration()
		report, err = asMap(calibrated)
	default:
		report, err = asMap(scoring.ScoreAnalysis(parsed.Analysis))
	}
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"strategy": strategy,
		"analysis": analysisDoc,
		"report":   report,
	}, nil
}

func asMap(v any) (map[string]any, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func normalizeStrategy(strategy string) (string, error) {
	switch strings.TrimSpace(strategy) {
	case "":
		return StrategyComposite, nil
	case StrategyComposite:
		return StrategyComposite, nil
	case StrategyPenalty:
		return StrategyPenalty, nil
	default:
		return "", ErrInvalidStrategy
	}
}

func normalizeProvider(provider string) string {
	if strings.TrimSpace(provider) == "" {
		return "openai"
	}
	return provider
}

func normalizeScanVersion(version string) string {
	if strings.TrimSpace(version) == "" {
		return "unknown"
	}
	return strings.TrimSpace(version)
}

func normalizePromptVersion(version string) string {
	if strings.TrimSpace(version) == "" {
		return "v1"
	}
	return strings.TrimSpace(version)
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) string {
	if err == nil {
		return ErrorCodeInternal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeLLMTimeout
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "openai request timeout") {
		return ErrorCodeLLMTimeout
	}
	if strings.Contains(msg, "timeout") && strings.Contains(msg, "llm") {
		return ErrorCodeLLMTimeout
	}
	if strings.Contains(msg, "llm output invalid") || strings.Contains(msg, "schema") {
		return ErrorCodeLLMSchemaMismatch
	}
	if strings.Contains(msg, "validation") && !strings.Contains(msg, "llm") {
		return ErrorCodeValidation
	}
	if strings.Contains(msg, "document") || strings.Contains(msg, "storage") || strings.Contains(msg, "scan result") || strings.Contains(msg, "set processing") {
		return ErrorCodeStorage
	}
	return ErrorCodeInternal
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

func loadText(ctx context.Context, store object.ObjectStore, key string) (string, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
