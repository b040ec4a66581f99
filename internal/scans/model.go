package scans

import "time"

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	StrategyComposite = "composite"
	StrategyPenalty   = "penalty"
)

// Scan represents one resume-versus-job-description scoring job.
type Scan struct {
	ID             string         `json:"id"`
	DocumentID     string         `json:"documentId"`
	UserID         string         `json:"userId"`
	JobDescription string         `json:"jobDescription"`
	Strategy       string         `json:"strategy"`
	PromptVersion  string         `json:"promptVersion"`
	Version        string         `json:"version"`
	Provider       string         `json:"provider"`
	Model          string         `json:"model"`
	Status         string         `json:"status"`
	Result         map[string]any `json:"result,omitempty"`
	ErrorCode      string         `json:"errorCode,omitempty"`
	ErrorMessage   string         `json:"errorMessage,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	CompletedAt    *time.Time     `json:"completedAt,omitempty"`
}
