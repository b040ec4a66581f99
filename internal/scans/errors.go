package scans

import "errors"

var (
	ErrNotFound        = errors.New("scan not found")
	ErrInvalidStrategy = errors.New("invalid scoring strategy")
	ErrNotCompleted    = errors.New("scan is not completed")
)

const (
	ErrorCodeValidation        = "VALIDATION_ERROR"
	ErrorCodeLLMTimeout        = "LLM_TIMEOUT"
	ErrorCodeLLMSchemaMismatch = "LLM_SCHEMA_MISMATCH"
	ErrorCodeStorage           = "STORAGE_ERROR"
	ErrorCodeInternal          = "INTERNAL_ERROR"
)
