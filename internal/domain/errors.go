package domain

import "errors"

// Pipeline failures. All are terminal for the current invocation: the
// orchestrator never retries internally and surfaces the specific kind
// to its caller.
var (
	ErrStorageUploadFailed          = errors.New("receipt image upload to storage failed")
	ErrRecognitionFailed            = errors.New("text recognition failed")
	ErrMalformedStructuringResponse = errors.New("structuring response is not well-formed")
	ErrModelNotInitialized          = errors.New("anomaly model not initialized")
	ErrPersistenceFailed            = errors.New("persisting receipt record failed")
	ErrTimeout                      = errors.New("external call exceeded deadline")
)

var (
	ErrReceiptNotFound     = errors.New("receipt not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidStatus       = errors.New("invalid receipt status")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
)
