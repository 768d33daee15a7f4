package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"spenso/internal/domain"
	"spenso/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrReceiptNotFound):
		return http.StatusNotFound, "RECEIPT_NOT_FOUND", "receipt not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, "INVALID_STATUS", "invalid status; allowed: pending, approved, rejected"
	case errors.Is(err, domain.ErrStorageUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "image upload to storage failed"
	case errors.Is(err, domain.ErrRecognitionFailed):
		return http.StatusBadGateway, "RECOGNITION_FAILED", "text recognition service failed"
	case errors.Is(err, domain.ErrMalformedStructuringResponse):
		return http.StatusBadGateway, "MALFORMED_STRUCTURING_RESPONSE", "structuring service returned an unusable response"
	case errors.Is(err, domain.ErrModelNotInitialized):
		return http.StatusServiceUnavailable, "MODEL_NOT_INITIALIZED", "anomaly model is not loaded"
	case errors.Is(err, domain.ErrPersistenceFailed):
		return http.StatusInternalServerError, "PERSISTENCE_FAILED", "saving the receipt record failed"
	case errors.Is(err, domain.ErrTimeout):
		return http.StatusGatewayTimeout, "TIMEOUT", "receipt processing timed out"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// userIDFromContext extracts the authenticated user ID. Returns false if
// auth context is missing (error response already written).
func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, false
	}
	return userID, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
