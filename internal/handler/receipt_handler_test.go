package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"spenso/internal/domain"
	"spenso/internal/handler"
	"spenso/internal/middleware"
	"spenso/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter wires the receipt handler behind a stub auth layer that
// injects userID into the request context.
func newTestRouter(svc *mocks.MockReceiptService, userID uuid.UUID) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set(middleware.ContextKeyUserID, userID)
		}
		c.Next()
	})

	h := handler.NewReceiptHandler(svc)
	r.POST("/api/v1/receipts", h.Submit)
	r.GET("/api/v1/receipts", h.List)
	r.GET("/api/v1/receipts/:id", h.GetByID)
	r.PUT("/api/v1/receipts/:id/status", h.UpdateStatus)
	return r
}

func multipartBody(t *testing.T, fieldName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(fieldName, "receipt.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestReceiptHandler_Submit_Success(t *testing.T) {
	svc := new(mocks.MockReceiptService)
	userID := uuid.New()
	created := &domain.Receipt{ID: uuid.New(), UserID: userID, Vendor: "WALMART", Status: domain.ReceiptStatusPending}
	svc.On("Submit", mock.Anything, mock.Anything).Return(created, nil)

	body, contentType := multipartBody(t, "receipt", []byte("image data"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestRouter(svc, userID).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
}

func TestReceiptHandler_Submit_MissingFile(t *testing.T) {
	svc := new(mocks.MockReceiptService)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts", strings.NewReader(""))
	rec := httptest.NewRecorder()

	newTestRouter(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "MISSING_FILE", resp.Error.Code)
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestReceiptHandler_Submit_MissingAuthContext(t *testing.T) {
	svc := new(mocks.MockReceiptService)

	body, contentType := multipartBody(t, "receipt", []byte("image data"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	newTestRouter(svc, uuid.Nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReceiptHandler_Submit_PipelineErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"recognition failed", domain.ErrRecognitionFailed, http.StatusBadGateway, "RECOGNITION_FAILED"},
		{"malformed structuring", domain.ErrMalformedStructuringResponse, http.StatusBadGateway, "MALFORMED_STRUCTURING_RESPONSE"},
		{"model not initialized", domain.ErrModelNotInitialized, http.StatusServiceUnavailable, "MODEL_NOT_INITIALIZED"},
		{"timeout", domain.ErrTimeout, http.StatusGatewayTimeout, "TIMEOUT"},
		{"upload failed", domain.ErrStorageUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{"persistence failed", domain.ErrPersistenceFailed, http.StatusInternalServerError, "PERSISTENCE_FAILED"},
		{"file too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"unsupported type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(mocks.MockReceiptService)
			svc.On("Submit", mock.Anything, mock.Anything).Return(nil, tc.err)

			body, contentType := multipartBody(t, "receipt", []byte("image data"))
			req := httptest.NewRequest(http.MethodPost, "/api/v1/receipts", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			newTestRouter(svc, uuid.New()).ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeEnvelope(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestReceiptHandler_List(t *testing.T) {
	svc := new(mocks.MockReceiptService)
	userID := uuid.New()
	receipts := []domain.Receipt{{ID: uuid.New(), Vendor: "WALMART"}}
	svc.On("List", mock.Anything, userID, 0, 20).Return(receipts, 1, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc, userID).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func TestReceiptHandler_List_ClampsLimit(t *testing.T) {
	svc := new(mocks.MockReceiptService)
	userID := uuid.New()
	svc.On("List", mock.Anything, userID, 0, 20).Return([]domain.Receipt{}, 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts?limit=5000", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc, userID).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertCalled(t, "List", mock.Anything, userID, 0, 20)
}

func TestReceiptHandler_GetByID_InvalidID(t *testing.T) {
	svc := new(mocks.MockReceiptService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts/not-a-uuid", nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc, uuid.New()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_ID", resp.Error.Code)
}

func TestReceiptHandler_GetByID_NotFound(t *testing.T) {
	svc := new(mocks.MockReceiptService)
	userID := uuid.New()
	receiptID := uuid.New()
	svc.On("GetByID", mock.Anything, userID, receiptID).Return(nil, domain.ErrReceiptNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/receipts/"+receiptID.String(), nil)
	rec := httptest.NewRecorder()

	newTestRouter(svc, userID).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "RECEIPT_NOT_FOUND", resp.Error.Code)
}

func TestReceiptHandler_UpdateStatus_Success(t *testing.T) {
	svc := new(mocks.MockReceiptService)
	userID := uuid.New()
	receiptID := uuid.New()
	updated := &domain.Receipt{ID: receiptID, Status: domain.ReceiptStatusApproved}
	svc.On("UpdateStatus", mock.Anything, userID, receiptID, domain.ReceiptStatusApproved).Return(updated, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/receipts/"+receiptID.String()+"/status",
		strings.NewReader(`{"status":"approved"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newTestRouter(svc, userID).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.True(t, resp.Success)
}

func TestReceiptHandler_UpdateStatus_InvalidBody(t *testing.T) {
	svc := new(mocks.MockReceiptService)
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/receipts/"+uuid.New().String()+"/status",
		strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newTestRouter(svc, userID).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_BODY", resp.Error.Code)
}

func TestReceiptHandler_UpdateStatus_InvalidStatus(t *testing.T) {
	svc := new(mocks.MockReceiptService)
	userID := uuid.New()
	receiptID := uuid.New()
	svc.On("UpdateStatus", mock.Anything, userID, receiptID, domain.ReceiptStatus("archived")).
		Return(nil, domain.ErrInvalidStatus)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/receipts/"+receiptID.String()+"/status",
		strings.NewReader(`{"status":"archived"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newTestRouter(svc, userID).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_STATUS", resp.Error.Code)
}
