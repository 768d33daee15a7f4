package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"spenso/internal/domain"
	"spenso/internal/service"
)

// ReceiptHandler handles receipt submission and management endpoints.
type ReceiptHandler struct {
	receiptService service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler.
func NewReceiptHandler(receiptService service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// updateStatusRequest is the body for status updates.
type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Submit handles POST /api/v1/receipts
func (h *ReceiptHandler) Submit(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("receipt")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "receipt field is required")
		return
	}
	defer func() { _ = file.Close() }()

	receipt, err := h.receiptService.Submit(c.Request.Context(), service.ReceiptUploadInput{
		UserID: userID,
		File:   file,
		Header: header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, receipt)
}

// List handles GET /api/v1/receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	receipts, total, err := h.receiptService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, receipts, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/receipts/:id
func (h *ReceiptHandler) GetByID(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	receipt, err := h.receiptService.GetByID(c.Request.Context(), userID, receiptID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, receipt)
}

// UpdateStatus handles PUT /api/v1/receipts/:id/status
func (h *ReceiptHandler) UpdateStatus(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	receiptID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid receipt ID")
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "status field is required")
		return
	}

	receipt, err := h.receiptService.UpdateStatus(c.Request.Context(), userID, receiptID, domain.ReceiptStatus(req.Status))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, receipt)
}

// Export handles GET /api/v1/receipts/export
func (h *ReceiptHandler) Export(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		return
	}

	file, err := h.receiptService.Export(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	defer func() { _ = file.Close() }()

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("expenses-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}
