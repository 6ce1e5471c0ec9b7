package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	service "boleto-backoffice/internal/services/reconciliation"
	"boleto-backoffice/internal/services/statement"
)

type ReconciliationHandler struct {
	service *service.Service
}

func NewReconciliationHandler(s *service.Service) *ReconciliationHandler {
	return &ReconciliationHandler{service: s}
}

// Upload ingests a statement file and settles what it can. The whole batch is
// processed synchronously; the response is either a rejection with reason or
// the import summary.
func (h *ReconciliationHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}

	batch, err := h.service.ImportStatement(header.Filename, raw)
	if err != nil {
		if errors.Is(err, statement.ErrMissingHeader) || errors.Is(err, statement.ErrNoValidRecords) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Println("statement import failed:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batch_id":           batch.ID.String(),
		"total_processed":    batch.TotalProcessed,
		"auto_settled_count": batch.AutoSettledCount,
		"skipped_line_count": batch.SkippedLineCount,
	})
}

// ListPending exposes unlinked entries with their ranked suggestions for the
// confirmation screen.
func (h *ReconciliationHandler) ListPending(c *gin.Context) {
	pending, err := h.service.ListPending(200)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]gin.H, 0, len(pending))
	for _, p := range pending {
		items = append(items, gin.H{
			"entry":       p.Entry,
			"suggestions": p.Suggestions,
		})
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// ConfirmLink applies a human confirmation of entry -> invoice.
func (h *ReconciliationHandler) ConfirmLink(c *gin.Context) {
	var payload struct {
		EntryID   uint `json:"entry_id" binding:"required"`
		InvoiceID uint `json:"invoice_id" binding:"required"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	err := h.service.ConfirmLink(payload.EntryID, payload.InvoiceID)
	switch {
	case errors.Is(err, service.ErrEntryNotFound), errors.Is(err, service.ErrInvoiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvoiceNotEligible):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "entry linked and invoice settled"})
	}
}

// PurgePending deletes every entry that never got linked.
func (h *ReconciliationHandler) PurgePending(c *gin.Context) {
	removed, err := h.service.PurgePending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
