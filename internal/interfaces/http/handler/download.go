package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/receiptly/backend/internal/domain/receipt"
	"github.com/receiptly/backend/internal/domain/shared"
	"github.com/receiptly/backend/internal/infrastructure/storage"
)

// ArtifactResolver maps artifact filenames to validated absolute paths
type ArtifactResolver interface {
	ResolvePDF(filename string) (string, error)
}

// DownloadHandler serves generated PDFs. Filenames come straight from the
// client, so every lookup goes through the traversal guard before touching
// the file system.
type DownloadHandler struct {
	BaseHandler
	artifacts ArtifactResolver
}

// NewDownloadHandler creates a download handler
func NewDownloadHandler(artifacts ArtifactResolver) *DownloadHandler {
	return &DownloadHandler{artifacts: artifacts}
}

// DownloadPDF handles GET /download_pdf/:filename
func (h *DownloadHandler) DownloadPDF(c *gin.Context) {
	filename := c.Param("filename")

	path, err := h.artifacts.ResolvePDF(filename)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.FileAttachment(path, filename)
}

// DownloadReceipt handles GET /download_receipt/:receipt_id
// Resolves a receipt id to its canonical PDF artifact.
func (h *DownloadHandler) DownloadReceipt(c *gin.Context) {
	receiptID := c.Param("receipt_id")

	if err := receipt.ValidateID(receiptID); err != nil {
		h.HandleError(c, shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid receipt ID"))
		return
	}

	filename := storage.PDFFilename(receiptID)
	path, err := h.artifacts.ResolvePDF(filename)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.FileAttachment(path, filename)
}
