package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/receiptly/backend/internal/domain/shared"
	"github.com/receiptly/backend/internal/infrastructure/storage"
	"github.com/receiptly/backend/internal/interfaces/http/dto"
)

// LogoSaver persists an uploaded logo
type LogoSaver interface {
	Save(fileHeader *multipart.FileHeader) (*storage.SaveResult, error)
}

// UploadHandler handles logo uploads
type UploadHandler struct {
	BaseHandler
	logos LogoSaver
}

// NewUploadHandler creates an upload handler
func NewUploadHandler(logos LogoSaver) *UploadHandler {
	return &UploadHandler{logos: logos}
}

// UploadLogo handles POST /upload_logo
func (h *UploadHandler) UploadLogo(c *gin.Context) {
	fileHeader, err := c.FormFile("logo")
	if err != nil {
		h.HandleError(c, shared.NewDomainError(shared.ErrInvalidInput.Code, "No file selected"))
		return
	}

	result, err := h.logos.Save(fileHeader)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.UploadLogoData{
		Filename: result.Filename,
		URL:      result.URL,
		Size:     result.Size,
	})
}
