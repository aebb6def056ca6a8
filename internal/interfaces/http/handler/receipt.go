package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	app "github.com/receiptly/backend/internal/application/receipt"
	"github.com/receiptly/backend/internal/application/settings"
	"github.com/receiptly/backend/internal/domain/receipt"
	"github.com/receiptly/backend/internal/interfaces/http/dto"
	"github.com/receiptly/backend/internal/interfaces/http/middleware"
)

// ReceiptGenerator runs the receipt generation pipeline
type ReceiptGenerator interface {
	Generate(ctx context.Context, r *receipt.Receipt) (*app.GenerateResult, error)
}

// ReceiptHandler handles receipt generation
type ReceiptHandler struct {
	BaseHandler
	generator ReceiptGenerator
	settings  *settings.Service
}

// NewReceiptHandler creates a receipt handler
func NewReceiptHandler(generator ReceiptGenerator, settingsService *settings.Service) *ReceiptHandler {
	return &ReceiptHandler{generator: generator, settings: settingsService}
}

// Generate handles POST /generate_receipt
func (h *ReceiptHandler) Generate(c *gin.Context) {
	var req dto.GenerateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), req.ToDomain())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// Remember the business profile for the settings export
	h.settings.Update(settings.BusinessSettings{
		BusinessName:    req.BusinessName,
		BusinessAddress: req.BusinessAddress,
		BusinessEmail:   req.BusinessEmail,
		BusinessPhone:   req.BusinessPhone,
		LogoFilename:    req.LogoFilename,
		CurrencySymbol:  req.CurrencySymbol,
		TaxRate:         req.TaxRate,
	})

	h.Success(c, dto.GenerateReceiptData{
		ReceiptID:   result.ReceiptID,
		PDFFilename: result.PDFFilename,
		PDFURL:      result.PDFURL,
		QRURL:       result.QRURL,
	})
}
