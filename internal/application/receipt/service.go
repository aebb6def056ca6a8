package receipt

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/receiptly/backend/internal/domain/receipt"
	"github.com/receiptly/backend/internal/domain/shared"
	"github.com/receiptly/backend/internal/infrastructure/qr"
	"github.com/receiptly/backend/internal/infrastructure/render"
)

// receiptTemplate is the embedded template the PDF is rendered from
const receiptTemplate = "receipt_a4.html"

// QREncoder writes a QR image for a receipt and returns its absolute path
type QREncoder interface {
	Encode(receiptID, payload string) (string, error)
}

// PDFStore persists a rendered PDF and returns its filename and absolute path
type PDFStore interface {
	StorePDF(receiptID string, data []byte) (string, string, error)
}

// LogoResolver maps an uploaded logo filename to its absolute path
type LogoResolver interface {
	Resolve(filename string) (string, error)
}

// Scheduler queues a file for deletion after a delay
type Scheduler interface {
	Schedule(path string, delay time.Duration)
}

// TemplateRenderer renders a named HTML template with data
type TemplateRenderer interface {
	Render(name string, data interface{}) (string, error)
}

// Service orchestrates receipt generation: totals, QR image, HTML template,
// PDF rendering, artifact storage and scheduled cleanup.
type Service struct {
	templates   TemplateRenderer
	pdfRenderer render.PDFRenderer
	qrEncoder   QREncoder
	pdfStore    PDFStore
	logos       LogoResolver
	janitor     Scheduler
	artifactTTL time.Duration
	logger      *zap.Logger
}

// NewService wires the generation pipeline
func NewService(
	templates TemplateRenderer,
	pdfRenderer render.PDFRenderer,
	qrEncoder QREncoder,
	pdfStore PDFStore,
	logos LogoResolver,
	janitor Scheduler,
	artifactTTL time.Duration,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		templates:   templates,
		pdfRenderer: pdfRenderer,
		qrEncoder:   qrEncoder,
		pdfStore:    pdfStore,
		logos:       logos,
		janitor:     janitor,
		artifactTTL: artifactTTL,
		logger:      logger,
	}
}

// GenerateResult describes a finished receipt
type GenerateResult struct {
	ReceiptID   string
	PDFFilename string
	PDFURL      string
	QRFilename  string
	QRURL       string
	PageCount   int
}

// document is the data bound to the receipt template
type document struct {
	Receipt  *receipt.Receipt
	LogoPath string
	QRPath   string
}

// Generate produces the PDF for a receipt. Both artifacts (PDF and QR image)
// are scheduled for deletion after the configured TTL, so the caller has a
// limited window to download them.
func (s *Service) Generate(ctx context.Context, r *receipt.Receipt) (*GenerateResult, error) {
	if r.ID == "" {
		r.ID = receipt.NewID()
	} else if err := receipt.ValidateID(r.ID); err != nil {
		return nil, err
	}

	if r.Date == "" {
		r.Date = time.Now().Format("2006-01-02")
	}
	if r.CurrencySymbol == "" {
		r.CurrencySymbol = "$"
	}
	r.ApplyTotals()

	doc := document{Receipt: r}

	// A logo that went missing between upload and generation is not fatal,
	// the receipt just renders without it.
	if r.LogoFilename != "" {
		logoPath, err := s.logos.Resolve(r.LogoFilename)
		if err != nil {
			s.logger.Warn("logo unavailable, rendering without it",
				zap.String("receipt_id", r.ID),
				zap.String("logo", r.LogoFilename),
				zap.Error(err))
		} else {
			doc.LogoPath = logoPath
		}
	}

	// The QR image is part of the receipt contract: a partial receipt
	// without it is not considered valid, so any failure here fails the
	// whole generation.
	var qrPath string
	payload, err := r.QRPayload().Encode()
	if err == nil {
		qrPath, err = s.qrEncoder.Encode(r.ID, payload)
	}
	if err != nil {
		s.logger.Error("QR code generation failed",
			zap.String("receipt_id", r.ID),
			zap.Error(err))
		return nil, shared.NewDomainError(shared.ErrGenerationFailed.Code, "Failed to generate QR code")
	}
	doc.QRPath = qrPath

	html, err := s.templates.Render(receiptTemplate, doc)
	if err != nil {
		s.logger.Error("template rendering failed",
			zap.String("receipt_id", r.ID),
			zap.Error(err))
		return nil, shared.NewDomainError(shared.ErrGenerationFailed.Code, "Failed to build receipt document")
	}

	result, err := s.pdfRenderer.Render(ctx, &render.RenderRequest{
		HTML:                  html,
		Title:                 "Receipt " + r.ID,
		EnableLocalFileAccess: true,
	})
	if err != nil {
		if render.IsBinaryNotFound(err) {
			s.logger.Error("PDF renderer unavailable", zap.Error(err))
			return nil, shared.NewDomainError(shared.ErrRendererUnavailable.Code,
				"PDF rendering engine is not installed. Install wkhtmltopdf or provide a Chrome/Chromium instance")
		}
		s.logger.Error("PDF rendering failed",
			zap.String("receipt_id", r.ID),
			zap.Error(err))
		return nil, shared.NewDomainError(shared.ErrGenerationFailed.Code, "Failed to render receipt PDF")
	}

	pdfFilename, pdfPath, err := s.pdfStore.StorePDF(r.ID, result.PDFData)
	if err != nil {
		s.logger.Error("failed to store PDF",
			zap.String("receipt_id", r.ID),
			zap.Error(err))
		return nil, shared.NewDomainError(shared.ErrGenerationFailed.Code, "Failed to store receipt PDF")
	}

	s.janitor.Schedule(pdfPath, s.artifactTTL)
	s.janitor.Schedule(doc.QRPath, s.artifactTTL)

	s.logger.Info("receipt generated",
		zap.String("receipt_id", r.ID),
		zap.String("pdf", pdfFilename),
		zap.Int("pages", result.PageCount),
		zap.Duration("render_duration", result.RenderDuration))

	qrFilename := qr.Filename(r.ID)
	return &GenerateResult{
		ReceiptID:   r.ID,
		PDFFilename: pdfFilename,
		PDFURL:      "/download_pdf/" + pdfFilename,
		QRFilename:  qrFilename,
		QRURL:       "/static/qr/" + qrFilename,
		PageCount:   result.PageCount,
	}, nil
}
