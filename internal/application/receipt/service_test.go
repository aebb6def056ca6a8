package receipt

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/backend/internal/domain/receipt"
	"github.com/receiptly/backend/internal/domain/shared"
	"github.com/receiptly/backend/internal/infrastructure/render"
)

type fakeTemplates struct {
	lastData interface{}
	err      error
}

func (f *fakeTemplates) Render(name string, data interface{}) (string, error) {
	f.lastData = data
	if f.err != nil {
		return "", f.err
	}
	return "<html>receipt</html>", nil
}

type fakePDFRenderer struct {
	err     error
	lastReq *render.RenderRequest
}

func (f *fakePDFRenderer) Render(_ context.Context, req *render.RenderRequest) (*render.RenderResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &render.RenderResult{PDFData: []byte("%PDF-1.4"), PageCount: 1}, nil
}

func (f *fakePDFRenderer) Close() error { return nil }

type fakeQREncoder struct {
	err  error
	path string
}

func (f *fakeQREncoder) Encode(receiptID, payload string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.path != "" {
		return f.path, nil
	}
	return "/tmp/qr_" + receiptID + ".png", nil
}

type fakePDFStore struct {
	err error
}

func (f *fakePDFStore) StorePDF(receiptID string, data []byte) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	filename := "receipt_" + receiptID + ".pdf"
	return filename, "/tmp/" + filename, nil
}

type fakeLogos struct {
	err error
}

func (f *fakeLogos) Resolve(filename string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "/tmp/uploads/" + filename, nil
}

type fakeScheduler struct {
	paths  []string
	delays []time.Duration
}

func (f *fakeScheduler) Schedule(path string, delay time.Duration) {
	f.paths = append(f.paths, path)
	f.delays = append(f.delays, delay)
}

type pipeline struct {
	templates *fakeTemplates
	renderer  *fakePDFRenderer
	qr        *fakeQREncoder
	store     *fakePDFStore
	logos     *fakeLogos
	scheduler *fakeScheduler
	service   *Service
}

func newPipeline() *pipeline {
	p := &pipeline{
		templates: &fakeTemplates{},
		renderer:  &fakePDFRenderer{},
		qr:        &fakeQREncoder{},
		store:     &fakePDFStore{},
		logos:     &fakeLogos{},
		scheduler: &fakeScheduler{},
	}
	p.service = NewService(p.templates, p.renderer, p.qr, p.store, p.logos, p.scheduler, time.Minute, nil)
	return p
}

func sampleReceipt() *receipt.Receipt {
	return &receipt.Receipt{
		BusinessName: "Acme Ltd",
		ClientName:   "Jane Roe",
		Items:        []receipt.LineItem{{Description: "Widget", Quantity: 2, UnitPrice: 10}},
		TaxRate:      10,
		Discount:     5,
	}
}

func TestService_Generate(t *testing.T) {
	p := newPipeline()

	result, err := p.service.Generate(context.Background(), sampleReceipt())
	require.NoError(t, err)

	assert.True(t, receipt.IsValidID(result.ReceiptID))
	assert.Equal(t, "receipt_"+result.ReceiptID+".pdf", result.PDFFilename)
	assert.Equal(t, "/download_pdf/"+result.PDFFilename, result.PDFURL)
	assert.Equal(t, "qr_"+result.ReceiptID+".png", result.QRFilename)
	assert.Equal(t, "/static/qr/"+result.QRFilename, result.QRURL)

	// PDF and QR image both queued for cleanup
	require.Len(t, p.scheduler.paths, 2)
	assert.Equal(t, []time.Duration{time.Minute, time.Minute}, p.scheduler.delays)

	// Totals were derived before rendering
	doc := p.templates.lastData.(document)
	assert.Equal(t, "17.00", doc.Receipt.GrandTotal)

	// Rendering must be able to load the QR image from disk
	assert.True(t, p.renderer.lastReq.EnableLocalFileAccess)
}

func TestService_Generate_KeepsValidID(t *testing.T) {
	p := newPipeline()

	r := sampleReceipt()
	r.ID = "RCP-1A2B3C4D"

	result, err := p.service.Generate(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "RCP-1A2B3C4D", result.ReceiptID)
}

func TestService_Generate_RejectsMalformedID(t *testing.T) {
	p := newPipeline()

	r := sampleReceipt()
	r.ID = "RCP-../../.."

	_, err := p.service.Generate(context.Background(), r)
	require.Error(t, err)

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_INPUT", de.Code)
}

func TestService_Generate_MissingLogoStillSucceeds(t *testing.T) {
	p := newPipeline()
	p.logos.err = shared.NewDomainError("NOT_FOUND", "Logo not found")

	r := sampleReceipt()
	r.LogoFilename = "gone_123.png"

	_, err := p.service.Generate(context.Background(), r)
	require.NoError(t, err)

	doc := p.templates.lastData.(document)
	assert.Empty(t, doc.LogoPath)
}

func TestService_Generate_QRFailureFailsGeneration(t *testing.T) {
	p := newPipeline()
	p.qr.err = errors.New("disk full")

	_, err := p.service.Generate(context.Background(), sampleReceipt())
	require.Error(t, err)

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "GENERATION_FAILED", de.Code)

	// Nothing reached the renderer or the cleanup queue
	assert.Nil(t, p.renderer.lastReq)
	assert.Empty(t, p.scheduler.paths)
}

func TestService_Generate_RendererUnavailable(t *testing.T) {
	p := newPipeline()
	p.renderer.err = render.NewRenderError(render.ErrCodeBinaryNotFound, "wkhtmltopdf binary not found", nil)

	_, err := p.service.Generate(context.Background(), sampleReceipt())
	require.Error(t, err)

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "RENDERER_UNAVAILABLE", de.Code)
	assert.Contains(t, de.Message, "wkhtmltopdf")
}

func TestService_Generate_RenderFailure(t *testing.T) {
	p := newPipeline()
	p.renderer.err = render.NewRenderError(render.ErrCodeRenderFailed, "boom", nil)

	_, err := p.service.Generate(context.Background(), sampleReceipt())
	require.Error(t, err)

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "GENERATION_FAILED", de.Code)
}

func TestService_Generate_DefaultsDateAndCurrency(t *testing.T) {
	p := newPipeline()

	r := sampleReceipt()
	_, err := p.service.Generate(context.Background(), r)
	require.NoError(t, err)

	assert.Equal(t, time.Now().Format("2006-01-02"), r.Date)
	assert.Equal(t, "$", r.CurrencySymbol)
}
