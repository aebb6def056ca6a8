package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/receiptly/backend/internal/domain/receipt"
	"github.com/receiptly/backend/internal/infrastructure/currency"
)

// TemplateRenderer renders a named HTML template with data
type TemplateRenderer interface {
	Render(name string, data interface{}) (string, error)
}

// IndexHandler serves the receipt form page
type IndexHandler struct {
	BaseHandler
	templates TemplateRenderer
	catalog   *currency.Catalog
}

// NewIndexHandler creates an index handler
func NewIndexHandler(templates TemplateRenderer, catalog *currency.Catalog) *IndexHandler {
	return &IndexHandler{templates: templates, catalog: catalog}
}

// indexPage is the data bound to the form template
type indexPage struct {
	ReceiptID  string
	Currencies []currency.Currency
}

// Index handles GET /
// Every page load gets a freshly generated receipt id.
func (h *IndexHandler) Index(c *gin.Context) {
	html, err := h.templates.Render("index.html", indexPage{
		ReceiptID:  receipt.NewID(),
		Currencies: h.catalog.All(),
	})
	if err != nil {
		h.InternalError(c, "Failed to render page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
