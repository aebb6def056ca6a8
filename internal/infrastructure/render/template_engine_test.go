package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/backend/internal/domain/receipt"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		symbol string
		value  interface{}
		want   string
	}{
		{"$", 1234.5, "$1,234.50"},
		{"$", "17.00", "$17.00"},
		{"€", 1000000, "€1,000,000.00"},
		{"$", -42.1, "-$42.10"},
		{"$", "garbage", "$0.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatMoney(tt.symbol, tt.value))
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2026-08-28", formatDate("2026-08-28"))
	assert.Equal(t, "2026-08-28", formatDate("2026-08-28 14:30:00"))
	assert.Equal(t, "not a date", formatDate("not a date"))
	assert.Equal(t, "", formatDate(nil))
}

func TestTemplateEngine_RenderReceipt(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	data := struct {
		Receipt  *receipt.Receipt
		LogoPath string
		QRPath   string
	}{
		Receipt: &receipt.Receipt{
			ID:             "RCP-1A2B3C4D",
			BusinessName:   "Acme Ltd",
			ClientName:     "Jane Roe",
			Items:          []receipt.LineItem{{Description: "Widget", Quantity: 2, UnitPrice: 10}},
			TaxRate:        10,
			Discount:       5,
			CurrencySymbol: "$",
			PaymentStatus:  "Paid",
			Date:           "2026-08-28",
			Subtotal:       "20.00",
			TaxAmount:      "2.00",
			GrandTotal:     "17.00",
		},
		QRPath: "/tmp/qr_RCP-1A2B3C4D.png",
	}

	html, err := engine.Render("receipt_a4.html", data)
	require.NoError(t, err)

	assert.Contains(t, html, "RCP-1A2B3C4D")
	assert.Contains(t, html, "Acme Ltd")
	assert.Contains(t, html, "Widget")
	assert.Contains(t, html, "$17.00")
	assert.Contains(t, html, "qr_RCP-1A2B3C4D.png")
	// No logo uploaded, no logo element
	assert.NotContains(t, html, "class=\"logo\"")
}

func TestTemplateEngine_RenderIndex(t *testing.T) {
	engine, err := NewTemplateEngine()
	require.NoError(t, err)

	data := struct {
		ReceiptID  string
		Currencies []struct{ Code, Symbol, Name string }
	}{
		ReceiptID: "RCP-DEADBEEF",
		Currencies: []struct{ Code, Symbol, Name string }{
			{"USD", "$", "US Dollar"},
			{"EUR", "€", "Euro"},
		},
	}

	html, err := engine.Render("index.html", data)
	require.NoError(t, err)

	assert.Contains(t, html, "RCP-DEADBEEF")
	assert.Contains(t, html, "US Dollar")
	assert.Contains(t, html, "/generate_receipt")
}
