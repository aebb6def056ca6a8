package receipt

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// LineItem is a single billed row on a receipt. Quantity and unit price are
// expected to be non-negative; negative values are clamped to zero during
// calculation rather than rejected.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"price"`
}

// Amount returns quantity × unit price as an exact decimal.
func (li LineItem) Amount() decimal.Decimal {
	qty := decimal.NewFromFloat(li.Quantity)
	price := decimal.NewFromFloat(li.UnitPrice)
	if qty.IsNegative() {
		qty = decimal.Zero
	}
	if price.IsNegative() {
		price = decimal.Zero
	}
	return qty.Mul(price)
}

// Receipt carries everything needed to produce the rendered document.
// Totals are strings because they are display values fixed to two decimals;
// when the caller leaves them empty they are derived from the line items.
type Receipt struct {
	ID              string     `json:"receipt_id"`
	BusinessName    string     `json:"business_name"`
	BusinessAddress string     `json:"business_address"`
	BusinessEmail   string     `json:"business_email"`
	BusinessPhone   string     `json:"business_phone"`
	LogoFilename    string     `json:"logo_filename"`
	ClientName      string     `json:"client_name"`
	ClientAddress   string     `json:"client_address"`
	ClientEmail     string     `json:"client_email"`
	Items           []LineItem `json:"items"`
	TaxRate         float64    `json:"tax_rate"`
	Discount        float64    `json:"discount"`
	CurrencySymbol  string     `json:"currency_symbol"`
	PaymentStatus   string     `json:"payment_status"`
	Date            string     `json:"date"`
	Notes           string     `json:"notes"`

	Subtotal   string `json:"subtotal"`
	TaxAmount  string `json:"tax_amount"`
	GrandTotal string `json:"grand_total"`
}

// Totals holds the derived monetary amounts for a receipt.
type Totals struct {
	Subtotal   decimal.Decimal
	TaxAmount  decimal.Decimal
	GrandTotal decimal.Decimal
}

// SubtotalString returns the subtotal fixed to two decimals.
func (t Totals) SubtotalString() string { return t.Subtotal.StringFixed(2) }

// TaxAmountString returns the tax amount fixed to two decimals.
func (t Totals) TaxAmountString() string { return t.TaxAmount.StringFixed(2) }

// GrandTotalString returns the grand total fixed to two decimals.
func (t Totals) GrandTotalString() string { return t.GrandTotal.StringFixed(2) }

// CalculateTotals derives subtotal, tax amount and grand total from the line
// items. The grand total is clamped at zero so a large discount can never
// produce a negative receipt.
func CalculateTotals(items []LineItem, taxRate, discount float64) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount())
	}

	rate := decimal.NewFromFloat(taxRate)
	if rate.IsNegative() {
		rate = decimal.Zero
	}
	tax := subtotal.Mul(rate).Div(decimal.NewFromInt(100))

	disc := decimal.NewFromFloat(discount)
	if disc.IsNegative() {
		disc = decimal.Zero
	}

	grand := subtotal.Add(tax).Sub(disc)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	return Totals{
		Subtotal:   subtotal,
		TaxAmount:  tax,
		GrandTotal: grand,
	}
}

// ParseLineItems decodes a raw JSON line-item array. A payload that is not a
// well-formed array is treated as zero items rather than an error.
func ParseLineItems(raw json.RawMessage) []LineItem {
	if len(raw) == 0 {
		return nil
	}
	var items []LineItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil
	}
	return items
}

// ApplyTotals fills in any totals the caller did not supply. Caller-provided
// values are kept verbatim; the source never re-validated them either.
func (r *Receipt) ApplyTotals() {
	if r.Subtotal != "" && r.TaxAmount != "" && r.GrandTotal != "" {
		return
	}
	totals := CalculateTotals(r.Items, r.TaxRate, r.Discount)
	if r.Subtotal == "" {
		r.Subtotal = totals.SubtotalString()
	}
	if r.TaxAmount == "" {
		r.TaxAmount = totals.TaxAmountString()
	}
	if r.GrandTotal == "" {
		r.GrandTotal = totals.GrandTotalString()
	}
}

// QRPayload is the reduced projection of a receipt that gets encoded into
// the QR image.
type QRPayload struct {
	ReceiptID    string `json:"receipt_id"`
	BusinessName string `json:"business_name"`
	ClientName   string `json:"client_name"`
	Total        string `json:"total"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

// QRPayload builds the QR projection for this receipt.
func (r *Receipt) QRPayload() QRPayload {
	return QRPayload{
		ReceiptID:    r.ID,
		BusinessName: r.BusinessName,
		ClientName:   r.ClientName,
		Total:        r.GrandTotal,
		Date:         r.Date,
		Status:       r.PaymentStatus,
	}
}

// Encode serializes the payload to its canonical JSON string form.
func (p QRPayload) Encode() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
