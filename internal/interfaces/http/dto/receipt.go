package dto

import (
	"encoding/json"

	"github.com/receiptly/backend/internal/domain/receipt"
)

// GenerateReceiptRequest is the payload of POST /generate_receipt.
// Items arrives as raw JSON so a malformed array degrades to zero items
// instead of rejecting the whole request.
type GenerateReceiptRequest struct {
	ReceiptID       string          `json:"receipt_id"`
	BusinessName    string          `json:"business_name" binding:"required"`
	BusinessAddress string          `json:"business_address"`
	BusinessEmail   string          `json:"business_email" binding:"omitempty,email"`
	BusinessPhone   string          `json:"business_phone"`
	LogoFilename    string          `json:"logo_filename"`
	ClientName      string          `json:"client_name" binding:"required"`
	ClientAddress   string          `json:"client_address"`
	ClientEmail     string          `json:"client_email" binding:"omitempty,email"`
	Items           json.RawMessage `json:"items"`
	TaxRate         float64         `json:"tax_rate" binding:"omitempty,gte=0"`
	Discount        float64         `json:"discount" binding:"omitempty,gte=0"`
	CurrencySymbol  string          `json:"currency_symbol"`
	PaymentStatus   string          `json:"payment_status"`
	Date            string          `json:"date"`
	Notes           string          `json:"notes"`

	// Optional caller-supplied totals; derived from items when absent
	Subtotal   string `json:"subtotal"`
	TaxAmount  string `json:"tax_amount"`
	GrandTotal string `json:"grand_total"`
}

// ToDomain converts the request into a domain receipt
func (r *GenerateReceiptRequest) ToDomain() *receipt.Receipt {
	return &receipt.Receipt{
		ID:              r.ReceiptID,
		BusinessName:    r.BusinessName,
		BusinessAddress: r.BusinessAddress,
		BusinessEmail:   r.BusinessEmail,
		BusinessPhone:   r.BusinessPhone,
		LogoFilename:    r.LogoFilename,
		ClientName:      r.ClientName,
		ClientAddress:   r.ClientAddress,
		ClientEmail:     r.ClientEmail,
		Items:           receipt.ParseLineItems(r.Items),
		TaxRate:         r.TaxRate,
		Discount:        r.Discount,
		CurrencySymbol:  r.CurrencySymbol,
		PaymentStatus:   r.PaymentStatus,
		Date:            r.Date,
		Notes:           r.Notes,
		Subtotal:        r.Subtotal,
		TaxAmount:       r.TaxAmount,
		GrandTotal:      r.GrandTotal,
	}
}

// GenerateReceiptData is the success payload of POST /generate_receipt
type GenerateReceiptData struct {
	ReceiptID   string `json:"receipt_id"`
	PDFFilename string `json:"pdf_filename"`
	PDFURL      string `json:"pdf_url"`
	QRURL       string `json:"qr_url,omitempty"`
}

// UploadLogoData is the success payload of POST /upload_logo
type UploadLogoData struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}
