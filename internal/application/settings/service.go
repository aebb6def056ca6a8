package settings

import (
	"encoding/json"
	"sync"
)

// BusinessSettings is the business profile remembered between receipts.
// It lives in process memory only; exporting it gives the user a JSON file
// they can re-import on the form.
type BusinessSettings struct {
	BusinessName    string  `json:"business_name"`
	BusinessAddress string  `json:"business_address"`
	BusinessEmail   string  `json:"business_email"`
	BusinessPhone   string  `json:"business_phone"`
	LogoFilename    string  `json:"logo_filename"`
	CurrencySymbol  string  `json:"currency_symbol"`
	TaxRate         float64 `json:"tax_rate"`
}

// Service holds the current business settings behind a mutex
type Service struct {
	mu      sync.RWMutex
	current BusinessSettings
}

// NewService returns an empty settings store
func NewService() *Service {
	return &Service{}
}

// Update replaces the stored settings
func (s *Service) Update(settings BusinessSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = settings
}

// Current returns a copy of the stored settings
func (s *Service) Current() BusinessSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Export serializes the stored settings as indented JSON
func (s *Service) Export() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Encode(s.current)
}

// Encode serializes a settings value as indented JSON
func Encode(settings BusinessSettings) ([]byte, error) {
	return json.MarshalIndent(settings, "", "  ")
}

// IsZero reports whether no field is set
func (b BusinessSettings) IsZero() bool {
	return b == BusinessSettings{}
}
