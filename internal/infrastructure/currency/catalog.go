package currency

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"
)

// Currency is one entry of the selectable currency catalog
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// fallbackCatalog is served when the catalog file is missing or malformed
var fallbackCatalog = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
}

// Catalog holds the currency list loaded at startup
type Catalog struct {
	currencies []Currency
}

// Load reads the currency catalog from path. Any failure falls back to the
// built-in single-entry catalog; the error is logged, never returned, so a
// broken catalog file cannot keep the app from starting.
func Load(path string, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read currency catalog, using fallback",
			zap.String("path", path),
			zap.Error(err))
		return &Catalog{currencies: fallbackCatalog}
	}

	var currencies []Currency
	if err := json.Unmarshal(data, &currencies); err != nil {
		logger.Error("failed to parse currency catalog, using fallback",
			zap.String("path", path),
			zap.Error(err))
		return &Catalog{currencies: fallbackCatalog}
	}

	if len(currencies) == 0 {
		logger.Warn("currency catalog is empty, using fallback", zap.String("path", path))
		return &Catalog{currencies: fallbackCatalog}
	}

	logger.Info("currency catalog loaded",
		zap.String("path", path),
		zap.Int("currencies", len(currencies)))

	return &Catalog{currencies: currencies}
}

// All returns the catalog entries in load order
func (c *Catalog) All() []Currency {
	return c.currencies
}
