package qr

import (
	"fmt"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// defaultSize is the QR image edge length in pixels
const defaultSize = 256

// Encoder writes QR code images for receipts into a fixed output directory.
type Encoder struct {
	outputDir string
	size      int
	logger    *zap.Logger
}

// NewEncoder creates an encoder that writes into outputDir, creating the
// directory if needed.
func NewEncoder(outputDir string, logger *zap.Logger) (*Encoder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create QR output directory: %w", err)
	}
	return &Encoder{
		outputDir: outputDir,
		size:      defaultSize,
		logger:    logger,
	}, nil
}

// Encode renders payload as a PNG QR code named qr_<receiptID>.png and
// returns the absolute path of the written file.
func (e *Encoder) Encode(receiptID, payload string) (string, error) {
	filename := fmt.Sprintf("qr_%s.png", receiptID)
	path := filepath.Join(e.outputDir, filename)

	if err := qrcode.WriteFile(payload, qrcode.Medium, e.size, path); err != nil {
		return "", fmt.Errorf("failed to encode QR code: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve QR path: %w", err)
	}

	e.logger.Debug("QR code written",
		zap.String("receipt_id", receiptID),
		zap.String("path", absPath))

	return absPath, nil
}

// Filename returns the QR image filename for a receipt id
func Filename(receiptID string) string {
	return fmt.Sprintf("qr_%s.png", receiptID)
}
