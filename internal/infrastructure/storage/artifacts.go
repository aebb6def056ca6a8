package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/receiptly/backend/internal/domain/shared"
)

// ArtifactStore manages the generated receipt artifacts (PDFs and QR images)
// on the local file system. All lookups are guarded against path traversal:
// a requested filename is a bare name, never a path.
type ArtifactStore struct {
	pdfDir string
	qrDir  string
	logger *zap.Logger
}

// NewArtifactStore creates the store and ensures both directories exist
func NewArtifactStore(pdfDir, qrDir string, logger *zap.Logger) (*ArtifactStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for _, dir := range []string{pdfDir, qrDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
		}
	}
	return &ArtifactStore{
		pdfDir: pdfDir,
		qrDir:  qrDir,
		logger: logger,
	}, nil
}

// PDFFilename returns the canonical PDF filename for a receipt id
func PDFFilename(receiptID string) string {
	return fmt.Sprintf("receipt_%s.pdf", receiptID)
}

// StorePDF writes the rendered PDF for a receipt and returns its filename
// and absolute path.
func (s *ArtifactStore) StorePDF(receiptID string, data []byte) (string, string, error) {
	if len(data) == 0 {
		return "", "", fmt.Errorf("PDF data is empty")
	}

	filename := PDFFilename(receiptID)
	path := filepath.Join(s.pdfDir, filename)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write PDF file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve PDF path: %w", err)
	}

	s.logger.Info("PDF stored",
		zap.String("receipt_id", receiptID),
		zap.String("path", absPath),
		zap.Int("size", len(data)))

	return filename, absPath, nil
}

// ResolvePDF validates filename and returns the absolute path of an existing
// PDF artifact. Returns an INVALID_INPUT domain error for malicious names and
// NOT_FOUND when the artifact no longer exists.
func (s *ArtifactStore) ResolvePDF(filename string) (string, error) {
	return s.resolve(s.pdfDir, filename)
}

// ResolveQR validates filename and returns the absolute path of an existing
// QR image.
func (s *ArtifactStore) ResolveQR(filename string) (string, error) {
	return s.resolve(s.qrDir, filename)
}

func (s *ArtifactStore) resolve(dir, filename string) (string, error) {
	if err := ValidateFilename(filename); err != nil {
		s.logger.Warn("blocked potentially malicious filename", zap.String("filename", filename))
		return "", err
	}

	fullPath := filepath.Join(dir, filename)

	// Verify the resolved path is still under the artifact directory
	absBase, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve base path: %w", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked",
			zap.String("filename", filename),
			zap.String("absPath", absPath))
		return "", shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid filename")
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return "", shared.NewDomainError(shared.ErrNotFound.Code, "File not found or expired")
		}
		return "", fmt.Errorf("failed to stat file: %w", err)
	}

	return absPath, nil
}

// ValidateFilename rejects names with traversal or separator characters.
// A valid artifact filename is a bare name within its directory.
func ValidateFilename(filename string) error {
	if filename == "" {
		return shared.NewDomainError(shared.ErrInvalidInput.Code, "Filename is required")
	}
	if strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return shared.NewDomainError(shared.ErrInvalidInput.Code, "Invalid filename")
	}
	return nil
}
