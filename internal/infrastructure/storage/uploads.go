package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/receiptly/backend/internal/domain/shared"
)

// allowedLogoExtensions are the image types accepted for logo uploads
var allowedLogoExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
}

// unsafeFilenameChars matches everything outside the conservative set kept
// during sanitization
var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// LogoStore saves uploaded business logos into a dedicated directory.
// Stored names carry a unix-timestamp suffix so repeated uploads of the same
// file never collide.
type LogoStore struct {
	dir     string
	baseURL string
	maxSize int64
	logger  *zap.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewLogoStore creates the store and ensures the upload directory exists.
// baseURL is the public URL prefix the stored files are served under.
func NewLogoStore(dir, baseURL string, maxSize int64, logger *zap.Logger) (*LogoStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LogoStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		maxSize: maxSize,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// SaveResult describes a stored logo
type SaveResult struct {
	Filename string
	URL      string
	Size     int64
}

// Save validates and persists an uploaded logo. The original name is
// sanitized and suffixed with the current unix timestamp before the
// extension. Files with extensions outside the allowlist are rejected
// without writing anything.
func (s *LogoStore) Save(fileHeader *multipart.FileHeader) (*SaveResult, error) {
	if fileHeader == nil || fileHeader.Filename == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "No file selected")
	}
	if s.maxSize > 0 && fileHeader.Size > s.maxSize {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
			fmt.Sprintf("File exceeds the maximum size of %d bytes", s.maxSize))
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedLogoExtensions[ext] {
		return nil, shared.NewDomainError(shared.ErrUnsupportedFileType.Code,
			"File type not allowed. Use png, jpg, jpeg, gif or svg")
	}

	filename, path := s.uniqueStoredName(fileHeader.Filename, ext)

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create logo file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to write logo file: %w", err)
	}

	s.logger.Info("logo uploaded",
		zap.String("filename", filename),
		zap.Int64("size", size))

	return &SaveResult{
		Filename: filename,
		URL:      s.baseURL + "/" + filename,
		Size:     size,
	}, nil
}

// Resolve validates filename and returns the absolute path of a stored logo.
// Used when embedding the logo into the rendered PDF.
func (s *LogoStore) Resolve(filename string) (string, error) {
	if err := ValidateFilename(filename); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, filename)
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve logo path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return "", shared.NewDomainError(shared.ErrNotFound.Code, "Logo not found")
		}
		return "", fmt.Errorf("failed to stat logo: %w", err)
	}

	return absPath, nil
}

// uniqueStoredName builds the on-disk name: sanitized base, timestamp
// suffix, original extension. When an upload in the same second already
// claimed the name, a counter is appended so nothing gets overwritten.
func (s *LogoStore) uniqueStoredName(original, ext string) (string, string) {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	if base == "" || base == "." {
		base = "logo"
	}
	ts := s.now().Unix()

	filename := fmt.Sprintf("%s_%d%s", base, ts, ext)
	path := filepath.Join(s.dir, filename)
	for n := 1; ; n++ {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return filename, path
		}
		filename = fmt.Sprintf("%s_%d_%d%s", base, ts, n, ext)
		path = filepath.Join(s.dir, filename)
	}
}
