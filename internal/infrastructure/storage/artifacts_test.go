package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/backend/internal/domain/shared"
)

func newTestStore(t *testing.T) *ArtifactStore {
	t.Helper()
	store, err := NewArtifactStore(t.TempDir(), t.TempDir(), nil)
	require.NoError(t, err)
	return store
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		valid    bool
	}{
		{"plain pdf", "receipt_RCP-1A2B3C4D.pdf", true},
		{"plain png", "qr_RCP-1A2B3C4D.png", true},
		{"empty", "", false},
		{"dotdot", "..", false},
		{"traversal", "../../etc/passwd", false},
		{"embedded dotdot", "a..b.pdf", false},
		{"forward slash", "dir/file.pdf", false},
		{"backslash", `dir\file.pdf`, false},
		{"absolute", "/etc/passwd", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				var de *shared.DomainError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, "INVALID_INPUT", de.Code)
			}
		})
	}
}

func TestArtifactStore_StoreAndResolvePDF(t *testing.T) {
	store := newTestStore(t)

	filename, absPath, err := store.StorePDF("RCP-1A2B3C4D", []byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, "receipt_RCP-1A2B3C4D.pdf", filename)
	assert.True(t, filepath.IsAbs(absPath))

	resolved, err := store.ResolvePDF(filename)
	require.NoError(t, err)
	assert.Equal(t, absPath, resolved)
}

func TestArtifactStore_StorePDF_EmptyData(t *testing.T) {
	store := newTestStore(t)
	_, _, err := store.StorePDF("RCP-1A2B3C4D", nil)
	assert.Error(t, err)
}

func TestArtifactStore_ResolvePDF_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.ResolvePDF("receipt_RCP-00000000.pdf")
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "NOT_FOUND", de.Code)
}

func TestArtifactStore_ResolvePDF_Traversal(t *testing.T) {
	store := newTestStore(t)

	// The guard fires even when the target exists outside the directory
	outside := filepath.Join(filepath.Dir(store.pdfDir), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0644))

	for _, name := range []string{"../secret.txt", `..\secret.txt`, "/etc/passwd"} {
		_, err := store.ResolvePDF(name)
		require.Error(t, err, "filename %q should be rejected", name)
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_INPUT", de.Code)
	}
}

func TestArtifactStore_ResolveQR(t *testing.T) {
	store := newTestStore(t)

	path := filepath.Join(store.qrDir, "qr_RCP-1A2B3C4D.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 'P', 'N', 'G'}, 0644))

	resolved, err := store.ResolveQR("qr_RCP-1A2B3C4D.png")
	require.NoError(t, err)
	assert.Equal(t, "qr_RCP-1A2B3C4D.png", filepath.Base(resolved))
}
