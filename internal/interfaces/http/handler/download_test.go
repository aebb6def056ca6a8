package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/backend/internal/infrastructure/storage"
	"github.com/receiptly/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newDownloadRig(t *testing.T) (*gin.Engine, *storage.ArtifactStore) {
	t.Helper()

	store, err := storage.NewArtifactStore(t.TempDir(), t.TempDir(), nil)
	require.NoError(t, err)

	h := NewDownloadHandler(store)
	engine := gin.New()
	engine.GET("/download_pdf/:filename", h.DownloadPDF)
	engine.GET("/download_receipt/:receipt_id", h.DownloadReceipt)
	return engine, store
}

func decodeError(t *testing.T, body []byte) *dto.ErrorInfo {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestDownloadPDF(t *testing.T) {
	engine, store := newDownloadRig(t)

	_, _, err := store.StorePDF("RCP-1A2B3C4D", []byte("%PDF-1.4 content"))
	require.NoError(t, err)

	t.Run("existing file", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/download_pdf/receipt_RCP-1A2B3C4D.pdf", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt_RCP-1A2B3C4D.pdf")
		assert.Equal(t, "%PDF-1.4 content", w.Body.String())
	})

	t.Run("missing file is 404", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/download_pdf/receipt_RCP-00000000.pdf", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decodeError(t, w.Body.Bytes()).Code)
	})

	t.Run("traversal names are 400", func(t *testing.T) {
		for _, name := range []string{"..", "a..b.pdf", `back\slash.pdf`} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/download_pdf/"+name, nil)
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, "filename %q", name)
			assert.Equal(t, "INVALID_INPUT", decodeError(t, w.Body.Bytes()).Code)
		}
	})

	t.Run("traversal rejected even when target exists", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/download_pdf/..%2F..%2Fetc%2Fpasswd", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDownloadReceipt(t *testing.T) {
	engine, store := newDownloadRig(t)

	_, pdfPath, err := store.StorePDF("RCP-1A2B3C4D", []byte("%PDF-1.4"))
	require.NoError(t, err)

	t.Run("valid id with live artifact", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/download_receipt/RCP-1A2B3C4D", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "receipt_RCP-1A2B3C4D.pdf")
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		for _, id := range []string{"RCP-12", "not-an-id", "RCP-1a2b3c4d"} {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/download_receipt/"+id, nil)
			engine.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, "id %q", id)
		}
	})

	t.Run("expired artifact is 404", func(t *testing.T) {
		require.NoError(t, os.Remove(pdfPath))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/download_receipt/RCP-1A2B3C4D", nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDownloadPDF_DeletedByJanitor(t *testing.T) {
	engine, store := newDownloadRig(t)

	_, pdfPath, err := store.StorePDF("RCP-DEADBEEF", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(filepath.Clean(pdfPath)))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/download_pdf/receipt_RCP-DEADBEEF.pdf", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
