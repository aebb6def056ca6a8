package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/backend/internal/infrastructure/storage"
	"github.com/receiptly/backend/internal/interfaces/http/dto"
)

func newUploadRig(t *testing.T) *gin.Engine {
	t.Helper()

	store, err := storage.NewLogoStore(t.TempDir(), "/static/uploads", 16<<20, nil)
	require.NoError(t, err)

	engine := gin.New()
	engine.POST("/upload_logo", NewUploadHandler(store).UploadLogo)
	return engine
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadLogo(t *testing.T) {
	engine := newUploadRig(t)

	t.Run("accepted image", func(t *testing.T) {
		body, contentType := multipartBody(t, "logo", "logo.png", []byte("fake png"))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/upload_logo", body)
		req.Header.Set("Content-Type", contentType)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Regexp(t, `^logo_\d+\.png$`, data["filename"])
		assert.Regexp(t, `^/static/uploads/logo_\d+\.png$`, data["url"])
	})

	t.Run("disallowed extension", func(t *testing.T) {
		body, contentType := multipartBody(t, "logo", "nasty.exe", []byte("MZ"))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/upload_logo", body)
		req.Header.Set("Content-Type", contentType)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "UNSUPPORTED_FILE_TYPE", decodeError(t, w.Body.Bytes()).Code)
	})

	t.Run("missing file part", func(t *testing.T) {
		body, contentType := multipartBody(t, "other", "logo.png", []byte("x"))
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/upload_logo", body)
		req.Header.Set("Content-Type", contentType)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_INPUT", decodeError(t, w.Body.Bytes()).Code)
	})
}
