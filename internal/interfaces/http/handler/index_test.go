package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/backend/internal/infrastructure/currency"
	"github.com/receiptly/backend/internal/infrastructure/render"
)

func TestIndex(t *testing.T) {
	templates, err := render.NewTemplateEngine()
	require.NoError(t, err)

	catalogPath := filepath.Join(t.TempDir(), "currencies.json")
	require.NoError(t, os.WriteFile(catalogPath,
		[]byte(`[{"code":"USD","symbol":"$","name":"US Dollar"},{"code":"EUR","symbol":"€","name":"Euro"}]`), 0644))
	catalog := currency.Load(catalogPath, nil)

	engine := gin.New()
	engine.GET("/", NewIndexHandler(templates, catalog).Index)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Regexp(t, `RCP-[0-9A-F]{8}`, body)
	assert.Contains(t, body, "US Dollar")
	assert.Contains(t, body, "Euro")
}
