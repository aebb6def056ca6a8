package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receiptly/backend/internal/interfaces/http/dto"
)

func TestSystemEndpoints(t *testing.T) {
	h := NewSystemHandler("receipt-backend")

	engine := gin.New()
	engine.GET("/system/ping", h.Ping)
	engine.GET("/system/info", h.Info)

	t.Run("ping", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/ping", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.True(t, resp.Success)
		assert.Equal(t, "pong", resp.Data.(map[string]interface{})["message"])
	})

	t.Run("info", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/info", nil))

		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "receipt-backend", data["app"])
		assert.NotEmpty(t, data["go_version"])
	})
}
