package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/receiptly/backend/internal/application/settings"
)

// SettingsHandler exports the stored business settings
type SettingsHandler struct {
	BaseHandler
	settings *settings.Service
}

// NewSettingsHandler creates a settings handler
func NewSettingsHandler(settingsService *settings.Service) *SettingsHandler {
	return &SettingsHandler{settings: settingsService}
}

// Export handles POST /export_business_settings
// Business fields in the request body are reprojected straight into the
// downloaded JSON document; with no body, the in-memory profile from the
// last generation is exported instead. Nothing touches the filesystem.
func (h *SettingsHandler) Export(c *gin.Context) {
	var req settings.BusinessSettings
	if err := c.ShouldBindJSON(&req); err != nil || req.IsZero() {
		req = h.settings.Current()
	}

	data, err := settings.Encode(req)
	if err != nil {
		h.InternalError(c, "Failed to export business settings")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="business_settings.json"`)
	c.Data(http.StatusOK, "application/json", data)
}
