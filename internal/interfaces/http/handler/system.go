package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandler serves operational endpoints
type SystemHandler struct {
	BaseHandler
	appName   string
	startedAt time.Time
}

// NewSystemHandler creates a system handler
func NewSystemHandler(appName string) *SystemHandler {
	return &SystemHandler{
		appName:   appName,
		startedAt: time.Now(),
	}
}

// Ping handles GET /system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// Info handles GET /system/info
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"app":        h.appName,
		"version":    "1.0.0",
		"uptime":     time.Since(h.startedAt).Round(time.Second).String(),
		"go_version": runtime.Version(),
		"goroutines": runtime.NumGoroutine(),
	})
}
