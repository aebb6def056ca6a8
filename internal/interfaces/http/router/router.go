package router

import (
	"github.com/gin-gonic/gin"

	"github.com/receiptly/backend/internal/interfaces/http/handler"
)

// Handlers bundles everything the route table needs
type Handlers struct {
	Index    *handler.IndexHandler
	Upload   *handler.UploadHandler
	Receipt  *handler.ReceiptHandler
	Download *handler.DownloadHandler
	Settings *handler.SettingsHandler
	System   *handler.SystemHandler
}

// StaticDirs are the public file system mounts
type StaticDirs struct {
	Uploads string // served at /static/uploads
	QR      string // served at /static/qr
}

// Setup registers all routes with the engine. The app keeps its routes at
// the root, there is no versioned API prefix: the form page and its
// endpoints are one surface.
func Setup(engine *gin.Engine, h Handlers, static StaticDirs) {
	engine.GET("/", h.Index.Index)
	engine.POST("/upload_logo", h.Upload.UploadLogo)
	engine.POST("/generate_receipt", h.Receipt.Generate)
	engine.GET("/download_pdf/:filename", h.Download.DownloadPDF)
	engine.GET("/download_receipt/:receipt_id", h.Download.DownloadReceipt)
	engine.POST("/export_business_settings", h.Settings.Export)

	system := engine.Group("/system")
	system.GET("/ping", h.System.Ping)
	system.GET("/info", h.System.Info)

	engine.Static("/static/uploads", static.Uploads)
	engine.Static("/static/qr", static.QR)
}
