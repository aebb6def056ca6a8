package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appreceipt "github.com/receiptly/backend/internal/application/receipt"
	"github.com/receiptly/backend/internal/application/settings"
	"github.com/receiptly/backend/internal/infrastructure/config"
	"github.com/receiptly/backend/internal/infrastructure/currency"
	"github.com/receiptly/backend/internal/infrastructure/logger"
	"github.com/receiptly/backend/internal/infrastructure/qr"
	"github.com/receiptly/backend/internal/infrastructure/render"
	"github.com/receiptly/backend/internal/infrastructure/storage"
	"github.com/receiptly/backend/internal/interfaces/http/handler"
	"github.com/receiptly/backend/internal/interfaces/http/middleware"
	"github.com/receiptly/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("starting receipt backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	// Infrastructure
	templates, err := render.NewTemplateEngine()
	if err != nil {
		return err
	}

	pdfRenderer, err := render.NewRenderer(cfg.Renderer.Engine,
		&render.WkhtmltopdfConfig{
			BinaryPath:     cfg.Renderer.BinaryPath,
			DefaultTimeout: cfg.Renderer.Timeout,
			Logger:         log.Named("wkhtmltopdf"),
		},
		&render.ChromedpConfig{
			DefaultTimeout: cfg.Renderer.Timeout,
			RemoteURL:      cfg.Renderer.RemoteURL,
			NoSandbox:      cfg.Renderer.NoSandbox,
			Logger:         log.Named("chromedp"),
		},
		log)
	if err != nil {
		// The app still starts without a renderer so the form and upload
		// endpoints work; generation reports the missing engine per request.
		log.Warn("PDF renderer unavailable at startup", zap.Error(err))
		pdfRenderer = unavailableRenderer{}
	}
	defer pdfRenderer.Close()

	qrEncoder, err := qr.NewEncoder(cfg.Storage.QRDir, log.Named("qr"))
	if err != nil {
		return err
	}

	artifacts, err := storage.NewArtifactStore(cfg.Storage.PDFDir, cfg.Storage.QRDir, log.Named("artifacts"))
	if err != nil {
		return err
	}

	logos, err := storage.NewLogoStore(cfg.Storage.UploadDir, "/static/uploads", cfg.Storage.MaxUploadSize, log.Named("uploads"))
	if err != nil {
		return err
	}

	janitor := storage.NewJanitor(cfg.Artifacts.TTL, log.Named("janitor"))
	janitor.Start()
	defer janitor.Stop()

	catalog := currency.Load(cfg.Storage.CurrencyFile, log)

	// Application services
	generator := appreceipt.NewService(
		templates, pdfRenderer, qrEncoder, artifacts, logos, janitor,
		cfg.Artifacts.TTL, log.Named("receipts"))
	settingsService := settings.NewService()

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return err
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	router.Setup(engine, router.Handlers{
		Index:    handler.NewIndexHandler(templates, catalog),
		Upload:   handler.NewUploadHandler(logos),
		Receipt:  handler.NewReceiptHandler(generator, settingsService),
		Download: handler.NewDownloadHandler(artifacts),
		Settings: handler.NewSettingsHandler(settingsService),
		System:   handler.NewSystemHandler(cfg.App.Name),
	}, router.StaticDirs{
		Uploads: cfg.Storage.UploadDir,
		QR:      cfg.Storage.QRDir,
	})

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}

// unavailableRenderer stands in when no rendering engine could be set up at
// startup. Every render attempt reports the missing binary.
type unavailableRenderer struct{}

func (unavailableRenderer) Render(context.Context, *render.RenderRequest) (*render.RenderResult, error) {
	return nil, render.NewRenderError(render.ErrCodeBinaryNotFound,
		"no PDF rendering engine is available", nil)
}

func (unavailableRenderer) Close() error { return nil }
