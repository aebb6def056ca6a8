package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSessionSecret is the insecure development fallback. It is rejected
// when the app runs with env=production.
const DefaultSessionSecret = "dev-secret-key-change-in-production"

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Log       LogConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	Renderer  RendererConfig
	Artifacts ArtifactsConfig
	Session   SessionConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
	MaxBodySize       int64
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSAllowOrigins  []string
	CORSAllowMethods  []string
	CORSAllowHeaders  []string
	TrustedProxies    []string
}

// StorageConfig holds the filesystem layout for uploads and generated
// artifacts. All paths flow through this struct so tests can point the
// components at temporary directories.
type StorageConfig struct {
	UploadDir     string // uploaded logos
	QRDir         string // generated QR images
	PDFDir        string // generated PDF receipts
	CurrencyFile  string // static currency catalog
	MaxUploadSize int64  // per-file upload cap in bytes
}

// RendererConfig holds PDF rendering engine configuration
type RendererConfig struct {
	// Engine selects the rendering backend: "auto", "wkhtmltopdf" or
	// "chromedp". In auto mode wkhtmltopdf is used when its binary can be
	// resolved, otherwise chromedp.
	Engine string
	// BinaryPath overrides wkhtmltopdf binary discovery
	BinaryPath string
	// Timeout for a single render operation
	Timeout time.Duration
	// RemoteURL points chromedp at an already-running browser (optional)
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
}

// ArtifactsConfig holds the ephemeral artifact lifecycle settings
type ArtifactsConfig struct {
	// TTL is how long a generated PDF/QR file stays on disk before the
	// janitor removes it
	TTL time.Duration
}

// SessionConfig holds the session secret read from the environment
type SessionConfig struct {
	Secret string
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with RECEIPT_ prefix (e.g., RECEIPT_SESSION_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("RECEIPT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:       v.GetDuration("http.read_timeout"),
			WriteTimeout:      v.GetDuration("http.write_timeout"),
			IdleTimeout:       v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:    v.GetInt("http.max_header_bytes"),
			MaxBodySize:       v.GetInt64("http.max_body_size"),
			RateLimitEnabled:  v.GetBool("http.rate_limit_enabled"),
			RateLimitRequests: v.GetInt("http.rate_limit_requests"),
			RateLimitWindow:   v.GetDuration("http.rate_limit_window"),
			CORSAllowOrigins:  v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods:  v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders:  v.GetStringSlice("http.cors_allow_headers"),
			TrustedProxies:    v.GetStringSlice("http.trusted_proxies"),
		},
		Storage: StorageConfig{
			UploadDir:     v.GetString("storage.upload_dir"),
			QRDir:         v.GetString("storage.qr_dir"),
			PDFDir:        v.GetString("storage.pdf_dir"),
			CurrencyFile:  v.GetString("storage.currency_file"),
			MaxUploadSize: v.GetInt64("storage.max_upload_size"),
		},
		Renderer: RendererConfig{
			Engine:     v.GetString("renderer.engine"),
			BinaryPath: v.GetString("renderer.binary_path"),
			Timeout:    v.GetDuration("renderer.timeout"),
			RemoteURL:  v.GetString("renderer.remote_url"),
			NoSandbox:  v.GetBool("renderer.no_sandbox"),
		},
		Artifacts: ArtifactsConfig{
			TTL: v.GetDuration("artifacts.ttl"),
		},
		Session: SessionConfig{
			Secret: v.GetString("session.secret"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "receipt-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "5000"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		// PDF rendering can take a while on cold Chrome starts
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.MaxBodySize == 0 {
		cfg.HTTP.MaxBodySize = 16 << 20 // 16MB, matches the upload cap
	}
	if cfg.HTTP.RateLimitRequests == 0 {
		cfg.HTTP.RateLimitRequests = 60
	}
	if cfg.HTTP.RateLimitWindow == 0 {
		cfg.HTTP.RateLimitWindow = time.Minute
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "X-Request-ID"}
	}
	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = "static/uploads"
	}
	if cfg.Storage.QRDir == "" {
		cfg.Storage.QRDir = "static/qr"
	}
	if cfg.Storage.PDFDir == "" {
		cfg.Storage.PDFDir = "static"
	}
	if cfg.Storage.CurrencyFile == "" {
		cfg.Storage.CurrencyFile = "static/currencies.json"
	}
	if cfg.Storage.MaxUploadSize == 0 {
		cfg.Storage.MaxUploadSize = 16 << 20 // 16MB
	}
	if cfg.Renderer.Engine == "" {
		cfg.Renderer.Engine = "auto"
	}
	if cfg.Renderer.Timeout == 0 {
		cfg.Renderer.Timeout = 30 * time.Second
	}
	if cfg.Artifacts.TTL == 0 {
		cfg.Artifacts.TTL = 60 * time.Second
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = DefaultSessionSecret
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	switch c.Renderer.Engine {
	case "auto", "wkhtmltopdf", "chromedp":
	default:
		return fmt.Errorf("renderer.engine must be one of auto, wkhtmltopdf, chromedp; got %q", c.Renderer.Engine)
	}

	if c.Artifacts.TTL < 0 {
		return fmt.Errorf("artifacts.ttl cannot be negative")
	}
	if c.Storage.MaxUploadSize <= 0 {
		return fmt.Errorf("storage.max_upload_size must be positive")
	}

	if c.App.Env == "production" {
		if c.Session.Secret == DefaultSessionSecret {
			return fmt.Errorf("session.secret must be set in production (RECEIPT_SESSION_SECRET)")
		}
		if len(c.Session.Secret) < 32 {
			return fmt.Errorf("session.secret must be at least 32 characters in production")
		}
		for _, origin := range c.HTTP.CORSAllowOrigins {
			if origin == "*" {
				return fmt.Errorf("cors_allow_origins cannot be '*' in production (use specific origins)")
			}
		}
	}

	return nil
}
