package entities

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Model     ModelConfig     `toml:"model"`
	Database  DatabaseConfig  `toml:"database"`
	Assets    AssetsConfig    `toml:"assets"`
	Templates TemplatesConfig `toml:"templates"`
	Export    ExportConfig    `toml:"export"`
	Logging   LoggingConfig   `toml:"logging"`
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Model.Validate(); err != nil {
		return fmt.Errorf("model config: %w", err)
	}

	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	if err := c.Assets.Validate(); err != nil {
		return fmt.Errorf("assets config: %w", err)
	}

	if err := c.Templates.Validate(); err != nil {
		return fmt.Errorf("templates config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	ReadTimeout     int      `toml:"read_timeout"`
	WriteTimeout    int      `toml:"write_timeout"`
	ShutdownTimeout int      `toml:"shutdown_timeout"`
	Environment     string   `toml:"environment"`
	CORSOrigins     []string `toml:"cors_origins"`
	RateLimit       int      `toml:"rate_limit"`
}

// Validate validates server configuration
func (s ServerConfig) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return errors.New("port must be between 0 and 65535")
	}

	if s.Host != "" {
		if ip := net.ParseIP(s.Host); ip == nil {
			if _, err := net.LookupHost(s.Host); err != nil {
				return fmt.Errorf("invalid host: %w", err)
			}
		}
	}

	if s.ReadTimeout < 0 || s.WriteTimeout < 0 || s.ShutdownTimeout < 0 {
		return errors.New("timeouts must be non-negative")
	}

	if s.RateLimit < 0 {
		return errors.New("rate limit must be non-negative")
	}

	for _, origin := range s.CORSOrigins {
		if origin == "" {
			return errors.New("CORS origin cannot be empty")
		}
		if origin == "*" {
			continue
		}
		if len(origin) < 7 || (!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://")) {
			return fmt.Errorf("invalid CORS origin format: %s (must start with http:// or https://)", origin)
		}
	}

	return nil
}

// GetReadTimeout returns the read timeout as a duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

// GetWriteTimeout returns the write timeout as a duration.
// Generation waits on the model, so the default is generous.
func (s ServerConfig) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 180 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

// GetShutdownTimeout returns the shutdown timeout as a duration
func (s ServerConfig) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

// GetCORSOrigins returns CORS origins with defaults if empty
func (s ServerConfig) GetCORSOrigins() []string {
	if len(s.CORSOrigins) == 0 {
		return []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}
	}
	return s.CORSOrigins
}

// GetRateLimit returns requests per minute per client
func (s ServerConfig) GetRateLimit() int {
	if s.RateLimit <= 0 {
		return 60
	}
	return s.RateLimit
}

// IsDevelopment returns true if the server is running in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development" || s.Environment == ""
}

// ModelConfig describes the OpenAI-compatible chat endpoint used for generation
type ModelConfig struct {
	BaseURL      string   `toml:"base_url"`
	APIKey       string   `toml:"api_key"`
	Model        string   `toml:"model"`
	Timeout      int      `toml:"timeout"`
	MaxTokens    int      `toml:"max_tokens"`
	Temperature  *float64 `toml:"temperature,omitempty"`
	SystemPrompt string   `toml:"system_prompt"`
}

// Validate validates model configuration
func (m ModelConfig) Validate() error {
	if m.BaseURL != "" && !strings.HasPrefix(m.BaseURL, "http://") && !strings.HasPrefix(m.BaseURL, "https://") {
		return fmt.Errorf("base url must start with http:// or https://: %s", m.BaseURL)
	}

	if m.Timeout < 0 {
		return errors.New("timeout must be non-negative")
	}

	if m.MaxTokens < 0 {
		return errors.New("max tokens must be non-negative")
	}

	if m.Temperature != nil && (*m.Temperature < 0 || *m.Temperature > 2) {
		return errors.New("temperature must be between 0 and 2")
	}

	return nil
}

// GetTimeout returns the model call timeout as a duration
func (m ModelConfig) GetTimeout() time.Duration {
	if m.Timeout <= 0 {
		return 120 * time.Second
	}
	return time.Duration(m.Timeout) * time.Second
}

// GetTemperature returns the sampling temperature; unset means 0.7, an explicit 0 is kept
func (m ModelConfig) GetTemperature() float64 {
	if m.Temperature == nil {
		return 0.7
	}
	return *m.Temperature
}

// GetMaxTokens returns the completion token cap with default
func (m ModelConfig) GetMaxTokens() int {
	if m.MaxTokens <= 0 {
		return 2000
	}
	return m.MaxTokens
}

// GetModel returns the model name with default
func (m ModelConfig) GetModel() string {
	if m.Model == "" {
		return "deepseek-chat"
	}
	return m.Model
}

// GetBaseURL returns the endpoint base URL with default
func (m ModelConfig) GetBaseURL() string {
	if m.BaseURL == "" {
		return "https://api.deepseek.com/v1"
	}
	return m.BaseURL
}

// DatabaseConfig selects and configures the deck store
type DatabaseConfig struct {
	Driver      string `toml:"driver"` // postgres, sqlite
	DSN         string `toml:"dsn"`
	AutoMigrate bool   `toml:"auto_migrate"`
}

// Validate validates database configuration
func (d DatabaseConfig) Validate() error {
	switch d.Driver {
	case "", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver: %s (must be postgres or sqlite)", d.Driver)
	}
	if d.Driver == "postgres" && d.DSN == "" {
		return errors.New("postgres driver requires a dsn")
	}
	return nil
}

// GetDriver returns the driver with default
func (d DatabaseConfig) GetDriver() string {
	if d.Driver == "" {
		return "sqlite"
	}
	return d.Driver
}

// GetDSN returns the DSN, defaulting to a local sqlite file
func (d DatabaseConfig) GetDSN() string {
	if d.DSN == "" && d.GetDriver() == "sqlite" {
		return "slidegen.db"
	}
	return d.DSN
}

// AssetsConfig locates the static directory and the image catalog
type AssetsConfig struct {
	StaticDir    string `toml:"static_dir"`
	ImagesSubdir string `toml:"images_subdir"`
	CatalogFile  string `toml:"catalog_file"`
}

// Validate validates assets configuration
func (a AssetsConfig) Validate() error {
	if strings.Contains(a.ImagesSubdir, "..") {
		return errors.New("images subdir must stay inside the static dir")
	}
	return nil
}

// GetStaticDir returns the static directory with default
func (a AssetsConfig) GetStaticDir() string {
	if a.StaticDir == "" {
		return "static"
	}
	return a.StaticDir
}

// GetImagesSubdir returns the images prefix used in slide image paths
func (a AssetsConfig) GetImagesSubdir() string {
	if a.ImagesSubdir == "" {
		return "images"
	}
	return filepath.ToSlash(a.ImagesSubdir)
}

// TemplatesConfig lists the templates available for export
type TemplatesConfig struct {
	Default string     `toml:"default"`
	Entries []Template `toml:"entries"`
}

// Validate validates templates configuration
func (t TemplatesConfig) Validate() error {
	seen := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		if err := e.Validate(); err != nil {
			return err
		}
		if seen[e.ID] {
			return fmt.Errorf("duplicate template id: %s", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// ExportConfig controls where rendered files go
type ExportConfig struct {
	OutputDir     string `toml:"output_dir"`
	DefaultFormat string `toml:"default_format"`
}

// GetOutputDir returns the output directory with default
func (e ExportConfig) GetOutputDir() string {
	if e.OutputDir == "" {
		return "generated_pptx"
	}
	return e.OutputDir
}

// GetDefaultFormat returns the download format used when none is requested
func (e ExportConfig) GetDefaultFormat() string {
	if e.DefaultFormat == "" {
		return "pptx"
	}
	return e.DefaultFormat
}

// LogLevel represents logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `toml:"level"`       // debug, info, warn, error
	Verbose    bool   `toml:"verbose"`     // Enable verbose logging
	JSONFormat bool   `toml:"json_format"` // Output logs in JSON format
	File       string `toml:"file"`        // Log to file (optional)
}

// Validate validates logging configuration
func (l LoggingConfig) Validate() error {
	switch LogLevel(l.Level) {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, "":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", l.Level)
	}

	if l.File != "" {
		if !filepath.IsAbs(l.File) {
			return errors.New("log file path must be absolute")
		}

		dir := filepath.Dir(l.File)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("log file directory does not exist: %s", dir)
		}
	}

	return nil
}

// GetLevel returns the log level with default
func (l LoggingConfig) GetLevel() LogLevel {
	if l.Level == "" {
		return LogLevelInfo
	}
	return LogLevel(l.Level)
}
