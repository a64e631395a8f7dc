package config

import (
	"os"
	"strconv"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])
	if result == nil {
		result = GetDefaultConfig()
	}

	for i := 1; i < len(configs); i++ {
		if configs[i] != nil {
			m.mergeInto(result, configs[i])
		}
	}

	return result
}

// ApplyOverrides applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyOverrides(config *entities.Config, o ports.ConfigOverrides) *entities.Config {
	result := deepCopy(config)

	if o.Port > 0 {
		result.Server.Port = o.Port
	}
	if o.Host != "" {
		result.Server.Host = o.Host
	}
	if o.StaticDir != "" {
		result.Assets.StaticDir = o.StaticDir
	}
	if o.Driver != "" {
		result.Database.Driver = o.Driver
	}
	if o.DSN != "" {
		result.Database.DSN = o.DSN
	}
	if o.Model != "" {
		result.Model.Model = o.Model
	}
	if o.LogLevel != "" {
		result.Logging.Level = o.LogLevel
	}
	if o.Verbose != nil {
		result.Logging.Verbose = *o.Verbose
	}

	return result
}

// ApplyEnvVars applies environment variable overrides to a configuration
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	// Server configuration from environment
	if host := os.Getenv("SLIDEGEN_HOST"); host != "" {
		result.Server.Host = host
	}
	if portStr := os.Getenv("SLIDEGEN_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil && port > 0 {
			result.Server.Port = port
		}
	}
	if env := os.Getenv("SLIDEGEN_ENV"); env != "" {
		result.Server.Environment = env
	}

	// Model endpoint; the DEEPSEEK_* names are shared with other tooling
	if baseURL := os.Getenv("DEEPSEEK_BASE_URL"); baseURL != "" {
		result.Model.BaseURL = baseURL
	}
	if key := os.Getenv("DEEPSEEK_API_KEY"); key != "" {
		result.Model.APIKey = key
	}
	if model := os.Getenv("DEEPSEEK_MODEL_NAME"); model != "" {
		result.Model.Model = model
	}
	if timeoutStr := os.Getenv("SLIDEGEN_MODEL_TIMEOUT"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil && timeout > 0 {
			result.Model.Timeout = timeout
		}
	}

	// Storage
	if driver := os.Getenv("SLIDEGEN_DB_DRIVER"); driver != "" {
		result.Database.Driver = driver
	}
	if dsn := os.Getenv("SLIDEGEN_DB_DSN"); dsn != "" {
		result.Database.DSN = dsn
	}

	// Assets and output
	if staticDir := os.Getenv("SLIDEGEN_STATIC_DIR"); staticDir != "" {
		result.Assets.StaticDir = staticDir
	}
	if catalog := os.Getenv("SLIDEGEN_CATALOG_FILE"); catalog != "" {
		result.Assets.CatalogFile = catalog
	}
	if outputDir := os.Getenv("SLIDEGEN_OUTPUT_DIR"); outputDir != "" {
		result.Export.OutputDir = outputDir
	}

	if level := os.Getenv("SLIDEGEN_LOG_LEVEL"); level != "" {
		result.Logging.Level = level
	}

	return result
}

// mergeInto merges source configuration into target configuration
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Server config
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
	}
	if source.Server.Host != "" {
		target.Server.Host = source.Server.Host
	}
	if source.Server.ReadTimeout != 0 {
		target.Server.ReadTimeout = source.Server.ReadTimeout
	}
	if source.Server.WriteTimeout != 0 {
		target.Server.WriteTimeout = source.Server.WriteTimeout
	}
	if source.Server.ShutdownTimeout != 0 {
		target.Server.ShutdownTimeout = source.Server.ShutdownTimeout
	}
	if source.Server.Environment != "" {
		target.Server.Environment = source.Server.Environment
	}
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = append([]string(nil), source.Server.CORSOrigins...)
	}
	if source.Server.RateLimit != 0 {
		target.Server.RateLimit = source.Server.RateLimit
	}

	// Model config
	if source.Model.BaseURL != "" {
		target.Model.BaseURL = source.Model.BaseURL
	}
	if source.Model.APIKey != "" {
		target.Model.APIKey = source.Model.APIKey
	}
	if source.Model.Model != "" {
		target.Model.Model = source.Model.Model
	}
	if source.Model.Timeout != 0 {
		target.Model.Timeout = source.Model.Timeout
	}
	if source.Model.MaxTokens != 0 {
		target.Model.MaxTokens = source.Model.MaxTokens
	}
	// nil is unset; an explicit 0 asks for deterministic output
	if source.Model.Temperature != nil {
		target.Model.Temperature = entities.Float64Ptr(*source.Model.Temperature)
	}
	if source.Model.SystemPrompt != "" {
		target.Model.SystemPrompt = source.Model.SystemPrompt
	}

	// Database config
	if source.Database.Driver != "" {
		target.Database.Driver = source.Database.Driver
	}
	if source.Database.DSN != "" {
		target.Database.DSN = source.Database.DSN
	}
	// TOML cannot tell false from unset, so booleans always merge
	target.Database.AutoMigrate = source.Database.AutoMigrate

	// Assets config
	if source.Assets.StaticDir != "" {
		target.Assets.StaticDir = source.Assets.StaticDir
	}
	if source.Assets.ImagesSubdir != "" {
		target.Assets.ImagesSubdir = source.Assets.ImagesSubdir
	}
	if source.Assets.CatalogFile != "" {
		target.Assets.CatalogFile = source.Assets.CatalogFile
	}

	// Templates config; a non-empty entry list replaces the previous one
	if source.Templates.Default != "" {
		target.Templates.Default = source.Templates.Default
	}
	if len(source.Templates.Entries) > 0 {
		target.Templates.Entries = append([]entities.Template(nil), source.Templates.Entries...)
	}

	// Export config
	if source.Export.OutputDir != "" {
		target.Export.OutputDir = source.Export.OutputDir
	}
	if source.Export.DefaultFormat != "" {
		target.Export.DefaultFormat = source.Export.DefaultFormat
	}

	// Logging config
	if source.Logging.Level != "" {
		target.Logging.Level = source.Logging.Level
	}
	if source.Logging.File != "" {
		target.Logging.File = source.Logging.File
	}
	target.Logging.Verbose = source.Logging.Verbose
	target.Logging.JSONFormat = source.Logging.JSONFormat
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = append([]string(nil), src.Server.CORSOrigins...)
	}
	if src.Model.Temperature != nil {
		dst.Model.Temperature = entities.Float64Ptr(*src.Model.Temperature)
	}
	if src.Templates.Entries != nil {
		dst.Templates.Entries = append([]entities.Template(nil), src.Templates.Entries...)
	}

	return &dst
}

// Ensure ConfigMerger implements ports.ConfigMerger
var _ ports.ConfigMerger = (*ConfigMerger)(nil)
