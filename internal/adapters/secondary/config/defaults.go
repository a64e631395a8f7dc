package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// GetDefaultConfig returns the default configuration with environment overrides
func GetDefaultConfig() *entities.Config {
	config := &entities.Config{
		Server: entities.ServerConfig{
			Host:            getEnvOrDefault("SLIDEGEN_HOST", "localhost"),
			Port:            getEnvIntOrDefault("SLIDEGEN_PORT", 8000),
			ReadTimeout:     getEnvIntOrDefault("SLIDEGEN_READ_TIMEOUT", 30),
			WriteTimeout:    getEnvIntOrDefault("SLIDEGEN_WRITE_TIMEOUT", 180),
			ShutdownTimeout: getEnvIntOrDefault("SLIDEGEN_SHUTDOWN_TIMEOUT", 5),
			Environment:     getEnvOrDefault("SLIDEGEN_ENV", "development"),
			CORSOrigins: getEnvSliceOrDefault("SLIDEGEN_CORS_ORIGINS", []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:5173",
				"http://127.0.0.1:5173",
			}),
			RateLimit: getEnvIntOrDefault("SLIDEGEN_RATE_LIMIT", 60),
		},
		Model: entities.ModelConfig{
			BaseURL:     getEnvOrDefault("DEEPSEEK_BASE_URL", "https://api.deepseek.com/v1"),
			APIKey:      getEnvOrDefault("DEEPSEEK_API_KEY", ""),
			Model:       getEnvOrDefault("DEEPSEEK_MODEL_NAME", "deepseek-chat"),
			Timeout:     getEnvIntOrDefault("SLIDEGEN_MODEL_TIMEOUT", 120),
			MaxTokens:   getEnvIntOrDefault("SLIDEGEN_MODEL_MAX_TOKENS", 2000),
			Temperature: entities.Float64Ptr(getEnvFloatOrDefault("SLIDEGEN_MODEL_TEMPERATURE", 0.7)),
		},
		Database: entities.DatabaseConfig{
			Driver:      getEnvOrDefault("SLIDEGEN_DB_DRIVER", "sqlite"),
			DSN:         getEnvOrDefault("SLIDEGEN_DB_DSN", "slidegen.db"),
			AutoMigrate: getEnvBoolOrDefault("SLIDEGEN_DB_AUTO_MIGRATE", true),
		},
		Assets: entities.AssetsConfig{
			StaticDir:    getEnvOrDefault("SLIDEGEN_STATIC_DIR", "static"),
			ImagesSubdir: "images",
			CatalogFile:  getEnvOrDefault("SLIDEGEN_CATALOG_FILE", ""),
		},
		Templates: entities.TemplatesConfig{
			Default: entities.DefaultTemplateID,
			Entries: []entities.Template{
				{ID: "default_simple", Name: "Simple", Path: "templates/default_simple.yaml"},
				{ID: "dark_tech", Name: "Dark Tech", Path: "templates/dark_tech.yaml"},
			},
		},
		Export: entities.ExportConfig{
			OutputDir:     getEnvOrDefault("SLIDEGEN_OUTPUT_DIR", "generated_pptx"),
			DefaultFormat: "pptx",
		},
		Logging: entities.LoggingConfig{
			Level:      getEnvOrDefault("SLIDEGEN_LOG_LEVEL", "info"),
			Verbose:    getEnvBoolOrDefault("SLIDEGEN_LOG_VERBOSE", false),
			JSONFormat: getEnvBoolOrDefault("SLIDEGEN_LOG_JSON", false),
			File:       getEnvOrDefault("SLIDEGEN_LOG_FILE", ""),
		},
	}

	return config
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns environment variable as int or default
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloatOrDefault returns environment variable as float64 or default
func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvBoolOrDefault returns environment variable as bool or default
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvSliceOrDefault returns environment variable as slice or default
func getEnvSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
