package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// ConfigService resolves the effective configuration: defaults, global file,
// local or explicit file, environment, then command-line overrides
type ConfigService struct {
	loader ports.ConfigLoader
	merger ports.ConfigMerger
}

// NewConfigService creates a new configuration service
func NewConfigService(loader ports.ConfigLoader, merger ports.ConfigMerger) *ConfigService {
	return &ConfigService{
		loader: loader,
		merger: merger,
	}
}

// LoadConfig loads the complete configuration with hierarchy and overrides
func (s *ConfigService) LoadConfig(ctx context.Context, workingDir, explicitPath string, overrides ports.ConfigOverrides) (*entities.Config, error) {
	configs := []*entities.Config{s.GetDefaultConfig()}

	globalConfig, err := s.loader.LoadGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}
	if globalConfig != nil {
		configs = append(configs, globalConfig)
	}

	var localConfig *entities.Config
	if explicitPath != "" {
		localConfig, err = s.loader.LoadFile(ctx, explicitPath)
	} else {
		localConfig, err = s.loader.LoadLocal(ctx, workingDir)
	}
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}
	if localConfig != nil {
		configs = append(configs, localConfig)
	}

	merged := s.merger.Merge(configs...)
	merged = s.merger.ApplyEnvVars(merged)
	merged = s.merger.ApplyOverrides(merged, overrides)

	if merged == nil {
		return nil, errors.New("config cannot be nil")
	}
	resolvePaths(merged, workingDir)

	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("final config validation: %w", err)
	}

	return merged, nil
}

// GetDefaultConfig returns the default configuration
func (s *ConfigService) GetDefaultConfig() *entities.Config {
	// Merge with no arguments returns defaults
	return s.merger.Merge()
}

// CreateGlobalConfig creates the global configuration file with defaults
func (s *ConfigService) CreateGlobalConfig(ctx context.Context) error {
	return s.loader.CreateDefaults(ctx, s.loader.GetGlobalPath())
}

// resolvePaths anchors relative asset, template and output paths at workingDir
func resolvePaths(cfg *entities.Config, workingDir string) {
	if cfg == nil || workingDir == "" {
		return
	}
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(workingDir, p)
	}

	cfg.Assets.StaticDir = abs(cfg.Assets.GetStaticDir())
	if cfg.Assets.CatalogFile != "" {
		cfg.Assets.CatalogFile = abs(cfg.Assets.CatalogFile)
	}
	cfg.Export.OutputDir = abs(cfg.Export.GetOutputDir())
	for i := range cfg.Templates.Entries {
		cfg.Templates.Entries[i].Path = abs(cfg.Templates.Entries[i].Path)
	}
	if cfg.Database.GetDriver() == "sqlite" && !strings.Contains(cfg.Database.GetDSN(), ":memory:") {
		cfg.Database.DSN = abs(cfg.Database.GetDSN())
	}
}

// Ensure ConfigService implements ports.ConfigService
var _ ports.ConfigService = (*ConfigService)(nil)
