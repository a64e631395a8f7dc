package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/fredcamaral/slidegen/internal/adapters/secondary/catalog"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/config"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/export"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/llm"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/logging"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/parser"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/storage"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/templates"
	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
	"github.com/fredcamaral/slidegen/internal/domain/services"
)

// defaultCatalogName is looked up under the images dir when no catalog file is configured
const defaultCatalogName = "catalog.yaml"

// app holds the wired services shared by the commands
type app struct {
	cfg           *entities.Config
	logger        *logging.Logger
	db            *gorm.DB
	resolver      *catalog.StaticResolver
	matcher       *services.ImageMatcher
	registry      *templates.Registry
	exporter      *export.Service
	monitor       *monitoring.Monitor
	generation    *services.GenerationService
	presentations *services.PresentationService
}

// appOptions selects the optional parts of the wiring
type appOptions struct {
	// withStore opens the database; commands that never persist skip it
	withStore bool

	// withModel builds the language model client
	withModel bool
}

// loadConfig resolves the effective configuration for a command
func loadConfig(cmd *cobra.Command, overrides ports.ConfigOverrides) (*entities.Config, error) {
	if cmd.Flags().Changed("verbose") {
		verbose, _ := cmd.Flags().GetBool("verbose")
		overrides.Verbose = &verbose
	}
	explicitPath, _ := cmd.Flags().GetString("config")

	workingDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	svc := services.NewConfigService(config.NewTOMLLoader(), config.NewConfigMerger())
	cfg, err := svc.LoadConfig(cmd.Context(), workingDir, explicitPath, overrides)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	return cfg, nil
}

// newApp wires adapters and services from cfg
func newApp(ctx context.Context, cfg *entities.Config, opts appOptions) (a *app, err error) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}

	a = &app{cfg: cfg, logger: logger}
	defer func() {
		if err != nil {
			a.Close()
			a = nil
		}
	}()

	a.resolver, err = catalog.NewStaticResolver(cfg.Assets.GetStaticDir())
	if err != nil {
		return nil, err
	}

	imageCatalog, err := catalog.NewYAMLLoader(catalogPath(cfg)).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading image catalog: %w", err)
	}
	imagesDir := cfg.Assets.GetImagesSubdir()
	if missing := a.resolver.Missing(imageCatalog, imagesDir); len(missing) > 0 {
		logger.Warn("%d catalog images not found under %s: %v", len(missing), filepath.Join(a.resolver.Root(), imagesDir), missing)
	}
	a.matcher = services.NewImageMatcher(imageCatalog, imagesDir, services.WithMatcherLogger(logger.With("matcher")))

	a.registry, err = templates.NewRegistry(cfg.Templates)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	for _, t := range a.registry.MissingFiles() {
		logger.Warn("Template %s: file %s not found", t.ID, t.Path)
	}

	a.exporter, err = export.NewService(cfg.Export.GetOutputDir(), logger.With("export"))
	if err != nil {
		return nil, err
	}

	a.monitor = monitoring.NewMonitor(30 * time.Second)

	var model ports.ModelClient = unavailableModel{}
	if opts.withModel {
		client, err := llm.NewChatClient(cfg.Model)
		if err != nil {
			return nil, fmt.Errorf("configuring model client: %w", err)
		}
		model = client
	}

	a.generation = services.NewGenerationService(
		services.NewPromptBuilder(cfg.Model.SystemPrompt),
		model,
		parser.NewResponseParser(),
		a.matcher,
		services.GenerationSettings{
			Timeout:     cfg.Model.GetTimeout(),
			MaxTokens:   cfg.Model.GetMaxTokens(),
			Temperature: cfg.Model.GetTemperature(),
		},
		logger.With("generation"),
	)

	var repo ports.PresentationRepository = unavailableStore{}
	if opts.withStore {
		a.db, err = storage.Open(cfg.Database)
		if err != nil {
			return nil, err
		}
		repo = storage.NewPresentationRepo(a.db)
	}

	a.presentations = services.NewPresentationService(
		monitoring.InstrumentGenerator(a.generation, a.monitor),
		repo,
		a.registry,
		a.resolver,
		monitoring.InstrumentExporter(a.exporter, a.monitor),
		ports.NewRealTimeProvider(),
		logger.With("presentations"),
	)

	return a, nil
}

// Close releases the database and flushes the logger
func (a *app) Close() {
	if a.db != nil {
		if err := storage.Close(a.db); err != nil {
			a.logger.Warn("Closing database: %v", err)
		}
	}
	a.logger.Sync()
}

// catalogPath returns the configured catalog file, or the one shipped next to the images
func catalogPath(cfg *entities.Config) string {
	if cfg.Assets.CatalogFile != "" {
		return cfg.Assets.CatalogFile
	}

	candidate := filepath.Join(cfg.Assets.GetStaticDir(), filepath.FromSlash(cfg.Assets.GetImagesSubdir()), defaultCatalogName)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return ""
}

var errStoreDisabled = errors.New("deck store not opened for this command")

// unavailableStore stands in for the repository when a command never persists
type unavailableStore struct{}

func (unavailableStore) Save(context.Context, *entities.Presentation) error { return errStoreDisabled }
func (unavailableStore) Load(context.Context, string) (*entities.Presentation, error) {
	return nil, errStoreDisabled
}
func (unavailableStore) ReplaceSlides(context.Context, string, string, []entities.Slide) (*entities.Presentation, error) {
	return nil, errStoreDisabled
}
func (unavailableStore) Delete(context.Context, string) error { return errStoreDisabled }
func (unavailableStore) List(context.Context, int) ([]entities.PresentationSummary, error) {
	return nil, errStoreDisabled
}

// unavailableModel stands in for the model client when a command never generates
type unavailableModel struct{}

func (unavailableModel) Invoke(context.Context, ports.ModelRequest) (string, error) {
	return "", &entities.RequestError{Cause: errors.New("model client not configured for this command")}
}
func (unavailableModel) Name() string { return "none" }
