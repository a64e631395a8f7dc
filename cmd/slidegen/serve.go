package main

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/fredcamaral/slidegen/internal/adapters/primary/http"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/browser"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/catalog"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/logging"
	"github.com/fredcamaral/slidegen/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

var (
	// Serve command flags
	port         int
	host         string
	staticDir    string
	openBrowser  bool
	watchCatalog bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the deck generation API server",
	Long: `Start the HTTP API that generates, stores, edits and exports decks.
Connected browsers are notified over /ws when a deck changes.

Example:
  slidegen serve
  slidegen serve --port 9000 --static-dir ./static
  slidegen serve --open --watch-catalog`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "Port to serve on (overrides config)")
	serveCmd.Flags().StringVar(&host, "host", "", "Host to bind to (overrides config)")
	serveCmd.Flags().StringVar(&staticDir, "static-dir", "", "Static asset directory (overrides config)")
	serveCmd.Flags().BoolVar(&openBrowser, "open", false, "Open the web UI in a browser once the server is up")
	serveCmd.Flags().BoolVar(&watchCatalog, "watch-catalog", false, "Reload the image catalog when its file changes")
}

// validateServeConfig validates configuration after it's loaded
func validateServeConfig(config *entities.Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Server.Port)
	}

	if strings.ContainsAny(config.Server.Host, " !") {
		return fmt.Errorf("invalid host: %s", config.Server.Host)
	}

	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, ports.ConfigOverrides{
		Host:      host,
		Port:      port,
		StaticDir: staticDir,
	})
	if err != nil {
		return err
	}
	if err := validateServeConfig(cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, appOptions{withStore: true, withModel: true})
	if err != nil {
		return err
	}
	defer a.Close()

	logger := a.logger.With("server")
	server := httpadapter.NewServer(a.presentations, &cfg.Server, logger, httpadapter.Options{
		StaticDir:     cfg.Assets.GetStaticDir(),
		DefaultFormat: cfg.Export.GetDefaultFormat(),
		Metrics:       a.monitor,
	})
	a.presentations.SetEventPublisher(server)

	if err := server.Start(ctx, cfg.Server.Port, cfg.Server.Host); err != nil {
		return err
	}
	a.monitor.Start(ctx)
	defer a.monitor.Stop()
	url := browseURL(server.Addr())
	logger.Success("Server running at: %s", url)
	logger.Info("Model %s, %d templates, %d catalog images, exports in %s",
		cfg.Model.GetModel(), len(a.registry.List()), a.matcher.Size(), a.exporter.OutputDir())

	if watchCatalog {
		stop, err := startCatalogWatch(ctx, a, a.logger.With("catalog"))
		if err != nil {
			logger.Warn("Catalog watch disabled: %v", err)
		} else {
			defer stop()
		}
	}
	if openBrowser {
		if err := browser.NewLauncher().Open(url); err != nil {
			logger.Warn("Could not open browser: %v", err)
		}
	}

	<-ctx.Done()
	logger.Info("Shutting down server...")

	// the command context is already cancelled
	if err := server.Stop(context.Background()); err != nil {
		logger.Error("Error during shutdown: %v", err)
		return err
	}
	return nil
}

// browseURL turns a listener address into a URL a local browser can reach
func browseURL(addr string) string {
	h, p, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if ip := net.ParseIP(h); h == "" || (ip != nil && ip.IsUnspecified()) {
		h = "localhost"
	}
	return "http://" + net.JoinHostPort(h, p) + "/"
}

// startCatalogWatch reloads the matcher whenever the catalog file changes
func startCatalogWatch(ctx context.Context, a *app, logger *logging.Logger) (stop func(), err error) {
	path := catalogPath(a.cfg)
	if path == "" {
		return nil, fmt.Errorf("the built-in catalog has no file to watch")
	}

	w := watcher.NewPollingWatcher(time.Second, 500*time.Millisecond, logger)
	events, err := w.Watch(ctx, path)
	if err != nil {
		return nil, err
	}

	reloader := catalog.NewReloader(catalog.NewYAMLLoader(path), a.matcher.Reload, logger)
	go reloader.Run(ctx, events)

	logger.Info("Watching image catalog %s", path)
	return func() { _ = w.Stop() }, nil
}
