package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// Options carries the optional parts of the server setup
type Options struct {
	// StaticDir is served under /static/, disabled when empty
	StaticDir string

	// DefaultFormat is the download format used when the query omits one
	DefaultFormat string

	// Metrics receives request counters and backs /api/stats, disabled when nil
	Metrics ports.Metrics
}

// Server implements the HTTPServer interface
type Server struct {
	server        *http.Server
	listener      net.Listener
	connMgr       *ConnectionManager
	limiter       *rateLimiter
	presentations ports.PresentationService
	config        *entities.ServerConfig
	logger        ports.Logger
	metrics       ports.Metrics
	staticDir     string
	defaultFormat string
	cancel        context.CancelFunc
	mu            sync.RWMutex
	running       bool
}

// NewServer creates a new HTTP server
// config must not be nil - use config.GetDefaultConfig().Server if needed
func NewServer(presentations ports.PresentationService, config *entities.ServerConfig, logger ports.Logger, opts Options) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}
	if opts.DefaultFormat == "" {
		opts.DefaultFormat = "pptx"
	}

	return &Server{
		presentations: presentations,
		connMgr:       NewConnectionManager(),
		limiter:       newRateLimiter(config.GetRateLimit(), time.Minute),
		config:        config,
		logger:        logger,
		metrics:       opts.Metrics,
		staticDir:     opts.StaticDir,
		defaultFormat: opts.DefaultFormat,
	}
}

// Start binds the listener and serves in the background
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	go s.connMgr.Run(runCtx)
	go s.limiter.run(runCtx)

	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.GetReadTimeout(),
		WriteTimeout: s.config.GetWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	s.listener = listener
	s.cancel = cancel
	s.running = true

	go func() {
		s.logger.Info("HTTP server listening on %s", listener.Addr())
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Addr returns the bound address, useful when started on port 0
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.connMgr.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	err := s.server.Shutdown(shutdownCtx)
	s.cancel()
	s.running = false

	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// NotifyClients sends an update event to all connected clients
func (s *Server) NotifyClients(event ports.UpdateEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.connMgr.Broadcast(event)
	return nil
}

// Publish forwards deck events to websocket clients; events are dropped while stopped
func (s *Server) Publish(event ports.UpdateEvent) {
	if err := s.NotifyClients(event); err != nil {
		s.logger.Debug("Dropping %s event: %v", event.Type, err)
	}
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Handler builds the routed handler with CORS and the middleware chain applied
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return c.Handler(s.setupRoutes())
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/ws", s.handleWebSocket)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/templates", s.handleTemplates).Methods(http.MethodGet)
	if s.metrics != nil {
		api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	}
	api.HandleFunc("/presentations", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/presentations/generate", s.handleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/presentations/{id}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/presentations/{id}", s.handleUpdate).Methods(http.MethodPut)
	api.HandleFunc("/presentations/{id}", s.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/presentations/{id}/download", s.handleDownload).Methods(http.MethodGet)

	if s.staticDir != "" {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", s.secureFileServer(s.staticDir)))
	}

	router.HandleFunc("/", s.handleHealth).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, sanitizedMessage(http.StatusNotFound))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Apply middleware in order: security -> rate limiting -> logging -> metrics -> recovery
	handler := securityHeadersMiddleware(router)
	handler = s.limiter.middleware(handler)
	handler = createLoggingMiddleware(handler, s.logger)
	if s.metrics != nil {
		handler = createMetricsMiddleware(handler, s.metrics)
	}
	handler = createRecoveryMiddleware(handler, s.logger)

	return handler
}

// secureFileServer creates a secure file server that prevents path traversal
func (s *Server) secureFileServer(root string) http.Handler {
	fs := http.FileServer(http.Dir(root))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "..") {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		absRoot, err := filepath.Abs(root)
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		absPath, err := filepath.Abs(filepath.Join(absRoot, filepath.FromSlash(filepath.Clean("/"+r.URL.Path))))
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if absPath != absRoot && !strings.HasPrefix(absPath, absRoot+string(filepath.Separator)) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		info, err := os.Stat(absPath)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		fs.ServeHTTP(w, r)
	})
}

var (
	_ ports.HTTPServer     = (*Server)(nil)
	_ ports.EventPublisher = (*Server)(nil)
)
