package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// ExportFormat represents different export formats
type ExportFormat string

const (
	FormatPowerPoint ExportFormat = "pptx"
	FormatPDF        ExportFormat = "pdf"
	FormatHTML       ExportFormat = "html"
	FormatPNG        ExportFormat = "png"
)

// ExportErrorType categorizes different types of export errors
type ExportErrorType string

const (
	ErrorTypeValidation ExportErrorType = "validation"
	ErrorTypeRenderer   ExportErrorType = "renderer"
	ErrorTypeFilesystem ExportErrorType = "filesystem"
	ErrorTypeTimeout    ExportErrorType = "timeout"
)

// ExportError provides detailed error information with categorization
type ExportError struct {
	Type    ExportErrorType `json:"type"`
	Message string          `json:"message"`
	Details string          `json:"details,omitempty"`
	Code    string          `json:"code,omitempty"`
	Cause   error           `json:"-"`
}

func (e *ExportError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s error: %s - %s", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// Renderer writes a deck in one format
type Renderer interface {
	Render(ctx context.Context, deck *entities.RenderDeck, w io.Writer) error
	Extension() string
	GetMimeType() string
}

// Service implements ports.Exporter on top of registered renderers
type Service struct {
	renderers map[ExportFormat]Renderer
	outputDir string
	logger    ports.Logger
}

// NewService creates a new export service writing into outputDir
func NewService(outputDir string, logger ports.Logger) (*Service, error) {
	if outputDir == "" {
		outputDir = "generated_pptx"
	}

	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return nil, &ExportError{
			Type:    ErrorTypeFilesystem,
			Message: "failed to create output directory",
			Details: outputDir,
			Cause:   err,
		}
	}

	service := &Service{
		renderers: make(map[ExportFormat]Renderer),
		outputDir: outputDir,
		logger:    logger,
	}

	// Register default renderers
	service.RegisterRenderer(FormatPowerPoint, NewPPTXRenderer())
	service.RegisterRenderer(FormatPDF, NewPDFRenderer())
	service.RegisterRenderer(FormatHTML, NewHTMLRenderer())
	service.RegisterRenderer(FormatPNG, NewPNGRenderer())

	return service, nil
}

// RegisterRenderer registers a renderer for a specific format
func (s *Service) RegisterRenderer(format ExportFormat, renderer Renderer) {
	s.renderers[format] = renderer
}

// SupportedFormats returns the registered formats, sorted
func (s *Service) SupportedFormats() []string {
	formats := make([]string, 0, len(s.renderers))
	for f := range s.renderers {
		formats = append(formats, string(f))
	}
	sort.Strings(formats)
	return formats
}

// OutputDir returns the directory exports are written to
func (s *Service) OutputDir() string {
	return s.outputDir
}

// Export renders the deck to <output_dir>/presentation_<id>.<ext>.
// The file is written under a temporary name and renamed once complete.
func (s *Service) Export(ctx context.Context, deck *entities.RenderDeck, format string) (*ports.ExportedFile, error) {
	if deck == nil || deck.ID == "" {
		return nil, &ExportError{Type: ErrorTypeValidation, Message: "deck is required", Code: "INVALID_DECK"}
	}
	if len(deck.Slides) == 0 {
		return nil, &ExportError{Type: ErrorTypeValidation, Message: "deck has no slides", Code: "NO_SLIDES", Cause: entities.ErrNoSlides}
	}

	renderer, ok := s.renderers[ExportFormat(strings.ToLower(format))]
	if !ok {
		return nil, &ExportError{
			Type:    ErrorTypeValidation,
			Message: "unsupported export format",
			Details: format,
			Code:    "UNSUPPORTED_FORMAT",
		}
	}

	name := fmt.Sprintf("presentation_%s.%s", deck.ID, renderer.Extension())
	outputPath := filepath.Join(s.outputDir, name)
	if err := validateFilePath(outputPath); err != nil {
		return nil, &ExportError{Type: ErrorTypeValidation, Message: "invalid output path", Details: err.Error(), Cause: err}
	}

	started := time.Now()
	tmp, err := os.CreateTemp(s.outputDir, ".export-*")
	if err != nil {
		return nil, &ExportError{Type: ErrorTypeFilesystem, Message: "failed to create output file", Details: s.outputDir, Cause: err}
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := renderer.Render(ctx, deck, tmp); err != nil {
		_ = tmp.Close()
		return nil, s.categorizeError(err)
	}
	if err := tmp.Close(); err != nil {
		return nil, &ExportError{Type: ErrorTypeFilesystem, Message: "failed to write output file", Cause: err}
	}
	if err := os.Rename(tmp.Name(), outputPath); err != nil {
		return nil, &ExportError{Type: ErrorTypeFilesystem, Message: "failed to move output file", Details: outputPath, Cause: err}
	}

	size, _ := GetFileSize(outputPath)
	if s.logger != nil {
		s.logger.Debug("Rendered %s (%d slides, %d bytes) in %s", name, len(deck.Slides), size, time.Since(started).Round(time.Millisecond))
	}

	return &ports.ExportedFile{
		Path:     outputPath,
		Name:     name,
		MimeType: renderer.GetMimeType(),
		Size:     size,
	}, nil
}

// categorizeError wraps a renderer failure in an ExportError
func (s *Service) categorizeError(err error) *ExportError {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &ExportError{Type: ErrorTypeTimeout, Message: "export cancelled", Details: err.Error(), Code: "TIMEOUT", Cause: err}
	case errors.Is(err, os.ErrPermission), errors.Is(err, os.ErrNotExist):
		return &ExportError{Type: ErrorTypeFilesystem, Message: "file system error", Details: err.Error(), Code: "FILESYSTEM", Cause: err}
	default:
		return &ExportError{Type: ErrorTypeRenderer, Message: "renderer error", Details: err.Error(), Code: "RENDERER_ERROR", Cause: err}
	}
}

// GetFileSize returns the size of a file in bytes
func GetFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// validateFilePath validates a file path to prevent directory traversal attacks
func validateFilePath(path string) error {
	if path == "" {
		return errors.New("empty path")
	}

	// Check for directory traversal patterns before cleaning
	if strings.Contains(path, "..") {
		return errors.New("path contains directory traversal")
	}

	return nil
}

// Ensure Service implements ports.Exporter
var _ ports.Exporter = (*Service)(nil)
