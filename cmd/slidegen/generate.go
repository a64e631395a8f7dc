package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

var (
	// Generate command flags
	saveDeck       bool
	exportFormat   string
	exportTemplate string
	outputPath     string
)

// generateCmd runs the pipeline once from a file or stdin
var generateCmd = &cobra.Command{
	Use:   "generate <input-file|->",
	Short: "Generate and export a deck from a text file",
	Long: `Read source text from a file (or "-" for stdin), generate the slides,
and export them. The deck is stored only with --save.

Example:
  slidegen generate notes.txt
  cat notes.txt | slidegen generate - --format pdf --out talk.pdf
  slidegen generate notes.txt --save --template dark_tech`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().BoolVar(&saveDeck, "save", false, "Store the deck in the database")
	generateCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "Export format: pptx, pdf, html or png (default from config)")
	generateCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template id used for the export")
	generateCmd.Flags().StringVarP(&outputPath, "out", "o", "", "Move the exported file to this path")
}

// readInput reads the source text from a file, or stdin for "-"
func readInput(path string, stdin io.Reader) (string, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		info, statErr := os.Stat(path)
		if statErr != nil {
			return "", fmt.Errorf("accessing input file: %w", statErr)
		}
		if !info.Mode().IsRegular() {
			return "", fmt.Errorf("input path is not a regular file: %s", path)
		}
		data, err = os.ReadFile(path) // #nosec G304 - user supplied input file
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return string(data), nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, ports.ConfigOverrides{})
	if err != nil {
		return err
	}

	text, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, appOptions{withStore: saveDeck, withModel: true})
	if err != nil {
		return err
	}
	defer a.Close()

	if exportTemplate != "" && !a.registry.Exists(exportTemplate) {
		return fmt.Errorf("unknown template %q", exportTemplate)
	}

	var presentation *entities.Presentation
	if saveDeck {
		presentation, err = a.presentations.Create(ctx, text)
	} else {
		presentation, err = a.presentations.Draft(ctx, text)
	}
	if err != nil {
		return err
	}
	if exportTemplate != "" {
		presentation.TemplateID = exportTemplate
	}

	format := strings.ToLower(exportFormat)
	if format == "" {
		format = cfg.Export.GetDefaultFormat()
	}

	file, err := a.presentations.Render(ctx, presentation, format)
	if err != nil {
		return err
	}

	finalPath := file.Path
	if outputPath != "" {
		if finalPath, err = moveFile(file.Path, outputPath); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if saveDeck {
		_, _ = fmt.Fprintf(out, "Saved presentation %s\n", presentation.ID)
	}
	_, _ = fmt.Fprintf(out, "Generated %d slides: %s\n", len(presentation.Slides), finalPath)
	return nil
}

// moveFile renames src to dst, copying when they are on different devices
func moveFile(src, dst string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.Rename(src, dst); err == nil {
		return dst, nil
	}

	in, err := os.Open(src) // #nosec G304 - path produced by the exporter
	if err != nil {
		return "", fmt.Errorf("opening export: %w", err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304 - user supplied output path
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("copying export: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", dst, err)
	}
	_ = os.Remove(src)
	return dst, nil
}
