package export

import (
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path/filepath"
	"strings"
)

// imageInfo describes a slide picture that a renderer can embed
type imageInfo struct {
	path   string
	format string // jpeg, png or gif
	width  int
	height int
}

// probeImage reads the image header; ok is false for missing or undecodable files
func probeImage(path string) (imageInfo, bool) {
	if path == "" {
		return imageInfo{}, false
	}
	f, err := os.Open(filepath.Clean(path)) // #nosec G304 - path resolved under the static dir
	if err != nil {
		return imageInfo{}, false
	}
	defer func() { _ = f.Close() }()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		return imageInfo{}, false
	}
	return imageInfo{path: path, format: format, width: cfg.Width, height: cfg.Height}, true
}

// extension returns the file extension matching the decoded format
func (i imageInfo) extension() string {
	if i.format == "jpeg" {
		return "jpeg"
	}
	return strings.ToLower(i.format)
}

// fit scales the image into a maxW x maxH box keeping its aspect ratio
func (i imageInfo) fit(maxW, maxH float64) (w, h float64) {
	scale := maxW / float64(i.width)
	if s := maxH / float64(i.height); s < scale {
		scale = s
	}
	return float64(i.width) * scale, float64(i.height) * scale
}
