package entities

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultTemplateID is the template picked for new decks when none is configured
const DefaultTemplateID = "dark_tech"

// Template is a registered visual template
type Template struct {
	ID   string `toml:"id" json:"id"`
	Name string `toml:"name" json:"name"`
	Path string `toml:"path" json:"-"`
}

// Validate ensures the template has an id and a file
func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("template id is required")
	}
	if strings.TrimSpace(t.Path) == "" {
		return fmt.Errorf("template %s: path is required", t.ID)
	}
	return nil
}

// Theme holds the visual parameters a template file declares
type Theme struct {
	Name        string `yaml:"name" json:"name"`
	Background  string `yaml:"background" json:"background"`
	TitleColor  string `yaml:"title_color" json:"title_color"`
	BodyColor   string `yaml:"body_color" json:"body_color"`
	AccentColor string `yaml:"accent_color" json:"accent_color"`
	Font        string `yaml:"font" json:"font"`
	TitleSize   int    `yaml:"title_size" json:"title_size"`
	BodySize    int    `yaml:"body_size" json:"body_size"`
}

// DefaultTheme is used when a template cannot be loaded
func DefaultTheme() Theme {
	return Theme{
		Name:        "default_simple",
		Background:  "#FFFFFF",
		TitleColor:  "#1F2937",
		BodyColor:   "#374151",
		AccentColor: "#2563EB",
		Font:        "Calibri",
		TitleSize:   36,
		BodySize:    20,
	}
}

// WithDefaults fills unset fields from DefaultTheme
func (t Theme) WithDefaults() Theme {
	d := DefaultTheme()
	if t.Name == "" {
		t.Name = d.Name
	}
	if t.Background == "" {
		t.Background = d.Background
	}
	if t.TitleColor == "" {
		t.TitleColor = d.TitleColor
	}
	if t.BodyColor == "" {
		t.BodyColor = d.BodyColor
	}
	if t.AccentColor == "" {
		t.AccentColor = d.AccentColor
	}
	if t.Font == "" {
		t.Font = d.Font
	}
	if t.TitleSize <= 0 {
		t.TitleSize = d.TitleSize
	}
	if t.BodySize <= 0 {
		t.BodySize = d.BodySize
	}
	return t
}

// Validate checks that every color is a #RRGGBB hex value
func (t Theme) Validate() error {
	for name, c := range map[string]string{
		"background":   t.Background,
		"title_color":  t.TitleColor,
		"body_color":   t.BodyColor,
		"accent_color": t.AccentColor,
	} {
		if c == "" {
			continue
		}
		if _, _, _, err := ParseHexColor(c); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// ParseHexColor parses #RRGGBB into its components
func ParseHexColor(s string) (r, g, b uint8, err error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid color %q", s)
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(s[2*i])
		lo, ok2 := hexNibble(s[2*i+1])
		if !ok1 || !ok2 {
			return 0, 0, 0, fmt.Errorf("invalid color %q", s)
		}
		v[i] = hi<<4 | lo
	}
	return v[0], v[1], v[2], nil
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// RenderSlide is a slide ready for a renderer; ImagePath is absolute or empty
type RenderSlide struct {
	Title     string
	Points    []string
	Notes     string
	ImagePath string
}

// RenderDeck is the renderer input for a whole presentation
type RenderDeck struct {
	ID     string
	Theme  Theme
	Slides []RenderSlide
}
