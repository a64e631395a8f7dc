package config

import (
	"io"

	"github.com/BurntSushi/toml"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// Encode writes cfg as indented TOML
func Encode(w io.Writer, cfg *entities.Config) error {
	encoder := toml.NewEncoder(w)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

// Redacted returns a copy of cfg safe to print
func Redacted(cfg *entities.Config) *entities.Config {
	out := deepCopy(cfg)
	if out != nil && out.Model.APIKey != "" {
		out.Model.APIKey = "********"
	}
	return out
}
