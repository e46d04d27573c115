package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a settings file syntax.
type Format int

const (
	// FormatTOML is the default settings syntax.
	FormatTOML Format = iota
	// FormatYAML is accepted for .yaml and .yml files.
	FormatYAML
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load builds settings from the defaults, the file at path (if any) and
// the environment, then validates them. An empty path or a missing file
// leaves the defaults in place.
func Load(path string) (Settings, error) {
	return LoadWithEnv(path, NewEnvLoader(EnvPrefix))
}

// LoadWithEnv is Load with a caller-supplied environment loader. A nil
// loader skips the environment layer.
func LoadWithEnv(path string, env *EnvLoader) (Settings, error) {
	s := Default()

	if path != "" {
		if err := loadFile(&s, path); err != nil {
			return Settings{}, err
		}
	}

	if env != nil {
		if err := env.Apply(&s); err != nil {
			return Settings{}, err
		}
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func loadFile(s *Settings, path string) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	return Decode(path, data, format, s)
}

// Decode parses data onto s. Keys missing from data keep their current
// values. source names the data in errors.
func Decode(source string, data []byte, format Format, s *Settings) error {
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, s); err != nil {
			pe := &ParseError{Path: source, Err: err}
			var de *toml.DecodeError
			if errors.As(err, &de) {
				pe.Line, pe.Column = de.Position()
			}
			return pe
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, s); err != nil {
			return &ParseError{Path: source, Err: err}
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return nil
}

// Encode renders s in the given format.
func Encode(s Settings, format Format) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(s)
	case FormatYAML:
		return yaml.Marshal(s)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}
