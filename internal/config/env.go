package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix starts every environment override.
const EnvPrefix = "BLANKGRID_"

// EnvLoader reads settings overrides from environment variables.
//
// Explicitly mapped variables are read first. Any other variable with the
// prefix is converted to a setting path: BLANKGRID_EDITOR_TAB_SIZE becomes
// editor.tabSize.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "BLANKGRID_")
	mapping map[string]string // Env var -> config path
	lookup  func() []string   // os.Environ, replaceable in tests
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(prefix),
		lookup:  os.Environ,
	}
}

// newEnvLoaderFrom creates a loader reading a fixed environment.
func newEnvLoaderFrom(prefix string, environ []string) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.lookup = func() []string { return environ }
	return l
}

// defaultEnvMapping returns the short aliases for common settings.
func defaultEnvMapping(prefix string) map[string]string {
	return map[string]string{
		prefix + "LOG_LEVEL": "logging.level",
		prefix + "LOG_FILE":  "logging.file",
		prefix + "DATA_DIR":  "storage.dir",
		prefix + "ROWS":      "grid.rows",
		prefix + "COLUMNS":   "grid.columns",
	}
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

// Load returns the overrides as a nested map keyed by setting path.
// Empty values are kept; they override with an empty setting.
func (l *EnvLoader) Load() map[string]any {
	config := make(map[string]any)

	for _, env := range l.lookup() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}
		if path == "" {
			continue
		}
		setByPath(config, path, parseValue(value))
	}

	return config
}

// Apply overlays the overrides onto s.
func (l *EnvLoader) Apply(s *Settings) error {
	overrides := l.Load()
	if len(overrides) == 0 {
		return nil
	}

	data, err := yaml.Marshal(overrides)
	if err != nil {
		return fmt.Errorf("encoding environment overrides: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return &ParseError{Path: "<environment>", Err: err}
	}
	return nil
}

// envToPath converts BLANKGRID_EDITOR_TAB_SIZE to editor.tabSize.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(name, "_")
	if len(parts) < 2 || parts[0] == "" {
		return ""
	}

	section := strings.ToLower(parts[0])
	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + setting
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Only values with a decimal point are floats, so integers stay integers.
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}
