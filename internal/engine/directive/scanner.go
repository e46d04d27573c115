// Package directive derives the display configuration from directives
// written into the document itself.
//
// Three directives are recognized. Each must be preceded by a single space,
// and the value must be followed by one space, or two spaces for the font:
//
//	r.schema dark|light|auto
//	r.font <any text on one line>
//	r.size <digits and dots>
//
// When a directive appears more than once the last occurrence wins. Missing
// or unparseable directives fall back to the scanner defaults, and the size
// is clamped to a minimum. Every scan produces a complete Config; nothing is
// merged with the previous one.
package directive

import (
	"strconv"
	"strings"
)

// Schema selects the color scheme.
type Schema string

const (
	SchemaAuto  Schema = "auto"
	SchemaDark  Schema = "dark"
	SchemaLight Schema = "light"
)

// Default values used when a directive is absent.
const (
	DefaultFont    = "Geist Mono"
	DefaultSize    = 14.0
	DefaultMinSize = 12.0
)

// Config is the display configuration read from a document.
type Config struct {
	Schema Schema
	Font   string
	Size   float64
}

// DefaultConfig returns the configuration of a document with no directives.
func DefaultConfig() Config {
	return Config{
		Schema: SchemaAuto,
		Font:   DefaultFont,
		Size:   DefaultSize,
	}
}

// Kind identifies a directive.
type Kind int

const (
	KindSchema Kind = iota
	KindFont
	KindSize
)

// String returns the directive name as written in documents.
func (k Kind) String() string {
	switch k {
	case KindSchema:
		return "schema"
	case KindFont:
		return "font"
	case KindSize:
		return "size"
	default:
		return "unknown"
	}
}

// Match is one directive found in a document.
type Match struct {
	Kind   Kind
	Value  string
	Offset int // byte offset of the leading space
}

const prefix = " r."

// Len returns the byte length of the directive text, from its leading space
// to the end of its value.
func (m Match) Len() int {
	return len(prefix) + len(m.Kind.String()) + 1 + len(m.Value)
}

// Scanner scans document text for directives.
type Scanner struct {
	defaults Config
	minSize  float64
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithDefaults sets the values used for absent directives.
func WithDefaults(cfg Config) Option {
	return func(s *Scanner) {
		s.defaults = cfg
	}
}

// WithMinSize sets the lower bound applied to the size directive.
func WithMinSize(size float64) Option {
	return func(s *Scanner) {
		s.minSize = size
	}
}

// NewScanner creates a scanner with the default configuration and minimum size.
func NewScanner(opts ...Option) *Scanner {
	s := &Scanner{
		defaults: DefaultConfig(),
		minSize:  DefaultMinSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the configuration used for absent directives.
func (s *Scanner) Defaults() Config {
	return s.defaults
}

// MinSize returns the size clamp.
func (s *Scanner) MinSize() float64 {
	return s.minSize
}

// Scan reads the whole document and returns the resulting configuration.
func (s *Scanner) Scan(text string) Config {
	cfg := s.defaults

	var schema, font, size *Match
	matches := Find(text)
	for i := range matches {
		m := &matches[i]
		switch m.Kind {
		case KindSchema:
			schema = m
		case KindFont:
			font = m
		case KindSize:
			size = m
		}
	}

	if schema != nil {
		cfg.Schema = Schema(schema.Value)
	}
	if font != nil {
		cfg.Font = font.Value
	}
	if size != nil {
		if v, err := strconv.ParseFloat(size.Value, 64); err == nil {
			cfg.Size = v
		}
	}
	if cfg.Size < s.minSize {
		cfg.Size = s.minSize
	}
	return cfg
}

// span returns the byte length of the directive including its terminating
// spaces.
func (m Match) span() int {
	if m.Kind == KindFont {
		return m.Len() + 2
	}
	return m.Len() + 1
}

// Find returns every directive in text, in document order. Matches of one
// kind never overlap: a directive that starts inside the span of an earlier
// directive of the same kind is part of that directive's value.
func Find(text string) []Match {
	var matches []Match
	var next [3]int
	for i := 0; i < len(text); {
		idx := strings.Index(text[i:], prefix)
		if idx < 0 {
			break
		}
		start := i + idx
		rest := text[start+len(prefix):]
		if m, ok := matchAt(rest); ok && start >= next[m.Kind] {
			m.Offset = start
			matches = append(matches, m)
			next[m.Kind] = start + m.span()
		}
		i = start + 1
	}
	return matches
}

func matchAt(rest string) (Match, bool) {
	switch {
	case strings.HasPrefix(rest, "schema "):
		return matchSchema(rest[len("schema "):])
	case strings.HasPrefix(rest, "font "):
		return matchFont(rest[len("font "):])
	case strings.HasPrefix(rest, "size "):
		return matchSize(rest[len("size "):])
	}
	return Match{}, false
}

func matchSchema(v string) (Match, bool) {
	for _, s := range []Schema{SchemaDark, SchemaLight, SchemaAuto} {
		if strings.HasPrefix(v, string(s)+" ") {
			return Match{Kind: KindSchema, Value: string(s)}, true
		}
	}
	return Match{}, false
}

// matchFont takes the shortest non-empty value on the current line that is
// followed by two spaces.
func matchFont(v string) (Match, bool) {
	if v == "" || v[0] == '\n' {
		return Match{}, false
	}
	end := strings.Index(v[1:], "  ")
	if end < 0 {
		return Match{}, false
	}
	value := v[:end+1]
	if strings.ContainsRune(value, '\n') {
		return Match{}, false
	}
	return Match{Kind: KindFont, Value: value}, true
}

// matchSize takes a run of digits and dots that is followed by a space.
func matchSize(v string) (Match, bool) {
	n := 0
	for n < len(v) && (v[n] == '.' || (v[n] >= '0' && v[n] <= '9')) {
		n++
	}
	if n == 0 || n >= len(v) || v[n] != ' ' {
		return Match{}, false
	}
	return Match{Kind: KindSize, Value: v[:n]}, true
}
