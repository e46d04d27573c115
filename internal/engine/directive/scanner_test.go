package directive

import "testing"

func TestScanDefaults(t *testing.T) {
	got := NewScanner().Scan("\n   blank.\n")

	if got != DefaultConfig() {
		t.Errorf("Scan = %+v, want defaults %+v", got, DefaultConfig())
	}
}

func TestScanLastSchemaWins(t *testing.T) {
	text := "  r.schema dark  \n\n  r.schema light  "
	got := NewScanner().Scan(text)

	if got.Schema != SchemaLight {
		t.Errorf("Schema = %q, want light", got.Schema)
	}
}

func TestScanSchemaRequiresSpacing(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Schema
	}{
		{"no leading space", "r.schema dark  ", SchemaAuto},
		{"no trailing space", " r.schema dark", SchemaAuto},
		{"unknown value", " r.schema blue ", SchemaAuto},
		{"valid", " r.schema dark ", SchemaDark},
		{"prefix of longer word", " r.schema darker ", SchemaAuto},
		{"explicit auto", " r.schema light  r.schema auto ", SchemaAuto},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewScanner().Scan(tt.text).Schema; got != tt.want {
				t.Errorf("Schema = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScanFont(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"simple", " r.font Iosevka  ", "Iosevka"},
		{"with inner spaces", " r.font Fira Code Retina  tail", "Fira Code Retina"},
		{"shortest value", " r.font A  B  ", "A"},
		{"single trailing space is not enough", " r.font Iosevka \n", DefaultFont},
		{"must stay on one line", " r.font Ios\nevka  ", DefaultFont},
		{"last wins", " r.font One   r.font Two  ", "Two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewScanner().Scan(tt.text).Font; got != tt.want {
				t.Errorf("Font = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScanSizeClamp(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"below minimum clamps", " r.size 8 ", 12},
		{"above minimum", " r.size 18 ", 18},
		{"fractional", " r.size 13.5 ", 13.5},
		{"unparseable falls back", " r.size 1.2.3 ", DefaultSize},
		{"missing trailing space", " r.size 20", DefaultSize},
		{"letters are not a size", " r.size big ", DefaultSize},
		{"last wins", " r.size 30  r.size 16 ", 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewScanner().Scan(tt.text).Size; got != tt.want {
				t.Errorf("Size = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScanWithOptions(t *testing.T) {
	s := NewScanner(
		WithDefaults(Config{Schema: SchemaDark, Font: "Menlo", Size: 10}),
		WithMinSize(11),
	)

	got := s.Scan("nothing here")
	want := Config{Schema: SchemaDark, Font: "Menlo", Size: 11}
	if got != want {
		t.Errorf("Scan = %+v, want %+v", got, want)
	}
	if s.MinSize() != 11 || s.Defaults().Font != "Menlo" {
		t.Error("accessors do not reflect options")
	}
}

func TestScanReplacesWholesale(t *testing.T) {
	s := NewScanner()

	first := s.Scan(" r.schema dark  r.font Mono  r.size 20 ")
	second := s.Scan(" r.size 16 ")

	if first.Schema != SchemaDark || first.Font != "Mono" || first.Size != 20 {
		t.Fatalf("first scan = %+v", first)
	}
	want := Config{Schema: SchemaAuto, Font: DefaultFont, Size: 16}
	if second != want {
		t.Errorf("second scan = %+v, want %+v", second, want)
	}
}

func TestFindOrderAndOffsets(t *testing.T) {
	text := "ab r.size 14  r.schema dark "
	matches := Find(text)

	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].Kind != KindSize || matches[0].Offset != 2 {
		t.Errorf("first match = %+v", matches[0])
	}
	if matches[1].Kind != KindSchema || matches[1].Value != "dark" {
		t.Errorf("second match = %+v", matches[1])
	}
	if KindFont.String() != "font" {
		t.Errorf("KindFont.String() = %q", KindFont.String())
	}
}

func TestMatchLen(t *testing.T) {
	text := "x r.font Fira Code  y"
	matches := Find(text)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	m := matches[0]
	if got := text[m.Offset : m.Offset+m.Len()]; got != " r.font Fira Code" {
		t.Errorf("directive text = %q", got)
	}
}

func TestFindNestedSameKind(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Config
	}{
		{
			"font inside font value",
			" r.font A r.font B  ",
			Config{Schema: SchemaAuto, Font: "A r.font B", Size: DefaultSize},
		},
		{
			"size sharing its terminator",
			" r.size 20 r.size 30 ",
			Config{Schema: SchemaAuto, Font: DefaultFont, Size: 20},
		},
		{
			"other kinds still match",
			" r.font A r.size 30 x  ",
			Config{Schema: SchemaAuto, Font: "A r.size 30 x", Size: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewScanner().Scan(tt.text); got != tt.want {
				t.Errorf("Scan = %+v, want %+v", got, tt.want)
			}
		})
	}
}
