package constants

import "testing"

func TestFormat_Valid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		want   bool
	}{
		{"lines is valid", FormatLines, true},
		{"yaml is valid", FormatYAML, true},
		{"sqlite is valid", FormatSQLite, true},
		{"arrow is valid", FormatArrow, true},
		{"empty string is invalid", Format(""), false},
		{"arbitrary string is invalid", Format("csv"), false},
		{"YAML uppercase is invalid", Format("YAML"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.format.Valid(); got != tt.want {
				t.Errorf("Format(%q).Valid() = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"candidates.txt", FormatLines},
		{"candidates", FormatLines},
		{"list.yaml", FormatYAML},
		{"list.YML", FormatYAML},
		{"corpus.db", FormatSQLite},
		{"corpus.sqlite", FormatSQLite},
		{"batch.arrow", FormatArrow},
		{"batch.feather", FormatArrow},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatFromPath(tt.path); got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
