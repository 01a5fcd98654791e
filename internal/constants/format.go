package constants

import (
	"path/filepath"
	"strings"
)

// Format identifies how a candidate file is encoded.
type Format string

const (
	// FormatLines is plain text with one candidate per line.
	FormatLines Format = "lines"

	// FormatYAML is a YAML sequence of strings.
	FormatYAML Format = "yaml"

	// FormatSQLite is a SQLite database with a text column.
	FormatSQLite Format = "sqlite"

	// FormatArrow is an Arrow IPC file with a string column.
	FormatArrow Format = "arrow"
)

// Valid returns true if the format is a recognized value.
func (f Format) Valid() bool {
	switch f {
	case FormatLines, FormatYAML, FormatSQLite, FormatArrow:
		return true
	}
	return false
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// FormatFromPath infers a format from a file extension.
// Unknown or missing extensions are treated as plain lines.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	case ".arrow", ".feather", ".ipc":
		return FormatArrow
	default:
		return FormatLines
	}
}
