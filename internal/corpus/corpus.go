// Package corpus loads candidate collections for ranked search from text,
// YAML, SQLite and Arrow IPC files. Loaders are read-only and always return
// candidates in source order, since that order decides ties in search.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nvandessel/textsim/internal/constants"
)

var (
	// ErrUnsupportedFormat is returned for an unknown Format.
	ErrUnsupportedFormat = errors.New("unsupported candidate format")

	// ErrColumnNotFound is returned when the requested column is missing.
	ErrColumnNotFound = errors.New("candidate column not found")
)

// Options controls how a candidate file is read.
type Options struct {
	// Format overrides detection by file extension when set.
	Format constants.Format

	// Table is the SQLite table to read. Defaults to "candidates".
	Table string

	// Column is the SQLite or Arrow column to read. Defaults to "text".
	Column string

	// KeepEmpty keeps empty lines of text files.
	KeepEmpty bool
}

func (o Options) withDefaults(path string) Options {
	if o.Format == "" {
		o.Format = constants.FormatFromPath(path)
	}
	if o.Table == "" {
		o.Table = constants.DefaultCandidateTable
	}
	if o.Column == "" {
		o.Column = constants.DefaultCandidateColumn
	}
	return o
}

// LoadFile reads candidates from path.
func LoadFile(ctx context.Context, path string, opts Options) ([]string, error) {
	opts = opts.withDefaults(path)
	if !opts.Format.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	}

	if opts.Format == constants.FormatSQLite {
		return LoadSQLite(ctx, path, opts.Table, opts.Column)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening candidate file: %w", err)
	}
	defer f.Close()

	switch opts.Format {
	case constants.FormatYAML:
		return LoadYAML(f)
	case constants.FormatArrow:
		return LoadArrow(f, opts.Column)
	default:
		return LoadLines(f, opts.KeepEmpty)
	}
}
