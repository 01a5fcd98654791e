package corpus

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/nvandessel/textsim/internal/constants"
)

func TestLoadLines(t *testing.T) {
	input := "cosine\r\nsimilarity\n\n  spaced  \n"

	got, err := LoadLines(strings.NewReader(input), false)
	if err != nil {
		t.Fatalf("LoadLines() error = %v", err)
	}
	if want := []string{"cosine", "similarity", "  spaced  "}; !reflect.DeepEqual(got, want) {
		t.Errorf("LoadLines() = %q, want %q", got, want)
	}

	got, err = LoadLines(strings.NewReader(input), true)
	if err != nil {
		t.Fatalf("LoadLines(keepEmpty) error = %v", err)
	}
	if want := []string{"cosine", "similarity", "", "  spaced  "}; !reflect.DeepEqual(got, want) {
		t.Errorf("LoadLines(keepEmpty) = %q, want %q", got, want)
	}
}

func TestLoadYAML(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{"sequence", "- cosine\n- similarity\n- \"\"\n", []string{"cosine", "similarity", ""}, false},
		{"mapping", "candidates:\n  - a\n  - b\n", []string{"a", "b"}, false},
		{"empty document", "", nil, false},
		{"scalar", "just a string\n", nil, true},
		{"invalid", "- [unclosed", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadYAML(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadYAML() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LoadYAML() = %q, want %q", got, tt.want)
			}
		})
	}
}

func createSQLite(t *testing.T, path string) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	stmts := []string{
		`CREATE TABLE candidates (id INTEGER PRIMARY KEY, text TEXT)`,
		`INSERT INTO candidates (text) VALUES ('cosine'), ('similarity'), (NULL), ('')`,
		`CREATE TABLE "odd ""name""" (body TEXT)`,
		`INSERT INTO "odd ""name""" (body) VALUES ('x')`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("exec %q: %v", s, err)
		}
	}
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.db")
	createSQLite(t, path)
	ctx := context.Background()

	got, err := LoadSQLite(ctx, path, "candidates", "text")
	if err != nil {
		t.Fatalf("LoadSQLite() error = %v", err)
	}
	if want := []string{"cosine", "similarity", ""}; !reflect.DeepEqual(got, want) {
		t.Errorf("LoadSQLite() = %q, want %q", got, want)
	}

	got, err = LoadSQLite(ctx, path, `odd "name"`, "body")
	if err != nil {
		t.Fatalf("LoadSQLite(quoted) error = %v", err)
	}
	if want := []string{"x"}; !reflect.DeepEqual(got, want) {
		t.Errorf("LoadSQLite(quoted) = %q, want %q", got, want)
	}

	if _, err := LoadSQLite(ctx, path, "candidates", "missing"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("missing column error = %v, want ErrColumnNotFound", err)
	}

	if _, err := LoadSQLite(ctx, filepath.Join(t.TempDir(), "absent.db"), "candidates", "text"); err == nil {
		t.Error("expected error for missing database file")
	}
}

func writeArrow(t *testing.T, path string, batches [][]string, nullAt int) {
	t.Helper()
	mem := memory.NewGoAllocator()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "text", Type: arrow.BinaryTypes.String, Nullable: true},
	}, nil)

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w, err := ipc.NewFileWriter(f, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		t.Fatalf("arrow writer: %v", err)
	}

	row := 0
	for _, batch := range batches {
		b := array.NewRecordBuilder(mem, schema)
		ids := b.Field(0).(*array.Int64Builder)
		texts := b.Field(1).(*array.StringBuilder)
		for _, s := range batch {
			ids.Append(int64(row))
			if row == nullAt {
				texts.AppendNull()
			} else {
				texts.Append(s)
			}
			row++
		}
		rec := b.NewRecord()
		if err := w.Write(rec); err != nil {
			t.Fatalf("arrow write: %v", err)
		}
		rec.Release()
		b.Release()
	}

	if err := w.Close(); err != nil {
		t.Fatalf("arrow close: %v", err)
	}
}

func TestLoadArrow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.arrow")
	writeArrow(t, path, [][]string{{"cosine", "dropped"}, {"similarity", ""}}, 1)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	got, err := LoadArrow(f, "text")
	if err != nil {
		t.Fatalf("LoadArrow() error = %v", err)
	}
	if want := []string{"cosine", "similarity", ""}; !reflect.DeepEqual(got, want) {
		t.Errorf("LoadArrow() = %q, want %q", got, want)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadArrow(f, "nope"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("missing column error = %v, want ErrColumnNotFound", err)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadArrow(f, "id"); err == nil {
		t.Error("expected error for non-string column")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	txt := filepath.Join(dir, "c.txt")
	if err := os.WriteFile(txt, []byte("a\nb\n"), 0600); err != nil {
		t.Fatal(err)
	}
	yml := filepath.Join(dir, "c.yaml")
	if err := os.WriteFile(yml, []byte("- y1\n- y2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	db := filepath.Join(dir, "c.db")
	createSQLite(t, db)
	arr := filepath.Join(dir, "c.arrow")
	writeArrow(t, arr, [][]string{{"r1", "r2"}}, -1)

	tests := []struct {
		name string
		path string
		opts Options
		want []string
	}{
		{"lines", txt, Options{}, []string{"a", "b"}},
		{"yaml", yml, Options{}, []string{"y1", "y2"}},
		{"sqlite defaults", db, Options{}, []string{"cosine", "similarity", ""}},
		{"arrow", arr, Options{}, []string{"r1", "r2"}},
		{"format override", yml, Options{Format: constants.FormatLines}, []string{"- y1", "- y2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadFile(ctx, tt.path, tt.opts)
			if err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("LoadFile() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := LoadFile(ctx, txt, Options{Format: "csv"}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("unsupported format error = %v", err)
	}
	if _, err := LoadFile(ctx, filepath.Join(dir, "missing.txt"), Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}
