package corpus

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"
)

// arrowSource is an Arrow IPC file or stream.
type arrowSource interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

// LoadArrow reads a string column from every record batch of an Arrow IPC
// file. Streams without the file footer are accepted too. Nulls are skipped.
func LoadArrow(r arrowSource, column string) ([]string, error) {
	mem := memory.NewGoAllocator()

	fr, err := ipc.NewFileReader(r, ipc.WithAllocator(mem))
	if err != nil {
		if _, seekErr := r.Seek(0, io.SeekStart); seekErr != nil {
			return nil, fmt.Errorf("rewinding arrow input: %w", seekErr)
		}
		return loadArrowStream(r, column, mem)
	}
	defer fr.Close()

	idx, err := columnIndex(fr.Schema(), column)
	if err != nil {
		return nil, err
	}

	var out []string
	for i := 0; i < fr.NumRecords(); i++ {
		rec, err := fr.Record(i)
		if err != nil {
			return nil, fmt.Errorf("reading arrow record %d: %w", i, err)
		}
		out, err = appendStrings(out, rec.Column(idx))
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func loadArrowStream(r io.Reader, column string, mem memory.Allocator) ([]string, error) {
	sr, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("opening arrow input: %w", err)
	}
	defer sr.Release()

	idx, err := columnIndex(sr.Schema(), column)
	if err != nil {
		return nil, err
	}

	var out []string
	for sr.Next() {
		out, err = appendStrings(out, sr.Record().Column(idx))
		if err != nil {
			return nil, err
		}
	}
	if err := sr.Err(); err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading arrow stream: %w", err)
	}
	return out, nil
}

func columnIndex(schema *arrow.Schema, column string) (int, error) {
	indices := schema.FieldIndices(column)
	if len(indices) == 0 {
		return 0, fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}
	return indices[0], nil
}

func appendStrings(out []string, col arrow.Array) ([]string, error) {
	switch arr := col.(type) {
	case *array.String:
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				continue
			}
			out = append(out, arr.Value(i))
		}
	case *array.LargeString:
		for i := 0; i < arr.Len(); i++ {
			if arr.IsNull(i) {
				continue
			}
			out = append(out, arr.Value(i))
		}
	default:
		return nil, fmt.Errorf("arrow column has type %s, want utf8", col.DataType())
	}
	return out, nil
}
