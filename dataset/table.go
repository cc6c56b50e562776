// Package dataset loads tabular CSV data into named-column tables.
//
// Values are kept as strings: carprep only works with categorical columns,
// and missing cells are recognised with IsMissing rather than parsed away.
package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ezoic/carprep/pkg/errors"
)

// Table is a header plus row-major string records.
type Table struct {
	Header  []string
	Records [][]string

	index map[string]int
}

// NewTable builds a table from a header and records. Every record must have
// one value per header column and header names must be unique.
func NewTable(header []string, records [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, errors.NewModelError("NewTable", "empty header", errors.ErrEmptyData)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; dup {
			return nil, errors.NewValueError("NewTable", fmt.Sprintf("duplicate column %q", name))
		}
		index[name] = i
	}

	for _, rec := range records {
		if len(rec) != len(header) {
			return nil, errors.NewDimensionError("NewTable", len(header), len(rec), 1)
		}
	}

	return &Table{Header: header, Records: records, index: index}, nil
}

// ReadCSV loads a CSV file with a header row.
func ReadCSV(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIOError("ReadCSV", path, fmt.Errorf("failed to open file: %w", err))
	}
	defer func() { _ = file.Close() }()

	t, err := ReadCSVFromReader(file)
	if err != nil {
		var ioErr *errors.IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return nil, err
	}
	return t, nil
}

// ReadCSVFromReader loads CSV data with a header row from r.
func ReadCSVFromReader(r io.Reader) (*Table, error) {
	reader := csv.NewReader(bufio.NewReader(r))

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewModelError("ReadCSV", "missing header row", errors.ErrEmptyData)
	}
	if err != nil {
		return nil, errors.NewIOError("ReadCSV", "<reader>", fmt.Errorf("failed to read header: %w", err))
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewIOError("ReadCSV", "<reader>", fmt.Errorf("failed to read record %d: %w", len(records)+1, err))
		}
		records = append(records, rec)
	}

	return NewTable(header, records)
}

// NumRows returns the number of records.
func (t *Table) NumRows() int {
	return len(t.Records)
}

// Columns returns a copy of the header.
func (t *Table) Columns() []string {
	out := make([]string, len(t.Header))
	copy(out, t.Header)
	return out
}

// HasColumn reports whether name is a column of t.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the values of one column.
func (t *Table) Column(name string) ([]string, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, errors.NewMissingColumnError("Table.Column", name)
	}
	out := make([]string, len(t.Records))
	for i, rec := range t.Records {
		out[i] = rec[j]
	}
	return out, nil
}

// Select returns the named columns as a row-major block, in the order given.
// The returned rows are fresh slices.
func (t *Table) Select(names ...string) ([][]string, error) {
	idx := make([]int, len(names))
	for k, name := range names {
		j, ok := t.index[name]
		if !ok {
			return nil, errors.NewMissingColumnError("Table.Select", name)
		}
		idx[k] = j
	}

	out := make([][]string, len(t.Records))
	for i, rec := range t.Records {
		row := make([]string, len(idx))
		for k, j := range idx {
			row[k] = rec[j]
		}
		out[i] = row
	}
	return out, nil
}

// Drop returns a new table without the named columns.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if !t.HasColumn(name) {
			return nil, errors.NewMissingColumnError("Table.Drop", name)
		}
		drop[name] = true
	}

	var keep []string
	for _, name := range t.Header {
		if !drop[name] {
			keep = append(keep, name)
		}
	}
	if len(keep) == 0 {
		return nil, errors.NewModelError("Table.Drop", "no columns left", errors.ErrEmptyData)
	}

	records, err := t.Select(keep...)
	if err != nil {
		return nil, err
	}
	return NewTable(keep, records)
}
