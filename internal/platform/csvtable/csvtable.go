// Package csvtable reads header-indexed CSV files.
package csvtable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Table is a CSV reader that resolves columns by header name.
type Table struct {
	reader *csv.Reader
	index  map[string]int
	line   int
}

// Open reads the header row and checks that every required column is present.
// Column names are matched case-insensitively, ignoring surrounding spaces.
func Open(r io.Reader, required ...string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := makeIndex(header)
	for _, col := range required {
		if _, ok := idx[normalize(col)]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	return &Table{reader: reader, index: idx, line: 1}, nil
}

// Next returns the next record, or io.EOF when the input is exhausted.
func (t *Table) Next() (Record, error) {
	fields, err := t.reader.Read()
	if err != nil {
		return Record{}, err
	}
	t.line++
	return Record{fields: fields, index: t.index, Line: t.line}, nil
}

// Record is one data row.
type Record struct {
	fields []string
	index  map[string]int
	Line   int
}

// Get returns the trimmed value of column name, or "" if the row is short.
func (r Record) Get(name string) string {
	i, ok := r.index[normalize(name)]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func makeIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[normalize(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	return idx
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
