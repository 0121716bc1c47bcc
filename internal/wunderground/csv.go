package wunderground

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	indexHeader    = "Time"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// ErrNoColumns marks an attempt to encode a table with no defined columns.
// Callers for whom a header-less result is acceptable treat it as
// write-nothing; nothing has been written when it is returned.
var ErrNoColumns = errors.New("table has no columns")

// WriteCSV writes the table in the delimited output format: a Time column
// followed by the table's columns, one record per observation, missing
// readings as empty fields. The index renders date-only when every timestamp
// is midnight (daily summaries) and as a full date-time otherwise. A
// column-less table is ErrNoColumns.
func WriteCSV(t *Table, w io.Writer) error {
	if len(t.Columns) == 0 {
		return ErrNoColumns
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{indexHeader}, t.Columns...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	layout := indexLayout(t.Index)
	record := make([]string, 1+len(t.Columns))
	for i, ts := range t.Index {
		record[0] = ts.Format(layout)
		for j, cell := range t.Cells[i] {
			if cell == nil {
				record[j+1] = ""
			} else {
				record[j+1] = strconv.FormatFloat(*cell, 'f', -1, 64)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func indexLayout(index []time.Time) string {
	for _, ts := range index {
		h, m, s := ts.Clock()
		if h != 0 || m != 0 || s != 0 {
			return dateTimeLayout
		}
	}
	return DateLayout
}

// ReadCSV reads a table previously written by WriteCSV. Empty input yields
// the empty table.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return &Table{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := NewTable(header[1:])
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return t, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", t.Len()+1, err)
		}
		ts, err := parseAny(record[0], []string{dateTimeLayout, DateLayout})
		if err != nil {
			return nil, &ParseError{Token: record[0], Err: err}
		}
		cells := make([]*float64, len(record)-1)
		for j, field := range record[1:] {
			if field == "" {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, &ParseError{Token: field, Err: err}
			}
			cells[j] = &v
		}
		if err := t.AddRow(ts, cells); err != nil {
			return nil, err
		}
	}
}
