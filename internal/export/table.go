// Package export renders report tables to CSV and delivers them to local
// files and object storage.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// Table is a rectangular report result: a name, a header row, and data rows.
// Reports build tables; exporters decide where the CSV bytes end up.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// NewTable creates an empty table with the given name and header.
func NewTable(name string, header ...string) *Table {
	return &Table{Name: name, Header: header}
}

// Append adds one row. The caller is responsible for matching the header
// width; CSV output does not enforce it.
func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// CSV renders the table as CSV bytes with a header row.
func (t *Table) CSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(t.Header); err != nil {
		return nil, fmt.Errorf("export: writing CSV header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("export: writing CSV row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export: flushing CSV writer: %w", err)
	}

	return buf.Bytes(), nil
}

// USD formats a dollar amount with two decimal places.
func USD(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Rate formats a fractional rate such as an APR with three decimal places.
func Rate(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

// Float formats a float with the shortest exact representation.
func Float(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Percent formats a fractional rate (0.0123) as a percentage ("1.23").
func Percent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 2, 64)
}

// Int formats an integer column value.
func Int(v int) string {
	return strconv.Itoa(v)
}

// Timestamp formats a unix-seconds column value.
func Timestamp(ts int64) string {
	return strconv.FormatInt(ts, 10)
}
