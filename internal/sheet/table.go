// Package sheet reads xlsx workbooks into simple tables: header-row
// detection, column access by label, and canonical field mapping.
package sheet

import "fmt"

// Table is one sheet's data region: an ordered header plus the rows below
// it. Column labels are looked up by first occurrence when duplicated.
type Table struct {
	Name  string
	cols  []string
	index map[string]int
	rows  [][]string
}

// NewTable builds a table from a header and raw rows. Empty header cells
// get positional placeholder labels so every column stays addressable.
func NewTable(name string, columns []string, rows [][]string) *Table {
	cols := make([]string, len(columns))
	for i, c := range columns {
		if c == "" {
			c = fmt.Sprintf("col_%d", i+1)
		}
		cols[i] = c
	}
	t := &Table{Name: name, cols: cols, rows: rows}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.cols))
	for i, c := range t.cols {
		if _, ok := t.index[c]; !ok {
			t.index[c] = i
		}
	}
}

// Columns returns the header labels in physical order.
func (t *Table) Columns() []string { return t.cols }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.rows) }

// Row returns the i-th data row.
func (t *Table) Row(i int) Row { return Row{t: t, cells: t.rows[i]} }

// Rename relabels the first column currently labeled from. It reports
// whether a column was renamed.
func (t *Table) Rename(from, to string) bool {
	i, ok := t.index[from]
	if !ok {
		return false
	}
	t.cols[i] = to
	t.reindex()
	return true
}

// Row is one data row of a table. Cells are accessed by column label; rows
// shorter than the header read as empty cells.
type Row struct {
	t     *Table
	cells []string
}

// Columns returns the row's table header labels.
func (r Row) Columns() []string { return r.t.cols }

// Get returns the raw cell under the named column. ok is false only when
// the table has no such column; a present column with an empty cell returns
// ("", true), which is how explicit nulls stay observable downstream.
func (r Row) Get(column string) (string, bool) {
	i, ok := r.t.index[column]
	if !ok {
		return "", false
	}
	if i >= len(r.cells) {
		return "", true
	}
	return r.cells[i], true
}
