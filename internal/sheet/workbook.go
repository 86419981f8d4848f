package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook wraps an open xlsx file.
type Workbook struct {
	f    *excelize.File
	path string
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &Workbook{f: f, path: path}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// SheetNames lists the workbook's sheet tabs in order.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Sheet reads the named sheet into a Table, locating the header row first.
// A missing sheet is an error; the caller treats it as structural.
func (w *Workbook) Sheet(name string) (*Table, error) {
	grid, err := w.f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}
	if len(grid) == 0 {
		return NewTable(name, nil, nil), nil
	}
	hdr := detectHeaderRow(grid)
	return NewTable(name, grid[hdr], grid[hdr+1:]), nil
}
