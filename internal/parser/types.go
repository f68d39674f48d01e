package parser

import (
	"time"

	"github.com/dhyhn5012/tccb/internal/model"
)

// RawSheet is one worksheet (or the whole CSV) as untyped text cells.
type RawSheet struct {
	Name string
	Rows [][]string
}

// Width is the length of the widest row.
func (s RawSheet) Width() int {
	w := 0
	for _, row := range s.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// HeaderRows is the located (header row, date row) pair.
type HeaderRows struct {
	HeaderRow int `json:"headerRow"`
	DateRow   int `json:"dateRow"` // always HeaderRow+1
}

// HeaderLocation is the result of scanning a sheet for its header block.
type HeaderLocation struct {
	Department string      `json:"department"`
	Rows       *HeaderRows `json:"rows,omitempty"` // nil when no header row exists
}

// Found reports whether a header/date row pair was located.
func (l HeaderLocation) Found() bool {
	return l.Rows != nil
}

// Column is the canonical identity of one original column.
type Column struct {
	Key     string           `json:"key"`
	Source  string           `json:"source"` // original header text
	Kind    model.ColumnKind `json:"kind"`
	Date    time.Time        `json:"-"`
	Tag     string           `json:"tag,omitempty"`
	Dropped bool             `json:"dropped,omitempty"` // bookkeeping column removed from the table
}

// IsShiftDay reports whether the column holds shift markers.
func (c Column) IsShiftDay() bool {
	if c.Dropped {
		return false
	}
	return c.Kind == model.ColumnDate || c.Kind == model.ColumnWeekend
}

// ShiftColumn converts the column to its roster form.
func (c Column) ShiftColumn() model.ShiftColumn {
	sc := model.ShiftColumn{Key: c.Key, Kind: c.Kind}
	switch c.Kind {
	case model.ColumnDate:
		sc.Date = FormatDate(c.Date)
	case model.ColumnWeekend:
		sc.Tag = c.Tag
	}
	return sc
}

// ColumnSpec holds one Column per original column, in original order.
type ColumnSpec []Column

// Index returns the position of key, -1 when absent.
func (s ColumnSpec) Index(key string) int {
	for i, c := range s {
		if !c.Dropped && c.Key == key {
			return i
		}
	}
	return -1
}

// ShiftColumns lists the shift-day columns in order.
func (s ColumnSpec) ShiftColumns() []model.ShiftColumn {
	out := make([]model.ShiftColumn, 0, len(s))
	for _, c := range s {
		if c.IsShiftDay() {
			out = append(out, c.ShiftColumn())
		}
	}
	return out
}

// SheetStatus is the outcome of processing one sheet.
type SheetStatus string

const (
	SheetImported SheetStatus = "imported"
	SheetSkipped  SheetStatus = "skipped"
	SheetError    SheetStatus = "error"
)

// SheetResult is what the extractor produces for one sheet.
type SheetResult struct {
	SheetName    string
	Location     HeaderLocation
	Columns      ColumnSpec
	Records      []model.ShiftRecord
	FilteredRows int // blank or summary rows removed
}

// ParseResult is the per-sheet entry of an import report.
type ParseResult struct {
	SheetName    string        `json:"sheetName"`
	Department   string        `json:"department,omitempty"`
	Status       SheetStatus   `json:"status"`
	ImportedRows int           `json:"importedRows"`
	FilteredRows int           `json:"filteredRows"`
	ShiftDays    int           `json:"shiftDays"`
	Errors       []string      `json:"errors,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// ImportReport summarises one uploaded file.
type ImportReport struct {
	Filename       string        `json:"filename"`
	Format         string        `json:"format"`
	TotalSheets    int           `json:"totalSheets"`
	ImportedSheets int           `json:"importedSheets"`
	SkippedSheets  int           `json:"skippedSheets"`
	ImportedRows   int           `json:"importedRows"`
	FilteredRows   int           `json:"filteredRows"`
	Duration       time.Duration `json:"duration"`
	Sheets         []ParseResult `json:"sheets"`
}

// Record adds a sheet outcome to the totals.
func (r *ImportReport) Record(result ParseResult) {
	r.Sheets = append(r.Sheets, result)
	switch result.Status {
	case SheetImported:
		r.ImportedSheets++
		r.ImportedRows += result.ImportedRows
		r.FilteredRows += result.FilteredRows
	case SheetSkipped:
		r.SkippedSheets++
	}
}
