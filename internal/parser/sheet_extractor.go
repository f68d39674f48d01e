package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhyhn5012/tccb/internal/model"
)

// ErrUnparsableSection is returned when no "STT" + "Họ và tên" header row exists.
var ErrUnparsableSection = errors.New("header row not found")

const summaryRowName = "tổng_cộng"

// ExtractOptions configures a SheetExtractor.
type ExtractOptions struct {
	DefaultDepartment string
	DropBookkeeping   bool
}

// SheetExtractor turns one raw sheet into department-tagged shift records.
type SheetExtractor struct {
	locator *HeaderLocator
	opts    ExtractOptions
}

// NewSheetExtractor creates an extractor.
func NewSheetExtractor(opts ExtractOptions) *SheetExtractor {
	return &SheetExtractor{
		locator: NewHeaderLocator(opts.DefaultDepartment),
		opts:    opts,
	}
}

// WithDropBookkeeping returns a copy of the extractor with the bookkeeping
// column rule switched on or off.
func (e *SheetExtractor) WithDropBookkeeping(drop bool) *SheetExtractor {
	opts := e.opts
	opts.DropBookkeeping = drop
	return &SheetExtractor{locator: e.locator, opts: opts}
}

// ExtractSheet parses one sheet with a throwaway extractor.
func ExtractSheet(sheet RawSheet, opts ExtractOptions) (*SheetResult, error) {
	return NewSheetExtractor(opts).ParseSheet(sheet)
}

// ParseSheet locates the header block, normalises the columns and reads
// every row below the date row.
func (e *SheetExtractor) ParseSheet(sheet RawSheet) (*SheetResult, error) {
	loc := e.locator.Locate(sheet)
	result := &SheetResult{
		SheetName: sheet.Name,
		Location:  loc,
		Records:   []model.ShiftRecord{},
	}
	if !loc.Found() {
		return result, fmt.Errorf("sheet %q: %w", sheet.Name, ErrUnparsableSection)
	}

	width := sheet.Width()
	header := PadRow(sheet.Rows[loc.Rows.HeaderRow], width)
	var dateRow []string
	if loc.Rows.DateRow < len(sheet.Rows) {
		dateRow = sheet.Rows[loc.Rows.DateRow]
	}

	result.Columns = NormalizeColumns(header, dateRow, NormalizeOptions{DropBookkeeping: e.opts.DropBookkeeping})

	nameIdx := result.Columns.Index(EmployeeNameKey)
	shiftIdx := make([]int, 0, len(result.Columns))
	for i, c := range result.Columns {
		if c.IsShiftDay() {
			shiftIdx = append(shiftIdx, i)
		}
	}

	for r := loc.Rows.DateRow + 1; r < len(sheet.Rows); r++ {
		row := sheet.Rows[r]
		name := NormalizeText(CellAt(row, nameIdx))
		if isSkippableName(name) {
			if JoinRow(row) != "" {
				result.FilteredRows++
			}
			continue
		}

		rec := model.ShiftRecord{
			Department:   loc.Department,
			EmployeeName: name,
			Sheet:        sheet.Name,
			Shifts:       make(map[string]string, len(shiftIdx)),
		}
		for _, i := range shiftIdx {
			rec.Shifts[result.Columns[i].Key] = CellAt(row, i)
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// isSkippableName filters blank rows and the "Tổng cộng" footer.
func isSkippableName(name string) bool {
	if name == "" {
		return true
	}
	return strings.EqualFold(NormalizeColumnName(name), summaryRowName)
}
