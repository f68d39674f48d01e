package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dhyhn5012/tccb/internal/model"
)

// EmployeeNameKey is the canonical key of the employee-name column.
const EmployeeNameKey = "tên_nhân_viên"

const nameHeaderKey = "họ_và_tên"

// Weekend tags accepted in the date row (compared case-insensitively).
var weekendTags = []string{"T7", "CN"}

// Columns of the CSV layout that carry bookkeeping, not shifts.
var bookkeepingPrefixes = []string{"stt", "quy_ra_công", "ngày_trong_tháng"}

// Date layouts tried in order. Slash, dash and dot forms are day-first except
// "01-02-06" and "1/2/06 15:04", which are what excelize renders for the
// built-in short date (14) and date-time (22) formats.
var dateLayouts = []string{
	"2006-01-02",
	"2006-1-2",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"01-02-06",
	"1/2/06 15:04",
	"2/1/06",
	"2.1.06",
}

// Excel serial day numbers accepted as dates (1954-10-03 .. 2119-01-09).
// Smaller numbers are day-of-month headers.
const (
	minDateSerial = 20000
	maxDateSerial = 80000
)

// CellKind is the variant tag of DateOrTag.
type CellKind int

const (
	CellRawText CellKind = iota
	CellDate
	CellWeekendTag
)

// DateOrTag is the classification of a date-row cell.
type DateOrTag struct {
	Kind CellKind
	Date time.Time // CellDate
	Tag  string    // CellWeekendTag, upper-cased
	Text string    // trimmed input
}

// ParseDateOrWeekendTag classifies a date-row cell as a calendar date, a
// weekend tag or plain text.
func ParseDateOrWeekendTag(cell string) DateOrTag {
	text := NormalizeText(cell)
	if d, ok := ParseDate(text); ok {
		return DateOrTag{Kind: CellDate, Date: d, Text: text}
	}
	if d, ok := parseDateSerial(text); ok {
		return DateOrTag{Kind: CellDate, Date: d, Text: text}
	}
	for _, tag := range weekendTags {
		if strings.EqualFold(text, tag) {
			return DateOrTag{Kind: CellWeekendTag, Tag: tag, Text: text}
		}
	}
	return DateOrTag{Kind: CellRawText, Text: text}
}

// ParseDate parses a calendar date from one of the accepted layouts.
// Bare numbers are not layouts; see parseDateSerial.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseDateSerial reads an unformatted Excel date serial, as legacy .xls
// files store some date cells.
func parseDateSerial(s string) (time.Time, bool) {
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial < minDateSerial || serial > maxDateSerial {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// FormatDate renders the canonical YYYY-MM-DD key.
func FormatDate(t time.Time) string {
	return t.Format(model.DateLayout)
}

// NormalizeOptions tunes NormalizeColumns.
type NormalizeOptions struct {
	// DropBookkeeping removes stt / quy_ra_công / ngày_trong_tháng columns
	// (CSV layout).
	DropBookkeeping bool
}

// NormalizeColumns builds one canonical column per header cell. Dropped
// columns keep their slot so len(result) == len(header).
func NormalizeColumns(header, dateRow []string, opts NormalizeOptions) ColumnSpec {
	cols := make(ColumnSpec, len(header))
	for i := range header {
		source := NormalizeText(header[i])
		col := Column{Source: source, Kind: model.ColumnText}

		switch v := ParseDateOrWeekendTag(CellAt(dateRow, i)); v.Kind {
		case CellDate:
			col.Kind = model.ColumnDate
			col.Date = v.Date
			col.Key = FormatDate(v.Date)
		case CellWeekendTag:
			col.Kind = model.ColumnWeekend
			col.Tag = v.Tag
			col.Key = v.Tag
		default:
			col.Key = NormalizeColumnName(source)
			if col.Key == "" {
				col.Key = fmt.Sprintf("unnamed_%d", i)
			}
		}
		cols[i] = col
	}

	renameNameColumn(cols)

	if opts.DropBookkeeping {
		for i := range cols {
			if cols[i].Kind == model.ColumnText && HasAnyPrefix(cols[i].Key, bookkeepingPrefixes) {
				cols[i].Dropped = true
			}
		}
	}

	dedupeKeys(cols)
	return cols
}

// renameNameColumn maps the "Họ và tên" column to EmployeeNameKey. An exact
// match wins over a longer header such as "Họ và tên nhân viên".
func renameNameColumn(cols ColumnSpec) {
	target := -1
	for i, c := range cols {
		if c.Kind != model.ColumnText {
			continue
		}
		if c.Key == nameHeaderKey {
			target = i
			break
		}
		if target < 0 && strings.HasPrefix(c.Key, nameHeaderKey) {
			target = i
		}
	}
	if target >= 0 {
		cols[target].Key = EmployeeNameKey
	}
}

// dedupeKeys suffixes repeated keys (".1", ".2", ...) so a month with four
// Saturday "T7" columns keeps four distinct columns.
func dedupeKeys(cols ColumnSpec) {
	seen := make(map[string]int, len(cols))
	for i := range cols {
		if cols[i].Dropped {
			continue
		}
		base := cols[i].Key
		n := seen[base]
		seen[base] = n + 1
		if n > 0 {
			cols[i].Key = fmt.Sprintf("%s.%d", base, n)
		}
	}
}
