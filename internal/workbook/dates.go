package workbook

import (
	"strconv"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/dhyhn5012/tccb/internal/model"
)

// Built-in number formats that display a calendar date (ECMA-376 18.8.30
// plus the East Asian date ids).
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	default:
		return false
	}
}

// isDateFormatCode reports whether a custom format code shows a day, month
// or year. Quoted literals, escapes and [..] sections are ignored; "m" next
// to "h" or "s" is minutes.
func isDateFormatCode(code string) bool {
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}

	var b strings.Builder
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			b.WriteByte(ch)
		}
	}
	tokens := strings.ToLower(b.String())

	if strings.ContainsAny(tokens, "dy") {
		return true
	}
	return strings.Contains(tokens, "m") && !strings.ContainsAny(tokens, "hs")
}

// dateStyles resolves which xlsx cell styles display dates, caching per
// style id.
type dateStyles struct {
	f        *excelize.File
	date1904 bool
	cache    map[int]bool
}

func newDateStyles(f *excelize.File) *dateStyles {
	d := &dateStyles{f: f, cache: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

func (d *dateStyles) isDate(styleID int) bool {
	if v, ok := d.cache[styleID]; ok {
		return v
	}
	v := false
	if style, err := d.f.GetStyle(styleID); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			v = isDateFormatCode(*style.CustomNumFmt)
		} else {
			v = isBuiltInDateFormat(style.NumFmt)
		}
	}
	d.cache[styleID] = v
	return v
}

// rewrite replaces the display text of date-formatted numeric cells with
// the ISO date, so "dd/mm" or "ddd dd" renderings do not lose the year.
func (d *dateStyles) rewrite(sheet string, rows, raw [][]string) {
	for r := range rows {
		if r >= len(raw) {
			return
		}
		for c := range rows[r] {
			if c >= len(raw[r]) || rows[r][c] == raw[r][c] {
				continue
			}
			serial, err := strconv.ParseFloat(strings.TrimSpace(raw[r][c]), 64)
			if err != nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			styleID, err := d.f.GetCellStyle(sheet, cell)
			if err != nil || !d.isDate(styleID) {
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, d.date1904)
			if err != nil {
				continue
			}
			rows[r][c] = t.Format(model.DateLayout)
		}
	}
}

// isoDateFormat is a format id outside the built-in range. extrame/xls
// renders numbers whose format id is >= 164 and registered as RFC 3339
// timestamps, while built-in date formats would come out as "2006.01".
const isoDateFormat uint16 = 0xFFFE

// useISODateFormat points every built-in date style of wb at isoDateFormat
// so date cells keep their day.
func useISODateFormat(wb *xls.WorkBook) {
	if wb.Formats == nil {
		wb.Formats = make(map[uint16]*xls.Format)
	}
	remapped := false
	for _, xf := range wb.Xfs {
		switch x := xf.(type) {
		case *xls.Xf8:
			if isBuiltInDateFormat(int(x.Format)) {
				x.Format = isoDateFormat
				remapped = true
			}
		case *xls.Xf5:
			if isBuiltInDateFormat(int(x.Format)) {
				x.Format = isoDateFormat
				remapped = true
			}
		}
	}
	if remapped {
		if _, ok := wb.Formats[isoDateFormat]; !ok {
			wb.Formats[isoDateFormat] = &xls.Format{}
		}
	}
}
