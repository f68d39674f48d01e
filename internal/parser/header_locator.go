package parser

import (
	"strings"

	"github.com/dhyhn5012/tccb/internal/model"
)

// Department line markers, evaluated in this order so that a later marker in
// the same row overrides an earlier one.
var departmentMarkers = []string{"Bộ phận:", "Đơn vị:"}

// Tokens that must all appear in the header row.
var headerTokens = []string{"STT", "Họ và tên"}

// HeaderLocator finds the department label and header block of a sheet.
type HeaderLocator struct {
	defaultDepartment string
}

// NewHeaderLocator creates a locator. An empty default falls back to
// model.DefaultDepartment.
func NewHeaderLocator(defaultDepartment string) *HeaderLocator {
	if strings.TrimSpace(defaultDepartment) == "" {
		defaultDepartment = model.DefaultDepartment
	}
	return &HeaderLocator{defaultDepartment: defaultDepartment}
}

// LocateHeader scans with the default department label.
func LocateHeader(sheet RawSheet) HeaderLocation {
	return NewHeaderLocator("").Locate(sheet)
}

// Locate scans rows top to bottom once. Department lines seen before the
// header row are applied in order (last match wins); the first row holding
// both header tokens ends the scan.
func (l *HeaderLocator) Locate(sheet RawSheet) HeaderLocation {
	loc := HeaderLocation{Department: l.defaultDepartment}

	for idx, row := range sheet.Rows {
		text := JoinRow(row)
		if text == "" {
			continue
		}

		for _, marker := range departmentMarkers {
			if dept, ok := departmentAfter(text, marker); ok {
				loc.Department = dept
			}
		}

		if ContainsAll(text, headerTokens) {
			loc.Rows = &HeaderRows{HeaderRow: idx, DateRow: idx + 1}
			return loc
		}
	}

	return loc
}

// departmentAfter extracts the label following marker up to the first comma.
func departmentAfter(text, marker string) (string, bool) {
	pos := strings.Index(text, marker)
	if pos < 0 {
		return "", false
	}
	rest := text[pos+len(marker):]
	if comma := strings.Index(rest, ","); comma >= 0 {
		rest = rest[:comma]
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", false
	}
	return rest, true
}
