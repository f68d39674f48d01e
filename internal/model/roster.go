package model

import "time"

// ColumnKind classifies a canonical roster column.
type ColumnKind string

const (
	ColumnText    ColumnKind = "text"    // bookkeeping / metadata column
	ColumnDate    ColumnKind = "date"    // one calendar day, key is YYYY-MM-DD
	ColumnWeekend ColumnKind = "weekend" // recurring weekend tag (T7 / CN)
)

// DateLayout is the canonical layout of date column keys.
const DateLayout = "2006-01-02"

// DefaultDepartment is used when a sheet carries no department line.
const DefaultDepartment = "Chưa xác định"

// ShiftColumn is a shift-day column of the combined roster.
type ShiftColumn struct {
	Key  string     `json:"key"`
	Kind ColumnKind `json:"kind"`
	Date string     `json:"date,omitempty"` // YYYY-MM-DD, date columns only
	Tag  string     `json:"tag,omitempty"`  // T7 / CN, weekend columns only
}

// IsWeekend reports whether the column is a weekend tag or a date falling on
// Saturday or Sunday.
func (c ShiftColumn) IsWeekend() bool {
	switch c.Kind {
	case ColumnWeekend:
		return true
	case ColumnDate:
		d, err := time.Parse(DateLayout, c.Date)
		if err != nil {
			return false
		}
		wd := d.Weekday()
		return wd == time.Saturday || wd == time.Sunday
	default:
		return false
	}
}

// ShiftRecord is one employee row of one sheet.
type ShiftRecord struct {
	Department   string            `json:"department"`
	EmployeeName string            `json:"employeeName"`
	Sheet        string            `json:"sheet,omitempty"`
	Shifts       map[string]string `json:"shifts"`
}

// Shift returns the marker stored under key, "" when absent.
func (r ShiftRecord) Shift(key string) string {
	if r.Shifts == nil {
		return ""
	}
	return r.Shifts[key]
}

// Roster is the combined department × employee × shift-day table.
type Roster struct {
	Columns []ShiftColumn `json:"columns"`
	Records []ShiftRecord `json:"records"`
}

// NewRoster returns an empty roster with non-nil slices.
func NewRoster() *Roster {
	return &Roster{
		Columns: []ShiftColumn{},
		Records: []ShiftRecord{},
	}
}

// Empty reports whether the roster holds no employee rows.
func (r *Roster) Empty() bool {
	return r == nil || len(r.Records) == 0
}

// Departments lists distinct departments in first-seen order.
func (r *Roster) Departments() []string {
	out := []string{}
	if r == nil {
		return out
	}
	seen := make(map[string]bool)
	for _, rec := range r.Records {
		if seen[rec.Department] {
			continue
		}
		seen[rec.Department] = true
		out = append(out, rec.Department)
	}
	return out
}

// FilterDepartment returns a view restricted to one department. An empty
// department returns the roster itself.
func (r *Roster) FilterDepartment(department string) *Roster {
	if r == nil {
		return NewRoster()
	}
	if department == "" {
		return r
	}
	out := &Roster{
		Columns: r.Columns,
		Records: make([]ShiftRecord, 0, len(r.Records)),
	}
	for _, rec := range r.Records {
		if rec.Department == department {
			out.Records = append(out.Records, rec)
		}
	}
	return out
}
