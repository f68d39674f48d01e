package calculator

import (
	"sort"

	"github.com/dhyhn5012/tccb/internal/model"
)

// Employee identifies one (department, employee) pair.
type Employee struct {
	Department   string `json:"department"`
	EmployeeName string `json:"employeeName"`
}

// EmployeeCount is a per-employee count.
type EmployeeCount struct {
	Employee
	Count int `json:"count"`
}

// Frequency buckets, in display order.
type FrequencyCategory string

const (
	FrequencyNone        FrequencyCategory = "none"
	FrequencyOne         FrequencyCategory = "one"
	FrequencyTwo         FrequencyCategory = "two"
	FrequencyThreeOrMore FrequencyCategory = "three_or_more"
)

// FrequencyOrder is the fixed display order of the buckets.
var FrequencyOrder = []FrequencyCategory{FrequencyNone, FrequencyOne, FrequencyTwo, FrequencyThreeOrMore}

// CategorizeFrequency maps an on-call count to its bucket.
func CategorizeFrequency(count int) FrequencyCategory {
	switch {
	case count <= 0:
		return FrequencyNone
	case count == 1:
		return FrequencyOne
	case count == 2:
		return FrequencyTwo
	default:
		return FrequencyThreeOrMore
	}
}

// FrequencyBucket lists the employees of one bucket.
type FrequencyBucket struct {
	Category  FrequencyCategory `json:"category"`
	Count     int               `json:"count"`
	Employees []Employee        `json:"employees"`
}

// Indicator is one headline number.
type Indicator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Report bundles every statistic for one (optionally filtered) roster.
type Report struct {
	Department string            `json:"department,omitempty"`
	Indicators []Indicator       `json:"indicators"`
	OnCall     []EmployeeCount   `json:"onCall"`
	Weekend    []EmployeeCount   `json:"weekend"`
	Frequency  []FrequencyBucket `json:"frequency"`
	Leave      []Employee        `json:"leave"`
	Maternity  []Employee        `json:"maternity"`
}

// Calculator computes read-only projections of a roster.
type Calculator struct {
	roster *model.Roster
}

// NewCalculator creates a calculator over roster. A nil roster is empty.
func NewCalculator(roster *model.Roster) *Calculator {
	if roster == nil {
		roster = model.NewRoster()
	}
	return &Calculator{roster: roster}
}

// Analyze computes every statistic. An empty department means all.
func (c *Calculator) Analyze(department string) *Report {
	onCall := c.OnCallSummary(department)
	weekend := c.WeekendSummary(department)
	leave := c.LeaveRoster(department)
	maternity := c.MaternityRoster(department)

	totalOnCall, totalWeekend := 0, 0
	for _, e := range onCall {
		totalOnCall += e.Count
	}
	for _, e := range weekend {
		totalWeekend += e.Count
	}

	return &Report{
		Department: department,
		Indicators: []Indicator{
			{ID: "employees", Name: "Số nhân viên", Value: len(onCall)},
			{ID: "on_call", Name: "Tổng số lượt trực", Value: totalOnCall},
			{ID: "weekend", Name: "Số lượt trực cuối tuần", Value: totalWeekend},
			{ID: "leave", Name: "Số nhân viên nghỉ", Value: len(leave)},
			{ID: "maternity", Name: "Số nhân viên nghỉ thai sản", Value: len(maternity)},
		},
		OnCall:    onCall,
		Weekend:   weekend,
		Frequency: c.Frequency(department),
		Leave:     leave,
		Maternity: maternity,
	}
}

// OnCallSummary counts on-call cells per employee, highest first.
func (c *Calculator) OnCallSummary(department string) []EmployeeCount {
	return c.countBy(department, func(model.ShiftColumn) bool { return true })
}

// WeekendSummary counts on-call cells in weekend columns per employee,
// highest first. Each cell is counted at most once.
func (c *Calculator) WeekendSummary(department string) []EmployeeCount {
	return c.countBy(department, model.ShiftColumn.IsWeekend)
}

// Frequency buckets every employee by total on-call count. Every bucket is
// present, in FrequencyOrder, even when empty.
func (c *Calculator) Frequency(department string) []FrequencyBucket {
	buckets := make([]FrequencyBucket, len(FrequencyOrder))
	index := make(map[FrequencyCategory]int, len(FrequencyOrder))
	for i, cat := range FrequencyOrder {
		buckets[i] = FrequencyBucket{Category: cat, Employees: []Employee{}}
		index[cat] = i
	}

	for _, e := range c.countInOrder(department, func(model.ShiftColumn) bool { return true }) {
		b := &buckets[index[CategorizeFrequency(e.Count)]]
		b.Count++
		b.Employees = append(b.Employees, e.Employee)
	}
	return buckets
}

// LeaveRoster lists distinct employees with at least one leave marker.
func (c *Calculator) LeaveRoster(department string) []Employee {
	return c.employeesWith(department, IsLeave)
}

// MaternityRoster lists distinct employees with at least one maternity marker.
func (c *Calculator) MaternityRoster(department string) []Employee {
	return c.employeesWith(department, IsMaternity)
}

// Departments lists the roster's departments in first-seen order.
func (c *Calculator) Departments() []string {
	return c.roster.Departments()
}

func (c *Calculator) countBy(department string, include func(model.ShiftColumn) bool) []EmployeeCount {
	out := c.countInOrder(department, include)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// countInOrder sums on-call cells of the selected columns per employee, in
// first-seen order. Repeated rows of the same pair are added together.
func (c *Calculator) countInOrder(department string, include func(model.ShiftColumn) bool) []EmployeeCount {
	roster := c.roster.FilterDepartment(department)

	cols := make([]string, 0, len(roster.Columns))
	for _, col := range roster.Columns {
		if include(col) {
			cols = append(cols, col.Key)
		}
	}

	out := []EmployeeCount{}
	index := make(map[Employee]int)
	for _, rec := range roster.Records {
		key := Employee{Department: rec.Department, EmployeeName: rec.EmployeeName}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, EmployeeCount{Employee: key})
		}
		for _, col := range cols {
			if IsOnCall(rec.Shift(col)) {
				out[i].Count++
			}
		}
	}
	return out
}

func (c *Calculator) employeesWith(department string, match func(string) bool) []Employee {
	roster := c.roster.FilterDepartment(department)

	out := []Employee{}
	seen := make(map[Employee]bool)
	for _, rec := range roster.Records {
		key := Employee{Department: rec.Department, EmployeeName: rec.EmployeeName}
		if seen[key] {
			continue
		}
		for _, col := range roster.Columns {
			if match(rec.Shift(col.Key)) {
				seen[key] = true
				out = append(out, key)
				break
			}
		}
	}
	return out
}
