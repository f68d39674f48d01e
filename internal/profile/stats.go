package profile

import (
	"math"
	"sort"

	"github.com/dhyhn5012/tccb/internal/model"
)

// AgeBins is the number of histogram bins.
const AgeBins = 10

// ValueCount is one row of a frequency table.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// AgeBin is one histogram bar covering [Lower, Upper); the last bin also
// includes Upper.
type AgeBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Stats is the dashboard data.
type Stats struct {
	Total        int          `json:"total"`
	ByStatus     []ValueCount `json:"byStatus"`
	ByDepartment []ValueCount `json:"byDepartment"`
	ByTitle      []ValueCount `json:"byTitle"`
	AgeHistogram []AgeBin     `json:"ageHistogram"`
}

// ComputeStats builds the dashboard statistics.
func ComputeStats(list []model.EmployeeProfile) *Stats {
	st := &Stats{
		Total:        len(list),
		ByStatus:     valueCounts(list, func(p model.EmployeeProfile) string { return p.Status }),
		ByDepartment: valueCounts(list, func(p model.EmployeeProfile) string { return p.Department }),
		ByTitle:      valueCounts(list, func(p model.EmployeeProfile) string { return p.Title }),
		AgeHistogram: []AgeBin{},
	}

	ages := make([]float64, len(list))
	for i, p := range list {
		ages[i] = float64(p.Age)
	}
	st.AgeHistogram = Histogram(ages, AgeBins)
	return st
}

// valueCounts counts distinct values, largest count first; ties keep
// first-seen order.
func valueCounts(list []model.EmployeeProfile, key func(model.EmployeeProfile) string) []ValueCount {
	out := []ValueCount{}
	index := map[string]int{}
	for _, p := range list {
		k := key(p)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, ValueCount{Value: k})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Histogram splits [min, max] into n equal-width bins. When every value is
// equal the range is widened by 0.5 on each side.
func Histogram(values []float64, n int) []AgeBin {
	if len(values) == 0 || n <= 0 {
		return []AgeBin{}
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	width := (hi - lo) / float64(n)
	bins := make([]AgeBin, n)
	for i := range bins {
		bins[i].Lower = lo + float64(i)*width
		bins[i].Upper = lo + float64(i+1)*width
	}
	bins[n-1].Upper = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}
