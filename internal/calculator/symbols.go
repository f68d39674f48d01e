package calculator

import "strings"

// Category is a shift-marker class.
type Category string

const (
	CategoryRegular   Category = "regular"
	CategoryWeekend   Category = "weekend"
	CategoryLeave     Category = "leave"
	CategoryMaternity Category = "maternity"
)

func set(tokens ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

// Nts is both a leave and a maternity marker.
var symbols = map[Category]map[string]struct{}{
	CategoryRegular: set("X", "Tr"),
	CategoryWeekend: set("T7", "CN"),
	CategoryLeave: set(
		"NP", "No", "Nkl", "Nbs", "Nbc", "Nhb", "Nhbs", "Nhbc", "NL",
		"Ncđ", "Nô", "Nô/2", "Nco", "Nco/2", "Nts", "Ndl", "Nv",
	),
	CategoryMaternity: set("Nts"),
}

var categoryOrder = []Category{CategoryRegular, CategoryWeekend, CategoryLeave, CategoryMaternity}

// Is reports whether marker belongs to category. Matching is exact on the
// trimmed value.
func Is(category Category, marker string) bool {
	_, ok := symbols[category][strings.TrimSpace(marker)]
	return ok
}

// IsRegular reports whether the marker is a regular on-call shift.
func IsRegular(marker string) bool { return Is(CategoryRegular, marker) }

// IsWeekend reports whether the marker is a weekend shift tag.
func IsWeekend(marker string) bool { return Is(CategoryWeekend, marker) }

// IsOnCall reports whether the marker means the employee worked that day.
func IsOnCall(marker string) bool {
	return IsRegular(marker) || IsWeekend(marker)
}

// IsLeave reports whether the marker is a leave marker.
func IsLeave(marker string) bool { return Is(CategoryLeave, marker) }

// IsMaternity reports whether the marker is a maternity marker.
func IsMaternity(marker string) bool { return Is(CategoryMaternity, marker) }

// Categories lists every category the marker belongs to.
func Categories(marker string) []Category {
	out := []Category{}
	for _, c := range categoryOrder {
		if Is(c, marker) {
			out = append(out, c)
		}
	}
	return out
}

// Symbols returns the markers of a category (copy, unordered).
func Symbols(category Category) []string {
	out := make([]string, 0, len(symbols[category]))
	for s := range symbols[category] {
		out = append(out, s)
	}
	return out
}
