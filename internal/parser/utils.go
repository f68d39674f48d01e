package parser

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText trims, composes to NFC and collapses whitespace runs
// (including line breaks inside merged header cells) to one space.
func NormalizeText(s string) string {
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeColumnName lower-cases the header text and joins words with "_".
// "Họ và tên" -> "họ_và_tên".
func NormalizeColumnName(name string) string {
	name = NormalizeText(name)
	if name == "" {
		return ""
	}
	lower := cases.Lower(language.Vietnamese).String(name)
	return strings.ReplaceAll(lower, " ", "_")
}

// JoinRow joins the non-empty cells of a row with a single space.
func JoinRow(row []string) string {
	parts := make([]string, 0, len(row))
	for _, cell := range row {
		cell = NormalizeText(cell)
		if cell != "" {
			parts = append(parts, cell)
		}
	}
	return strings.Join(parts, " ")
}

// ContainsAll reports whether text contains every keyword.
func ContainsAll(text string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}

// HasAnyPrefix reports whether s starts with one of the prefixes.
func HasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// CellAt returns the trimmed cell at idx, "" when the row is short.
func CellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// PadRow returns row extended with empty cells up to width.
func PadRow(row []string, width int) []string {
	if len(row) >= width {
		return row
	}
	out := make([]string, width)
	copy(out, row)
	return out
}
