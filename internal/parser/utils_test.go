package parser

import (
	"testing"

	"golang.org/x/text/unicode/norm"
)

func TestNormalizeText_CollapsesWhitespace(t *testing.T) {
	t.Parallel()

	if got := NormalizeText("  Họ và\n tên\t "); got != "Họ và tên" {
		t.Fatalf("unexpected text: %q", got)
	}
	// Decomposed input must compose to the same text.
	decomposed := norm.NFD.String("Họ và tên")
	if got := NormalizeText(decomposed); got != "Họ và tên" {
		t.Fatalf("expected NFC composition, got %q", got)
	}
}

func TestNormalizeColumnName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"Họ và tên":         "họ_và_tên",
		"STT":               "stt",
		"Quy ra công":       "quy_ra_công",
		" Ngày  trong tháng": "ngày_trong_tháng",
		"":                  "",
	}
	for in, want := range cases {
		if got := NormalizeColumnName(in); got != want {
			t.Fatalf("NormalizeColumnName(%q) want=%q got=%q", in, want, got)
		}
	}
}

func TestJoinRow_SkipsBlankCells(t *testing.T) {
	t.Parallel()

	if got := JoinRow([]string{"", " STT ", "", "Họ và tên", "  "}); got != "STT Họ và tên" {
		t.Fatalf("unexpected join: %q", got)
	}
	if got := JoinRow(nil); got != "" {
		t.Fatalf("expected empty join, got %q", got)
	}
}

func TestCellAt_OutOfRange(t *testing.T) {
	t.Parallel()

	row := []string{" X ", "NP"}
	if got := CellAt(row, 0); got != "X" {
		t.Fatalf("expected trimmed cell, got %q", got)
	}
	if got := CellAt(row, 5); got != "" {
		t.Fatalf("expected empty cell, got %q", got)
	}
	if got := CellAt(row, -1); got != "" {
		t.Fatalf("expected empty cell, got %q", got)
	}
}

func TestPadRow(t *testing.T) {
	t.Parallel()

	got := PadRow([]string{"a"}, 3)
	if len(got) != 3 || got[0] != "a" || got[2] != "" {
		t.Fatalf("unexpected padded row: %#v", got)
	}
	long := []string{"a", "b", "c"}
	if got := PadRow(long, 2); len(got) != 3 {
		t.Fatalf("PadRow must not truncate: %#v", got)
	}
}
