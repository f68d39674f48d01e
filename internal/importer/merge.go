package importer

import (
	"github.com/dhyhn5012/tccb/internal/model"
	"github.com/dhyhn5012/tccb/internal/parser"
)

// MergeSheets concatenates sheet records in order. The column set is the
// union of every sheet's shift-day columns in first-seen order; each record
// gets "" for the columns its sheet did not have.
func MergeSheets(results []*parser.SheetResult) *model.Roster {
	roster := model.NewRoster()
	seen := make(map[string]bool)

	for _, res := range results {
		if res == nil {
			continue
		}
		for _, col := range res.Columns.ShiftColumns() {
			if seen[col.Key] {
				continue
			}
			seen[col.Key] = true
			roster.Columns = append(roster.Columns, col)
		}
	}

	for _, res := range results {
		if res == nil {
			continue
		}
		for _, rec := range res.Records {
			shifts := make(map[string]string, len(roster.Columns))
			for _, col := range roster.Columns {
				shifts[col.Key] = rec.Shift(col.Key)
			}
			rec.Shifts = shifts
			roster.Records = append(roster.Records, rec)
		}
	}

	return roster
}
