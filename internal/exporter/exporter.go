// Package exporter writes rosters, statistics and profile reports to xlsx.
package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dhyhn5012/tccb/internal/calculator"
	"github.com/dhyhn5012/tccb/internal/model"
)

// Sheet names of the exported workbooks.
const (
	SheetRoster    = "LichTruc"
	SheetSummary   = "TongHop"
	SheetFrequency = "TanSuat"
	SheetLeave     = "NghiPhep"
	SheetProfiles  = "BaoCaoNhanSu"
)

// ContentTypeXLSX is the MIME type of the exported files.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	timestampLayout  = "20060102_150405"
	profileTimestamp = "2006-01-02 15:04:05"
)

var frequencyLabels = map[calculator.FrequencyCategory]string{
	calculator.FrequencyNone:        "Không trực",
	calculator.FrequencyOne:         "1 lần",
	calculator.FrequencyTwo:         "2 lần",
	calculator.FrequencyThreeOrMore: "Từ 3 lần trở lên",
}

// Exporter builds xlsx workbooks.
type Exporter struct{}

// NewExporter creates an exporter.
func NewExporter() *Exporter {
	return &Exporter{}
}

// RosterFilename names a roster export. The department, when set, is part of
// the name.
func RosterFilename(department string, now time.Time) string {
	name := "LichTruc"
	if d := strings.TrimSpace(department); d != "" {
		name += "_" + strings.ReplaceAll(d, " ", "_")
	}
	return fmt.Sprintf("%s_%s.xlsx", name, now.Format(timestampLayout))
}

// ProfileFilename names the profile report, BaoCaoNhanSu_YYYYmmdd_HHMMSS.xlsx.
func ProfileFilename(now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", SheetProfiles, now.Format(timestampLayout))
}

// ExportRoster writes the roster and its statistics. The caller closes the file.
func (e *Exporter) ExportRoster(roster *model.Roster, report *calculator.Report, progress func(ProgressEvent)) (*excelize.File, error) {
	if roster == nil {
		roster = model.NewRoster()
	}
	if report == nil {
		report = calculator.NewCalculator(roster).Analyze("")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetRoster); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	steps := []struct {
		stage string
		fn    func() error
	}{
		{"Lịch trực", func() error { return writeRosterSheet(f, roster, headerStyle) }},
		{"Tổng hợp", func() error { return writeSummarySheet(f, report, headerStyle) }},
		{"Tần suất", func() error { return writeFrequencySheet(f, report, headerStyle) }},
		{"Nghỉ phép", func() error { return writeLeaveSheet(f, report, headerStyle) }},
	}
	for i, step := range steps {
		reportProgress(progress, i*100/len(steps), step.stage)
		if err := step.fn(); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write %s: %w", step.stage, err)
		}
	}
	reportProgress(progress, 100, "Hoàn tất")

	f.SetActiveSheet(0)
	return f, nil
}

// ExportProfiles writes every profile submission to the BaoCaoNhanSu sheet.
func (e *Exporter) ExportProfiles(list []model.EmployeeProfile) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetProfiles); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]interface{}{{"Họ và tên", "Tuổi", "Khoa/Phòng/Trung tâm", "Chức danh", "Trạng thái", "Thời gian cập nhật"}}
	for _, p := range list {
		rows = append(rows, []interface{}{
			p.FullName, p.Age, p.Department, p.Title, p.Status, p.UpdatedAt.Format(profileTimestamp),
		})
	}
	if err := writeRows(f, SheetProfiles, 1, rows); err != nil {
		_ = f.Close()
		return nil, err
	}
	_ = f.SetColWidth(SheetProfiles, "A", "A", 28)
	_ = f.SetColWidth(SheetProfiles, "C", "F", 22)
	return f, nil
}

func writeRosterSheet(f *excelize.File, roster *model.Roster, headerStyle int) error {
	header := []interface{}{"Khoa/Phòng", "Họ và tên"}
	for _, col := range roster.Columns {
		header = append(header, col.Key)
	}
	rows := [][]interface{}{header}
	for _, rec := range roster.Records {
		row := []interface{}{rec.Department, rec.EmployeeName}
		for _, col := range roster.Columns {
			row = append(row, rec.Shift(col.Key))
		}
		rows = append(rows, row)
	}
	if err := writeRows(f, SheetRoster, 1, rows); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetRoster, 1, 1, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(SheetRoster, "A", "B", 24); err != nil {
		return err
	}
	return f.SetPanes(SheetRoster, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	})
}

func writeSummarySheet(f *excelize.File, report *calculator.Report, headerStyle int) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return err
	}

	rows := [][]interface{}{{"Chỉ tiêu", "Giá trị"}}
	for _, ind := range report.Indicators {
		rows = append(rows, []interface{}{ind.Name, ind.Value})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Khoa/Phòng", "Họ và tên", "Tổng số lượt trực", "Trực cuối tuần"})
	headerRow := len(rows)

	weekend := make(map[calculator.Employee]int, len(report.Weekend))
	for _, w := range report.Weekend {
		weekend[w.Employee] = w.Count
	}
	for _, e := range report.OnCall {
		rows = append(rows, []interface{}{e.Department, e.EmployeeName, e.Count, weekend[e.Employee]})
	}

	if err := writeRows(f, SheetSummary, 1, rows); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetSummary, 1, 1, headerStyle); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetSummary, headerRow, headerRow, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SheetSummary, "A", "B", 30)
}

func writeFrequencySheet(f *excelize.File, report *calculator.Report, headerStyle int) error {
	if _, err := f.NewSheet(SheetFrequency); err != nil {
		return err
	}

	rows := [][]interface{}{{"Tần suất trực", "Số nhân viên", "Danh sách"}}
	for _, b := range report.Frequency {
		names := make([]string, 0, len(b.Employees))
		for _, e := range b.Employees {
			names = append(names, e.EmployeeName)
		}
		rows = append(rows, []interface{}{frequencyLabels[b.Category], b.Count, strings.Join(names, ", ")})
	}
	if err := writeRows(f, SheetFrequency, 1, rows); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetFrequency, 1, 1, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SheetFrequency, "C", "C", 80)
}

func writeLeaveSheet(f *excelize.File, report *calculator.Report, headerStyle int) error {
	if _, err := f.NewSheet(SheetLeave); err != nil {
		return err
	}

	maternity := make(map[calculator.Employee]bool, len(report.Maternity))
	for _, e := range report.Maternity {
		maternity[e] = true
	}

	rows := [][]interface{}{{"Khoa/Phòng", "Họ và tên", "Nghỉ thai sản"}}
	for _, e := range report.Leave {
		mark := ""
		if maternity[e] {
			mark = "x"
		}
		rows = append(rows, []interface{}{e.Department, e.EmployeeName, mark})
	}
	if err := writeRows(f, SheetLeave, 1, rows); err != nil {
		return err
	}
	if err := f.SetRowStyle(SheetLeave, 1, 1, headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SheetLeave, "A", "B", 28)
}

func writeRows(f *excelize.File, sheet string, startRow int, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, startRow+i)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, startRow+i, err)
		}
	}
	return nil
}
