package importer

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dhyhn5012/tccb/internal/calculator"
	"github.com/dhyhn5012/tccb/internal/parser"
	"github.com/dhyhn5012/tccb/internal/workbook"
)

type sheetFixture struct {
	name string
	rows [][]interface{}
}

func buildWorkbook(t *testing.T, sheets ...sheetFixture) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			row := row
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func noiSheet() sheetFixture {
	return sheetFixture{name: "Noi", rows: [][]interface{}{
		{"BỆNH VIỆN ĐA KHOA TỈNH"},
		{"Bộ phận: Khoa Nội"},
		{"STT", "Họ và tên", "1", "2", "3", "4"},
		{"", "", "2024-03-04", "2024-03-05", "2024-03-06", "T7"},
		{1, "Nguyễn Văn A", "X", "X", "NP", "T7"},
		{2, "Trần Thị B", "", "", "Nts", ""},
		{"", "Tổng cộng", 1, 1, "", 1},
	}}
}

func ngoaiSheet() sheetFixture {
	return sheetFixture{name: "Ngoai", rows: [][]interface{}{
		{"Đơn vị: Khoa Ngoại"},
		{"STT", "Họ và tên", "1", "2"},
		{"", "", "2024-03-04", "2024-03-07"},
		{1, "Lê Văn C", "Tr", "X"},
	}}
}

func notesSheet() sheetFixture {
	return sheetFixture{name: "Ghi chu", rows: [][]interface{}{
		{"Ký hiệu: X = trực, NP = nghỉ phép"},
	}}
}

func TestImport_MultiSheetWorkbook(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, noiSheet(), notesSheet(), ngoaiSheet())
	collector := &Collector{}

	res, err := NewCoordinator(nil, Config{Workers: 2}).ImportBytes(context.Background(), "lich_truc.xlsx", data, collector)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if res.Format != workbook.FormatXLSX {
		t.Fatalf("unexpected format: %s", res.Format)
	}
	if res.Report.TotalSheets != 3 || res.Report.ImportedSheets != 2 || res.Report.SkippedSheets != 1 {
		t.Fatalf("unexpected report: %+v", res.Report)
	}
	if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "Ghi chu") {
		t.Fatalf("unexpected warnings: %v", res.Warnings)
	}
	if len(collector.Warnings()) != 1 {
		t.Fatalf("warning must be notified: %v", collector.Warnings())
	}

	roster := res.Roster
	if len(roster.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(roster.Records))
	}
	// Sheet order is kept regardless of worker scheduling.
	if roster.Records[0].EmployeeName != "Nguyễn Văn A" || roster.Records[2].EmployeeName != "Lê Văn C" {
		t.Fatalf("unexpected record order: %+v", roster.Records)
	}
	if roster.Records[2].Department != "Khoa Ngoại" {
		t.Fatalf("unexpected department: %q", roster.Records[2].Department)
	}

	keys := make([]string, 0, len(roster.Columns))
	for _, c := range roster.Columns {
		keys = append(keys, c.Key)
	}
	if strings.Join(keys, ",") != "2024-03-04,2024-03-05,2024-03-06,T7,2024-03-07" {
		t.Fatalf("unexpected column union: %v", keys)
	}
	for _, rec := range roster.Records {
		if len(rec.Shifts) != len(roster.Columns) {
			t.Fatalf("record %s must carry every column: %v", rec.EmployeeName, rec.Shifts)
		}
	}
	if roster.Records[2].Shift("T7") != "" {
		t.Fatalf("missing columns are empty markers")
	}

	last := collector.Events[len(collector.Events)-1]
	if last.Type != EventDone {
		t.Fatalf("last event must be done, got %s", last.Type)
	}
}

func TestImport_DateCellsWithShortDisplayFormat(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"Bộ phận: Khoa Sản"},
		{"STT", "Họ và tên", "1", "2"},
		{"", "", time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC), time.Date(2024, time.May, 13, 0, 0, 0, 0, time.UTC)},
		{1, "Đỗ Thị H", "X", "T7"},
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		row := row
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	dayMonth := "dd/mm"
	style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dayMonth})
	if err != nil {
		t.Fatalf("style: %v", err)
	}
	if err := f.SetCellStyle("Sheet1", "C3", "D3", style); err != nil {
		t.Fatalf("set style: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	_ = f.Close()

	res, err := NewCoordinator(nil, Config{}).ImportBytes(context.Background(), "san.xlsx", buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	keys := make([]string, 0, len(res.Roster.Columns))
	for _, c := range res.Roster.Columns {
		keys = append(keys, c.Key)
	}
	if strings.Join(keys, ",") != "2024-05-04,2024-05-13" {
		t.Fatalf("date cells must become date columns, got %v", keys)
	}

	report := calculator.NewCalculator(res.Roster).Analyze("")
	if len(report.OnCall) != 1 || report.OnCall[0].Count != 2 {
		t.Fatalf("unexpected on-call summary: %+v", report.OnCall)
	}
	// 2024-05-04 is a Saturday.
	if len(report.Weekend) != 1 || report.Weekend[0].Count != 1 {
		t.Fatalf("unexpected weekend summary: %+v", report.Weekend)
	}
}

func TestImport_KhoaNoiStatistics(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, noiSheet())
	res, err := NewCoordinator(nil, Config{}).ImportBytes(context.Background(), "khoa_noi.xlsx", data, nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	c := calculator.NewCalculator(res.Roster)
	if deps := c.Departments(); len(deps) != 1 || deps[0] != "Khoa Nội" {
		t.Fatalf("unexpected departments: %v", deps)
	}

	total := c.OnCallSummary("Khoa Nội")
	if total[0].EmployeeName != "Nguyễn Văn A" || total[0].Count != 3 {
		t.Fatalf("unexpected on-call summary: %+v", total)
	}
	weekend := c.WeekendSummary("Khoa Nội")
	if weekend[0].EmployeeName != "Nguyễn Văn A" || weekend[0].Count != 1 {
		t.Fatalf("unexpected weekend summary: %+v", weekend)
	}
	if leave := c.LeaveRoster(""); len(leave) != 2 {
		t.Fatalf("unexpected leave roster: %+v", leave)
	}
	maternity := c.MaternityRoster("")
	if len(maternity) != 1 || maternity[0].EmployeeName != "Trần Thị B" {
		t.Fatalf("unexpected maternity roster: %+v", maternity)
	}
}

func TestImport_CSVDropsBookkeeping(t *testing.T) {
	t.Parallel()

	csv := "\ufeffBộ phận: Khoa Sản,,,\n" +
		"STT,Họ và tên,Quy ra công,1\n" +
		",,,2024-03-09\n" +
		"1,Phạm Thị D,1,X\n"

	res, err := NewCoordinator(nil, Config{}).ImportBytes(context.Background(), "san.csv", []byte(csv), nil)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Format != workbook.FormatCSV || res.Report.TotalSheets != 1 {
		t.Fatalf("unexpected result: %+v", res.Report)
	}
	rec := res.Roster.Records[0]
	if rec.Department != "Khoa Sản" || rec.EmployeeName != "Phạm Thị D" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(res.Roster.Columns) != 1 || rec.Shift("2024-03-09") != "X" {
		t.Fatalf("unexpected shifts: %+v %+v", res.Roster.Columns, rec.Shifts)
	}
}

func TestImport_CSVWithoutHeaderFails(t *testing.T) {
	t.Parallel()

	collector := &Collector{}
	res, err := NewCoordinator(nil, Config{}).ImportBytes(context.Background(), "notes.csv", []byte("a,b\nc,d\n"), collector)
	if !errors.Is(err, parser.ErrUnparsableSection) {
		t.Fatalf("expected ErrUnparsableSection, got %v", err)
	}
	if res == nil || !res.Roster.Empty() {
		t.Fatalf("failed import must return an empty roster: %+v", res)
	}
	if last := collector.Events[len(collector.Events)-1]; last.Type != EventError {
		t.Fatalf("expected error event, got %s", last.Type)
	}
}

func TestImport_UnsupportedFormat(t *testing.T) {
	t.Parallel()

	res, err := NewCoordinator(nil, Config{}).ImportBytes(context.Background(), "roster.pdf", []byte("%PDF"), nil)
	if !errors.Is(err, workbook.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if !res.Roster.Empty() {
		t.Fatalf("expected empty roster")
	}
}

func TestImport_CorruptWorkbook(t *testing.T) {
	t.Parallel()

	_, err := NewCoordinator(nil, Config{}).ImportBytes(context.Background(), "broken.xlsx", []byte("not a zip"), nil)
	if !errors.Is(err, workbook.ErrMalformedContent) {
		t.Fatalf("expected ErrMalformedContent, got %v", err)
	}
}

func TestImport_OversizedUploadKeepsLimitError(t *testing.T) {
	t.Parallel()

	body := http.MaxBytesReader(nil, io.NopCloser(strings.NewReader(strings.Repeat("x", 64))), 16)
	_, err := NewCoordinator(nil, Config{}).Import(context.Background(), ImportOptions{Filename: "big.csv", Reader: body}, nil)

	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		t.Fatalf("expected *http.MaxBytesError, got %v", err)
	}
	if tooLarge.Limit != 16 {
		t.Fatalf("expected limit 16, got %d", tooLarge.Limit)
	}
}

func TestImport_NoParseableSheet(t *testing.T) {
	t.Parallel()

	data := buildWorkbook(t, notesSheet())
	res, err := NewCoordinator(nil, Config{}).ImportBytes(context.Background(), "notes.xlsx", data, nil)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
	if res.Report.SkippedSheets != 1 || len(res.Warnings) != 1 {
		t.Fatalf("skipped sheet must still be reported: %+v", res.Report)
	}
}

type recordingLogger struct {
	created  int
	statuses []string
}

func (l *recordingLogger) CreateImportLog(string, int64, string) (int64, error) {
	l.created++
	return 7, nil
}

func (l *recordingLogger) FinishImportLog(id int64, _ *parser.ImportReport, status, _ string) error {
	if id != 7 {
		return errors.New("unexpected id")
	}
	l.statuses = append(l.statuses, status)
	return nil
}

func TestImport_RecordsImportLog(t *testing.T) {
	t.Parallel()

	logs := &recordingLogger{}
	coordinator := NewCoordinator(logs, Config{})

	if _, err := coordinator.ImportBytes(context.Background(), "ok.xlsx", buildWorkbook(t, noiSheet()), nil); err != nil {
		t.Fatalf("import: %v", err)
	}
	_, _ = coordinator.ImportBytes(context.Background(), "bad.csv", []byte("x\n"), nil)

	if logs.created != 2 {
		t.Fatalf("expected 2 logs, got %d", logs.created)
	}
	if strings.Join(logs.statuses, ",") != "completed,failed" {
		t.Fatalf("unexpected statuses: %v", logs.statuses)
	}
}
