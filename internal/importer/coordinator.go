package importer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dhyhn5012/tccb/internal/model"
	"github.com/dhyhn5012/tccb/internal/parser"
	"github.com/dhyhn5012/tccb/internal/workbook"
)

// ErrEmptyResult is returned when no sheet of the upload could be parsed.
var ErrEmptyResult = errors.New("no parseable roster section in file")

// ImportLogger records uploads. *store.Store implements it.
type ImportLogger interface {
	CreateImportLog(filename string, fileSize int64, fileHash string) (int64, error)
	FinishImportLog(id int64, report *parser.ImportReport, status, errorMessage string) error
}

// Config tunes the coordinator.
type Config struct {
	DefaultDepartment string
	// Workers bounds parallel sheet extraction; <= 1 means sequential.
	Workers int
}

// Coordinator runs the extractor over every sheet of an upload and merges the
// results into one roster.
type Coordinator struct {
	logs      ImportLogger
	extractor *parser.SheetExtractor
	workers   int
	logger    *zap.Logger
}

// NewCoordinator creates a coordinator. logs may be nil.
func NewCoordinator(logs ImportLogger, cfg Config) *Coordinator {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Coordinator{
		logs:      logs,
		extractor: parser.NewSheetExtractor(parser.ExtractOptions{DefaultDepartment: cfg.DefaultDepartment}),
		workers:   workers,
		logger:    zap.L().Named("importer"),
	}
}

// ImportOptions describes one upload.
type ImportOptions struct {
	Filename string
	Reader   io.Reader
}

// Result is the outcome of one upload. Roster and Report are never nil.
type Result struct {
	Format   workbook.Format      `json:"format"`
	Roster   *model.Roster        `json:"roster"`
	Report   *parser.ImportReport `json:"report"`
	Warnings []string             `json:"warnings"`
}

type sheetOutcome struct {
	result   *parser.SheetResult
	err      error
	duration time.Duration
}

// Import parses the upload. Per-sheet problems of a workbook become warnings;
// whole-file problems return an error together with an empty roster.
func (c *Coordinator) Import(ctx context.Context, opts ImportOptions, notifier Notifier) (*Result, error) {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	startTime := time.Now()
	filename := filepath.Base(opts.Filename)

	res := &Result{
		Roster: model.NewRoster(),
		Report: &parser.ImportReport{
			Filename: filename,
			Sheets:   []parser.ParseResult{},
		},
		Warnings: []string{},
	}

	notifier.Notify(newEvent(EventStart, fmt.Sprintf("Bắt đầu đọc tệp %s", filename), map[string]string{
		"filename": filename,
	}))

	format, err := workbook.DetectFormat(filename)
	if err != nil {
		return c.fail(res, -1, notifier, err)
	}
	res.Format = format
	res.Report.Format = string(format)

	data, err := io.ReadAll(opts.Reader)
	if err != nil {
		return c.fail(res, -1, notifier, fmt.Errorf("%w: read upload: %w", workbook.ErrMalformedContent, err))
	}

	logID := c.createLog(filename, data, res, notifier)

	wb, err := workbook.Decode(filename, format, data)
	if err != nil {
		return c.fail(res, logID, notifier, err)
	}
	res.Report.TotalSheets = len(wb.Sheets)

	notifier.Notify(newEvent(EventInfo, fmt.Sprintf("Tìm thấy %d sheet", len(wb.Sheets)), map[string]interface{}{
		"total_sheets": len(wb.Sheets),
	}))

	extractor := c.extractor.WithDropBookkeeping(format == workbook.FormatCSV)
	outcomes, err := c.extractAll(ctx, extractor, wb.Sheets)
	if err != nil {
		return c.fail(res, logID, notifier, err)
	}

	parsed := make([]*parser.SheetResult, 0, len(outcomes))
	for i, out := range outcomes {
		sheetName := wb.Sheets[i].Name
		if out.err != nil {
			if !format.MultiSheet() {
				res.Report.Record(parser.ParseResult{
					SheetName: sheetName,
					Status:    parser.SheetError,
					Errors:    []string{out.err.Error()},
					Duration:  out.duration,
				})
				return c.fail(res, logID, notifier, out.err)
			}
			warning := fmt.Sprintf("Bỏ qua sheet %q: không tìm thấy dòng tiêu đề \"STT\" / \"Họ và tên\"", sheetName)
			res.Warnings = append(res.Warnings, warning)
			res.Report.Record(parser.ParseResult{
				SheetName: sheetName,
				Status:    parser.SheetSkipped,
				Errors:    []string{out.err.Error()},
				Duration:  out.duration,
			})
			notifier.Notify(newEvent(EventWarning, warning, map[string]string{"sheet_name": sheetName}))
			continue
		}

		parsed = append(parsed, out.result)
		res.Report.Record(parser.ParseResult{
			SheetName:    sheetName,
			Department:   out.result.Location.Department,
			Status:       parser.SheetImported,
			ImportedRows: len(out.result.Records),
			FilteredRows: out.result.FilteredRows,
			ShiftDays:    len(out.result.Columns.ShiftColumns()),
			Duration:     out.duration,
		})
		notifier.Notify(newEvent(EventSheetDone,
			fmt.Sprintf("Sheet %q (%s): %d nhân viên", sheetName, out.result.Location.Department, len(out.result.Records)),
			map[string]interface{}{
				"sheet_name":    sheetName,
				"department":    out.result.Location.Department,
				"imported_rows": len(out.result.Records),
			}))
	}

	if len(parsed) == 0 {
		return c.fail(res, logID, notifier, ErrEmptyResult)
	}

	res.Roster = MergeSheets(parsed)
	res.Report.Duration = time.Since(startTime)
	c.finishLog(logID, res.Report, "completed", "")

	c.logger.Info("roster imported",
		zap.String("filename", filename),
		zap.String("format", string(format)),
		zap.Int("sheets", res.Report.TotalSheets),
		zap.Int("skipped", res.Report.SkippedSheets),
		zap.Int("records", len(res.Roster.Records)),
		zap.Duration("duration", res.Report.Duration))

	notifier.Notify(newEvent(EventDone, "Hoàn tất", res.Report))
	return res, nil
}

// extractAll runs the extractor per sheet. Each task writes only its own slot
// of the outcome slice; the merge happens afterwards in sheet order.
func (c *Coordinator) extractAll(ctx context.Context, extractor *parser.SheetExtractor, sheets []parser.RawSheet) ([]sheetOutcome, error) {
	outcomes := make([]sheetOutcome, len(sheets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range sheets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			result, err := extractor.ParseSheet(sheets[i])
			outcomes[i] = sheetOutcome{result: result, err: err, duration: time.Since(start)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (c *Coordinator) fail(res *Result, logID int64, notifier Notifier, err error) (*Result, error) {
	res.Roster = model.NewRoster()
	c.finishLog(logID, res.Report, "failed", err.Error())
	c.logger.Warn("roster import failed", zap.String("filename", res.Report.Filename), zap.Error(err))
	notifier.Notify(newEvent(EventError, err.Error(), nil))
	return res, err
}

func (c *Coordinator) createLog(filename string, data []byte, res *Result, notifier Notifier) int64 {
	if c.logs == nil {
		return -1
	}
	sum := sha256.Sum256(data)
	id, err := c.logs.CreateImportLog(filename, int64(len(data)), hex.EncodeToString(sum[:]))
	if err != nil {
		c.warn(res, notifier, fmt.Sprintf("Không ghi được nhật ký nhập: %v", err))
		return -1
	}
	return id
}

func (c *Coordinator) finishLog(id int64, report *parser.ImportReport, status, errorMessage string) {
	if c.logs == nil || id < 0 {
		return
	}
	if err := c.logs.FinishImportLog(id, report, status, errorMessage); err != nil {
		c.logger.Warn("finish import log", zap.Int64("id", id), zap.Error(err))
	}
}

func (c *Coordinator) warn(res *Result, notifier Notifier, msg string) {
	res.Warnings = append(res.Warnings, msg)
	notifier.Notify(newEvent(EventWarning, msg, nil))
}

// ImportBytes is a convenience wrapper for callers holding the whole file.
func (c *Coordinator) ImportBytes(ctx context.Context, filename string, data []byte, notifier Notifier) (*Result, error) {
	return c.Import(ctx, ImportOptions{Filename: filename, Reader: bytes.NewReader(data)}, notifier)
}
