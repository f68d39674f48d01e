// Package workbook reads uploaded roster files into raw sheets.
package workbook

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dhyhn5012/tccb/internal/parser"
)

var (
	// ErrUnsupportedFormat is returned for extensions other than xlsx, xls and csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrMalformedContent wraps decode and structural failures.
	ErrMalformedContent = errors.New("malformed file content")
)

// Format is the input format inferred from the file extension.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// MultiSheet reports whether the format can hold several sheets.
func (f Format) MultiSheet() bool {
	return f == FormatXLSX || f == FormatXLS
}

// Workbook is a decoded upload.
type Workbook struct {
	Filename string
	Format   Format
	Sheets   []parser.RawSheet
}

// DetectFormat maps a file name to its Format.
func DetectFormat(filename string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Load reads r fully and decodes it according to the file extension.
func Load(filename string, r io.Reader) (*Workbook, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %w", ErrMalformedContent, err)
	}
	return Decode(filename, format, data)
}

// Decode decodes data of a known format. Panics raised by the underlying
// readers on corrupt input are converted to ErrMalformedContent.
func Decode(filename string, format Format, data []byte) (wb *Workbook, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			wb = nil
			err = fmt.Errorf("%w: %v", ErrMalformedContent, rec)
		}
	}()

	var sheets []parser.RawSheet
	switch format {
	case FormatXLSX:
		sheets, err = readXLSX(data)
	case FormatXLS:
		sheets, err = readXLS(data)
	case FormatCSV:
		sheets, err = readCSV(filepath.Base(filename), data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}

	return &Workbook{
		Filename: filename,
		Format:   format,
		Sheets:   sheets,
	}, nil
}

func readXLSX(data []byte) ([]parser.RawSheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	dates := newDateStyles(f)
	names := f.GetSheetList()
	sheets := make([]parser.RawSheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		dates.rewrite(name, rows, raw)
		sheets = append(sheets, parser.RawSheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

func readXLS(data []byte) ([]parser.RawSheet, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	useISODateFormat(wb)

	sheets := make([]parser.RawSheet, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		ws := wb.GetSheet(i)
		if ws == nil {
			continue
		}
		rows := make([][]string, 0, int(ws.MaxRow)+1)
		for r := 0; r <= int(ws.MaxRow); r++ {
			row := ws.Row(r)
			if row == nil {
				rows = append(rows, []string{})
				continue
			}
			cells := make([]string, row.LastCol())
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				cells[c] = row.Col(c)
			}
			rows = append(rows, cells)
		}
		sheets = append(sheets, parser.RawSheet{Name: ws.Name, Rows: rows})
	}
	return sheets, nil
}

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

func readCSV(name string, data []byte) ([]parser.RawSheet, error) {
	utf16 := bytes.HasPrefix(data, bomUTF16LE) || bytes.HasPrefix(data, bomUTF16BE)
	if !utf16 && !utf8.Valid(data) {
		return nil, errors.New("csv is not valid UTF-8")
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(bytes.NewReader(data), decoder))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return []parser.RawSheet{{Name: name, Rows: rows}}, nil
}
