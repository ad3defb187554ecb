package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"exportlens/domain/table"
	"exportlens/internal"
	"exportlens/internal/errors"

	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DataReader parses uploaded Excel and CSV files into tables
type DataReader struct {
	maxBytes int64
	logger   *internal.Logger
}

// NewDataReader creates a reader that rejects uploads larger than maxBytes (0 = unlimited)
func NewDataReader(maxBytes int64) *DataReader {
	return &DataReader{maxBytes: maxBytes, logger: internal.DefaultLogger.With("DataReader")}
}

// Load reads r once and parses it as format. Every failure is a LOAD_ERROR
// carrying the parser's message; no table is returned alongside an error.
func (r *DataReader) Load(src io.Reader, name string, format Format) (*table.Table, error) {
	start := time.Now()

	data, err := r.readAll(src)
	if err != nil {
		return nil, errors.LoadError(name, err)
	}

	var headers []string
	var rows [][]string
	switch format {
	case FormatCSV:
		headers, rows, err = readCSV(data)
	case FormatXLSX:
		headers, rows, err = readXLSX(data)
	default:
		err = fmt.Errorf("unsupported file type: %s", format)
	}
	if err != nil {
		r.logger.Warn("%s (%s) rejected: %v", name, format, err)
		return nil, errors.LoadError(name, err)
	}

	t, err := table.New(name, headers, rows)
	if err != nil {
		return nil, errors.LoadError(name, err)
	}

	r.logger.Info("%s file %s processed (%d columns, %d rows) in %.2fms",
		strings.ToUpper(string(format)), name, len(headers), len(rows), float64(time.Since(start).Nanoseconds())/1e6)
	return t, nil
}

func (r *DataReader) readAll(src io.Reader) ([]byte, error) {
	if r.maxBytes <= 0 {
		return io.ReadAll(src)
	}
	data, err := io.ReadAll(io.LimitReader(src, r.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > r.maxBytes {
		return nil, fmt.Errorf("file exceeds the %d byte upload limit", r.maxBytes)
	}
	return data, nil
}

// readCSV parses comma separated text; the first record is the header
func readCSV(data []byte) ([]string, [][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return nil, nil, fmt.Errorf("unsupported encoding: file is not valid UTF-8")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("no columns to parse from file")
	}
	return records[0], records[1:], nil
}

// readXLSX parses the first worksheet; leading blank rows are skipped and
// the first non-blank row is the header. Cells right of the last header cell
// get an unnamed column instead of failing the row.
func readXLSX(data []byte) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no worksheets")
	}

	// raw values keep numbers free of display formatting such as "1,234"
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	formatDates(f, sheets[0], rows)

	for len(rows) > 0 && isBlankRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no columns to parse from file")
	}

	// excelize drops trailing blank rows already; blank rows inside the data are kept
	headers := rows[0]
	for _, row := range rows[1:] {
		for len(headers) < len(row) {
			headers = append(headers, "")
		}
	}
	return headers, rows[1:], nil
}

// formatDates rewrites date-styled serial numbers as timestamps. GetRows
// returns one entry per sheet row, so rows[r] is sheet row r+1.
func formatDates(f *excelize.File, sheet string, rows [][]string) {
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	dateStyles := make(map[int]bool)
	for r, row := range rows {
		for c, cell := range row {
			serial, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				continue
			}
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				continue
			}
			styleID, err := f.GetCellStyle(sheet, name)
			if err != nil || styleID == 0 {
				continue
			}
			isDate, seen := dateStyles[styleID]
			if !seen {
				isDate = isDateStyle(f, styleID)
				dateStyles[styleID] = isDate
			}
			if !isDate {
				continue
			}
			if ts, err := excelize.ExcelDateToTime(serial, date1904); err == nil {
				row[c] = formatTimestamp(ts)
			}
		}
	}
}

var numFmtLiterals = regexp.MustCompile(`\[[^\]]*\]|"[^"]*"`)

func isDateStyle(f *excelize.File, styleID int) bool {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	switch n := style.NumFmt; {
	case n >= 14 && n <= 22, n >= 45 && n <= 47:
		return true
	}
	if style.CustomNumFmt == nil {
		return false
	}
	code := strings.ToLower(numFmtLiterals.ReplaceAllString(*style.CustomNumFmt, ""))
	return strings.ContainsAny(code, "dy")
}

func formatTimestamp(ts time.Time) string {
	if ts.Hour() == 0 && ts.Minute() == 0 && ts.Second() == 0 {
		return ts.Format("2006-01-02")
	}
	return ts.Format("2006-01-02 15:04:05")
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
