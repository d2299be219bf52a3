package excel

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"fretedash/internal/errors"

	"github.com/xuri/excelize/v2"
)

// WorkbookReader reads sheets from one spreadsheet file (xlsx or xlsm).
type WorkbookReader struct {
	path string
	file *excelize.File
}

// OpenWorkbook opens a workbook for reading. Fails with a FILE_NOT_FOUND
// error when the path is missing and a PARSE_ERROR when excelize cannot
// read the file.
func OpenWorkbook(path string) (*WorkbookReader, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.FileNotFound(path)
	}

	start := time.Now()
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.ParseError(path, err)
	}
	log.Printf("[WorkbookReader] Opened %s in %.2fms", path, float64(time.Since(start).Nanoseconds())/1e6)

	return &WorkbookReader{path: path, file: f}, nil
}

// Close releases the underlying excelize file.
func (r *WorkbookReader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// Path returns the workbook path.
func (r *WorkbookReader) Path() string {
	return r.path
}

// SheetNames lists the sheets in workbook order.
func (r *WorkbookReader) SheetNames() []string {
	return r.file.GetSheetList()
}

// HasSheet reports whether the workbook contains the named sheet.
func (r *WorkbookReader) HasSheet(name string) bool {
	for _, s := range r.file.GetSheetList() {
		if s == name {
			return true
		}
	}
	return false
}

// ReadSheet reads one sheet into a raw string grid. Sheets the
// configuration does not reference are simply never requested.
func (r *WorkbookReader) ReadSheet(name string) (*SheetData, error) {
	rows, err := r.file.GetRows(name)
	if err != nil {
		return nil, errors.ParseError(r.path, err)
	}
	return &SheetData{Name: name, Rows: rows}, nil
}

// ReadSheetOptional reads a sheet, returning nil without error when the
// sheet does not exist.
func (r *WorkbookReader) ReadSheetOptional(name string) (*SheetData, error) {
	if !r.HasSheet(name) {
		return nil, nil
	}
	return r.ReadSheet(name)
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

// parseNumber parses a formatted cell into a float64. Handles plain Go
// float formatting as well as pt-BR "1.234,56" style cells.
func parseNumber(s string) (float64, bool) {
	s = trim(s)
	if s == "" {
		return 0, false
	}
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "R$")
	s = trim(s)
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	// pt-BR separators: dot for thousands, comma for decimals.
	if strings.Contains(s, ",") {
		converted := strings.ReplaceAll(strings.ReplaceAll(s, ".", ""), ",", ".")
		if v, err := strconv.ParseFloat(converted, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// slug converts a metric label into a column-name fragment.
func slug(s string) string {
	replacer := strings.NewReplacer(
		" ", "_",
		"%", "pct",
		"/", "_",
		"(", "",
		")", "",
		"-", "_",
		":", "",
		".", "",
	)
	out := replacer.Replace(strings.ToLower(trim(s)))
	for strings.Contains(out, "__") {
		out = strings.ReplaceAll(out, "__", "_")
	}
	out = strings.Trim(out, "_")
	if len(out) > 50 {
		out = out[:50]
	}
	return out
}
