package report

import (
	"fmt"
	"strings"

	"skybank/internal/core"
)

// Format names an output encoding for reports.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name or a file name ending in one. Empty input
// selects JSON.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FormatJSON, nil
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	f := Format(s)
	if _, ok := writers[f]; !ok {
		return "", fmt.Errorf("%q: %w", s, core.ErrInvalidFormat)
	}
	return f, nil
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json; charset=utf-8"
	}
}

// Writer encodes a complete report into memory.
type Writer interface {
	Encode(records []core.ReportRecord) ([]byte, error)
}

// writers maps formats to their encoders.
var writers = map[Format]Writer{
	FormatJSON: JSONWriter{},
	FormatCSV:  CSVWriter{},
	FormatXLSX: XLSXWriter{},
}

// WriterFor returns the writer registered for f.
func WriterFor(f Format) (Writer, error) {
	w, ok := writers[f]
	if !ok {
		return nil, fmt.Errorf("%q: %w", string(f), core.ErrInvalidFormat)
	}
	return w, nil
}

// columns returns the key order of the first record.
func columns(records []core.ReportRecord) []string {
	if len(records) == 0 {
		return nil
	}
	return records[0].Keys()
}

func cellValue(records core.ReportRecord, key string) any {
	v, _ := records.Get(key)
	return v
}
