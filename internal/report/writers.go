package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"skybank/internal/core"
)

// JSONWriter writes the indented JSON array produced by EncodeJSON.
type JSONWriter struct{}

func (JSONWriter) Encode(records []core.ReportRecord) ([]byte, error) {
	return EncodeJSON(records)
}

// CSVWriter writes a header row followed by one line per record. Missing
// values are empty cells.
type CSVWriter struct{}

func (CSVWriter) Encode(records []core.ReportRecord) ([]byte, error) {
	cols := columns(records)
	if cols == nil {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	line := make([]string, len(cols))
	for _, rec := range records {
		for i, key := range cols {
			line[i] = formatCell(cellValue(rec, key))
		}
		if err := w.Write(line); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}

// XLSXWriter writes a single-sheet workbook with a header row.
type XLSXWriter struct{}

// SheetName is the worksheet report rows are written to.
const SheetName = "Sheet1"

func (XLSXWriter) Encode(records []core.ReportRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	cols := columns(records)
	for i, key := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(SheetName, cell, key); err != nil {
			return nil, fmt.Errorf("write xlsx header: %w", err)
		}
	}
	for r, rec := range records {
		for c, key := range cols {
			v := cellValue(rec, key)
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("write xlsx row %d: %w", r+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
