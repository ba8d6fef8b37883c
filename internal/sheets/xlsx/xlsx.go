// Package xlsx reads bank exports saved as Excel workbooks.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/xuri/excelize/v2"

	"skybank/internal/core"
	"skybank/internal/log"
	ports "skybank/internal/sheets"
)

var _ ports.TransactionReader = (*Reader)(nil)

// Reader loads transactions from the first (or named) sheet of a workbook.
type Reader struct {
	path   string
	sheet  string
	logger *log.Logger
}

// New returns a reader for path. An empty sheet selects the first sheet.
func New(path, sheet string, logger *log.Logger) *Reader {
	if logger == nil {
		logger = log.Discard()
	}
	return &Reader{path: path, sheet: sheet, logger: logger.WithComponent(log.ComponentSheets)}
}

// ReadTransactions returns the rows of the workbook. When the workbook does
// not exist the result is a single placeholder row and no error.
func (r *Reader) ReadTransactions(ctx context.Context) ([]core.Transaction, error) {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.ErrorContext(ctx, core.MsgFileNotFound, log.FieldFile, r.path, log.FieldError, err)
			return []core.Transaction{core.PlaceholderTransaction()}, nil
		}
		return nil, fmt.Errorf("open workbook %s: %w", r.path, err)
	}
	defer f.Close()

	sheet := r.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		r.logger.WarnContext(ctx, "Workbook has no rows", log.FieldFile, r.path)
		return []core.Transaction{}, nil
	}

	txs, err := ports.ParseRows(rows[0], rows[1:])
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", r.path, err)
	}
	r.logger.DebugContext(ctx, "Workbook read",
		log.FieldOperation, log.OpRead,
		log.FieldFile, r.path,
		log.FieldCount, len(txs))
	return txs, nil
}

// Write stores txs as a workbook with the export header. It is used to seed
// demo data and test fixtures.
func Write(path string, txs []core.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	header := make([]interface{}, len(ports.Columns))
	for i, c := range ports.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, tx := range txs {
		cells := ports.FormatRow(tx)
		row := make([]interface{}, len(cells))
		for j, c := range cells {
			row[j] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
