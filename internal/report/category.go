// Package report builds category spending reports and writes them out as
// JSON, CSV or XLSX.
package report

import (
	"encoding/json"
	"fmt"
	"time"

	"skybank/internal/analytics"
	"skybank/internal/core"
	"skybank/internal/log"
)

// WindowDays is the length of the trailing window a report covers.
const WindowDays = 90

// Generator selects the rows that make up a category report.
type Generator struct {
	engine *analytics.Engine
	logger *log.Logger
	now    func() time.Time
}

// NewGenerator returns a generator using the wall clock.
func NewGenerator(engine *analytics.Engine, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Discard()
	}
	if engine == nil {
		engine = analytics.New(logger)
	}
	return &Generator{
		engine: engine,
		logger: logger.WithComponent(log.ComponentReport),
		now:    time.Now,
	}
}

// WithClock replaces the clock used when no report date is given.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// SpendingByCategory returns the rows of category within the 90 days ending
// at date (DD.MM.YYYY HH:MM:SS, empty for now). Category matching is exact.
// A malformed date returns nil and an error wrapping core.ErrInvalidDate.
func (g *Generator) SpendingByCategory(rows []core.Transaction, category, date string) ([]core.ReportRecord, error) {
	end := g.now()
	if date != "" {
		ts, err := core.ParseOperationTime(date)
		if err != nil {
			g.logger.Warn(core.MsgInvalidReportDate, log.FieldDate, date, log.FieldError, err)
			return nil, fmt.Errorf("report date %q: %w", date, core.ErrInvalidDate)
		}
		end = ts
	}

	window := g.engine.FilterTrailingDays(rows, end, WindowDays)
	out := make([]core.ReportRecord, 0)
	for _, tx := range window {
		if tx.Category == nil || *tx.Category != category {
			continue
		}
		out = append(out, core.NewReportRecord(tx))
	}

	g.logger.Info("Category report built",
		log.FieldOperation, log.OpReport,
		log.FieldCategory, category,
		log.FieldDate, end.Format(core.OperationLayout),
		log.FieldCount, len(out))
	return out, nil
}

// EncodeJSON renders records as an indented JSON array; no records give "[]".
func EncodeJSON(records []core.ReportRecord) ([]byte, error) {
	if records == nil {
		records = []core.ReportRecord{}
	}
	return json.MarshalIndent(records, "", "    ")
}
