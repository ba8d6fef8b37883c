// Package analytics derives card totals, rankings and round-up projections
// from bank export rows. Every function is synchronous and keeps no state
// between calls.
package analytics

import (
	"fmt"
	"strings"
	"time"

	"skybank/internal/core"
	"skybank/internal/log"
)

// Engine groups the transforms so they share a logger.
type Engine struct {
	logger *log.Logger
}

// New returns an engine logging through logger. A nil logger discards output.
func New(logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Discard()
	}
	return &Engine{logger: logger.WithComponent(log.ComponentAnalytics)}
}

// Normalize reduces rows to their operation day and amount, keeping order.
// A single unparseable operation date fails the whole batch: the result is
// empty and the error wraps core.ErrInvalidDate.
func (e *Engine) Normalize(rows []core.Transaction) ([]core.NormalizedTransaction, error) {
	out := make([]core.NormalizedTransaction, 0, len(rows))
	for i, tx := range rows {
		ts, err := core.ParseOperationTime(tx.OperationDate)
		if err != nil {
			e.logger.Error("Failed to normalize transactions",
				log.FieldOperation, log.OpNormalize,
				"row", i,
				log.FieldDate, tx.OperationDate,
				log.FieldError, err)
			return []core.NormalizedTransaction{}, fmt.Errorf("row %d %q: %w", i, tx.OperationDate, core.ErrInvalidDate)
		}
		out = append(out, core.NormalizedTransaction{
			OperationDate: ts.Format(core.DateLayout),
			Amount:        tx.OperationAmount,
		})
	}
	e.logger.Debug("Transactions normalized", log.FieldCount, len(out))
	return out, nil
}

// FilterByMonth keeps the records dated within month (YYYY-MM).
func (e *Engine) FilterByMonth(month string, txs []core.NormalizedTransaction) ([]core.NormalizedTransaction, error) {
	if _, err := core.ParseMonth(month); err != nil {
		e.logger.Warn(core.MsgInvalidMonthFormat, log.FieldMonth, month, log.FieldOperation, log.OpFilter)
		return []core.NormalizedTransaction{}, fmt.Errorf("%q: %w", month, core.ErrInvalidMonth)
	}
	prefix := month + "-"
	out := make([]core.NormalizedTransaction, 0)
	for _, tx := range txs {
		if strings.HasPrefix(tx.OperationDate, prefix) {
			out = append(out, tx)
		}
	}
	return out, nil
}

// FilterTrailingDays keeps rows whose operation time lies in [end-days, end].
// Rows with an unparseable operation date are dropped.
func (e *Engine) FilterTrailingDays(rows []core.Transaction, end time.Time, days int) []core.Transaction {
	return e.filterWindow(rows, end.AddDate(0, 0, -days), end)
}

// FilterMonthToDate keeps rows from the first instant of ref's month up to ref.
func (e *Engine) FilterMonthToDate(rows []core.Transaction, ref time.Time) []core.Transaction {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	return e.filterWindow(rows, start, ref)
}

func (e *Engine) filterWindow(rows []core.Transaction, start, end time.Time) []core.Transaction {
	out := make([]core.Transaction, 0)
	skipped := 0
	for _, tx := range rows {
		ts, err := core.ParseOperationTime(tx.OperationDate)
		if err != nil {
			skipped++
			continue
		}
		if ts.Before(start) || ts.After(end) {
			continue
		}
		out = append(out, tx)
	}
	if skipped > 0 {
		e.logger.Debug("Skipped rows without a valid operation date",
			log.FieldOperation, log.OpFilter, "skipped", skipped)
	}
	return out
}

// Greeting picks the salutation for hour (0-23).
func (e *Engine) Greeting(hour int) (string, error) {
	switch {
	case hour >= 0 && hour < 5:
		return core.GreetingNight, nil
	case hour >= 5 && hour < 12:
		return core.GreetingMorning, nil
	case hour >= 12 && hour < 18:
		return core.GreetingAfternoon, nil
	case hour >= 18 && hour <= 23:
		return core.GreetingEvening, nil
	}
	e.logger.Warn(core.MsgInvalidHour, "hour", hour)
	return "", fmt.Errorf("hour %d: %w", hour, core.ErrInvalidHour)
}
