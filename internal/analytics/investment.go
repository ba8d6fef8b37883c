package analytics

import (
	"fmt"

	"github.com/shopspring/decimal"

	"skybank/internal/core"
	"skybank/internal/log"
)

// RoundToLimit returns how much rounding |amount| up to the next multiple of
// limit would set aside. Exact multiples yield zero. The sign of amount is
// ignored.
//
//	RoundToLimit(-160.89, 10) -> 9.11
//	RoundToLimit(500, 10)     -> 0
func (e *Engine) RoundToLimit(amount decimal.Decimal, limit int) (decimal.Decimal, error) {
	if !core.ValidLimit(limit) {
		e.logger.Warn(core.MsgInvalidLimit, log.FieldLimit, limit)
		return decimal.Zero, fmt.Errorf("%d: %w", limit, core.ErrInvalidLimit)
	}
	l := decimal.NewFromInt(int64(limit))
	return l.Sub(amount.Abs().Mod(l)).Mod(l), nil
}

// InvestmentBank projects the round-up savings for month.
//
// A month with no records yields nil and no error. An invalid month yields
// nil with core.ErrInvalidMonth; an invalid limit yields a zero record with
// core.ErrInvalidLimit.
func (e *Engine) InvestmentBank(month string, txs []core.NormalizedTransaction, limit int) (*core.InvestmentRecord, error) {
	filtered, err := e.FilterByMonth(month, txs)
	if err != nil {
		return nil, err
	}
	if !core.ValidLimit(limit) {
		e.logger.Warn(core.MsgInvalidLimit, log.FieldLimit, limit, log.FieldMonth, month)
		return &core.InvestmentRecord{Month: month}, fmt.Errorf("%d: %w", limit, core.ErrInvalidLimit)
	}
	if len(filtered) == 0 {
		e.logger.Info("No transactions for month", log.FieldMonth, month)
		return nil, nil
	}

	sum := decimal.Zero
	for _, tx := range filtered {
		if !tx.Amount.Valid {
			continue
		}
		r, err := e.RoundToLimit(tx.Amount.Decimal, limit)
		if err != nil {
			return &core.InvestmentRecord{Month: month}, err
		}
		sum = sum.Add(r)
	}

	e.logger.Info("Investment projected",
		log.FieldOperation, log.OpProject,
		log.FieldMonth, month,
		log.FieldLimit, limit,
		log.FieldCount, len(filtered))
	return &core.InvestmentRecord{
		Month:            month,
		InvestmentAmount: core.Float(core.Round2(sum)),
	}, nil
}
