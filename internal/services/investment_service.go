package services

import (
	"context"
	"fmt"

	"skybank/internal/analytics"
	"skybank/internal/core"
	"skybank/internal/log"
	"skybank/internal/sheets"
)

// InvestmentService projects round-up savings from the configured source.
type InvestmentService struct {
	source sheets.TransactionReader
	engine *analytics.Engine
	logger *log.Logger
}

func NewInvestmentService(source sheets.TransactionReader, engine *analytics.Engine, logger *log.Logger) *InvestmentService {
	if logger == nil {
		logger = log.Discard()
	}
	if engine == nil {
		engine = analytics.New(logger)
	}
	return &InvestmentService{
		source: source,
		engine: engine,
		logger: logger.WithComponent(log.ComponentInvestment),
	}
}

// Project returns the round-up total for month (YYYY-MM) at limit.
// A month without transactions, or a source whose rows cannot be
// normalized, yields nil and no error.
func (s *InvestmentService) Project(ctx context.Context, month string, limit int) (*core.InvestmentRecord, error) {
	rows, err := s.source.ReadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}

	// A batch with an unreadable date normalizes to nothing, so the month
	// reads as empty rather than failing.
	normalized, err := s.engine.Normalize(rows)
	if err != nil {
		s.logger.WarnContext(ctx, "Transactions skipped", log.FieldMonth, month, log.FieldError, err)
	}

	return s.engine.InvestmentBank(month, normalized, limit)
}
