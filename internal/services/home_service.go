package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"skybank/internal/analytics"
	"skybank/internal/core"
	"skybank/internal/log"
	"skybank/internal/quotes"
	"skybank/internal/settings"
	"skybank/internal/sheets"
)

// TopN is how many transactions the home page lists.
const TopN = 5

// SettingsLoader returns the stored user selection.
type SettingsLoader interface {
	Load() (core.Settings, error)
}

// HomeService composes the home page summary.
type HomeService struct {
	source     sheets.TransactionReader
	engine     *analytics.Engine
	currencies quotes.CurrencySource
	stocks     quotes.StockSource
	settings   SettingsLoader
	logger     *log.Logger
}

func NewHomeService(
	source sheets.TransactionReader,
	engine *analytics.Engine,
	currencies quotes.CurrencySource,
	stocks quotes.StockSource,
	settings SettingsLoader,
	logger *log.Logger,
) *HomeService {
	if logger == nil {
		logger = log.Discard()
	}
	if engine == nil {
		engine = analytics.New(logger)
	}
	return &HomeService{
		source:     source,
		engine:     engine,
		currencies: currencies,
		stocks:     stocks,
		settings:   settings,
		logger:     logger.WithComponent(log.ComponentHome),
	}
}

// Build returns the summary for date (YYYY-MM-DD HH:MM:SS). Cards and top
// transactions cover the month up to date. A quote section whose lookup
// fails is left nil and does not fail the summary.
func (s *HomeService) Build(ctx context.Context, date string) (*core.HomeSummary, error) {
	ts, err := core.ParseHomeTime(date)
	if err != nil {
		s.logger.WarnContext(ctx, core.MsgInvalidHomeDate, log.FieldDate, date, log.FieldError, err)
		return nil, fmt.Errorf("home date %q: %w", date, core.ErrInvalidDate)
	}

	rows, err := s.source.ReadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}

	greeting, err := s.engine.Greeting(ts.Hour())
	if err != nil {
		return nil, err
	}

	monthToDate := s.engine.FilterMonthToDate(rows, ts)
	totals := s.engine.CalculateCashback(s.engine.TotalExpenses(monthToDate))

	summary := &core.HomeSummary{
		Greeting:        greeting,
		Cards:           s.engine.CardsInfo(totals),
		TopTransactions: s.engine.TopTransactions(s.engine.SortByMagnitude(monthToDate), TopN),
	}

	selection := s.selection(ctx)

	// A failed lookup only empties its section; a cancelled caller fails the build.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary.CurrencyRates = s.currencyRates(gctx, selection.UserCurrencies)
		return ctx.Err()
	})
	g.Go(func() error {
		summary.StockPrices = s.stockPrices(gctx, selection.UserStocks)
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("quote lookups: %w", err)
	}

	s.logger.InfoContext(ctx, "Home summary built",
		log.FieldDate, date,
		"cards", len(summary.Cards),
		"top", len(summary.TopTransactions))

	return summary, nil
}

func (s *HomeService) selection(ctx context.Context) core.Settings {
	if s.settings == nil {
		return core.Settings{}
	}
	st, err := s.settings.Load()
	if err != nil {
		if !errors.Is(err, settings.ErrNoSettings) {
			s.logger.WarnContext(ctx, "Failed to load user settings", log.FieldError, err)
		}
		return core.Settings{}
	}
	return st
}

func (s *HomeService) currencyRates(ctx context.Context, codes []string) []core.CurrencyRate {
	if len(codes) == 0 || s.currencies == nil {
		return []core.CurrencyRate{}
	}
	rates, err := s.currencies.Rates(ctx, codes)
	if err != nil {
		s.logger.ErrorContext(ctx, "Currency rates unavailable", log.FieldOperation, log.OpFetch, log.FieldError, err)
		return nil
	}
	return rates
}

func (s *HomeService) stockPrices(ctx context.Context, symbols []string) []core.StockPrice {
	if len(symbols) == 0 || s.stocks == nil {
		return []core.StockPrice{}
	}
	prices, err := s.stocks.Prices(ctx, symbols)
	if err != nil {
		s.logger.ErrorContext(ctx, "Stock prices unavailable", log.FieldOperation, log.OpFetch, log.FieldError, err)
		return nil
	}
	return prices
}
