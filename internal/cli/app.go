package cli

import (
	"context"
	"time"

	"skybank/internal/amqp"
	"skybank/internal/analytics"
	"skybank/internal/backend"
	"skybank/internal/cache"
	"skybank/internal/config"
	"skybank/internal/log"
	"skybank/internal/quotes"
	"skybank/internal/report"
	"skybank/internal/services"
	"skybank/internal/settings"
)

const (
	cacheSweepInterval = time.Minute
	amqpDialAttempts   = 5
)

// App holds the services shared by the menu and the HTTP server.
type App struct {
	Home       *services.HomeService
	Investment *services.InvestmentService
	Reports    *services.ReportService
	Settings   *settings.Store
	Catalog    *settings.Catalog

	backend *backend.BackendResult
	caches  *cache.Manager
	amqp    *amqp.Client
	logger  *log.Logger
}

// NewApp wires the configured backend, quote clients, settings store and
// optional report publisher into the services. Fatal setup errors exit.
func NewApp(ctx context.Context, logger *log.Logger, cfg *config.Config) *App {
	src := InitBackend(ctx, logger, cfg)

	currencies := quotes.NewCurrencyClient(cfg.CurrencyAPIURL, cfg.QuotesTimeout, cfg.QuotesCacheTTL, logger)
	stocks := quotes.NewStockClient(cfg.StockAPIURL, cfg.APIKey, cfg.QuotesTimeout, cfg.QuotesCacheTTL, logger)
	caches := cache.NewManager(logger)
	caches.Register(currencies.Cache())
	caches.Register(stocks.Cache())
	caches.StartCleanup(cacheSweepInterval)

	app := &App{
		Settings: settings.NewStore(cfg.SettingsFile, logger),
		Catalog:  settings.LoadCatalog(cfg.CurrenciesFile, cfg.StocksFile, logger),
		backend:  src,
		caches:   caches,
		logger:   logger,
	}

	// A nil *amqp.Client must not end up inside the Publisher interface.
	var publisher services.Publisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, amqpDialAttempts, logger)
		if err != nil {
			logger.Warn("Report events disabled", log.FieldError, err)
		} else {
			app.amqp = client
			publisher = client
		}
	}

	engine := analytics.New(logger)
	app.Home = services.NewHomeService(src.Backend, engine, currencies, stocks, app.Settings, logger)
	app.Investment = services.NewInvestmentService(src.Backend, engine, logger)
	app.Reports = services.NewReportService(src.Backend, report.NewGenerator(engine, logger), cfg.ReportDir(), publisher, logger)
	return app
}

// Close releases the backend, the cache sweeper and the AMQP connection.
func (a *App) Close() {
	a.caches.Stop()
	if a.amqp != nil {
		if err := a.amqp.Close(); err != nil {
			a.logger.Warn("Failed to close AMQP client", log.FieldError, err)
		}
	}
	if a.backend.Cleanup != nil {
		if err := a.backend.Cleanup(); err != nil {
			a.logger.Warn("Failed to close backend", log.FieldError, err)
		}
	}
}
