package cli

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"skybank/internal/config"
	"skybank/internal/log"
	"skybank/internal/settings"
)

func TestNewApp_MemoryBackend(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		DataDir:        dir,
		SettingsFile:   filepath.Join(dir, "user_settings.json"),
		CurrenciesFile: filepath.Join(dir, "currencies.json"),
		StocksFile:     filepath.Join(dir, "sandp500.json"),
		SeedFile:       filepath.Join(dir, "missing.csv"),
		DataBackend:    config.BackendMemory,
		CurrencyAPIURL: "http://127.0.0.1:1/daily_json.js",
		StockAPIURL:    "http://127.0.0.1:1/stock/list",
		QuotesTimeout:  time.Second,
		QuotesCacheTTL: time.Minute,
	}

	app := NewApp(context.Background(), log.Discard(), cfg)
	defer app.Close()

	if _, err := app.Settings.Load(); !errors.Is(err, settings.ErrNoSettings) {
		t.Fatalf("expected ErrNoSettings for a fresh directory, got %v", err)
	}
	rec, err := app.Investment.Project(context.Background(), "2021-12", 10)
	if err != nil || rec != nil {
		t.Fatalf("empty store should give no record, got %+v, %v", rec, err)
	}
}
