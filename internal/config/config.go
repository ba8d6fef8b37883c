package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Backends accepted by DATA_BACKEND.
const (
	BackendXLSX   = "xlsx"
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

var validBackends = []string{BackendXLSX, BackendSheets, BackendSQLite, BackendMemory}

type Config struct {
	// Files
	DataDir          string
	TransactionsFile string
	SettingsFile     string
	CurrenciesFile   string
	StocksFile       string
	SeedFile         string

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// Google Sheets
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// AMQP (optional; empty URL disables report events)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Quotes
	CurrencyAPIURL string
	StockAPIURL    string
	APIKey         string
	QuotesTimeout  time.Duration
	QuotesCacheTTL time.Duration

	// HTTP Server
	Port string
	// TrustedProxies are CIDRs whose X-Forwarded-For header is believed.
	TrustedProxies []string

	LogLevel string
}

func Load() *Config {
	dataDir := getEnv("DATA_DIR", "data")
	cfg := &Config{
		DataDir:          dataDir,
		TransactionsFile: getEnv("TRANSACTIONS_FILE", filepath.Join(dataDir, "operations.xlsx")),
		SettingsFile:     getEnv("SETTINGS_FILE", "user_settings.json"),
		CurrenciesFile:   getEnv("CURRENCIES_FILE", filepath.Join(dataDir, "currencies.json")),
		StocksFile:       getEnv("STOCKS_FILE", filepath.Join(dataDir, "sandp500.json")),
		SeedFile:         getEnv("SEED_FILE", filepath.Join(dataDir, "seed_transactions.csv")),

		DataBackend:  strings.ToLower(getEnv("DATA_BACKEND", BackendXLSX)),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", filepath.Join(dataDir, "skybank.db")),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Operations"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "skybank"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "reports_generated"),

		CurrencyAPIURL: getEnv("CURRENCY_API_URL", "https://www.cbr-xml-daily.ru/daily_json.js"),
		StockAPIURL:    getEnv("STOCK_API_URL", "https://financialmodelingprep.com/api/v3/stock/list"),
		APIKey:         getEnv("API_KEY", ""),
		QuotesTimeout:  getEnvDuration("QUOTES_TIMEOUT", 10*time.Second),
		QuotesCacheTTL: getEnvDuration("QUOTES_CACHE_TTL", 5*time.Minute),

		Port:           getEnv("PORT", "8081"),
		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy '%s': must be a CIDR", cidr))
		}
	}

	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	}
	if c.SettingsFile == "" {
		errors = append(errors, "settings file path cannot be empty")
	}

	switch c.DataBackend {
	case BackendXLSX:
		if c.TransactionsFile == "" {
			errors = append(errors, "transactions file cannot be empty when using xlsx backend")
		}
	case BackendSQLite:
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case BackendSheets:
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using sheets backend")
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if !isHTTPURL(c.CurrencyAPIURL) {
		errors = append(errors, fmt.Sprintf("invalid currency API URL '%s': must be an http(s) URL", c.CurrencyAPIURL))
	}
	if !isHTTPURL(c.StockAPIURL) {
		errors = append(errors, fmt.Sprintf("invalid stock API URL '%s': must be an http(s) URL", c.StockAPIURL))
	}

	if c.QuotesTimeout < 100*time.Millisecond {
		errors = append(errors, fmt.Sprintf("invalid quotes timeout %v: must be at least 100ms", c.QuotesTimeout))
	} else if c.QuotesTimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid quotes timeout %v: must be at most 2 minutes", c.QuotesTimeout))
	}
	if c.QuotesCacheTTL < 0 {
		errors = append(errors, fmt.Sprintf("invalid quotes cache TTL %v: must not be negative", c.QuotesCacheTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ReportDir is where generated reports are written.
func (c *Config) ReportDir() string {
	return c.DataDir
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList splits a comma separated variable, dropping empty items.
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
