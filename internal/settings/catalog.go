package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"skybank/internal/core"
	"skybank/internal/log"
)

// ErrUnknownSelection is returned when a requested currency or stock is not
// in the catalog.
var ErrUnknownSelection = errors.New("unknown selection")

// Catalog holds the known currency codes and stock tickers.
type Catalog struct {
	currencies map[string]struct{}
	stocks     map[string]struct{}
}

// NewCatalog builds a catalog from explicit lists.
func NewCatalog(currencies, stocks []string) *Catalog {
	return &Catalog{currencies: toSet(currencies), stocks: toSet(stocks)}
}

// LoadCatalog reads currencies.json (objects with "code") and sandp500.json
// (objects with "tickerSymbol"). An unreadable file is logged and contributes
// an empty list.
func LoadCatalog(currenciesPath, stocksPath string, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentSettings)

	var currencies []struct {
		Code string `json:"code"`
	}
	var stocks []struct {
		TickerSymbol string `json:"tickerSymbol"`
	}
	if err := readJSON(currenciesPath, &currencies); err != nil {
		logger.Error(core.MsgFileNotFound, log.FieldFile, currenciesPath, log.FieldError, err)
	}
	if err := readJSON(stocksPath, &stocks); err != nil {
		logger.Error(core.MsgFileNotFound, log.FieldFile, stocksPath, log.FieldError, err)
	}

	codes := make([]string, 0, len(currencies))
	for _, c := range currencies {
		codes = append(codes, c.Code)
	}
	symbols := make([]string, 0, len(stocks))
	for _, s := range stocks {
		symbols = append(symbols, s.TickerSymbol)
	}
	if len(codes) == 0 || len(symbols) == 0 {
		logger.Warn("Catalog incomplete", "currencies", len(codes), "stocks", len(symbols))
	}
	return NewCatalog(codes, symbols)
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

// Sizes returns how many currencies and stocks the catalog knows.
func (c *Catalog) Sizes() (currencies, stocks int) {
	return len(c.currencies), len(c.stocks)
}

// ParseSelection turns free-form input ("usd, eur" / "AAPL AMZN") into
// settings. Every value must be known to the catalog.
func (c *Catalog) ParseSelection(currencies, stocks string) (core.Settings, error) {
	st := core.Settings{
		UserCurrencies: splitSelection(currencies),
		UserStocks:     splitSelection(stocks),
	}

	var errs []error
	if bad := unknown(st.UserCurrencies, c.currencies); len(bad) > 0 {
		errs = append(errs, fmt.Errorf("%w: currencies %s", ErrUnknownSelection, strings.Join(bad, ", ")))
	}
	if bad := unknown(st.UserStocks, c.stocks); len(bad) > 0 {
		errs = append(errs, fmt.Errorf("%w: stocks %s", ErrUnknownSelection, strings.Join(bad, ", ")))
	}
	if len(errs) > 0 {
		return core.Settings{}, errors.Join(errs...)
	}
	return st, nil
}

func splitSelection(s string) []string {
	fields := strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	out := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

func unknown(values []string, known map[string]struct{}) []string {
	var bad []string
	for _, v := range values {
		if _, ok := known[v]; !ok {
			bad = append(bad, v)
		}
	}
	return bad
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v != "" {
			set[v] = struct{}{}
		}
	}
	return set
}
