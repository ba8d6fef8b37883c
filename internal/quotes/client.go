// Package quotes fetches currency rates and stock prices over HTTP.
package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"skybank/internal/core"
)

// Default endpoints.
const (
	DefaultCurrencyURL = "https://www.cbr-xml-daily.ru/daily_json.js"
	DefaultStockURL    = "https://financialmodelingprep.com/api/v3/stock/list"
)

// ErrUnavailable tags every failed lookup: transport errors, non-200 answers
// and undecodable bodies.
var ErrUnavailable = errors.New("quotes unavailable")

// CurrencySource looks up exchange rates for ISO codes.
type CurrencySource interface {
	Rates(ctx context.Context, codes []string) ([]core.CurrencyRate, error)
}

// StockSource looks up prices for ticker symbols.
type StockSource interface {
	Prices(ctx context.Context, symbols []string) ([]core.StockPrice, error)
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// getJSON decodes the body of a GET to url into out.
func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return nil
}
