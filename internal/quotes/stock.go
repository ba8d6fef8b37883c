package quotes

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"skybank/internal/cache"
	"skybank/internal/core"
	"skybank/internal/log"
)

type fmpStock struct {
	Symbol string              `json:"symbol"`
	Price  decimal.NullDecimal `json:"price"`
}

var _ StockSource = (*StockClient)(nil)

// StockClient reads the financialmodelingprep stock list.
type StockClient struct {
	client *http.Client
	url    string
	apiKey string
	cache  *cache.LRUCache[map[string]decimal.Decimal]
	logger *log.Logger
}

// NewStockClient returns a client for baseURL (DefaultStockURL when empty)
// authenticating with apiKey.
func NewStockClient(baseURL, apiKey string, timeout, ttl time.Duration, logger *log.Logger) *StockClient {
	if baseURL == "" {
		baseURL = DefaultStockURL
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &StockClient{
		client: newHTTPClient(timeout),
		url:    baseURL,
		apiKey: apiKey,
		cache:  cache.NewLRUCache[map[string]decimal.Decimal](4, ttl),
		logger: logger.WithComponent(log.ComponentQuotes),
	}
}

// Cache exposes the response cache so it can be swept periodically.
func (c *StockClient) Cache() cache.Cleaner { return c.cache }

func (c *StockClient) requestURL() string {
	u, err := url.Parse(c.url)
	if err != nil {
		return c.url
	}
	q := u.Query()
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()
	return u.String()
}

// Prices returns the price of every requested symbol in request order.
// Symbols missing from the list are skipped.
func (c *StockClient) Prices(ctx context.Context, symbols []string) ([]core.StockPrice, error) {
	table, err := c.cache.GetOrLoad(c.url, func() (map[string]decimal.Decimal, error) {
		var list []fmpStock
		if err := getJSON(ctx, c.client, c.requestURL(), &list); err != nil {
			return nil, err
		}
		out := make(map[string]decimal.Decimal, len(list))
		for _, s := range list {
			if s.Price.Valid {
				out[strings.ToUpper(s.Symbol)] = s.Price.Decimal
			}
		}
		return out, nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "Stock prices lookup failed", log.FieldOperation, log.OpFetch, log.FieldError, err)
		return nil, err
	}

	prices := make([]core.StockPrice, 0, len(symbols))
	for _, sym := range symbols {
		v, ok := table[strings.ToUpper(sym)]
		if !ok {
			c.logger.WarnContext(ctx, "Stock missing from list", "stock", sym)
			continue
		}
		prices = append(prices, core.StockPrice{Stock: sym, Price: core.Float(core.Round2(v))})
	}
	return prices, nil
}
