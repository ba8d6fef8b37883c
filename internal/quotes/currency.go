package quotes

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"skybank/internal/cache"
	"skybank/internal/core"
	"skybank/internal/log"
)

type cbrResponse struct {
	Valute map[string]struct {
		CharCode string          `json:"CharCode"`
		Nominal  int             `json:"Nominal"`
		Value    decimal.Decimal `json:"Value"`
	} `json:"Valute"`
}

var _ CurrencySource = (*CurrencyClient)(nil)

// CurrencyClient reads the Central Bank daily rates document.
type CurrencyClient struct {
	client *http.Client
	url    string
	cache  *cache.LRUCache[map[string]decimal.Decimal]
	logger *log.Logger
}

// NewCurrencyClient returns a client for url (DefaultCurrencyURL when empty)
// whose successful answers are kept for ttl.
func NewCurrencyClient(url string, timeout, ttl time.Duration, logger *log.Logger) *CurrencyClient {
	if url == "" {
		url = DefaultCurrencyURL
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &CurrencyClient{
		client: newHTTPClient(timeout),
		url:    url,
		cache:  cache.NewLRUCache[map[string]decimal.Decimal](4, ttl),
		logger: logger.WithComponent(log.ComponentQuotes),
	}
}

// Cache exposes the response cache so it can be swept periodically.
func (c *CurrencyClient) Cache() cache.Cleaner { return c.cache }

// Rates returns the rate of every requested code in request order, rounded
// to two decimals. Codes missing from the document are skipped.
func (c *CurrencyClient) Rates(ctx context.Context, codes []string) ([]core.CurrencyRate, error) {
	table, err := c.cache.GetOrLoad(c.url, func() (map[string]decimal.Decimal, error) {
		var resp cbrResponse
		if err := getJSON(ctx, c.client, c.url, &resp); err != nil {
			return nil, err
		}
		out := make(map[string]decimal.Decimal, len(resp.Valute))
		for code, v := range resp.Valute {
			out[strings.ToUpper(code)] = v.Value
		}
		return out, nil
	})
	if err != nil {
		c.logger.WarnContext(ctx, "Currency rates lookup failed", log.FieldOperation, log.OpFetch, log.FieldError, err)
		return nil, err
	}

	rates := make([]core.CurrencyRate, 0, len(codes))
	for _, code := range codes {
		v, ok := table[strings.ToUpper(code)]
		if !ok {
			c.logger.WarnContext(ctx, "Currency missing from rates", "currency", code)
			continue
		}
		rates = append(rates, core.CurrencyRate{Currency: code, Rate: core.Float(core.Round2(v))})
	}
	return rates, nil
}
