package core

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CardAggregate is the spend of one card and the cashback it earned.
// It marshals as the pair [total, cashback].
type CardAggregate struct {
	Total    decimal.Decimal
	Cashback decimal.Decimal
}

func (a CardAggregate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{Float(a.Total), Float(a.Cashback)})
}

// CardTotals maps card identifiers to aggregates, preserving first-seen order.
type CardTotals struct {
	keys   []string
	values map[string]*CardAggregate
}

// NewCardTotals returns an empty aggregate.
func NewCardTotals() *CardTotals {
	return &CardTotals{values: make(map[string]*CardAggregate)}
}

// Add sums amount into card, registering the key on first sight.
func (t *CardTotals) Add(card string, amount decimal.Decimal) {
	agg, ok := t.values[card]
	if !ok {
		agg = &CardAggregate{}
		t.values[card] = agg
		t.keys = append(t.keys, card)
	}
	agg.Total = agg.Total.Add(amount)
}

// Touch registers card with a zero total if it has not been seen yet.
func (t *CardTotals) Touch(card string) {
	t.Add(card, decimal.Zero)
}

// Get returns the aggregate for card.
func (t *CardTotals) Get(card string) (CardAggregate, bool) {
	agg, ok := t.values[card]
	if !ok {
		return CardAggregate{}, false
	}
	return *agg, true
}

// Keys returns the card identifiers in first-seen order.
func (t *CardTotals) Keys() []string {
	return append([]string(nil), t.keys...)
}

// Len returns the number of cards.
func (t *CardTotals) Len() int {
	return len(t.keys)
}

// Update calls fn for every card in order; fn may modify the aggregate.
func (t *CardTotals) Update(fn func(card string, agg *CardAggregate)) {
	for _, k := range t.keys {
		fn(k, t.values[k])
	}
}

func (t *CardTotals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(t.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type (
	// CardInfo is the per-card line on the home page.
	CardInfo struct {
		LastDigits string  `json:"last_digits"`
		TotalSpent float64 `json:"total_spent"`
		Cashback   float64 `json:"cashback"`
	}

	// RankedTransaction is a row annotated with the magnitude it was sorted by.
	RankedTransaction struct {
		Transaction
		Magnitude decimal.NullDecimal
	}

	// TopTransaction is one of the largest operations shown on the home page.
	TopTransaction struct {
		Date        string   `json:"date"`
		Amount      *float64 `json:"amount"`
		Category    *string  `json:"category"`
		Description string   `json:"description"`
	}

	// InvestmentRecord is the round-up projection for a month.
	InvestmentRecord struct {
		Month            string  `json:"month"`
		InvestmentAmount float64 `json:"investment_amount"`
	}

	CurrencyRate struct {
		Currency string  `json:"currency"`
		Rate     float64 `json:"rate"`
	}

	StockPrice struct {
		Stock string  `json:"stock"`
		Price float64 `json:"price"`
	}

	// HomeSummary is the home page payload. A nil quote section means the
	// lookup failed and marshals as null.
	HomeSummary struct {
		Greeting        string           `json:"greeting"`
		Cards           []CardInfo       `json:"cards"`
		TopTransactions []TopTransaction `json:"top_transactions"`
		CurrencyRates   []CurrencyRate   `json:"currency_rates"`
		StockPrices     []StockPrice     `json:"stock_prices"`
	}
)

// Greetings returned for the four parts of the day.
const (
	GreetingNight     = "Good night"
	GreetingMorning   = "Good morning"
	GreetingAfternoon = "Good afternoon"
	GreetingEvening   = "Good evening"
)
