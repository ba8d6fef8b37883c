package analytics

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"skybank/internal/core"
	"skybank/internal/log"
)

var hundred = decimal.NewFromInt(100)

// SortByMagnitude ranks rows by the absolute operation amount, largest first.
// Equal magnitudes keep their input order; rows without an amount go last.
func (e *Engine) SortByMagnitude(rows []core.Transaction) []core.RankedTransaction {
	ranked := make([]core.RankedTransaction, len(rows))
	for i, tx := range rows {
		ranked[i] = core.RankedTransaction{Transaction: tx}
		if tx.OperationAmount.Valid {
			ranked[i].Magnitude = decimal.NewNullDecimal(tx.OperationAmount.Decimal.Abs())
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Magnitude, ranked[j].Magnitude
		if !a.Valid || !b.Valid {
			return a.Valid && !b.Valid
		}
		return a.Decimal.GreaterThan(b.Decimal)
	})
	e.logger.Debug("Transactions ranked by magnitude", log.FieldCount, len(ranked))
	return ranked
}

// TopTransactions returns up to n summaries from an already ranked list.
func (e *Engine) TopTransactions(ranked []core.RankedTransaction, n int) []core.TopTransaction {
	if n > len(ranked) {
		n = len(ranked)
	}
	if n < 0 {
		n = 0
	}
	out := make([]core.TopTransaction, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, core.TopTransaction{
			Date:        r.PaymentDate,
			Amount:      core.NullFloat(r.OperationAmount),
			Category:    r.Category,
			Description: r.Description,
		})
	}
	return out
}

// CardKey strips mask characters and whitespace from a card number. Missing
// or blank numbers map to core.MissingCard.
func CardKey(card *string) string {
	if card == nil {
		return core.MissingCard
	}
	key := strings.Map(func(r rune) rune {
		if r == '*' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, *card)
	if key == "" {
		return core.MissingCard
	}
	return key
}

// TotalExpenses sums payment amounts per card and reports each sum as a
// magnitude. The result is never empty: without rows it holds core.MissingCard
// with a zero total.
func (e *Engine) TotalExpenses(rows []core.Transaction) *core.CardTotals {
	totals := core.NewCardTotals()
	for _, tx := range rows {
		key := CardKey(tx.CardNumber)
		if !tx.PaymentAmount.Valid {
			totals.Touch(key)
			continue
		}
		totals.Add(key, tx.PaymentAmount.Decimal)
	}
	if totals.Len() == 0 {
		totals.Touch(core.MissingCard)
	}
	totals.Update(func(_ string, agg *core.CardAggregate) {
		agg.Total = agg.Total.Abs()
	})
	e.logger.Debug("Card totals computed", log.FieldOperation, log.OpAggregate, log.FieldCount, totals.Len())
	return totals
}

// CalculateCashback sets one unit of cashback per hundred spent, rounded to
// cents, on every card. totals is modified and returned.
func (e *Engine) CalculateCashback(totals *core.CardTotals) *core.CardTotals {
	totals.Update(func(_ string, agg *core.CardAggregate) {
		agg.Cashback = core.Round2(agg.Total.Div(hundred))
	})
	return totals
}

// CardsInfo projects totals into the home page card list, leaving out rows
// without a card.
func (e *Engine) CardsInfo(totals *core.CardTotals) []core.CardInfo {
	out := make([]core.CardInfo, 0, totals.Len())
	for _, card := range totals.Keys() {
		if card == core.MissingCard {
			continue
		}
		agg, _ := totals.Get(card)
		out = append(out, core.CardInfo{
			LastDigits: card,
			TotalSpent: core.Float(core.Round2(agg.Total)),
			Cashback:   core.Float(agg.Cashback),
		})
	}
	return out
}
