package sheets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"skybank/internal/core"
)

// Column titles of the bank export.
const (
	ColOperationDate      = "Дата операции"
	ColPaymentDate        = "Дата платежа"
	ColCardNumber         = "Номер карты"
	ColStatus             = "Статус"
	ColOperationAmount    = "Сумма операции"
	ColOperationCurrency  = "Валюта операции"
	ColPaymentAmount      = "Сумма платежа"
	ColPaymentCurrency    = "Валюта платежа"
	ColCashback           = "Кэшбэк"
	ColCategory           = "Категория"
	ColMCC                = "MCC"
	ColDescription        = "Описание"
	ColBonuses            = "Бонусы (включая кэшбэк)"
	ColInvestmentRounding = "Округление на инвесткопилку"
	ColRoundedAmount      = "Сумма операции с округлением"
)

// Columns lists the export columns in their usual order (A to O).
var Columns = []string{
	ColOperationDate, ColPaymentDate, ColCardNumber, ColStatus,
	ColOperationAmount, ColOperationCurrency, ColPaymentAmount, ColPaymentCurrency,
	ColCashback, ColCategory, ColMCC, ColDescription,
	ColBonuses, ColInvestmentRounding, ColRoundedAmount,
}

// ErrMissingColumn is returned when the header lacks the operation date.
var ErrMissingColumn = errors.New("missing column")

// ParseRows maps header-addressed rows onto transactions. Columns are found
// by title so their order does not matter; unknown columns are ignored and
// absent ones read as missing. Blank cells become missing values.
func ParseRows(header []string, rows [][]string) ([]core.Transaction, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	if _, ok := idx[ColOperationDate]; !ok {
		return nil, fmt.Errorf("%w: %s (header=%v)", ErrMissingColumn, ColOperationDate, header)
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		out = append(out, core.Transaction{
			OperationDate:      cell(row, ColOperationDate),
			PaymentDate:        cell(row, ColPaymentDate),
			CardNumber:         optional(cell(row, ColCardNumber)),
			Status:             cell(row, ColStatus),
			OperationAmount:    core.ParseAmount(cell(row, ColOperationAmount)),
			OperationCurrency:  cell(row, ColOperationCurrency),
			PaymentAmount:      core.ParseAmount(cell(row, ColPaymentAmount)),
			PaymentCurrency:    cell(row, ColPaymentCurrency),
			Cashback:           core.ParseAmount(cell(row, ColCashback)),
			Category:           optional(cell(row, ColCategory)),
			MCC:                parseMCC(cell(row, ColMCC)),
			Description:        cell(row, ColDescription),
			Bonuses:            core.ParseAmount(cell(row, ColBonuses)),
			InvestmentRounding: core.ParseAmount(cell(row, ColInvestmentRounding)),
			RoundedAmount:      core.ParseAmount(cell(row, ColRoundedAmount)),
		})
	}
	return out, nil
}

// FormatRow renders tx in Columns order, the inverse of ParseRows.
func FormatRow(tx core.Transaction) []string {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	amount := func(f *float64) string {
		if f == nil {
			return ""
		}
		return strconv.FormatFloat(*f, 'f', -1, 64)
	}
	mcc := ""
	if tx.MCC != nil {
		mcc = strconv.FormatInt(*tx.MCC, 10)
	}
	return []string{
		tx.OperationDate,
		tx.PaymentDate,
		deref(tx.CardNumber),
		tx.Status,
		amount(core.NullFloat(tx.OperationAmount)),
		tx.OperationCurrency,
		amount(core.NullFloat(tx.PaymentAmount)),
		tx.PaymentCurrency,
		amount(core.NullFloat(tx.Cashback)),
		deref(tx.Category),
		mcc,
		tx.Description,
		amount(core.NullFloat(tx.Bonuses)),
		amount(core.NullFloat(tx.InvestmentRounding)),
		amount(core.NullFloat(tx.RoundedAmount)),
	}
}

func optional(s string) *string {
	if s == "" || strings.EqualFold(s, "nan") {
		return nil
	}
	return &s
}

func parseMCC(s string) *int64 {
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		v := int64(f)
		return &v
	}
	return nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ToStrings converts a row of API cell values into strings.
func ToStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		if v == nil {
			continue
		}
		out[i] = fmt.Sprint(v)
	}
	return out
}

// RowKey identifies a row by all of its cells.
func RowKey(tx core.Transaction) string {
	return strings.Join(FormatRow(tx), "\x1f")
}

// BatchKeys returns one key per row: its RowKey plus its occurrence number
// among identical rows of txs. Importers use the keys to skip rows held from
// an earlier import while keeping repeated rows of the same export.
func BatchKeys(txs []core.Transaction) []string {
	seen := make(map[string]int, len(txs))
	keys := make([]string, len(txs))
	for i, tx := range txs {
		key := RowKey(tx)
		keys[i] = key + "#" + strconv.Itoa(seen[key])
		seen[key]++
	}
	return keys
}
