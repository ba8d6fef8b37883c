package core

import (
	"bytes"
	"encoding/json"
)

// Report record keys, in export column order.
const (
	KeyOperationDate      = "operation_date"
	KeyPaymentDate        = "payment_date"
	KeyCardNumber         = "card_number"
	KeyStatus             = "status"
	KeyOperationAmount    = "operation_amount"
	KeyOperationCurrency  = "operation_currency"
	KeyPaymentAmount      = "payment_amount"
	KeyPaymentCurrency    = "payment_currency"
	KeyCashback           = "cashback"
	KeyCategory           = "category"
	KeyMCC                = "mcc"
	KeyDescription        = "description"
	KeyBonuses            = "bonuses"
	KeyInvestmentRounding = "investment_rounding"
	KeyRoundedAmount      = "rounded_operation_amount"
)

// Field is a single key/value cell of a report record.
type Field struct {
	Key   string
	Value any
}

// ReportRecord is an ordered view of one transaction. JSON output keeps the
// field order; writers derive column order from it.
type ReportRecord []Field

// NewReportRecord flattens tx into a record. Missing cells become nil.
func NewReportRecord(tx Transaction) ReportRecord {
	var card, category, mcc any
	if tx.CardNumber != nil {
		card = *tx.CardNumber
	}
	if tx.Category != nil {
		category = *tx.Category
	}
	if tx.MCC != nil {
		mcc = *tx.MCC
	}
	return ReportRecord{
		{KeyOperationDate, nullString(tx.OperationDate)},
		{KeyPaymentDate, nullString(tx.PaymentDate)},
		{KeyCardNumber, card},
		{KeyStatus, nullString(tx.Status)},
		{KeyOperationAmount, floatOrNil(NullFloat(tx.OperationAmount))},
		{KeyOperationCurrency, nullString(tx.OperationCurrency)},
		{KeyPaymentAmount, floatOrNil(NullFloat(tx.PaymentAmount))},
		{KeyPaymentCurrency, nullString(tx.PaymentCurrency)},
		{KeyCashback, floatOrNil(NullFloat(tx.Cashback))},
		{KeyCategory, category},
		{KeyMCC, mcc},
		{KeyDescription, nullString(tx.Description)},
		{KeyBonuses, floatOrNil(NullFloat(tx.Bonuses))},
		{KeyInvestmentRounding, floatOrNil(NullFloat(tx.InvestmentRounding))},
		{KeyRoundedAmount, floatOrNil(NullFloat(tx.RoundedAmount))},
	}
}

// Keys returns the field names in order.
func (r ReportRecord) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}
	return keys
}

// Get returns the value stored under key.
func (r ReportRecord) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Map returns the record as an unordered map.
func (r ReportRecord) Map() map[string]any {
	m := make(map[string]any, len(r))
	for _, f := range r {
		m[f.Key] = f.Value
	}
	return m
}

func (r ReportRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
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

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
