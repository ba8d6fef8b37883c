package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidLimit(t *testing.T) {
	cases := []struct {
		limit int
		ok    bool
	}{
		{10, true},
		{50, true},
		{100, true},
		{0, false},
		{20, false},
		{-10, false},
	}
	for _, tc := range cases {
		if got := ValidLimit(tc.limit); got != tc.ok {
			t.Fatalf("ValidLimit(%d) = %v, want %v", tc.limit, got, tc.ok)
		}
	}
}

func TestParseOperationTime(t *testing.T) {
	ts, err := ParseOperationTime("31.12.2021 16:44:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Year() != 2021 || ts.Month() != 12 || ts.Day() != 31 || ts.Hour() != 16 || ts.Minute() != 44 {
		t.Fatalf("unexpected time %v", ts)
	}
	for _, bad := range []string{"", "2021-12-31 16:44:00", "31.12.2021", "32.12.2021 10:00:00"} {
		if _, err := ParseOperationTime(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestParseHomeTimeAndMonth(t *testing.T) {
	if _, err := ParseHomeTime("2021-12-31 16:44:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseHomeTime("31.12.2021 16:44:00"); err == nil {
		t.Fatalf("expected error for wrong layout")
	}
	if _, err := ParseMonth("2021-12"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []string{"2021-13", "12-2021", "2021/12", ""} {
		if _, err := ParseMonth(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}

func TestPlaceholderTransactionIsEmpty(t *testing.T) {
	p := PlaceholderTransaction()
	if p.CardNumber != nil || p.Category != nil || p.MCC != nil {
		t.Fatalf("placeholder must have nil pointers: %+v", p)
	}
	if p.OperationAmount.Valid || p.PaymentAmount.Valid {
		t.Fatalf("placeholder amounts must be missing")
	}
}

func TestCardTotalsOrderAndJSON(t *testing.T) {
	totals := NewCardTotals()
	totals.Add("7197", decimal.RequireFromString("160.89"))
	totals.Add("5091", decimal.RequireFromString("64"))
	totals.Add("7197", decimal.RequireFromString("10"))
	totals.Touch("5091")

	keys := totals.Keys()
	if len(keys) != 2 || keys[0] != "7197" || keys[1] != "5091" {
		t.Fatalf("unexpected key order %v", keys)
	}
	agg, ok := totals.Get("7197")
	if !ok || !agg.Total.Equal(decimal.RequireFromString("170.89")) {
		t.Fatalf("unexpected total %v", agg.Total)
	}
	totals.Update(func(_ string, a *CardAggregate) { a.Cashback = decimal.NewFromInt(1) })

	raw, err := json.Marshal(totals)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"7197":[170.89,1],"5091":[64,1]}`
	if string(raw) != want {
		t.Fatalf("got %s want %s", raw, want)
	}
}

func TestHomeSummaryNullSections(t *testing.T) {
	raw, err := json.Marshal(HomeSummary{Greeting: "Good morning", Cards: []CardInfo{}, TopTransactions: []TopTransaction{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"greeting":"Good morning","cards":[],"top_transactions":[],"currency_rates":null,"stock_prices":null}`
	if string(raw) != want {
		t.Fatalf("got %s want %s", raw, want)
	}
}

func TestReportRecordKeepsOrder(t *testing.T) {
	tx := Transaction{
		OperationDate:   "31.12.2021 16:44:00",
		PaymentDate:     "31.12.2021",
		CardNumber:      StringPtr("*7197"),
		Status:          "OK",
		OperationAmount: ParseAmount("-160,89"),
		Category:        StringPtr("Супермаркеты"),
	}
	rec := NewReportRecord(tx)
	keys := rec.Keys()
	if keys[0] != KeyOperationDate || keys[len(keys)-1] != KeyRoundedAmount {
		t.Fatalf("unexpected key order %v", keys)
	}
	if v, ok := rec.Get(KeyOperationAmount); !ok || v.(float64) != -160.89 {
		t.Fatalf("unexpected amount %v", v)
	}
	if v, _ := rec.Get(KeyMCC); v != nil {
		t.Fatalf("missing mcc must be nil, got %v", v)
	}
	if rec.Map()[KeyCardNumber] != "*7197" {
		t.Fatalf("unexpected card %v", rec.Map()[KeyCardNumber])
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	prefix := `{"operation_date":"31.12.2021 16:44:00","payment_date":"31.12.2021","card_number":"*7197"`
	if string(raw[:len(prefix)]) != prefix {
		t.Fatalf("unexpected json %s", raw)
	}
}
