package analytics

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"skybank/internal/core"
)

func TestRoundToLimit(t *testing.T) {
	cases := []struct {
		amount string
		limit  int
		want   string
	}{
		{"-160.89", 10, "9.11"},
		{"160.89", 10, "9.11"},
		{"-64", 10, "6"},
		{"500", 10, "0"},
		{"-500", 50, "0"},
		{"-160.89", 50, "39.11"},
		{"-160.89", 100, "39.11"},
		{"0", 100, "0"},
		{"-0.01", 10, "9.99"},
	}
	e, _ := newTestEngine(t)
	for _, tc := range cases {
		got, err := e.RoundToLimit(decimal.RequireFromString(tc.amount), tc.limit)
		if err != nil {
			t.Fatalf("RoundToLimit(%s, %d): %v", tc.amount, tc.limit, err)
		}
		if !got.Equal(decimal.RequireFromString(tc.want)) {
			t.Fatalf("RoundToLimit(%s, %d) = %s, want %s", tc.amount, tc.limit, got, tc.want)
		}
		if got.IsNegative() || got.GreaterThanOrEqual(decimal.NewFromInt(int64(tc.limit))) {
			t.Fatalf("result %s out of [0, %d)", got, tc.limit)
		}
	}
}

func TestRoundToLimitInvalidLimit(t *testing.T) {
	e, logs := newTestEngine(t)
	got, err := e.RoundToLimit(decimal.RequireFromString("-160.89"), 20)
	if !errors.Is(err, core.ErrInvalidLimit) || !got.IsZero() {
		t.Fatalf("expected 0 and ErrInvalidLimit, got %s %v", got, err)
	}
	if !strings.Contains(logs.String(), core.MsgInvalidLimit) {
		t.Fatalf("expected message to be logged, got %q", logs.String())
	}
}

func TestInvestmentBank(t *testing.T) {
	e, _ := newTestEngine(t)
	norm, err := e.Normalize(sampleRows())
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}

	cases := []struct {
		limit int
		want  float64
	}{
		{10, 15.11},
		{50, 75.11},
		{100, 75.11},
	}
	for _, tc := range cases {
		rec, err := e.InvestmentBank("2021-12", norm, tc.limit)
		if err != nil {
			t.Fatalf("limit %d: %v", tc.limit, err)
		}
		if rec == nil || rec.Month != "2021-12" || rec.InvestmentAmount != tc.want {
			t.Fatalf("limit %d: got %+v want %v", tc.limit, rec, tc.want)
		}
	}
}

func TestInvestmentBankSkipsMissingAmounts(t *testing.T) {
	e, _ := newTestEngine(t)
	txs := []core.NormalizedTransaction{
		{OperationDate: "2021-12-01", Amount: core.ParseAmount("-1.5")},
		{OperationDate: "2021-12-02"},
	}
	rec, err := e.InvestmentBank("2021-12", txs, 10)
	if err != nil || rec == nil || rec.InvestmentAmount != 8.5 {
		t.Fatalf("got %+v %v", rec, err)
	}
}

func TestInvestmentBankNoRecords(t *testing.T) {
	e, _ := newTestEngine(t)
	norm, _ := e.Normalize(sampleRows())
	rec, err := e.InvestmentBank("2021-09", norm, 10)
	if err != nil || rec != nil {
		t.Fatalf("expected absent result, got %+v %v", rec, err)
	}
}

func TestInvestmentBankInvalidInput(t *testing.T) {
	e, _ := newTestEngine(t)
	norm, _ := e.Normalize(sampleRows())

	rec, err := e.InvestmentBank("2021/12", norm, 10)
	if !errors.Is(err, core.ErrInvalidMonth) || rec != nil {
		t.Fatalf("expected nil and ErrInvalidMonth, got %+v %v", rec, err)
	}

	rec, err = e.InvestmentBank("2021-12", norm, 25)
	if !errors.Is(err, core.ErrInvalidLimit) {
		t.Fatalf("expected ErrInvalidLimit, got %v", err)
	}
	if rec == nil || rec.InvestmentAmount != 0 || rec.Month != "2021-12" {
		t.Fatalf("expected zero record, got %+v", rec)
	}
}
