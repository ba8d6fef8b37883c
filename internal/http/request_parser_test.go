package http

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"skybank/internal/core"
	"skybank/internal/report"
)

var fixedNow = time.Date(2021, 12, 31, 16, 44, 0, 0, time.Local)

func TestParseHomeDate(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{"explicit date", url.Values{"date": {"2021-12-20 10:00:00"}}, "2021-12-20 10:00:00"},
		{"missing date uses now", url.Values{}, "2021-12-31 16:44:00"},
		{"blank date uses now", url.Values{"date": {"  "}}, "2021-12-31 16:44:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseHomeDate(tt.query, fixedNow); got != tt.want {
				t.Errorf("ParseHomeDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseMonth(t *testing.T) {
	if got := ParseMonth(url.Values{}, fixedNow); got != "2021-12" {
		t.Errorf("default month = %q", got)
	}
	if got := ParseMonth(url.Values{"month": {"2021-11"}}, fixedNow); got != "2021-11" {
		t.Errorf("explicit month = %q", got)
	}
}

func TestParseLimit(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"10", 10, false},
		{" 50 ", 50, false},
		{"7", 7, false},
		{"", 0, true},
		{"ten", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseLimit(url.Values{"limit": {tt.in}})
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLimit(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestParseReportParams(t *testing.T) {
	got, err := ParseReportParams(url.Values{
		"category": {" Супермаркеты\x00 "},
		"date":     {"31.12.2021 16:44:00"},
		"format":   {"CSV"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := ReportParams{Category: "Супермаркеты", Date: "31.12.2021 16:44:00", Format: report.FormatCSV}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if got, _ := ParseReportParams(url.Values{"category": {"x"}}); got.Format != report.FormatJSON {
		t.Errorf("default format = %q", got.Format)
	}
	if _, err := ParseReportParams(url.Values{"format": {"pdf"}}); !errors.Is(err, core.ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}
