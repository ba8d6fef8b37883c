package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"skybank/internal/core"
	"skybank/internal/report"
	"skybank/internal/services"
	"skybank/internal/settings"
)

type fakeStore struct {
	st      core.Settings
	loadErr error
	saved   *core.Settings
	limit   int
}

func (f *fakeStore) Load() (core.Settings, error) { return f.st, f.loadErr }

func (f *fakeStore) Save(st core.Settings) error {
	f.saved = &st
	return nil
}

func (f *fakeStore) SaveLimit(limit int) error {
	f.limit = limit
	return nil
}

type fakeHome struct{ date string }

func (f *fakeHome) Build(_ context.Context, date string) (*core.HomeSummary, error) {
	f.date = date
	return &core.HomeSummary{Greeting: core.GreetingMorning}, nil
}

type fakeInvestment struct {
	month string
	limit int
	rec   *core.InvestmentRecord
}

func (f *fakeInvestment) Project(_ context.Context, month string, limit int) (*core.InvestmentRecord, error) {
	f.month, f.limit = month, limit
	return f.rec, nil
}

type fakeReports struct {
	category, date string
	format         report.Format
}

func (f *fakeReports) Generate(_ context.Context, category, date string, format report.Format) (*services.ReportResult, error) {
	f.category, f.date, f.format = category, date, format
	return &services.ReportResult{Path: "data/report.csv", Format: format, Records: 3}, nil
}

func newTestMenu(store *fakeStore, input string) (*Menu, *fakeHome, *fakeInvestment, *fakeReports, *bytes.Buffer) {
	home := &fakeHome{}
	inv := &fakeInvestment{}
	reps := &fakeReports{}
	out := &bytes.Buffer{}
	m := NewMenu(MenuDeps{
		Home:       home,
		Investment: inv,
		Reports:    reps,
		Settings:   store,
		Catalog:    settings.NewCatalog([]string{"USD", "EUR"}, []string{"AAPL", "AMZN"}),
		Now:        func() time.Time { return time.Date(2021, 12, 31, 9, 30, 0, 0, time.Local) },
	}, strings.NewReader(input), out)
	return m, home, inv, reps, out
}

func limitPtr(v int) *int { return &v }

func TestMenu_Onboarding(t *testing.T) {
	store := &fakeStore{loadErr: settings.ErrNoSettings}
	// First attempt names an unknown currency, second succeeds.
	m, home, _, _, out := newTestMenu(store, "GBP\nAAPL\nusd eur\naapl\n1\n")

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if store.saved == nil {
		t.Fatal("expected settings to be saved")
	}
	if got := store.saved.UserCurrencies; len(got) != 2 || got[0] != "USD" || got[1] != "EUR" {
		t.Errorf("saved currencies = %v", got)
	}
	if !strings.Contains(out.String(), "GBP") {
		t.Errorf("expected the unknown currency to be reported, got %q", out.String())
	}
	if home.date != "2021-12-31 09:30:00" {
		t.Errorf("home date = %q", home.date)
	}
	if !strings.Contains(out.String(), core.GreetingMorning) {
		t.Errorf("expected greeting in output, got %q", out.String())
	}
}

func TestMenu_Investment(t *testing.T) {
	tests := []struct {
		name      string
		st        core.Settings
		input     string
		wantLimit int
		wantSaved int
		wantMonth string
	}{
		{"stored limit", core.Settings{Limit: limitPtr(50)}, "2\n2021-11\n", 50, 0, "2021-11"},
		{"asks for limit", core.Settings{}, "2\n7\n100\n\n", 100, 100, "2021-12"},
		{"retries month", core.Settings{Limit: limitPtr(10)}, "2\n11.2021\n2021-10\n", 10, 0, "2021-10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{st: tt.st}
			m, _, inv, _, out := newTestMenu(store, tt.input)

			if err := m.Run(context.Background()); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if inv.limit != tt.wantLimit || inv.month != tt.wantMonth {
				t.Errorf("Project(%q, %d), want (%q, %d)", inv.month, inv.limit, tt.wantMonth, tt.wantLimit)
			}
			if store.limit != tt.wantSaved {
				t.Errorf("saved limit = %d, want %d", store.limit, tt.wantSaved)
			}
			if !strings.Contains(out.String(), "No transactions for "+tt.wantMonth) {
				t.Errorf("expected empty-month message, got %q", out.String())
			}
		})
	}
}

func TestMenu_Report(t *testing.T) {
	store := &fakeStore{st: core.Settings{}}
	m, _, _, reps, out := newTestMenu(store, "3\npdf\ncsv\nсупермаркеты\n2021-12-31\n\n")

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if reps.format != report.FormatCSV {
		t.Errorf("format = %q", reps.format)
	}
	if reps.category != "Супермаркеты" {
		t.Errorf("category = %q", reps.category)
	}
	if reps.date != "31.12.2021 09:30:00" {
		t.Errorf("date = %q", reps.date)
	}
	if !strings.Contains(out.String(), "data/report.csv") {
		t.Errorf("expected report path in output, got %q", out.String())
	}
}

func TestMenu_UnknownCommandAndEOF(t *testing.T) {
	m, _, _, _, out := newTestMenu(&fakeStore{}, "9\n")
	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(out.String(), MsgUnknownCommand) {
		t.Errorf("expected unknown command message, got %q", out.String())
	}

	m, _, _, _, _ = newTestMenu(&fakeStore{}, "")
	if err := m.Run(context.Background()); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("Run() on empty input = %v, want ErrInputClosed", err)
	}
}
