package backend

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skybank/internal/config"
	"skybank/internal/core"
	"skybank/internal/sheets"
)

func TestBackendType_IsValid(t *testing.T) {
	tests := []struct {
		in   BackendType
		want bool
	}{
		{XLSXBackend, true},
		{SQLiteBackend, true},
		{SheetsBackend, true},
		{MemoryBackend, true},
		{"postgres", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := tt.in.IsValid(); got != tt.want {
			t.Errorf("%q.IsValid() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "mysql"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:      "xlsx",
		TransactionsFile: "data/operations.xlsx",
		SeedFile:         "data/seed.csv",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != XLSXBackend || cfg.TransactionsFile != "data/operations.xlsx" || cfg.SeedFile != "data/seed.csv" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"xlsx ok", Config{Type: XLSXBackend, TransactionsFile: "a.xlsx"}, ""},
		{"xlsx missing file", Config{Type: XLSXBackend}, "transactions file"},
		{"sqlite missing path", Config{Type: SQLiteBackend}, "SQLite database path"},
		{"sheets missing id", Config{Type: SheetsBackend}, "Spreadsheet ID"},
		{"memory ok", Config{Type: MemoryBackend}, ""},
		{"unknown", Config{Type: "nope"}, "invalid backend type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateBackend_XLSXMissingFile(t *testing.T) {
	f := NewFactory(nil)
	res, err := f.CreateBackend(context.Background(), Config{
		Type:             XLSXBackend,
		TransactionsFile: filepath.Join(t.TempDir(), "missing.xlsx"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := res.Backend.ReadTransactions(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 || rows[0].CardNumber != nil {
		t.Fatalf("expected single placeholder row, got %+v", rows)
	}
}

func TestCreateBackend_MemorySeed(t *testing.T) {
	dir := t.TempDir()
	seed := filepath.Join(dir, "seed.csv")
	header := strings.Join(sheets.Columns, ",")
	row := "31.12.2021 16:44:00,31.12.2021,*7197,OK,\"-160,89\",RUB,\"-160,89\",RUB,,Супермаркеты,5411,Колхоз,3,,\"160,89\""
	if err := os.WriteFile(seed, []byte(header+"\n"+row+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, SeedFile: seed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rows, err := res.Backend.ReadTransactions(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 1 || rows[0].OperationDate != "31.12.2021 16:44:00" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if got := core.Float(rows[0].OperationAmount.Decimal); got != -160.89 {
		t.Fatalf("unexpected amount %v", got)
	}
}

func TestCreateBackend_SQLite(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Cleanup == nil {
		t.Fatal("expected cleanup for sqlite backend")
	}
	defer res.Cleanup()

	rows, err := res.Backend.ReadTransactions(context.Background())
	if err != nil || len(rows) != 0 {
		t.Fatalf("expected empty database, got %d rows, err %v", len(rows), err)
	}
}
