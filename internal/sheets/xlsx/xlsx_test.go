package xlsx

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"skybank/internal/core"
	"skybank/internal/log"
)

func TestReadMissingFileReturnsPlaceholder(t *testing.T) {
	var buf bytes.Buffer
	r := New(filepath.Join(t.TempDir(), "operations.xlsx"), "", log.NewWriter(&buf, slog.LevelDebug))

	txs, err := r.ReadTransactions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 1 || txs[0] != core.PlaceholderTransaction() {
		t.Fatalf("expected a single placeholder row, got %+v", txs)
	}
	if !strings.Contains(buf.String(), core.MsgFileNotFound) {
		t.Fatalf("expected message to be logged, got %q", buf.String())
	}
}

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operations.xlsx")
	in := []core.Transaction{
		{
			OperationDate:   "31.12.2021 16:44:00",
			PaymentDate:     "31.12.2021",
			CardNumber:      core.StringPtr("*7197"),
			Status:          "OK",
			OperationAmount: core.ParseAmount("-160.89"),
			PaymentAmount:   core.ParseAmount("-160.89"),
			Category:        core.StringPtr("Супермаркеты"),
			Description:     "Колхоз",
		},
		{
			OperationDate:   "30.12.2021 22:22:03",
			PaymentDate:     "31.12.2021",
			OperationAmount: core.ParseAmount("-500"),
		},
	}
	if err := Write(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}

	out, err := New(path, "", nil).ReadTransactions(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(out))
	}
	if out[0].OperationDate != in[0].OperationDate || *out[0].Category != "Супермаркеты" {
		t.Fatalf("unexpected first row %+v", out[0])
	}
	if !out[0].OperationAmount.Decimal.Equal(in[0].OperationAmount.Decimal) {
		t.Fatalf("amount mismatch: %s", out[0].OperationAmount.Decimal)
	}
	if out[1].CardNumber != nil || out[1].PaymentAmount.Valid {
		t.Fatalf("missing cells must stay missing: %+v", out[1])
	}
}

func TestReadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "operations.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(path, "", nil).ReadTransactions(context.Background()); err == nil {
		t.Fatalf("expected error for corrupt workbook")
	}
}
