package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Options{}, nil)
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	for _, k := range []string{"GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_SERVICE_ACCOUNT_FILE", "GOOGLE_APPLICATION_CREDENTIALS"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	_, err := New(context.Background(), Options{SpreadsheetID: "id"}, nil)
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDefaultSheetName(t *testing.T) {
	c := NewWithService(nil, Options{SpreadsheetID: "id"}, nil)
	if c.sheet != DefaultSheetName {
		t.Fatalf("got %q", c.sheet)
	}
	if _, err := c.ReadTransactions(context.Background()); err == nil {
		t.Fatalf("expected error without a service")
	}
}

func TestReadTransactions(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"range":          "Operations!A1:O3",
			"majorDimension": "ROWS",
			"values": [][]any{
				{"Дата операции", "Дата платежа", "Номер карты", "Статус", "Сумма операции"},
				{"31.12.2021 16:44:00", "31.12.2021", "*7197", "OK", "-160,89"},
				{"30.12.2021 22:22:03", "31.12.2021", "", "OK", "-500"},
			},
		})
	}))
	defer srv.Close()

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithoutAuthentication(),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	c := NewWithService(svc, Options{SpreadsheetID: "sheet-id"}, nil)

	txs, err := c.ReadTransactions(context.Background())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(gotPath, "sheet-id") {
		t.Fatalf("unexpected request path %q", gotPath)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(txs))
	}
	if txs[0].OperationAmount.Decimal.String() != "-160.89" || *txs[0].CardNumber != "*7197" {
		t.Fatalf("unexpected first row %+v", txs[0])
	}
	if txs[1].CardNumber != nil {
		t.Fatalf("blank card must be missing")
	}
}
