package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"skybank/internal/core"
	"skybank/internal/log"
)

func tx(opDate, category, amount string) core.Transaction {
	return core.Transaction{
		OperationDate:   opDate,
		PaymentDate:     opDate[:10],
		CardNumber:      core.StringPtr("*7197"),
		Status:          "OK",
		OperationAmount: core.ParseAmount(amount),
		PaymentAmount:   core.ParseAmount(amount),
		Category:        core.StringPtr(category),
		Description:     "test",
	}
}

func sampleRows() []core.Transaction {
	rows := []core.Transaction{
		tx("31.12.2021 16:44:00", "Супермаркеты", "-160.89"),
		tx("31.12.2021 16:42:04", "Супермаркеты", "-64.00"),
		tx("30.12.2021 22:22:03", "Переводы", "-500.00"),
		tx("15.09.2021 10:00:00", "Супермаркеты", "-99.00"),
		tx("03.01.2022 12:00:00", "Супермаркеты", "-10.00"),
		tx("20.12.2021 12:00:00", "супермаркеты", "-1.00"),
	}
	missing := tx("21.12.2021 12:00:00", "", "-5")
	missing.Category = nil
	return append(rows, missing, core.PlaceholderTransaction())
}

func newTestGenerator(buf *bytes.Buffer) *Generator {
	return NewGenerator(nil, log.NewWriter(buf, slog.LevelDebug))
}

func TestSpendingByCategory(t *testing.T) {
	var logs bytes.Buffer
	g := newTestGenerator(&logs)

	got, err := g.SpendingByCategory(sampleRows(), "Супермаркеты", "31.12.2021 23:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if v, _ := got[0].Get(core.KeyOperationAmount); v.(float64) != -160.89 {
		t.Fatalf("unexpected first amount %v", v)
	}
}

func TestSpendingByCategoryUsesClock(t *testing.T) {
	var logs bytes.Buffer
	now, _ := core.ParseOperationTime("05.01.2022 00:00:00")
	g := newTestGenerator(&logs).WithClock(func() time.Time { return now })

	got, err := g.SpendingByCategory(sampleRows(), "Супермаркеты", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
}

func TestSpendingByCategoryNoMatch(t *testing.T) {
	var logs bytes.Buffer
	got, err := newTestGenerator(&logs).SpendingByCategory(sampleRows(), "Такси", "31.12.2021 23:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
	data, err := EncodeJSON(got)
	if err != nil || string(data) != "[]" {
		t.Fatalf("expected [], got %q %v", data, err)
	}
}

func TestSpendingByCategoryBadDate(t *testing.T) {
	var logs bytes.Buffer
	got, err := newTestGenerator(&logs).SpendingByCategory(sampleRows(), "Супермаркеты", "2021-12-31")
	if !errors.Is(err, core.ErrInvalidDate) || got != nil {
		t.Fatalf("expected nil and ErrInvalidDate, got %v %v", got, err)
	}
	if !strings.Contains(logs.String(), core.MsgInvalidReportDate) {
		t.Fatalf("expected message to be logged, got %q", logs.String())
	}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatJSON, true},
		{"json", FormatJSON, true},
		{"CSV", FormatCSV, true},
		{"report.xlsx", FormatXLSX, true},
		{"pdf", "", false},
	}
	for _, tc := range cases {
		got, err := ParseFormat(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q: got %q %v, want %q", tc.in, got, err, tc.want)
		}
		if !tc.ok && !errors.Is(err, core.ErrInvalidFormat) {
			t.Fatalf("%q: expected ErrInvalidFormat, got %v", tc.in, err)
		}
	}
}

func reportRecords(t *testing.T) []core.ReportRecord {
	t.Helper()
	var logs bytes.Buffer
	recs, err := newTestGenerator(&logs).SpendingByCategory(sampleRows(), "Супермаркеты", "31.12.2021 23:00:00")
	if err != nil {
		t.Fatalf("build records: %v", err)
	}
	return recs
}

func TestWriteFileJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(dir, FormatJSON, reportRecords(t))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "report.json" {
		t.Fatalf("unexpected path %s", path)
	}
	data, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(data), "[\n    {\n        \"operation_date\": \"31.12.2021 16:44:00\"") {
		t.Fatalf("unexpected json %s", data)
	}
	if !strings.Contains(string(data), "Супермаркеты") {
		t.Fatalf("non-ASCII text must be kept as is")
	}
}

func TestWriteFileCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(dir, FormatCSV, reportRecords(t))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	f, _ := os.Open(path)
	defer f.Close()
	lines, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(lines))
	}
	if lines[0][0] != core.KeyOperationDate || lines[1][4] != "-160.89" {
		t.Fatalf("unexpected content %v", lines)
	}
	if lines[1][10] != "" {
		t.Fatalf("missing mcc must be empty, got %q", lines[1][10])
	}
}

func TestWriteFileXLSX(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteFile(dir, FormatXLSX, reportRecords(t))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != core.KeyOperationDate || rows[2][0] != "31.12.2021 16:42:04" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

type failingWriter struct{}

func (failingWriter) Encode([]core.ReportRecord) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestWriteFileFailureLeavesNoFile(t *testing.T) {
	const broken Format = "broken"
	writers[broken] = failingWriter{}
	defer delete(writers, broken)

	dir := t.TempDir()
	if _, err := WriteFile(dir, broken, reportRecords(t)); err == nil {
		t.Fatalf("expected error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected empty dir, found %d entries", len(entries))
	}
}

func TestWriteFileUnknownFormat(t *testing.T) {
	if _, err := WriteFile(t.TempDir(), Format("pdf"), nil); !errors.Is(err, core.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestEncodeJSONRoundTrip(t *testing.T) {
	mcc := int64(5411)
	full := tx("31.12.2021 16:44:00", "Супермаркеты", "-160.89")
	full.MCC = &mcc
	full.Description = "Колхоз «Ромашка»"
	full.Cashback = core.ParseAmount("1.6")
	sparse := tx("30.12.2021 10:00:00", "Супермаркеты", "-5")
	sparse.CardNumber = nil
	sparse.PaymentDate = ""

	g := newTestGenerator(&bytes.Buffer{})
	records, err := g.SpendingByCategory([]core.Transaction{full, sparse}, "Супермаркеты", "31.12.2021 23:00:00")
	if err != nil || len(records) != 2 {
		t.Fatalf("select records: %d %v", len(records), err)
	}

	data, err := EncodeJSON(records)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	if len(decoded) != len(records) {
		t.Fatalf("got %d records back, want %d", len(decoded), len(records))
	}
	for i, rec := range records {
		want := rec.Map()
		for k, v := range want {
			if n, ok := v.(int64); ok {
				want[k] = float64(n)
			}
		}
		if !reflect.DeepEqual(decoded[i], want) {
			t.Errorf("record %d:\n got %v\nwant %v", i, decoded[i], want)
		}
	}
	if decoded[1][core.KeyCardNumber] != nil || decoded[1][core.KeyPaymentDate] != nil {
		t.Errorf("missing values must decode as null: %v", decoded[1])
	}
}
