package analytics

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"skybank/internal/core"
	"skybank/internal/log"
)

func row(opDate, payDate string, card *string, op, pay string, category, description string) core.Transaction {
	return core.Transaction{
		OperationDate:     opDate,
		PaymentDate:       payDate,
		CardNumber:        card,
		Status:            "OK",
		OperationAmount:   core.ParseAmount(op),
		OperationCurrency: "RUB",
		PaymentAmount:     core.ParseAmount(pay),
		PaymentCurrency:   "RUB",
		Category:          core.StringPtr(category),
		Description:       description,
	}
}

// sampleRows spans four months. December 2021 holds -160.89, -64 and -500.
func sampleRows() []core.Transaction {
	return []core.Transaction{
		row("31.12.2021 16:44:00", "31.12.2021", core.StringPtr("*7197"), "-160.89", "-160.89", "Супермаркеты", "Колхоз"),
		row("31.12.2021 16:42:04", "31.12.2021", core.StringPtr("*7197"), "-64.00", "-64.00", "Супермаркеты", "Колхоз"),
		row("30.12.2021 22:22:03", "31.12.2021", core.StringPtr("*5091"), "-500.00", "-500.00", "Переводы", "Константин Л."),
		row("29.11.2021 10:00:00", "30.11.2021", core.StringPtr("*4556"), "-55.00", "-55.00", "Фастфуд", "Mouse Tail"),
		row("03.01.2022 12:00:00", "04.01.2022", core.StringPtr("*7197"), "-1198.23", "-1198.23", "Переводы", "Линзомат ТЦ Юность"),
		row("15.01.2022 09:15:00", "15.01.2022", nil, "5046.00", "5046.00", "Пополнения", "Пополнение через Газпромбанк"),
		row("20.10.2021 18:30:00", "21.10.2021", core.StringPtr("*5091"), "-21.00", "", "Красота", "Улыбка радуги"),
	}
}

func newTestEngine(t *testing.T) (*Engine, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return New(log.NewWriter(&buf, slog.LevelDebug)), &buf
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := core.ParseOperationTime(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return ts
}
