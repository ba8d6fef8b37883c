package core

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Layouts used by the bank export and by callers.
const (
	OperationLayout = "02.01.2006 15:04:05" // "Дата операции" cells and report dates
	PaymentLayout   = "02.01.2006"          // "Дата платежа" cells
	DateLayout      = "2006-01-02"          // normalized operation dates
	MonthLayout     = "2006-01"             // investment months
	HomeLayout      = "2006-01-02 15:04:05" // home page reference instant
)

// MissingCard is the grouping key used for rows without a card number.
const MissingCard = "nan"

type (
	// Transaction is one row of the bank export. Nullable cells are pointers
	// or decimal.NullDecimal; text cells that may be blank are plain strings.
	Transaction struct {
		OperationDate      string
		PaymentDate        string
		CardNumber         *string
		Status             string
		OperationAmount    decimal.NullDecimal
		OperationCurrency  string
		PaymentAmount      decimal.NullDecimal
		PaymentCurrency    string
		Cashback           decimal.NullDecimal
		Category           *string
		MCC                *int64
		Description        string
		Bonuses            decimal.NullDecimal
		InvestmentRounding decimal.NullDecimal
		RoundedAmount      decimal.NullDecimal
	}

	// NormalizedTransaction is the date-only view used by the investment engine.
	NormalizedTransaction struct {
		OperationDate string              `json:"operation_date"`
		Amount        decimal.NullDecimal `json:"amount"`
	}

	// Settings is the user's persisted selection. Limit is nil until the
	// user picks a round-up limit.
	Settings struct {
		UserCurrencies []string `json:"user_currencies"`
		UserStocks     []string `json:"user_stocks"`
		Limit          *int     `json:"limit,omitempty"`
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidMonth  = errors.New("invalid month")
	ErrInvalidLimit  = errors.New("invalid limit")
	ErrInvalidHour   = errors.New("invalid hour")
	ErrInvalidFormat = errors.New("invalid report format")
)

// User facing messages. They are logged verbatim and shown by the front ends.
const (
	MsgInvalidMonthFormat = "Invalid date format. Enter the month as YYYY-MM"
	MsgInvalidReportDate  = "Invalid date format. Enter the date as DD.MM.YYYY HH:MM:SS"
	MsgInvalidHomeDate    = "Invalid date format. Enter the date as YYYY-MM-DD HH:MM:SS"
	MsgInvalidLimit       = "Invalid limit. Choose one of: 10, 50, 100"
	MsgInvalidHour        = "Invalid time of day. Check the data you entered."
	MsgFileNotFound       = "File not found. Check the data you entered."
)

// Limits lists the accepted round-up limits.
var Limits = []int{10, 50, 100}

// ValidLimit reports whether limit is one of Limits.
func ValidLimit(limit int) bool {
	for _, l := range Limits {
		if l == limit {
			return true
		}
	}
	return false
}

// PlaceholderTransaction returns the all-missing row sources substitute when
// their input cannot be read.
func PlaceholderTransaction() Transaction {
	return Transaction{}
}

// ParseOperationTime parses a DD.MM.YYYY HH:MM:SS timestamp in local time.
func ParseOperationTime(s string) (time.Time, error) {
	return time.ParseInLocation(OperationLayout, s, time.Local)
}

// ParseHomeTime parses a YYYY-MM-DD HH:MM:SS timestamp in local time.
func ParseHomeTime(s string) (time.Time, error) {
	return time.ParseInLocation(HomeLayout, s, time.Local)
}

// ParseMonth parses a YYYY-MM month.
func ParseMonth(s string) (time.Time, error) {
	return time.ParseInLocation(MonthLayout, s, time.Local)
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
