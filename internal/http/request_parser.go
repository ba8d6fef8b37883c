package http

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"skybank/internal/core"
	"skybank/internal/report"
)

// ReportParams holds the query of a report request.
type ReportParams struct {
	Category string
	Date     string
	Format   report.Format
}

// ParseHomeDate returns the date query value or now in YYYY-MM-DD HH:MM:SS.
func ParseHomeDate(query url.Values, now time.Time) string {
	if v := strings.TrimSpace(query.Get("date")); v != "" {
		return v
	}
	return now.Format(core.HomeLayout)
}

// ParseMonth returns the month query value or the current month (YYYY-MM).
func ParseMonth(query url.Values, now time.Time) string {
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		return v
	}
	return now.Format(core.MonthLayout)
}

// ParseLimit reads the round-up limit. It must be present and numeric;
// membership in core.Limits is checked by the engine.
func ParseLimit(query url.Values) (int, error) {
	return strconv.Atoi(strings.TrimSpace(query.Get("limit")))
}

// ParseReportParams reads category, date and format. An empty date means now.
func ParseReportParams(query url.Values) (ReportParams, error) {
	format, err := report.ParseFormat(query.Get("format"))
	if err != nil {
		return ReportParams{}, err
	}
	return ReportParams{
		Category: sanitizeInput(query.Get("category")),
		Date:     strings.TrimSpace(query.Get("date")),
		Format:   format,
	}, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
