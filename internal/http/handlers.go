package http

import (
	"errors"
	"net/http"
	"strconv"

	"skybank/internal/core"
	"skybank/internal/log"
	"skybank/internal/report"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	date := ParseHomeDate(r.URL.Query(), s.now())

	summary, err := s.home.Build(r.Context(), date)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (s *Server) handleInvestment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	month := ParseMonth(q, s.now())
	limit, err := ParseLimit(q)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_limit", core.MsgInvalidLimit)
		return
	}

	rec, err := s.investment.Project(r.Context(), month, limit)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if rec == nil {
		writeError(w, r, http.StatusNotFound, "no_transactions", "No transactions for month "+month)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	params, err := ParseReportParams(r.URL.Query())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if params.Category == "" {
		writeError(w, r, http.StatusBadRequest, "missing_category", "Enter a spending category")
		return
	}

	data, n, err := s.reports.Render(r.Context(), params.Category, params.Date, params.Format)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Report rendered",
		log.NewFields().WithReport(params.Category, string(params.Format), n).ToSlice()...)

	w.Header().Set("Content-Type", params.Format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if params.Format != report.FormatJSON {
		w.Header().Set("Content-Disposition", `attachment; filename="report`+params.Format.Ext()+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// writeServiceError maps domain sentinels to 400s with their fixed user
// message; anything else is a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		msg := core.MsgInvalidHomeDate
		if r.URL.Path == "/api/reports" {
			msg = core.MsgInvalidReportDate
		}
		writeError(w, r, http.StatusBadRequest, "invalid_date", msg)
	case errors.Is(err, core.ErrInvalidMonth):
		writeError(w, r, http.StatusBadRequest, "invalid_month", core.MsgInvalidMonthFormat)
	case errors.Is(err, core.ErrInvalidLimit):
		writeError(w, r, http.StatusBadRequest, "invalid_limit", core.MsgInvalidLimit)
	case errors.Is(err, core.ErrInvalidFormat):
		writeError(w, r, http.StatusBadRequest, "invalid_format", "Invalid report format. Choose one of: json, csv, xlsx")
	case errors.Is(err, core.ErrInvalidHour):
		writeError(w, r, http.StatusBadRequest, "invalid_hour", core.MsgInvalidHour)
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path, log.FieldError, err)
		writeError(w, r, http.StatusInternalServerError, "internal", "Internal error")
	}
}
