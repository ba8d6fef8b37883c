package http

import (
	"encoding/json"
	"net/http"

	"skybank/internal/log"
	"skybank/internal/middleware/trace"
)

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode response", log.FieldError, err)
		http.Error(w, `{"error":"internal","message":"Internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, r, status, ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: trace.GetRequestID(r.Context()),
	})
}
