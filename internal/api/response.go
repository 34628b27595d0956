package api

import (
	"encoding/json"
	"net/http"
	"time"

	"shareit/internal/apperr"
)

// ErrorResponse is the envelope every failure shares: a single error string
// or a list of field errors, with the timestamp and HTTP status repeated in
// the body.
type ErrorResponse struct {
	Error     string    `json:"error,omitempty"`
	Errors    []string  `json:"errors,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Status    int       `json:"status"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps the error kind to a status code and message prefix.
func writeError(w http.ResponseWriter, err error) {
	var status int
	var prefix string
	switch apperr.KindOf(err) {
	case apperr.KindNotFound:
		status = http.StatusNotFound
		prefix = "Not found: "
	case apperr.KindForbidden:
		status = http.StatusForbidden
		prefix = "Access denied: "
	case apperr.KindConflict:
		status = http.StatusConflict
		prefix = "Conflict: "
	case apperr.KindBadRequest:
		status = http.StatusBadRequest
		prefix = "Bad request: "
	default:
		status = http.StatusInternalServerError
		prefix = "Server error: "
	}

	writeJSON(w, status, ErrorResponse{
		Error:     prefix + err.Error(),
		Timestamp: time.Now(),
		Status:    status,
	})
}

// writeValidationErrors reports field-level failures as an errors array.
func writeValidationErrors(w http.ResponseWriter, messages []string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Errors:    messages,
		Timestamp: time.Now(),
		Status:    http.StatusBadRequest,
	})
}
