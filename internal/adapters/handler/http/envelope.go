package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// timestampLayout is RFC 3339 in UTC with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var now = time.Now

type SuccessEnvelope struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Timestamp string `json:"timestamp"`
}

type ErrorEnvelope struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
	StatusCode int    `json:"statusCode"`
	Details    any    `json:"details,omitempty"`
}

// Success wraps data. Success is derived from status; data is omitted when
// nil.
func Success(data any, message string, status int) SuccessEnvelope {
	return SuccessEnvelope{
		Success:   status >= 200 && status < 300,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	}
}

// Error builds a failure envelope. Details are dropped in production.
func Error(message string, status int, details any, production bool) ErrorEnvelope {
	env := ErrorEnvelope{
		Success:    false,
		Error:      message,
		Timestamp:  timestamp(),
		StatusCode: status,
	}
	if !production {
		env.Details = details
	}
	return env
}

func timestamp() string {
	return now().UTC().Format(timestampLayout)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
