// Package respond writes the API envelope shared by every handler: a success
// flag plus either a payload or an error code/message pair. Internal error
// detail never crosses this boundary.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes exposed to the presentation layer.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthenticated    = "unauthenticated"
	CodeInvalidToken       = "invalid_or_expired_token"
	CodeInvalidInput       = "invalid_input"
	CodeNotFound           = "not_found"
	CodeStoreUnavailable   = "store_unavailable"
	CodeInternal           = "internal_error"
)

// Envelope is the standard API response wrapper used across handlers.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a success response carrying data.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, Envelope{Success: true, Data: data})
}

// Error writes a failure response with a code and a caller-safe message.
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, Envelope{Success: false, Error: code, Message: message})
}

// ErrorDetails writes a failure response including field-level detail. Only
// used for validation of the caller's own payload.
func ErrorDetails(w http.ResponseWriter, status int, code, message string, details any) {
	write(w, status, Envelope{Success: false, Error: code, Message: message, Details: details})
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("respond: encode payload failed", "error", err)
	}
}
