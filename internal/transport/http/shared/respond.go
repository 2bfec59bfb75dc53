// Package shared centralizes JSON response helpers so every handler package
// emits the same envelopes.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"opsdesk/pkg/domerr"
)

// WriteJSON encodes the payload with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// WriteError translates domain errors into HTTP responses. Unknown errors map
// to 500 with an opaque code; their detail belongs in logs.
func WriteError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := string(domerr.CodeInternal)
	message := "internal error"

	var de *domerr.Error
	if errors.As(err, &de) {
		status = domerr.ToHTTPStatus(de.Code)
		code = string(de.Code)
		message = de.Message
	}
	WriteJSON(w, status, map[string]string{
		"error":             code,
		"error_description": message,
	})
}
