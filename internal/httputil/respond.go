// Package httputil renders API responses. Every error leaving the service
// passes through WriteError so the envelope shape and the status mapping live
// in exactly one place.
package httputil

import (
	"encoding/json"
	"net/http"
	"time"

	"onlinemart-be/internal/apperr"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Details   []string  `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// WriteError translates any error into the uniform envelope. Errors that are
// not part of the domain taxonomy surface as ServerError.
func WriteError(w http.ResponseWriter, err error) {
	appErr := apperr.From(err)
	WriteJSON(w, appErr.Status(), ErrorResponse{
		Error:     string(appErr.Code),
		Message:   appErr.Message,
		Details:   appErr.Details,
		Timestamp: time.Now().UTC(),
	})
}
