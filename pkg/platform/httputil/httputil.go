// Package httputil centralizes JSON response writing so every handler speaks
// the same envelope.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "campusconnect/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError translates a domain error into the JSON error envelope.
// Unclassified errors become 500s with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteJSON(w, dErrors.HTTPStatus(code), ErrorBody{
		Error:   string(code),
		Message: dErrors.MessageOf(err),
	})
}

// WriteErrorStatus writes the error envelope with an explicit status,
// for routes whose public contract pins a status code.
func WriteErrorStatus(w http.ResponseWriter, status int, err error) {
	WriteJSON(w, status, ErrorBody{
		Error:   string(dErrors.CodeOf(err)),
		Message: dErrors.MessageOf(err),
	})
}
