// Package httputil provides the JSON envelope shared by every HTTP handler.
//
// Success responses go through WriteJSON; failures go through WriteError,
// which maps domain error codes onto HTTP statuses and renders the wire
// shape {"error": "<code>", "error_description": "<message>"}. Internal
// errors omit the description so backend detail never leaks to callers.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "paynroll/pkg/domain-errors"
)

// ErrorResponse is the wire shape for failures.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON renders v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// WriteError renders err as the standard error envelope. The HTTP status
// comes from the outermost domain code; errors without a code render as
// internal_error. Internal errors carry no description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{Error: string(code)}
	if code != dErrors.CodeInternal {
		resp.ErrorDescription = dErrors.MessageOf(err)
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}

// Decode parses the request body into v. Failures come back as
// invalid_input so handlers can pass them straight to WriteError.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "malformed request body")
	}
	return nil
}
