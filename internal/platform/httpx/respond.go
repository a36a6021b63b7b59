// Package httpx provides the uniform JSON response envelope shared by every
// endpoint: {code, message, data}. Code 0 means success; failure codes
// mirror the HTTP status so clients can switch on either.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Result is the response envelope for both success and failure bodies.
type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK sends a success envelope with HTTP 200.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, Result{Code: 0, Message: "OK", Data: data})
}

// Fail sends a failure envelope. The envelope code equals the HTTP status
// and data is always null; no internal error text ever reaches the client.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, Result{Code: status, Message: message, Data: nil})
}

// Unauthorized sends the 401 envelope used for every identity failure.
func Unauthorized(w http.ResponseWriter) {
	Fail(w, http.StatusUnauthorized, "authentication required")
}

// Forbidden sends the 403 envelope for authenticated-but-unprivileged
// requests.
func Forbidden(w http.ResponseWriter) {
	Fail(w, http.StatusForbidden, "insufficient authority")
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}

func write(w http.ResponseWriter, status int, body Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
