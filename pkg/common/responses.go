package common

import (
	"encoding/json"
	"net/http"
)

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the wire shape of every failed request
type ErrorResponse struct {
	Error ErrorInfo `json:"error"`
}

// RespondJSON sends data as a JSON response. The payload is written as-is:
// list responses are bare arrays, matching what the front-end consumes.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError sends a structured error response
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{
		Error: ErrorInfo{Code: code, Message: message},
	})
}

// ParseJSONBody parses a JSON request body with a size limit
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
