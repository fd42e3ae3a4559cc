// Package common provides shared HTTP utility functions for API handlers.
package common

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// MaxRequestBodySize limits the size of JSON request bodies (1MB)
const MaxRequestBodySize = 1 << 20

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONResponse writes a JSON response with the given data
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// WriteErrorResponse writes a standardized error response
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, ErrorResponse{Error: message}, statusCode)
}

// DecodeJSONBody decodes the request body into v, rejecting unknown fields
// and bodies larger than MaxRequestBodySize
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if decoder.More() {
		return fmt.Errorf("invalid request body: unexpected data after JSON object")
	}
	return nil
}
