// Package apierror provides the standardized error envelope for the API.
// All 4xx/5xx responses go through this package so clients can always rely
// on an "error" string field, with an optional "details" field carrying the
// underlying cause for operator diagnosis on 500-class failures. Stack
// traces and raw SQL never leak through here.
package apierror

// APIError is the canonical error body for all failed responses.
type APIError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Error: msg}
}

// WithDetails attaches the underlying error message to the envelope.
func WithDetails(msg, details string) *APIError {
	return &APIError{Error: msg, Details: details}
}
