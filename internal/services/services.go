package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/vidx/internal/shared"
)

// StatusError is a non-2xx API response.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error (%s %s, status %d): %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("API error (%s %s): status %d", e.Method, e.Path, e.StatusCode)
}

// Unwrap maps the status code onto the shared error taxonomy.
func (e *StatusError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return shared.ErrUnauthorized
	case http.StatusNotFound:
		return shared.ErrNotFound
	default:
		return shared.ErrNetworkFailure
	}
}

// errorDetail extracts a human-readable message from an error body.
//
// The API answers with {"detail": "..."}, {"error": "..."}, or field-keyed validation lists.
func errorDetail(body []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return strings.TrimSpace(truncate(string(body), 200))
	}

	for _, key := range []string{"detail", "error", "message"} {
		var s string
		if raw, ok := fields[key]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}

	var parts []string
	for key, raw := range fields {
		var msgs []string
		if json.Unmarshal(raw, &msgs) == nil && len(msgs) > 0 {
			parts = append(parts, key+": "+strings.Join(msgs, " "))
		}
	}
	return strings.Join(parts, "; ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}
