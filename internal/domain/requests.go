package domain

import (
	"bytes"
	"encoding/json"
	"time"

	"bitly-client/pkg/bitly"
)

// Request payloads for the JSON facade. List-valued fields stay raw so
// their shape can be checked at runtime: this is the dynamically typed
// boundary in front of the statically typed client, and a field that
// should be a list of strings but is not becomes an ArgTypeError here,
// before any remote call.

// ShortenRequest represents the request payload for shortening a URL
type ShortenRequest struct {
	URL    string `json:"url" binding:"required"` // Long URL to shorten
	Domain string `json:"domain,omitempty"`       // Optional short domain
}

// MultiTargetRequest addresses zero or more short URLs and/or hashes.
// Used by expand, clicks, clicks_by_minute and info.
type MultiTargetRequest struct {
	ShortURLs json.RawMessage `json:"short_urls,omitempty"`
	Hashes    json.RawMessage `json:"hashes,omitempty"`
}

// Targets type-checks and extracts both list fields.
func (r *MultiTargetRequest) Targets() (shortURLs, hashes []string, err error) {
	shortURLs, err = StringList("short_urls", r.ShortURLs)
	if err != nil {
		return nil, nil, err
	}
	hashes, err = StringList("hashes", r.Hashes)
	if err != nil {
		return nil, nil, err
	}
	return shortURLs, hashes, nil
}

// LookupRequest carries the long URLs to look up
type LookupRequest struct {
	URLs json.RawMessage `json:"urls"`
}

// AuthenticateRequest carries the credentials of the account to resolve
type AuthenticateRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// StringList decodes a raw JSON field that must be a list of strings.
// A missing field yields an empty list. Any other shape yields an
// ArgTypeError naming the field, its actual JSON type and "list".
func StringList(name string, raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] != '[' {
		return nil, &bitly.ArgTypeError{Arg: name, Given: jsonTypeName(trimmed), Expected: "list"}
	}

	var values []string
	if err := json.Unmarshal(trimmed, &values); err != nil {
		// An array, but not of strings
		return nil, &bitly.ArgTypeError{Arg: name, Given: "list of non-strings", Expected: "list"}
	}
	return values, nil
}

// jsonTypeName reports the JSON type of a raw value from its first byte.
func jsonTypeName(raw []byte) string {
	switch raw[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
