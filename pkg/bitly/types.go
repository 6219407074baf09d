package bitly

import "encoding/json"

// envelope is the uniform wrapper around every bit.ly v3 response.
// Data stays raw until the envelope status has been checked.
type envelope struct {
	StatusCode int             `json:"status_code"`
	StatusTxt  string          `json:"status_txt"`
	Data       json.RawMessage `json:"data"`
}

// check returns an *APIError unless the envelope reports success.
func (e *envelope) check() error {
	if e.StatusCode != 200 {
		return &APIError{Code: e.StatusCode, Text: e.StatusTxt}
	}
	return nil
}

// ShortenResult describes a newly shortened (or re-issued) link.
type ShortenResult struct {
	URL        string `json:"url"`
	Hash       string `json:"hash"`
	GlobalHash string `json:"global_hash"`
	LongURL    string `json:"long_url"`
	NewHash    int    `json:"new_hash"`
}

// ExpandEntry maps one short URL or hash back to its long URL.
// Error is set per entry when the service could not expand that input.
type ExpandEntry struct {
	ShortURL   string `json:"short_url,omitempty"`
	Hash       string `json:"hash,omitempty"`
	UserHash   string `json:"user_hash"`
	GlobalHash string `json:"global_hash"`
	LongURL    string `json:"long_url"`
	Error      string `json:"error,omitempty"`
}

// ClickStats carries user and global click counts for one link.
type ClickStats struct {
	ShortURL     string `json:"short_url,omitempty"`
	Hash         string `json:"hash,omitempty"`
	UserHash     string `json:"user_hash"`
	GlobalHash   string `json:"global_hash"`
	UserClicks   int64  `json:"user_clicks"`
	GlobalClicks int64  `json:"global_clicks"`
}

// Referrer is one referring page and its click count.
type Referrer struct {
	Clicks    int64  `json:"clicks"`
	Referrer  string `json:"referrer"`
	RefApp    string `json:"referrer_app,omitempty"`
	URL       string `json:"url,omitempty"`
}

// ReferrerStats lists the referrers recorded for one link.
type ReferrerStats struct {
	ShortURL   string     `json:"short_url,omitempty"`
	Hash       string     `json:"hash,omitempty"`
	UserHash   string     `json:"user_hash"`
	GlobalHash string     `json:"global_hash"`
	CreatedBy  string     `json:"created_by"`
	Referrers  []Referrer `json:"referrers"`
}

// Country is one originating country and its click count.
type Country struct {
	Clicks  int64  `json:"clicks"`
	Country string `json:"country"`
}

// CountryStats lists the countries clicks originated from for one link.
type CountryStats struct {
	ShortURL   string    `json:"short_url,omitempty"`
	Hash       string    `json:"hash,omitempty"`
	UserHash   string    `json:"user_hash"`
	GlobalHash string    `json:"global_hash"`
	CreatedBy  string    `json:"created_by"`
	Countries  []Country `json:"countries"`
}

// MinuteSeries is the per-minute click series for one link over the last
// hour, most recent minute first, exactly as the service returns it.
type MinuteSeries struct {
	ShortURL   string  `json:"short_url,omitempty"`
	Hash       string  `json:"hash,omitempty"`
	UserHash   string  `json:"user_hash"`
	GlobalHash string  `json:"global_hash"`
	Clicks     []int64 `json:"clicks"`
}

// LookupEntry maps a long URL to its existing aggregate short link.
type LookupEntry struct {
	URL        string `json:"url"`
	ShortURL   string `json:"short_url"`
	GlobalHash string `json:"global_hash"`
	Error      string `json:"error,omitempty"`
}

// AuthenticateResult resolves another account's API key from its
// username and password.
type AuthenticateResult struct {
	Successful bool   `json:"successful"`
	Username   string `json:"username"`
	APIKey     string `json:"api_key"`
}

// InfoEntry carries page-level metadata about one short link.
type InfoEntry struct {
	ShortURL   string `json:"short_url,omitempty"`
	Hash       string `json:"hash,omitempty"`
	UserHash   string `json:"user_hash"`
	GlobalHash string `json:"global_hash"`
	Title      string `json:"title"`
	CreatedBy  string `json:"created_by"`
	Error      string `json:"error,omitempty"`
}
