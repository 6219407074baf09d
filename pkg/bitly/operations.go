package bitly

import (
	"context"
	"fmt"
	"net/url"
)

// Shorten shortens longURL on the default bit.ly domain.
func (c *Client) Shorten(ctx context.Context, longURL string) (*ShortenResult, error) {
	return c.ShortenWithDomain(ctx, longURL, DefaultDomain)
}

// ShortenWithDomain shortens longURL on the given short domain.
// The domain must be "bit.ly" or "j.mp"; with the WithProDomainCheck
// option, any domain registered for bitly Pro is also accepted, at the
// cost of one extra remote check.
func (c *Client) ShortenWithDomain(ctx context.Context, longURL, domain string) (*ShortenResult, error) {
	if longURL == "" {
		return nil, &ArgumentError{Reason: "longUrl must not be empty"}
	}
	if domain == "" {
		domain = DefaultDomain
	}
	if !allowedDomains[domain] {
		if !c.proDomainCheck {
			return nil, &ArgumentError{Reason: fmt.Sprintf("unknown domain %q (allowed: \"bit.ly\" and \"j.mp\")", domain)}
		}
		pro, err := c.ProDomain(ctx, domain)
		if err != nil {
			return nil, err
		}
		if !pro {
			return nil, &ArgumentError{Reason: fmt.Sprintf("domain %q is not registered for bitly Pro", domain)}
		}
	}

	q := c.authQuery() + "&longUrl=" + url.QueryEscape(longURL) + "&domain=" + url.QueryEscape(domain)
	var res ShortenResult
	if err := c.get(ctx, "shorten", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Expand maps short URLs and hashes back to their long URLs.
// When both inputs are empty it returns an empty result without touching
// the network.
func (c *Client) Expand(ctx context.Context, shortURLs, hashes []string) ([]ExpandEntry, error) {
	if len(shortURLs) == 0 && len(hashes) == 0 {
		return nil, nil
	}
	q := c.authQuery() + multiParam("shortUrl", shortURLs) + multiParam("hash", hashes)
	var data struct {
		Expand []ExpandEntry `json:"expand"`
	}
	if err := c.get(ctx, "expand", q, &data); err != nil {
		return nil, err
	}
	return data.Expand, nil
}

// ExpandOne expands exactly one short URL or hash and returns the bare
// entry instead of a one-element slice.
func (c *Client) ExpandOne(ctx context.Context, shortURL, hash string) (*ExpandEntry, error) {
	if err := requireSingleTarget(shortURL, hash); err != nil {
		return nil, err
	}
	shortURLs, hashes := singleTarget(shortURL, hash)
	entries, err := c.Expand(ctx, shortURLs, hashes)
	if err != nil {
		return nil, err
	}
	return one("expand", entries)
}

// Validate checks whether another account's login and apiKey pair is valid.
func (c *Client) Validate(ctx context.Context, login, key string) (bool, error) {
	q := c.authQuery() + "&x_login=" + url.QueryEscape(login) + "&x_apiKey=" + url.QueryEscape(key)
	var data struct {
		Valid int `json:"valid"`
	}
	if err := c.get(ctx, "validate", q, &data); err != nil {
		return false, err
	}
	return data.Valid == 1, nil
}

// Clicks returns click statistics for short URLs and hashes.
// Empty inputs return an empty result without a network call.
func (c *Client) Clicks(ctx context.Context, shortURLs, hashes []string) ([]ClickStats, error) {
	if len(shortURLs) == 0 && len(hashes) == 0 {
		return nil, nil
	}
	q := c.authQuery() + multiParam("shortUrl", shortURLs) + multiParam("hash", hashes)
	var data struct {
		Clicks []ClickStats `json:"clicks"`
	}
	if err := c.get(ctx, "clicks", q, &data); err != nil {
		return nil, err
	}
	return data.Clicks, nil
}

// ClicksOne returns click statistics for exactly one short URL or hash.
func (c *Client) ClicksOne(ctx context.Context, shortURL, hash string) (*ClickStats, error) {
	if err := requireSingleTarget(shortURL, hash); err != nil {
		return nil, err
	}
	shortURLs, hashes := singleTarget(shortURL, hash)
	stats, err := c.Clicks(ctx, shortURLs, hashes)
	if err != nil {
		return nil, err
	}
	return one("clicks", stats)
}

// Referrers returns the referring sites recorded for one short URL or one
// hash. Supplying both is an argument error; supplying neither returns a
// nil result without a network call.
func (c *Client) Referrers(ctx context.Context, shortURL, hash string) (*ReferrerStats, error) {
	if shortURL == "" && hash == "" {
		return nil, nil
	}
	if err := exclusiveTarget(shortURL, hash); err != nil {
		return nil, err
	}
	var res ReferrerStats
	if err := c.get(ctx, "referrers", targetQuery(c.authQuery(), shortURL, hash), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Countries returns the countries clicks originated from for one short URL
// or one hash. Same exclusivity rule as Referrers.
func (c *Client) Countries(ctx context.Context, shortURL, hash string) (*CountryStats, error) {
	if shortURL == "" && hash == "" {
		return nil, nil
	}
	if err := exclusiveTarget(shortURL, hash); err != nil {
		return nil, err
	}
	var res CountryStats
	if err := c.get(ctx, "countries", targetQuery(c.authQuery(), shortURL, hash), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ClicksByMinute returns the last hour's per-minute click series for short
// URLs and hashes, most recent minute first. Empty inputs return an empty
// result without a network call.
func (c *Client) ClicksByMinute(ctx context.Context, shortURLs, hashes []string) ([]MinuteSeries, error) {
	if len(shortURLs) == 0 && len(hashes) == 0 {
		return nil, nil
	}
	q := c.authQuery() + multiParam("shortUrl", shortURLs) + multiParam("hash", hashes)
	var data struct {
		ClicksByMinute []MinuteSeries `json:"clicks_by_minute"`
	}
	if err := c.get(ctx, "clicks_by_minute", q, &data); err != nil {
		return nil, err
	}
	return data.ClicksByMinute, nil
}

// ClicksByMinuteOne returns the per-minute series for exactly one short
// URL or hash.
func (c *Client) ClicksByMinuteOne(ctx context.Context, shortURL, hash string) (*MinuteSeries, error) {
	if err := requireSingleTarget(shortURL, hash); err != nil {
		return nil, err
	}
	shortURLs, hashes := singleTarget(shortURL, hash)
	series, err := c.ClicksByMinute(ctx, shortURLs, hashes)
	if err != nil {
		return nil, err
	}
	return one("clicks_by_minute", series)
}

// ProDomain checks whether a short domain is registered for bitly Pro.
func (c *Client) ProDomain(ctx context.Context, domain string) (bool, error) {
	if domain == "" {
		return false, &ArgumentError{Reason: "domain must not be empty"}
	}
	q := c.authQuery() + "&domain=" + url.QueryEscape(domain)
	var data struct {
		ProDomain int    `json:"bitly_pro_domain"`
		Domain    string `json:"domain"`
	}
	if err := c.get(ctx, "bitly_pro_domain", q, &data); err != nil {
		return false, err
	}
	return data.ProDomain == 1, nil
}

// Lookup finds the existing aggregate short links for long URLs.
// An empty input returns an empty result without a network call.
func (c *Client) Lookup(ctx context.Context, longURLs []string) ([]LookupEntry, error) {
	if len(longURLs) == 0 {
		return nil, nil
	}
	q := c.authQuery() + multiParam("url", longURLs)
	var data struct {
		Lookup []LookupEntry `json:"lookup"`
	}
	if err := c.get(ctx, "lookup", q, &data); err != nil {
		return nil, err
	}
	return data.Lookup, nil
}

// Authenticate resolves the API key of a different account from its
// username and password. The service restricts access to this endpoint;
// it is the only POST operation in the API.
func (c *Client) Authenticate(ctx context.Context, login, password string) (*AuthenticateResult, error) {
	form := url.Values{}
	form.Set("login", c.login)
	form.Set("apiKey", c.apiKey)
	form.Set("x_login", login)
	form.Set("x_password", password)

	var data struct {
		Authenticate AuthenticateResult `json:"authenticate"`
	}
	if err := c.postForm(ctx, "authenticate", form, &data); err != nil {
		return nil, err
	}
	return &data.Authenticate, nil
}

// Info returns page metadata (title, creator) for short URLs and hashes.
// Empty inputs return an empty result without a network call.
func (c *Client) Info(ctx context.Context, shortURLs, hashes []string) ([]InfoEntry, error) {
	if len(shortURLs) == 0 && len(hashes) == 0 {
		return nil, nil
	}
	q := c.authQuery() + multiParam("shortUrl", shortURLs) + multiParam("hash", hashes)
	var data struct {
		Info []InfoEntry `json:"info"`
	}
	if err := c.get(ctx, "info", q, &data); err != nil {
		return nil, err
	}
	return data.Info, nil
}

// InfoOne returns metadata for exactly one short URL or hash.
func (c *Client) InfoOne(ctx context.Context, shortURL, hash string) (*InfoEntry, error) {
	if err := requireSingleTarget(shortURL, hash); err != nil {
		return nil, err
	}
	shortURLs, hashes := singleTarget(shortURL, hash)
	entries, err := c.Info(ctx, shortURLs, hashes)
	if err != nil {
		return nil, err
	}
	return one("info", entries)
}

// requireSingleTarget validates the One-accessor contract: exactly one of
// shortURL/hash must be set.
func requireSingleTarget(shortURL, hash string) error {
	if shortURL == "" && hash == "" {
		return &ArgumentError{Reason: "a short URL or a hash is required"}
	}
	return exclusiveTarget(shortURL, hash)
}

// singleTarget turns a (shortURL, hash) pair into the slice arguments the
// plural operations take. At most one side is populated.
func singleTarget(shortURL, hash string) (shortURLs, hashes []string) {
	if shortURL != "" {
		shortURLs = []string{shortURL}
	}
	if hash != "" {
		hashes = []string{hash}
	}
	return shortURLs, hashes
}

// one unwraps a single-element payload for the One-suffixed accessors.
func one[T any](endpoint string, entries []T) (*T, error) {
	if len(entries) != 1 {
		return nil, fmt.Errorf("bitly: %s: expected a single result, got %d", endpoint, len(entries))
	}
	return &entries[0], nil
}
