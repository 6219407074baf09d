package service

import (
	"context"

	"bitly-client/pkg/bitly"
)

// BitlyAPI is the slice of the bit.ly client this service depends on.
// *bitly.Client satisfies it; tests substitute a mock.
type BitlyAPI interface {
	ShortenWithDomain(ctx context.Context, longURL, domain string) (*bitly.ShortenResult, error)
	Expand(ctx context.Context, shortURLs, hashes []string) ([]bitly.ExpandEntry, error)
	Validate(ctx context.Context, login, key string) (bool, error)
	Clicks(ctx context.Context, shortURLs, hashes []string) ([]bitly.ClickStats, error)
	Referrers(ctx context.Context, shortURL, hash string) (*bitly.ReferrerStats, error)
	Countries(ctx context.Context, shortURL, hash string) (*bitly.CountryStats, error)
	ClicksByMinute(ctx context.Context, shortURLs, hashes []string) ([]bitly.MinuteSeries, error)
	ProDomain(ctx context.Context, domain string) (bool, error)
	Lookup(ctx context.Context, longURLs []string) ([]bitly.LookupEntry, error)
	Authenticate(ctx context.Context, login, password string) (*bitly.AuthenticateResult, error)
	Info(ctx context.Context, shortURLs, hashes []string) ([]bitly.InfoEntry, error)
}

// ShortenerService defines the business logic in front of the bit.ly API
// This layer adds input validation and response caching on top of the
// raw client; everything stays a single request/response exchange
type ShortenerService interface {
	// Shorten validates and normalizes a long URL, then shortens it
	Shorten(ctx context.Context, longURL, domain string) (*bitly.ShortenResult, error)

	// Expand maps short URLs/hashes to long URLs, serving cached entries
	// when available
	Expand(ctx context.Context, shortURLs, hashes []string) ([]bitly.ExpandEntry, error)

	// Validate checks another account's credentials
	Validate(ctx context.Context, login, key string) (bool, error)

	// Clicks returns click statistics for short URLs/hashes
	Clicks(ctx context.Context, shortURLs, hashes []string) ([]bitly.ClickStats, error)

	// Referrers returns referrer statistics for one short URL or hash
	Referrers(ctx context.Context, shortURL, hash string) (*bitly.ReferrerStats, error)

	// Countries returns originating countries for one short URL or hash
	Countries(ctx context.Context, shortURL, hash string) (*bitly.CountryStats, error)

	// ClicksByMinute returns the last hour's per-minute click series
	ClicksByMinute(ctx context.Context, shortURLs, hashes []string) ([]bitly.MinuteSeries, error)

	// ProDomain checks whether a domain is registered for bitly Pro
	ProDomain(ctx context.Context, domain string) (bool, error)

	// Lookup finds existing short links for long URLs
	Lookup(ctx context.Context, longURLs []string) ([]bitly.LookupEntry, error)

	// Authenticate resolves another account's API key
	Authenticate(ctx context.Context, login, password string) (*bitly.AuthenticateResult, error)

	// Info returns page metadata for short URLs/hashes
	Info(ctx context.Context, shortURLs, hashes []string) ([]bitly.InfoEntry, error)
}
