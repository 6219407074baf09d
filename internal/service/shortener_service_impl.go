package service

import (
	"context"
	"encoding/json"

	"bitly-client/internal/cache"
	"bitly-client/internal/config"
	"bitly-client/internal/domain"
	"bitly-client/pkg/bitly"
	"bitly-client/pkg/logger"
	"bitly-client/pkg/validator"
)

// expandKeyPrefix namespaces cached expand entries within the cache
const expandKeyPrefix = "expand:"

// shortenerService implements the ShortenerService interface
type shortenerService struct {
	api    BitlyAPI
	cache  cache.Cache
	cfg    *config.Config
	logger *logger.Logger
}

// NewShortenerService creates a new service with dependencies injected
// cache may be nil, in which case every call goes straight to the API
func NewShortenerService(
	api BitlyAPI,
	cache cache.Cache,
	cfg *config.Config,
	logger *logger.Logger,
) ShortenerService {
	return &shortenerService{
		api:    api,
		cache:  cache,
		cfg:    cfg,
		logger: logger,
	}
}

// Shorten validates and normalizes the long URL before shortening it
func (s *shortenerService) Shorten(ctx context.Context, longURL, shortDomain string) (*bitly.ShortenResult, error) {
	// Step 1: Validate the original URL
	if err := validator.ValidateURL(longURL); err != nil {
		s.logger.Warn("Invalid URL provided", "url", longURL, "error", err)
		return nil, domain.NewValidationError("Invalid URL format")
	}

	// Step 2: Reject obviously unsafe URLs before they reach the API
	if !validator.IsSafeURL(longURL) {
		s.logger.Warn("Unsafe URL rejected", "url", longURL)
		return nil, domain.NewValidationError("Unsafe URL scheme")
	}

	// Step 3: Normalize URL (lowercase scheme/host, strip trailing slash)
	normalizedURL := validator.NormalizeURL(longURL)

	// Step 4: Sanity-check a custom domain's format; the client enforces
	// the allow-list / pro-domain policy itself
	if shortDomain != "" && !validator.ValidateShortDomain(shortDomain) {
		return nil, domain.NewValidationError("Invalid short domain format")
	}

	result, err := s.api.ShortenWithDomain(ctx, normalizedURL, shortDomain)
	if err != nil {
		return nil, err
	}

	s.logger.Info("URL shortened",
		"short_url", result.URL,
		"hash", result.Hash,
		"new_hash", result.NewHash,
	)

	return result, nil
}

// Expand maps short URLs/hashes to long URLs using a cache-aside pattern:
// a short link's expansion never changes, so cached entries are served
// directly and only the misses go to the remote API
func (s *shortenerService) Expand(ctx context.Context, shortURLs, hashes []string) ([]bitly.ExpandEntry, error) {
	if len(shortURLs) == 0 && len(hashes) == 0 {
		return nil, nil
	}

	if s.cache == nil {
		return s.api.Expand(ctx, shortURLs, hashes)
	}

	// Step 1: Batch-read whatever we already know
	keys := make([]string, 0, len(shortURLs)+len(hashes))
	for _, u := range shortURLs {
		keys = append(keys, expandKeyPrefix+u)
	}
	for _, h := range hashes {
		keys = append(keys, expandKeyPrefix+h)
	}

	cached, err := s.cache.GetMultiple(ctx, keys)
	if err != nil {
		// Cache trouble is not fatal, just skip it for this call
		s.logger.Warn("Cache read failed, bypassing cache", "error", err)
		cached = map[string]string{}
	}

	entries := make(map[string]bitly.ExpandEntry, len(cached))
	for key, raw := range cached {
		var entry bitly.ExpandEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			s.logger.Warn("Dropping corrupt cache entry", "key", key)
			continue
		}
		entries[key] = entry
	}

	// Step 2: Collect the misses per input kind
	var missURLs, missHashes []string
	for _, u := range shortURLs {
		if _, ok := entries[expandKeyPrefix+u]; !ok {
			missURLs = append(missURLs, u)
		}
	}
	for _, h := range hashes {
		if _, ok := entries[expandKeyPrefix+h]; !ok {
			missHashes = append(missHashes, h)
		}
	}

	// Step 3: Fetch only the misses
	if len(missURLs) > 0 || len(missHashes) > 0 {
		fetched, err := s.api.Expand(ctx, missURLs, missHashes)
		if err != nil {
			return nil, err
		}

		toCache := make(map[string]string, len(fetched))
		for _, entry := range fetched {
			key := entry.ShortURL
			if key == "" {
				key = entry.Hash
			}
			entries[expandKeyPrefix+key] = entry

			// Failed expansions are not cached
			if entry.Error == "" {
				if raw, err := json.Marshal(entry); err == nil {
					toCache[expandKeyPrefix+key] = string(raw)
				}
			}
		}

		if len(toCache) > 0 {
			if err := s.cache.SetMultiple(ctx, toCache, s.cfg.CacheTTL); err != nil {
				s.logger.Warn("Failed to cache expand entries", "error", err)
			}
		}

		s.logger.Debug("Expand served",
			"inputs", len(keys),
			"cache_hits", len(keys)-len(missURLs)-len(missHashes),
			"fetched", len(fetched),
		)
	}

	// Step 4: Assemble results in input order
	results := make([]bitly.ExpandEntry, 0, len(keys))
	for _, u := range shortURLs {
		if entry, ok := entries[expandKeyPrefix+u]; ok {
			results = append(results, entry)
		}
	}
	for _, h := range hashes {
		if entry, ok := entries[expandKeyPrefix+h]; ok {
			results = append(results, entry)
		}
	}

	return results, nil
}

// Validate checks another account's credentials against the API
func (s *shortenerService) Validate(ctx context.Context, login, key string) (bool, error) {
	return s.api.Validate(ctx, login, key)
}

// Clicks returns click statistics. Counters change constantly, so these
// are never cached
func (s *shortenerService) Clicks(ctx context.Context, shortURLs, hashes []string) ([]bitly.ClickStats, error) {
	return s.api.Clicks(ctx, shortURLs, hashes)
}

// Referrers returns referrer statistics for one short URL or hash
func (s *shortenerService) Referrers(ctx context.Context, shortURL, hash string) (*bitly.ReferrerStats, error) {
	return s.api.Referrers(ctx, shortURL, hash)
}

// Countries returns originating countries for one short URL or hash
func (s *shortenerService) Countries(ctx context.Context, shortURL, hash string) (*bitly.CountryStats, error) {
	return s.api.Countries(ctx, shortURL, hash)
}

// ClicksByMinute returns the last hour's per-minute click series
func (s *shortenerService) ClicksByMinute(ctx context.Context, shortURLs, hashes []string) ([]bitly.MinuteSeries, error) {
	return s.api.ClicksByMinute(ctx, shortURLs, hashes)
}

// ProDomain checks whether a domain is registered for bitly Pro
func (s *shortenerService) ProDomain(ctx context.Context, domain string) (bool, error) {
	return s.api.ProDomain(ctx, domain)
}

// Lookup finds existing short links for long URLs
func (s *shortenerService) Lookup(ctx context.Context, longURLs []string) ([]bitly.LookupEntry, error) {
	return s.api.Lookup(ctx, longURLs)
}

// Authenticate resolves another account's API key
func (s *shortenerService) Authenticate(ctx context.Context, login, password string) (*bitly.AuthenticateResult, error) {
	return s.api.Authenticate(ctx, login, password)
}

// Info returns page metadata. Titles can change, so no caching here either
func (s *shortenerService) Info(ctx context.Context, shortURLs, hashes []string) ([]bitly.InfoEntry, error) {
	return s.api.Info(ctx, shortURLs, hashes)
}
