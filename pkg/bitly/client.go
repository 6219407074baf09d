// Package bitly is a client binding for the bit.ly v3 REST API.
// Every remote endpoint maps to one method on Client; responses share a
// single JSON envelope whose status is checked before any payload is
// decoded. All the functions provided by the API are implemented except
// the OAuth ones.
package bitly

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bitly-client/pkg/logger"
)

// DefaultBaseURL is the production bit.ly v3 API endpoint.
const DefaultBaseURL = "http://api.bit.ly/v3"

// DefaultDomain is the short domain used when Shorten is called without one.
const DefaultDomain = "bit.ly"

const defaultUserAgent = "bitly-client/1.0"

// allowedDomains are the short domains every account may shorten to.
// Other domains are accepted only via the pro-domain check option.
var allowedDomains = map[string]bool{
	"bit.ly": true,
	"j.mp":   true,
}

// HTTPClient abstracts HTTP request execution for testing and custom
// transports. The standard *http.Client satisfies this interface.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the bit.ly v3 API on behalf of one account.
// It is immutable after construction; create it once and reuse it for
// sequential calls. Concurrent callers should hold their own Client or
// serialize access externally.
type Client struct {
	login          string
	apiKey         string
	baseURL        string
	httpClient     HTTPClient
	log            *logger.Logger
	userAgent      string
	proDomainCheck bool
}

// Option configures optional behavior of a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client. If not provided, a default
// client with a 10 second timeout is used.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithLogger sets a structured logger for debug-level call tracing.
// Without it the client is silent.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithUserAgent overrides the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithProDomainCheck makes Shorten validate an unrecognized short domain
// against the remote pro-domain endpoint instead of rejecting it outright.
// One extra round trip per shorten call with a custom domain.
func WithProDomainCheck() Option {
	return func(c *Client) {
		c.proDomainCheck = true
	}
}

// New creates a Client for the account identified by login and apiKey.
func New(login, apiKey string, opts ...Option) *Client {
	c := &Client{
		login:     login,
		apiKey:    apiKey,
		baseURL:   DefaultBaseURL,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return c
}

// Login returns the account identifier the client was built with.
func (c *Client) Login() string {
	return c.login
}

// authQuery returns the credential parameters every call starts with.
func (c *Client) authQuery() string {
	return "login=" + url.QueryEscape(c.login) + "&apiKey=" + url.QueryEscape(c.apiKey)
}

// multiParam formats a repeated query parameter: "&name=v1&name=v2".
// An empty values slice produces an empty string.
func multiParam(name string, values []string) string {
	if len(values) == 0 {
		return ""
	}
	var b strings.Builder
	for _, v := range values {
		b.WriteByte('&')
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(v))
	}
	return b.String()
}

// get issues a GET against one endpoint and decodes the envelope payload
// into out. The query string must not include the leading "?".
func (c *Client) get(ctx context.Context, endpoint, query string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint+"?"+query, nil)
	if err != nil {
		return fmt.Errorf("bitly: build %s request: %w", endpoint, err)
	}
	return c.do(req, endpoint, out)
}

// postForm issues a form-encoded POST against one endpoint. Only the
// authenticate endpoint uses this.
func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("bitly: build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, endpoint, out)
}

// do executes the request, checks the envelope and unwraps the payload.
// Transport and JSON errors propagate wrapped; a non-success envelope
// becomes an *APIError.
func (c *Client) do(req *http.Request, endpoint string, out any) error {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("bitly: %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("bitly: decode %s response: %w", endpoint, err)
	}

	if c.log != nil {
		c.log.Debug("bit.ly API call",
			"endpoint", endpoint,
			"status_code", env.StatusCode,
			"status_txt", env.StatusTxt,
		)
	}

	if err := env.check(); err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("bitly: decode %s payload: %w", endpoint, err)
		}
	}
	return nil
}

// exclusiveTarget enforces the "one short URL or one hash, not both" rule
// shared by the single-target operations.
func exclusiveTarget(shortURL, hash string) error {
	if shortURL != "" && hash != "" {
		return &ArgumentError{Reason: "submit either a short URL or a hash, not both"}
	}
	return nil
}

// targetQuery appends whichever of shortURL/hash is set. Callers must have
// run exclusiveTarget first.
func targetQuery(query, shortURL, hash string) string {
	if shortURL != "" {
		return query + "&shortUrl=" + url.QueryEscape(shortURL)
	}
	return query + "&hash=" + url.QueryEscape(hash)
}
