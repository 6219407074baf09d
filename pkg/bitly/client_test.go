package bitly

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// okEnvelope wraps a data payload in a successful envelope
func okEnvelope(data string) string {
	return fmt.Sprintf(`{"status_code":200,"status_txt":"OK","data":%s}`, data)
}

// newTestClient points a client at a canned-response test server
func newTestClient(t *testing.T, handlerFn http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handlerFn)
	t.Cleanup(srv.Close)
	return New("testlogin", "testkey", WithBaseURL(srv.URL))
}

// failingTransport fails the test if any request goes out. Used to prove
// that argument errors and empty inputs never touch the network
type failingTransport struct {
	t *testing.T
}

func (f *failingTransport) Do(req *http.Request) (*http.Response, error) {
	f.t.Fatalf("unexpected network call to %s", req.URL)
	return nil, nil
}

// newOfflineClient builds a client that must not issue any request
func newOfflineClient(t *testing.T) *Client {
	t.Helper()
	return New("testlogin", "testkey", WithHTTPClient(&failingTransport{t: t}))
}

func TestShorten(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/shorten", r.URL.Path)
		assert.Equal(t, "testlogin", r.URL.Query().Get("login"))
		assert.Equal(t, "testkey", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "http://example.com", r.URL.Query().Get("longUrl"))
		assert.Equal(t, "bit.ly", r.URL.Query().Get("domain"))
		fmt.Fprint(w, okEnvelope(`{"url":"http://bit.ly/abc","hash":"abc","global_hash":"xyz","long_url":"http://example.com","new_hash":1}`))
	})

	result, err := client.Shorten(context.Background(), "http://example.com")
	require.NoError(t, err)
	assert.Equal(t, "http://bit.ly/abc", result.URL)
	assert.Equal(t, "abc", result.Hash)
	assert.Equal(t, 1, result.NewHash)
}

func TestShortenCustomAllowedDomain(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "j.mp", r.URL.Query().Get("domain"))
		fmt.Fprint(w, okEnvelope(`{"url":"http://j.mp/abc","hash":"abc","global_hash":"xyz","long_url":"http://example.com","new_hash":0}`))
	})

	result, err := client.ShortenWithDomain(context.Background(), "http://example.com", "j.mp")
	require.NoError(t, err)
	assert.Equal(t, "http://j.mp/abc", result.URL)
}

func TestShortenUnknownDomainRejected(t *testing.T) {
	client := newOfflineClient(t)

	_, err := client.ShortenWithDomain(context.Background(), "http://example.com", "evil.com")
	require.Error(t, err)

	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Contains(t, argErr.Error(), "evil.com")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestShortenEmptyURLRejected(t *testing.T) {
	client := newOfflineClient(t)

	_, err := client.Shorten(context.Background(), "")
	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))
}

func TestShortenProDomainCheck(t *testing.T) {
	var proChecked bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bitly_pro_domain":
			proChecked = true
			assert.Equal(t, "nyti.ms", r.URL.Query().Get("domain"))
			fmt.Fprint(w, okEnvelope(`{"bitly_pro_domain":1,"domain":"nyti.ms"}`))
		case "/shorten":
			assert.Equal(t, "nyti.ms", r.URL.Query().Get("domain"))
			fmt.Fprint(w, okEnvelope(`{"url":"http://nyti.ms/abc","hash":"abc","global_hash":"xyz","long_url":"http://example.com","new_hash":1}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	client := New("testlogin", "testkey", WithBaseURL(srv.URL), WithProDomainCheck())

	result, err := client.ShortenWithDomain(context.Background(), "http://example.com", "nyti.ms")
	require.NoError(t, err)
	assert.True(t, proChecked)
	assert.Equal(t, "http://nyti.ms/abc", result.URL)
}

func TestShortenProDomainCheckRejectsUnregistered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bitly_pro_domain", r.URL.Path)
		fmt.Fprint(w, okEnvelope(`{"bitly_pro_domain":0,"domain":"evil.com"}`))
	}))
	defer srv.Close()

	client := New("testlogin", "testkey", WithBaseURL(srv.URL), WithProDomainCheck())

	_, err := client.ShortenWithDomain(context.Background(), "http://example.com", "evil.com")
	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Contains(t, argErr.Error(), "bitly Pro")
}

func TestExpandSingle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/expand", r.URL.Path)
		assert.Equal(t, []string{"http://bit.ly/abc"}, r.URL.Query()["shortUrl"])
		fmt.Fprint(w, okEnvelope(`{"expand":[{"short_url":"http://bit.ly/abc","long_url":"http://example.com","user_hash":"abc","global_hash":"xyz"}]}`))
	})

	entries, err := client.Expand(context.Background(), []string{"http://bit.ly/abc"}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "http://example.com", entries[0].LongURL)
}

func TestExpandMultiple(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"http://bit.ly/a", "http://bit.ly/b"}, r.URL.Query()["shortUrl"])
		fmt.Fprint(w, okEnvelope(`{"expand":[{"short_url":"http://bit.ly/a","long_url":"http://a.example.com"},{"short_url":"http://bit.ly/b","long_url":"http://b.example.com"}]}`))
	})

	entries, err := client.Expand(context.Background(), []string{"http://bit.ly/a", "http://bit.ly/b"}, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "http://a.example.com", entries[0].LongURL)
	assert.Equal(t, "http://b.example.com", entries[1].LongURL)
}

func TestExpandHashes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"abc", "def"}, r.URL.Query()["hash"])
		fmt.Fprint(w, okEnvelope(`{"expand":[{"hash":"abc","long_url":"http://a.example.com"},{"hash":"def","long_url":"http://b.example.com"}]}`))
	})

	entries, err := client.Expand(context.Background(), nil, []string{"abc", "def"})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestExpandEmptyInputsNoNetworkCall(t *testing.T) {
	client := newOfflineClient(t)

	entries, err := client.Expand(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExpandOne(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okEnvelope(`{"expand":[{"short_url":"http://bit.ly/abc","long_url":"http://example.com"}]}`))
	})

	entry, err := client.ExpandOne(context.Background(), "http://bit.ly/abc", "")
	require.NoError(t, err)
	assert.Equal(t, "http://example.com", entry.LongURL)
}

func TestExpandOneRequiresSingleTarget(t *testing.T) {
	client := newOfflineClient(t)

	_, err := client.ExpandOne(context.Background(), "http://bit.ly/abc", "abc")
	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))

	_, err = client.ExpandOne(context.Background(), "", "")
	require.True(t, errors.As(err, &argErr))
}

func TestValidate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/validate", r.URL.Path)
		assert.Equal(t, "otherlogin", r.URL.Query().Get("x_login"))
		assert.Equal(t, "otherkey", r.URL.Query().Get("x_apiKey"))
		fmt.Fprint(w, okEnvelope(`{"valid":1}`))
	})

	valid, err := client.Validate(context.Background(), "otherlogin", "otherkey")
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestValidateInvalidAccount(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okEnvelope(`{"valid":0}`))
	})

	valid, err := client.Validate(context.Background(), "nobody", "nokey")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestClicks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clicks", r.URL.Path)
		fmt.Fprint(w, okEnvelope(`{"clicks":[{"short_url":"http://bit.ly/abc","user_clicks":12,"global_clicks":120}]}`))
	})

	stats, err := client.Clicks(context.Background(), []string{"http://bit.ly/abc"}, nil)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, int64(12), stats[0].UserClicks)
	assert.Equal(t, int64(120), stats[0].GlobalClicks)
}

func TestClicksOne(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okEnvelope(`{"clicks":[{"hash":"abc","user_clicks":3,"global_clicks":30}]}`))
	})

	stats, err := client.ClicksOne(context.Background(), "", "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.UserClicks)
}

func TestReferrers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/referrers", r.URL.Path)
		assert.Equal(t, "http://bit.ly/abc", r.URL.Query().Get("shortUrl"))
		fmt.Fprint(w, okEnvelope(`{"short_url":"http://bit.ly/abc","created_by":"someone","referrers":[{"clicks":5,"referrer":"direct"}]}`))
	})

	stats, err := client.Referrers(context.Background(), "http://bit.ly/abc", "")
	require.NoError(t, err)
	require.Len(t, stats.Referrers, 1)
	assert.Equal(t, int64(5), stats.Referrers[0].Clicks)
}

func TestReferrersBothTargetsRejected(t *testing.T) {
	client := newOfflineClient(t)

	_, err := client.Referrers(context.Background(), "http://bit.ly/abc", "abc")
	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Contains(t, argErr.Error(), "not both")
}

func TestReferrersNoTargetEmptyResult(t *testing.T) {
	client := newOfflineClient(t)

	stats, err := client.Referrers(context.Background(), "", "")
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestCountries(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/countries", r.URL.Path)
		assert.Equal(t, "abc", r.URL.Query().Get("hash"))
		fmt.Fprint(w, okEnvelope(`{"hash":"abc","created_by":"someone","countries":[{"clicks":7,"country":"US"},{"clicks":2,"country":"DE"}]}`))
	})

	stats, err := client.Countries(context.Background(), "", "abc")
	require.NoError(t, err)
	require.Len(t, stats.Countries, 2)
	assert.Equal(t, "US", stats.Countries[0].Country)
}

func TestCountriesBothTargetsRejected(t *testing.T) {
	client := newOfflineClient(t)

	_, err := client.Countries(context.Background(), "http://bit.ly/abc", "abc")
	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))
}

func TestCountriesNoTargetEmptyResult(t *testing.T) {
	client := newOfflineClient(t)

	stats, err := client.Countries(context.Background(), "", "")
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestClicksByMinute(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/clicks_by_minute", r.URL.Path)
		fmt.Fprint(w, okEnvelope(`{"clicks_by_minute":[{"hash":"abc","clicks":[4,2,0,1]}]}`))
	})

	series, err := client.ClicksByMinute(context.Background(), nil, []string{"abc"})
	require.NoError(t, err)
	require.Len(t, series, 1)
	// Most recent minute first, exactly as served
	assert.Equal(t, []int64{4, 2, 0, 1}, series[0].Clicks)
}

func TestProDomain(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bitly_pro_domain", r.URL.Path)
		assert.Equal(t, "nyti.ms", r.URL.Query().Get("domain"))
		fmt.Fprint(w, okEnvelope(`{"bitly_pro_domain":1,"domain":"nyti.ms"}`))
	})

	pro, err := client.ProDomain(context.Background(), "nyti.ms")
	require.NoError(t, err)
	assert.True(t, pro)
}

func TestProDomainEmptyDomainRejected(t *testing.T) {
	client := newOfflineClient(t)

	_, err := client.ProDomain(context.Background(), "")
	var argErr *ArgumentError
	require.True(t, errors.As(err, &argErr))
}

func TestLookup(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lookup", r.URL.Path)
		assert.Equal(t, []string{"http://example.com"}, r.URL.Query()["url"])
		fmt.Fprint(w, okEnvelope(`{"lookup":[{"url":"http://example.com","short_url":"http://bit.ly/abc","global_hash":"xyz"}]}`))
	})

	entries, err := client.Lookup(context.Background(), []string{"http://example.com"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "http://bit.ly/abc", entries[0].ShortURL)
}

func TestLookupEmptyInputNoNetworkCall(t *testing.T) {
	client := newOfflineClient(t)

	entries, err := client.Lookup(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAuthenticate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/authenticate", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "testlogin", r.PostForm.Get("login"))
		assert.Equal(t, "testkey", r.PostForm.Get("apiKey"))
		assert.Equal(t, "otherlogin", r.PostForm.Get("x_login"))
		assert.Equal(t, "secret", r.PostForm.Get("x_password"))
		fmt.Fprint(w, okEnvelope(`{"authenticate":{"successful":true,"username":"otherlogin","api_key":"R_abcdef"}}`))
	})

	result, err := client.Authenticate(context.Background(), "otherlogin", "secret")
	require.NoError(t, err)
	assert.True(t, result.Successful)
	assert.Equal(t, "R_abcdef", result.APIKey)
}

func TestInfo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/info", r.URL.Path)
		fmt.Fprint(w, okEnvelope(`{"info":[{"hash":"abc","title":"Example Domain","created_by":"someone"}]}`))
	})

	entries, err := client.Info(context.Background(), nil, []string{"abc"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Example Domain", entries[0].Title)
}

func TestInfoOne(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okEnvelope(`{"info":[{"hash":"abc","title":"Example Domain","created_by":"someone"}]}`))
	})

	entry, err := client.InfoOne(context.Background(), "", "abc")
	require.NoError(t, err)
	assert.Equal(t, "Example Domain", entry.Title)
}

func TestAPIErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status_code":500,"status_txt":"INTERNAL_ERROR","data":null}`)
	})

	_, err := client.Expand(context.Background(), []string{"http://bit.ly/abc"}, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 500, apiErr.Code)
	assert.Equal(t, "INTERNAL_ERROR", apiErr.Text)
	assert.Equal(t, "Error 500: INTERNAL_ERROR.", apiErr.Error())
}

func TestRateLimitedEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status_code":403,"status_txt":"RATE_LIMIT_EXCEEDED","data":null}`)
	})

	_, err := client.Shorten(context.Background(), "http://example.com")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Error 403: RATE_LIMIT_EXCEEDED.", apiErr.Error())
}

func TestMalformedJSONPropagates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status_code":200,`)
	})

	_, err := client.Shorten(context.Background(), "http://example.com")
	require.Error(t, err)

	// Parse errors are not translated into domain error types
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.False(t, errors.Is(err, ErrInvalidArgument))
}

func TestTransportErrorPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Shut it down so the call fails at the transport level

	client := New("testlogin", "testkey", WithBaseURL(srv.URL))

	_, err := client.Shorten(context.Background(), "http://example.com")
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okEnvelope(`{"valid":1}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Validate(ctx, "otherlogin", "otherkey")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMultiParam(t *testing.T) {
	assert.Equal(t, "", multiParam("hash", nil))
	assert.Equal(t, "", multiParam("hash", []string{}))
	assert.Equal(t, "&hash=x&hash=y", multiParam("hash", []string{"x", "y"}))
	// Values are escaped for query-string safety
	assert.Equal(t, "&shortUrl=http%3A%2F%2Fbit.ly%2Fabc", multiParam("shortUrl", []string{"http://bit.ly/abc"}))
}
