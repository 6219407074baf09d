package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitly-client/pkg/bitly"
)

func TestStringListValid(t *testing.T) {
	values, err := StringList("short_urls", json.RawMessage(`["http://bit.ly/a","http://bit.ly/b"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"http://bit.ly/a", "http://bit.ly/b"}, values)
}

func TestStringListMissing(t *testing.T) {
	values, err := StringList("short_urls", nil)
	require.NoError(t, err)
	assert.Nil(t, values)
}

func TestStringListNull(t *testing.T) {
	values, err := StringList("short_urls", json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Nil(t, values)
}

func TestStringListEmptyArray(t *testing.T) {
	values, err := StringList("hashes", json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestStringListRejectsString(t *testing.T) {
	_, err := StringList("short_urls", json.RawMessage(`"http://bit.ly/a"`))
	require.Error(t, err)

	var typeErr *bitly.ArgTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "short_urls", typeErr.Arg)
	assert.Equal(t, "string", typeErr.Given)
	assert.Equal(t, "list", typeErr.Expected)
	assert.Equal(t, "Argument 'short_urls' has type 'string', expected 'list'.", typeErr.Error())
}

func TestStringListRejectsNumber(t *testing.T) {
	_, err := StringList("hashes", json.RawMessage(`42`))

	var typeErr *bitly.ArgTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "number", typeErr.Given)
}

func TestStringListRejectsObject(t *testing.T) {
	_, err := StringList("urls", json.RawMessage(`{"url":"http://example.com"}`))

	var typeErr *bitly.ArgTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "object", typeErr.Given)
}

func TestStringListRejectsMixedArray(t *testing.T) {
	_, err := StringList("hashes", json.RawMessage(`["abc", 7]`))

	var typeErr *bitly.ArgTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "list of non-strings", typeErr.Given)
}

func TestMultiTargetRequestTargets(t *testing.T) {
	req := MultiTargetRequest{
		ShortURLs: json.RawMessage(`["http://bit.ly/a"]`),
		Hashes:    json.RawMessage(`["abc","def"]`),
	}

	shortURLs, hashes, err := req.Targets()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://bit.ly/a"}, shortURLs)
	assert.Equal(t, []string{"abc", "def"}, hashes)
}

func TestMultiTargetRequestTargetsBadField(t *testing.T) {
	req := MultiTargetRequest{
		ShortURLs: json.RawMessage(`["http://bit.ly/a"]`),
		Hashes:    json.RawMessage(`"abc"`),
	}

	_, _, err := req.Targets()
	var typeErr *bitly.ArgTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, "hashes", typeErr.Arg)
}
