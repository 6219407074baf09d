package bitly

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Code: 500, Text: "INTERNAL_ERROR"}
	assert.Equal(t, "Error 500: INTERNAL_ERROR.", err.Error())
}

func TestArgumentErrorMatchesInvalidArgument(t *testing.T) {
	var err error = &ArgumentError{Reason: "longUrl must not be empty"}
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, "longUrl must not be empty", err.Error())
}

func TestArgTypeErrorMessage(t *testing.T) {
	var err error = &ArgTypeError{Arg: "shortUrls", Given: "string", Expected: "list"}
	assert.Equal(t, "Argument 'shortUrls' has type 'string', expected 'list'.", err.Error())
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

func TestAPIErrorIsNotInvalidArgument(t *testing.T) {
	var err error = &APIError{Code: 403, Text: "RATE_LIMIT_EXCEEDED"}
	assert.False(t, errors.Is(err, ErrInvalidArgument))
}
