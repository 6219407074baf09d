package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid http", "http://example.com", false},
		{"valid https with path", "https://example.com/some/path?q=1", false},
		{"valid ftp", "ftp://files.example.com/readme.txt", false},
		{"empty", "", true},
		{"no scheme", "example.com", true},
		{"javascript scheme", "javascript:alert(1)", true},
		{"whitespace in url", "http://exam ple.com", true},
		{"missing host", "http://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateShortDomain(t *testing.T) {
	assert.True(t, ValidateShortDomain("bit.ly"))
	assert.True(t, ValidateShortDomain("j.mp"))
	assert.True(t, ValidateShortDomain("nyti.ms"))
	assert.True(t, ValidateShortDomain("short.example.co"))

	assert.False(t, ValidateShortDomain(""))
	assert.False(t, ValidateShortDomain("a.b"))
	assert.False(t, ValidateShortDomain("no dots"))
	assert.False(t, ValidateShortDomain("http://bit.ly"))
	assert.False(t, ValidateShortDomain(".leading.dot"))
}

func TestNormalizeURL(t *testing.T) {
	assert.Equal(t, "https://example.com/path", NormalizeURL("HTTPS://EXAMPLE.COM/path/"))
	assert.Equal(t, "https://example.com", NormalizeURL("example.com"))
	assert.Equal(t, "http://example.com/Path?Q=1", NormalizeURL("http://Example.Com/Path?Q=1"))
}

func TestIsSafeURL(t *testing.T) {
	assert.True(t, IsSafeURL("https://example.com"))
	assert.True(t, IsSafeURL("ftp://files.example.com"))

	assert.False(t, IsSafeURL("javascript:alert(1)"))
	assert.False(t, IsSafeURL("data:text/html,<script></script>"))
	assert.False(t, IsSafeURL("vbscript:msgbox(1)"))
}
