package qrgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlausibleURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", false},
		{"example.com", true},
		{"a.b", true},
		{"http://x", true},
		{"https://", true},
		{"https://example.com/path?q=1", true},
		{"ftp://x", false},
		{"ftp://x.y", true},
		{"localhost", false},
		{".example.com", false},
		{"example.", false},
		{".", false},
		{"..", false},
		{"a..b", true},
		{"HTTP://EXAMPLE", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPlausibleURL(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "https://example.com", Normalize("example.com"))
	assert.Equal(t, "http://example.com", Normalize("http://example.com"))
	assert.Equal(t, "https://example.com", Normalize("https://example.com"))
	assert.Equal(t, "https://ftp://x.y", Normalize("ftp://x.y"))

	once := Normalize("example.com")
	assert.Equal(t, once, Normalize(once))
}
