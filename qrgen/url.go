package qrgen

import "strings"

var schemes = []string{"http://", "https://"}

func hasScheme(s string) bool {
	for _, p := range schemes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// IsPlausibleURL reports whether s looks enough like a URL to encode.
// Anything starting with http:// or https:// passes; otherwise s must contain
// a dot and must not begin or end with one. No real URL parsing happens.
func IsPlausibleURL(s string) bool {
	if s == "" {
		return false
	}
	if hasScheme(s) {
		return true
	}
	return strings.Contains(s, ".") &&
		!strings.HasPrefix(s, ".") &&
		!strings.HasSuffix(s, ".")
}

// Normalize prefixes s with https:// unless it already carries an http or
// https scheme. Nothing is escaped.
func Normalize(s string) string {
	if hasScheme(s) {
		return s
	}
	return "https://" + s
}
