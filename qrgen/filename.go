package qrgen

import (
	"strings"
	"unicode"
)

const (
	pngExt = ".png"

	// maxDerivedName caps names derived from the input URL, in characters.
	maxDerivedName = 20
)

// SanitizeName keeps the letters, digits, '-' and '_' of s and truncates the
// result to the first 20 characters.
func SanitizeName(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == maxDerivedName {
			break
		}
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_' {
			b.WriteRune(r)
			n++
		}
	}
	return b.String()
}

// OutputName returns the file name a generation for rawURL is saved under.
// An explicit name wins and only gets a .png suffix when it lacks one
// (compared case-insensitively). Otherwise the name is derived from the
// unnormalized input.
func OutputName(rawURL, name string) string {
	if name == "" {
		name = SanitizeName(rawURL) + pngExt
	}
	if !strings.HasSuffix(strings.ToLower(name), pngExt) {
		name += pngExt
	}
	return name
}
