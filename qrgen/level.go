package qrgen

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Level is the error-correction tier of a symbol.
type Level = qrcode.RecoveryLevel

const (
	// Low recovers about 7% of damaged data.
	Low Level = qrcode.Low
	// Medium recovers about 15%.
	Medium Level = qrcode.Medium
	// High recovers about 25%.
	High Level = qrcode.High
	// Highest recovers about 30%.
	Highest Level = qrcode.Highest
)

// ParseLevel maps a config name to a Level. Both the words and the usual
// single-letter tiers (L, M, Q, H) are accepted.
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low", "l":
		return Low, nil
	case "medium", "m", "":
		return Medium, nil
	case "high", "q":
		return High, nil
	case "highest", "h":
		return Highest, nil
	}
	return Medium, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
}
