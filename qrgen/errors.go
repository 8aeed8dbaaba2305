package qrgen

import "errors"

var (
	// ErrInvalidURL is reported for input that fails IsPlausibleURL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrUnknownLevel is returned by ParseLevel for unrecognized names.
	ErrUnknownLevel = errors.New("unknown error correction level")
	// ErrInvalidConfig is returned by New for out-of-range encoding settings.
	ErrInvalidConfig = errors.New("invalid qr configuration")
)
