// Package qrgen turns URL-ish user input into QR code PNG files.
//
// Symbol encoding is done by github.com/skip2/go-qrcode. This package decides
// what is accepted as input, how it is normalized, how the module matrix is
// rasterized and where the resulting file is written.
package qrgen

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"

	qrcode "github.com/skip2/go-qrcode"
)

// DefaultOutputDir is where images land unless configured otherwise.
const DefaultOutputDir = "qr_codes_output"

const (
	msgInvalidURL = "Please enter a valid URL."
	msgSaved      = "QR code generated successfully! Saved as: %s"
	msgFailed     = "Error generating QR code: %v"
)

// Config is the encoding record a Generator is constructed with. It is
// copied on construction and never changes afterwards.
type Config struct {
	// Version is the smallest symbol version to use. Payloads that do not
	// fit are moved to the smallest version that does.
	Version int
	// ModuleSize is the edge length of one module in pixels.
	ModuleSize int
	// Border is the quiet zone width in modules.
	Border    int
	Level     Level
	OutputDir string
}

// DefaultConfig returns version 1 (auto-fit), 10px modules, a 4 module
// border, medium error correction and DefaultOutputDir.
func DefaultConfig() Config {
	return Config{
		Version:    1,
		ModuleSize: 10,
		Border:     4,
		Level:      Medium,
		OutputDir:  DefaultOutputDir,
	}
}

func (c Config) validate() error {
	switch {
	case c.Version < 1 || c.Version > 40:
		return fmt.Errorf("%w: version %d out of range 1..40", ErrInvalidConfig, c.Version)
	case c.ModuleSize < 1:
		return fmt.Errorf("%w: module size must be positive", ErrInvalidConfig)
	case c.Border < 0:
		return fmt.Errorf("%w: border must not be negative", ErrInvalidConfig)
	case c.OutputDir == "":
		return fmt.Errorf("%w: output dir is empty", ErrInvalidConfig)
	}
	return nil
}

// Result describes one generation attempt.
type Result struct {
	OK      bool
	Message string
	// Image is set only when OK is true.
	Image image.Image
	// Path is the written file, set only when OK is true.
	Path string
	// Payload is the normalized URL that was encoded.
	Payload string
	// Err is the failure cause, nil when OK is true.
	Err error
}

// Generator encodes URLs and stores them as PNG files. It is safe for
// concurrent use; callers writing the same file name race on the file.
type Generator struct {
	cfg Config
	log *slog.Logger
}

// New validates cfg and returns a Generator bound to it.
func New(cfg Config, log *slog.Logger) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Generator{cfg: cfg, log: log}, nil
}

// Config returns a copy of the generator's configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Generate validates rawURL, encodes its normalized form and writes the image
// to the output directory under name, or under a name derived from rawURL
// when name is empty. An existing file with the same name is overwritten.
//
// Failures are never returned as errors; they come back as a Result with OK
// unset and a message fit for the user.
func (g *Generator) Generate(rawURL, name string) Result {
	if !IsPlausibleURL(rawURL) {
		return Result{Message: msgInvalidURL, Err: ErrInvalidURL}
	}

	payload := Normalize(rawURL)
	img, err := g.Render(payload)
	if err != nil {
		return g.fail(payload, err)
	}

	path, err := g.save(img, OutputName(rawURL, name))
	if err != nil {
		return g.fail(payload, err)
	}

	g.log.Info("qr code written", "path", path, "payload", payload)
	return Result{
		OK:      true,
		Message: fmt.Sprintf(msgSaved, path),
		Image:   img,
		Path:    path,
		Payload: payload,
	}
}

// Render encodes payload as-is and rasterizes it with the configured module
// size and border.
func (g *Generator) Render(payload string) (image.Image, error) {
	q, err := g.encode(payload)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	q.DisableBorder = true
	return render(q.Bitmap(), g.cfg.ModuleSize, g.cfg.Border), nil
}

func (g *Generator) encode(payload string) (*qrcode.QRCode, error) {
	if g.cfg.Version > 1 {
		q, err := qrcode.NewWithForcedVersion(payload, g.cfg.Version, g.cfg.Level)
		if err == nil {
			return q, nil
		}
		g.log.Debug("payload does not fit version hint", "version", g.cfg.Version, "error", err)
	}
	return qrcode.New(payload, g.cfg.Level)
}

func (g *Generator) save(img image.Image, name string) (string, error) {
	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", g.cfg.OutputDir, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}

	path := filepath.Join(g.cfg.OutputDir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write png: %w", err)
	}
	return path, nil
}

func (g *Generator) fail(payload string, err error) Result {
	g.log.Warn("qr generation failed", "payload", payload, "error", err)
	return Result{
		Message: fmt.Sprintf(msgFailed, err),
		Payload: payload,
		Err:     err,
	}
}
