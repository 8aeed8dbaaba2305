// Package viewer opens files with the desktop's default application.
package viewer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// ErrUnsupported is returned on platforms without a known launcher.
var ErrUnsupported = errors.New("no default viewer on this platform")

// System opens files through the platform launcher: xdg-open on Linux and
// the BSDs, open on macOS, the URL protocol handler on Windows.
type System struct {
	// Timeout bounds a single launch; zero means no limit beyond ctx.
	Timeout time.Duration

	goos string
	run  func(ctx context.Context, name string, args ...string) error
}

// New returns a System launcher for the running platform.
func New(timeout time.Duration) *System {
	return &System{Timeout: timeout, goos: runtime.GOOS, run: runCommand}
}

// Open hands path to the default application. The launcher usually returns
// as soon as the viewer is spawned; a non-zero exit is reported as an error.
func (s *System) Open(ctx context.Context, path string) error {
	name, args, err := launcher(s.goos, path)
	if err != nil {
		return err
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	return s.run(ctx, name, args...)
}

func launcher(goos, path string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		return "xdg-open", []string{path}, nil
	case "darwin":
		return "open", []string{path}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}, nil
	}
	return "", nil, fmt.Errorf("%w: %s", ErrUnsupported, goos)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
