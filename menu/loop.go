// Package menu runs the interactive prompt that turns typed URLs into QR
// code files.
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/openclaw/urlqr/qrgen"
	"github.com/openclaw/urlqr/store"
)

const (
	choicePrompt = "Enter your choice (1 or 2): "
	urlPrompt    = "Enter the URL to generate QR code: "
)

// Generator produces a QR code file for a URL.
type Generator interface {
	Generate(rawURL, name string) qrgen.Result
}

// Viewer shows a generated file to the user.
type Viewer interface {
	Open(ctx context.Context, path string) error
}

// Recorder keeps a log of generation attempts.
type Recorder interface {
	Record(ctx context.Context, e *store.Entry) error
}

// Loop is the two-state menu: it keeps prompting until the user exits or
// input is interrupted.
type Loop struct {
	in      LineReader
	out     *Printer
	gen     Generator
	viewer  Viewer
	history Recorder
	preview bool
	log     *slog.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithViewer sets the viewer used to display generated images. Without one,
// display is skipped.
func WithViewer(v Viewer) Option {
	return func(l *Loop) { l.viewer = v }
}

// WithHistory records every generation attempt in r.
func WithHistory(r Recorder) Option {
	return func(l *Loop) { l.history = r }
}

// WithPreview draws each generated code in the terminal.
func WithPreview(on bool) Option {
	return func(l *Loop) { l.preview = on }
}

// WithLogger sets the logger; nil is ignored.
func WithLogger(log *slog.Logger) Option {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

// New returns a Loop reading from in and printing to out.
func New(in LineReader, out io.Writer, gen Generator, opts ...Option) *Loop {
	l := &Loop{
		in:  in,
		out: NewPrinter(out),
		gen: gen,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run shows the menu until the user exits. Interrupts, closed input and a
// cancelled ctx end the loop with a farewell; every other error is reported
// and the menu shown again. Run only returns nil.
func (l *Loop) Run(ctx context.Context) error {
	l.out.Welcome()
	for {
		if ctx.Err() != nil {
			l.out.Interrupted()
			return nil
		}

		done, err := l.step(ctx)
		switch {
		case ctx.Err() != nil, errors.Is(err, ErrInterrupted), errors.Is(err, io.EOF):
			l.log.Debug("menu input ended", "error", err)
			l.out.Interrupted()
			return nil
		case err != nil:
			l.log.Error("menu iteration failed", "error", err)
			l.out.Unexpected(err)
		case done:
			return nil
		}
	}
}

func (l *Loop) step(ctx context.Context) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	l.out.Options()
	choice, err := l.in.ReadLine(choicePrompt)
	if err != nil {
		return false, err
	}

	switch strings.TrimSpace(choice) {
	case "2":
		l.out.Goodbye()
		return true, nil
	case "1":
		return false, l.generate(ctx)
	default:
		l.out.Error("Invalid choice. Please enter 1 or 2.")
		return false, nil
	}
}

func (l *Loop) generate(ctx context.Context) error {
	l.out.Blank()
	raw, err := l.in.ReadLine(urlPrompt)
	if err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		l.out.Error("Error: URL cannot be empty.")
		return nil
	}

	l.out.Generating()
	res := l.gen.Generate(raw, "")
	l.record(ctx, raw, res)
	l.out.Report(raw, res)
	if !res.OK {
		return nil
	}

	if l.preview {
		l.out.Preview(res.Payload)
	}
	l.display(ctx, res.Path)
	return nil
}

func (l *Loop) display(ctx context.Context, path string) {
	if l.viewer == nil {
		return
	}
	if err := l.viewer.Open(ctx, path); err != nil {
		l.log.Info("viewer failed", "path", path, "error", err)
		l.out.DisplayFailed(err)
		return
	}
	l.out.Displayed()
}

func (l *Loop) record(ctx context.Context, raw string, res qrgen.Result) {
	if l.history == nil {
		return
	}
	e := store.NewEntry(raw, res, store.SourceMenu)
	if err := l.history.Record(ctx, e); err != nil {
		l.log.Warn("record history", "error", err)
	}
}
