package menu

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openclaw/urlqr/qrgen"
	"github.com/openclaw/urlqr/store"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type input struct {
	line string
	err  error
}

// scriptReader replays a fixed sequence of lines and errors, then io.EOF.
type scriptReader struct {
	script  []input
	prompts []string
}

func lines(ls ...string) *scriptReader {
	r := &scriptReader{}
	for _, l := range ls {
		r.script = append(r.script, input{line: l})
	}
	return r
}

func (r *scriptReader) then(err error) *scriptReader {
	r.script = append(r.script, input{err: err})
	return r
}

func (r *scriptReader) ReadLine(prompt string) (string, error) {
	r.prompts = append(r.prompts, prompt)
	if len(r.script) == 0 {
		return "", io.EOF
	}
	next := r.script[0]
	r.script = r.script[1:]
	return next.line, next.err
}

type fakeGenerator struct {
	calls []string
	res   qrgen.Result
	panic any
}

func (g *fakeGenerator) Generate(rawURL, name string) qrgen.Result {
	g.calls = append(g.calls, rawURL)
	if g.panic != nil {
		panic(g.panic)
	}
	return g.res
}

type fakeViewer struct {
	opened []string
	err    error
}

func (v *fakeViewer) Open(_ context.Context, path string) error {
	v.opened = append(v.opened, path)
	return v.err
}

type fakeRecorder struct {
	entries []store.Entry
	err     error
}

func (r *fakeRecorder) Record(_ context.Context, e *store.Entry) error {
	r.entries = append(r.entries, *e)
	return r.err
}

var okResult = qrgen.Result{
	OK:      true,
	Message: "QR code generated successfully! Saved as: out/examplecom.png",
	Path:    "out/examplecom.png",
	Payload: "https://example.com",
}

func run(t *testing.T, in LineReader, gen Generator, opts ...Option) string {
	t.Helper()
	var out bytes.Buffer
	err := New(in, &out, gen, opts...).Run(context.Background())
	require.NoError(t, err)
	return out.String()
}

func TestRun_ExitChoice(t *testing.T) {
	gen := &fakeGenerator{}
	in := lines("2")
	out := run(t, in, gen)

	assert.Contains(t, out, "Welcome to QR Code Generator!")
	assert.Contains(t, out, "This application generates QR codes from URL inputs.")
	assert.Contains(t, out, "1. Generate QR code from URL")
	assert.Contains(t, out, "2. Exit application")
	assert.True(t, strings.HasSuffix(out, "Goodbye!\n"))
	assert.NotContains(t, out, "interrupted")
	assert.Empty(t, gen.calls)
	assert.Equal(t, []string{"Enter your choice (1 or 2): "}, in.prompts)
}

func TestRun_ChoiceIsTrimmed(t *testing.T) {
	out := run(t, lines("  2  "), &fakeGenerator{})
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_InvalidChoice(t *testing.T) {
	gen := &fakeGenerator{}
	out := run(t, lines("3", "", "one", "2"), gen)

	assert.Equal(t, 3, strings.Count(out, "Invalid choice. Please enter 1 or 2."))
	assert.Equal(t, 4, strings.Count(out, "Options:"))
	assert.Empty(t, gen.calls)
}

func TestRun_EmptyURL(t *testing.T) {
	gen := &fakeGenerator{}
	in := lines("1", "   ", "2")
	out := run(t, in, gen)

	assert.Contains(t, out, "Error: URL cannot be empty.")
	assert.NotContains(t, out, "Generating QR code...")
	assert.Empty(t, gen.calls)
	assert.Equal(t, "Enter the URL to generate QR code: ", in.prompts[1])
}

func TestRun_GeneratesAndDisplays(t *testing.T) {
	gen := &fakeGenerator{res: okResult}
	view := &fakeViewer{}
	out := run(t, lines("1", "  example.com ", "2"), gen, WithViewer(view))

	assert.Equal(t, []string{"example.com"}, gen.calls)
	assert.Equal(t, []string{"out/examplecom.png"}, view.opened)

	rule := strings.Repeat("=", 60)
	report := "\n" + rule + "\n" +
		"Input URL: example.com\n" +
		"Status: SUCCESS\n" +
		"Message: QR code generated successfully! Saved as: out/examplecom.png\n" +
		rule + "\n"
	assert.Contains(t, out, "Generating QR code...\n"+report)
	assert.Contains(t, out, report+"QR code image displayed in your default image viewer.\n")
}

func TestRun_DisplayFailureIsANote(t *testing.T) {
	gen := &fakeGenerator{res: okResult}
	view := &fakeViewer{err: errors.New("no display")}
	out := run(t, lines("1", "example.com", "2"), gen, WithViewer(view))

	assert.Contains(t, out, "Status: SUCCESS")
	assert.Contains(t, out, "Note: Could not display image automatically: no display")
	assert.Contains(t, out, "Please check the output folder for your QR code file.")
	assert.NotContains(t, out, "displayed in your default image viewer")
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_FailedGenerationSkipsDisplay(t *testing.T) {
	gen := &fakeGenerator{res: qrgen.Result{Message: "Please enter a valid URL.", Err: qrgen.ErrInvalidURL}}
	view := &fakeViewer{}
	out := run(t, lines("1", "localhost", "2"), gen, WithViewer(view))

	assert.Contains(t, out, "Input URL: localhost")
	assert.Contains(t, out, "Status: FAILED")
	assert.Contains(t, out, "Message: Please enter a valid URL.")
	assert.Empty(t, view.opened)
}

func TestRun_Interrupt(t *testing.T) {
	for name, in := range map[string]*scriptReader{
		"at choice": lines().then(ErrInterrupted),
		"at url":    lines("1").then(ErrInterrupted),
		"eof":       lines("1"),
	} {
		t.Run(name, func(t *testing.T) {
			gen := &fakeGenerator{}
			out := run(t, in, gen)

			assert.Contains(t, out, "\n\nApplication interrupted by user.\nThank you for using the QR Code Generator!\n")
			assert.NotContains(t, out, "Goodbye!")
			assert.Empty(t, gen.calls)
		})
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	in := lines("2")
	require.NoError(t, New(in, &out, &fakeGenerator{}).Run(ctx))

	assert.Contains(t, out.String(), "Application interrupted by user.")
	assert.Empty(t, in.prompts)
}

func TestRun_UnexpectedErrorKeepsLooping(t *testing.T) {
	in := lines().then(errors.New("disk on fire"))
	in.script = append(in.script, input{line: "2"})
	out := run(t, in, &fakeGenerator{})

	assert.Contains(t, out, "\nUnexpected error: disk on fire\nPlease try again.\n")
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_PanicKeepsLooping(t *testing.T) {
	gen := &fakeGenerator{panic: "boom"}
	out := run(t, lines("1", "example.com", "2"), gen)

	assert.Contains(t, out, "Unexpected error: panic: boom")
	assert.Contains(t, out, "Goodbye!")
}

func TestRun_RecordsHistory(t *testing.T) {
	gen := &fakeGenerator{res: okResult}
	rec := &fakeRecorder{err: errors.New("database is locked")}
	out := run(t, lines("1", "example.com", "1", "", "2"), gen, WithHistory(rec))

	require.Len(t, rec.entries, 1)
	assert.Equal(t, store.Entry{
		InputURL: "example.com",
		Payload:  "https://example.com",
		Path:     "out/examplecom.png",
		Success:  true,
		Message:  okResult.Message,
		Source:   store.SourceMenu,
	}, rec.entries[0])
	assert.NotContains(t, out, "database is locked")
}

func TestRun_Preview(t *testing.T) {
	gen := &fakeGenerator{res: okResult}
	with := run(t, lines("1", "example.com", "2"), gen, WithPreview(true))
	without := run(t, lines("1", "example.com", "2"), gen)

	assert.True(t, strings.ContainsAny(with, "▀▄█"))
	assert.False(t, strings.ContainsAny(without, "▀▄█"))
}

func TestRun_WithRealGenerator(t *testing.T) {
	cfg := qrgen.DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), qrgen.DefaultOutputDir)
	gen, err := qrgen.New(cfg, nil)
	require.NoError(t, err)

	view := &fakeViewer{}
	out := run(t, lines("1", "example.com", "1", "example.com", "2"), gen, WithViewer(view))

	path := filepath.Join(cfg.OutputDir, "examplecom.png")
	assert.Equal(t, 2, strings.Count(out, "Status: SUCCESS"))
	assert.Contains(t, out, "Saved as: "+path)
	assert.Equal(t, []string{path, path}, view.opened)
	assert.FileExists(t, path)
}
