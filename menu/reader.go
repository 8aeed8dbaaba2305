package menu

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
)

// ErrInterrupted is returned by a LineReader when the user hits Ctrl-C.
var ErrInterrupted = errors.New("interrupted")

// LineReader reads one line of input after showing prompt. Implementations
// return ErrInterrupted on Ctrl-C and io.EOF once input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
}

// TerminalReader reads lines from the terminal with line editing.
type TerminalReader struct {
	rl *readline.Instance
}

// NewTerminalReader sets up line editing on stdin. Cancelling ctx closes the
// reader, which unblocks a pending ReadLine with io.EOF.
func NewTerminalReader(ctx context.Context) (*TerminalReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return nil, fmt.Errorf("init readline: %w", err)
	}
	go func() {
		<-ctx.Done()
		rl.Close()
	}()
	return &TerminalReader{rl: rl}, nil
}

// ReadLine implements LineReader.
func (r *TerminalReader) ReadLine(prompt string) (string, error) {
	r.rl.SetPrompt(prompt)
	line, err := r.rl.Readline()
	switch {
	case errors.Is(err, readline.ErrInterrupt):
		return "", ErrInterrupted
	case errors.Is(err, io.EOF):
		return "", io.EOF
	case err != nil:
		return "", err
	}
	return line, nil
}

// Close restores the terminal.
func (r *TerminalReader) Close() error {
	return r.rl.Close()
}
