package menu

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mdp/qrterminal/v3"

	"github.com/openclaw/urlqr/qrgen"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed)
	noteColor    = color.New(color.FgYellow)
	dimColor     = color.New(color.Faint)
)

// Printer writes the menu's human-readable output.
type Printer struct {
	w io.Writer
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Welcome prints the banner shown once at startup.
func (p *Printer) Welcome() {
	headerColor.Fprintln(p.w, "Welcome to QR Code Generator!")
	p.println("This application generates QR codes from URL inputs.")
	dimColor.Fprintln(p.w, strings.Repeat("-", 50))
}

// Options prints the menu followed by a blank line before the prompt.
func (p *Printer) Options() {
	p.println("\nOptions:")
	p.println("1. Generate QR code from URL")
	p.println("2. Exit application")
	p.println()
}

// Report prints the outcome of one generation.
func (p *Printer) Report(input string, res qrgen.Result) {
	rule := strings.Repeat("=", 60)
	p.println("\n" + rule)
	p.println("Input URL: " + input)
	fmt.Fprint(p.w, "Status: ")
	if res.OK {
		successColor.Fprintln(p.w, "SUCCESS")
	} else {
		errorColor.Fprintln(p.w, "FAILED")
	}
	p.println("Message: " + res.Message)
	p.println(rule)
}

// Preview draws payload as a QR code with half-block characters.
func (p *Printer) Preview(payload string) {
	qrterminal.GenerateHalfBlock(payload, qrterminal.M, p.w)
}

// Displayed confirms that the viewer was launched.
func (p *Printer) Displayed() {
	p.println("QR code image displayed in your default image viewer.")
}

// DisplayFailed explains that the image has to be opened by hand.
func (p *Printer) DisplayFailed(err error) {
	noteColor.Fprintf(p.w, "Note: Could not display image automatically: %v\n", err)
	p.println("Please check the output folder for your QR code file.")
}

// Error prints a one-line complaint about the user's input.
func (p *Printer) Error(msg string) {
	errorColor.Fprintln(p.w, msg)
}

// Generating announces that an encode is about to start.
func (p *Printer) Generating() {
	p.println("\nGenerating QR code...")
}

// Unexpected reports an error that aborted one loop iteration.
func (p *Printer) Unexpected(err error) {
	errorColor.Fprintf(p.w, "\nUnexpected error: %v\n", err)
	p.println("Please try again.")
}

// Goodbye is printed when the user picks Exit.
func (p *Printer) Goodbye() {
	p.println("Goodbye!")
}

// Interrupted is printed when input is interrupted or closed.
func (p *Printer) Interrupted() {
	p.println("\n\nApplication interrupted by user.")
	p.println("Thank you for using the QR Code Generator!")
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	p.println()
}
