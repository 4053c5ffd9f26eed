// Package presenter provides consistent CLI output for user-facing messages:
// success, error, warning, and informational output with color support and a
// quiet mode for scripting.
package presenter

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
)

// Presenter writes user-facing CLI messages.
type Presenter struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	quiet  bool

	success *color.Color
	warning *color.Color
	failure *color.Color
	section *color.Color
}

// New returns a presenter writing to stdout/stderr with color auto-detection.
func New() *Presenter {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters returns a presenter writing to the given writers.
func NewWithWriters(out, errOut io.Writer) *Presenter {
	return &Presenter{
		out:     out,
		errOut:  errOut,
		success: color.New(color.FgGreen),
		warning: color.New(color.FgYellow),
		failure: color.New(color.FgRed),
		section: color.New(color.Bold),
	}
}

// SetQuiet suppresses non-error output.
func (p *Presenter) SetQuiet(quiet bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quiet = quiet
}

// Success prints a success message unless quiet.
func (p *Presenter) Success(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.success.Sprint("✓"), message)
}

// Info prints an informational message unless quiet.
func (p *Presenter) Info(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, message)
}

// Warning prints a warning unless quiet.
func (p *Presenter) Warning(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s %s\n", p.warning.Sprint("!"), message)
}

// Error prints an error with optional context. Errors print even in quiet
// mode.
func (p *Presenter) Error(err error, context string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if context != "" {
		fmt.Fprintf(p.errOut, "%s %s: %s\n", p.failure.Sprint("✗"), context, err)
		return
	}
	fmt.Fprintf(p.errOut, "%s %s\n", p.failure.Sprint("✗"), err)
}

// Section prints a bold section title unless quiet.
func (p *Presenter) Section(title string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", p.section.Sprint(title))
}

var defaultPresenter = New()

// Default returns the process-wide presenter.
func Default() *Presenter {
	return defaultPresenter
}

// Success prints via the default presenter.
func Success(message string) { defaultPresenter.Success(message) }

// Info prints via the default presenter.
func Info(message string) { defaultPresenter.Info(message) }

// Warning prints via the default presenter.
func Warning(message string) { defaultPresenter.Warning(message) }

// Error prints via the default presenter.
func Error(err error, context string) { defaultPresenter.Error(err, context) }

// Section prints via the default presenter.
func Section(title string) { defaultPresenter.Section(title) }

// SetQuiet configures the default presenter.
func SetQuiet(quiet bool) { defaultPresenter.SetQuiet(quiet) }
