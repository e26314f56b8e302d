// Package ui provides colored status output and batch progress reporting.
package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Printer writes status lines to a single destination, honoring the
// quiet/verbose levels selected on the command line. Color is applied only
// when the destination supports it (fatih/color auto-detects).
type Printer struct {
	out     io.Writer
	quiet   bool
	verbose bool
}

// NewPrinter returns a Printer writing to out. Quiet suppresses everything
// except errors; verbose enables Verbosef output.
func NewPrinter(out io.Writer, quiet, verbose bool) *Printer {
	return &Printer{out: out, quiet: quiet, verbose: verbose}
}

// Successf prints a green check-marked status line unless quiet.
func (p *Printer) Successf(format string, args ...any) {
	if p.quiet {
		return
	}
	color.New(color.FgGreen).Fprintf(p.out, "✓ "+format+"\n", args...)
}

// Errorf prints a red cross-marked status line. Errors print even in quiet mode.
func (p *Printer) Errorf(format string, args ...any) {
	color.New(color.FgRed).Fprintf(p.out, "✗ "+format+"\n", args...)
}

// Warnf prints a yellow status line unless quiet.
func (p *Printer) Warnf(format string, args ...any) {
	if p.quiet {
		return
	}
	color.New(color.FgYellow).Fprintf(p.out, format+"\n", args...)
}

// Infof prints a plain status line unless quiet.
func (p *Printer) Infof(format string, args ...any) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Verbosef prints a plain status line only in verbose mode.
func (p *Printer) Verbosef(format string, args ...any) {
	if !p.verbose || p.quiet {
		return
	}
	fmt.Fprintf(p.out, format+"\n", args...)
}
