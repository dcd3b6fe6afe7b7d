package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// statusLineFormat truncates and right-pads printed content to a fixed width
// so that a carriage return fully overwrites the previous line.
const (
	statusLineFormat      = "\r%-80.80s"
	statusLineClearFormat = statusLineFormat + "\r"
)

// StatusLinePrinter prints dynamically updating, single-line progress to the
// terminal, used by the scan subcommand to show which directory the scanner
// is working on.
type StatusLinePrinter struct {
	// UseStandardError routes output to standard error instead of standard
	// output.
	UseStandardError bool
	nonEmpty         bool
}

// Print overwrites the status line with message. Color escape sequences are
// supported.
func (p *StatusLinePrinter) Print(message string) {
	output := color.Output
	if p.UseStandardError {
		output = color.Error
	}
	fmt.Fprintf(output, statusLineFormat, message)
	p.nonEmpty = true
}

// Clear wipes the status line and returns the cursor to its start.
func (p *StatusLinePrinter) Clear() {
	output := os.Stdout
	if p.UseStandardError {
		output = os.Stderr
	}
	fmt.Fprintf(output, statusLineClearFormat, "")
	p.nonEmpty = false
}

// BreakIfNonEmpty starts a fresh line if the status line currently holds
// content, so that subsequent non-status output doesn't overwrite it.
func (p *StatusLinePrinter) BreakIfNonEmpty() {
	if p.nonEmpty {
		output := os.Stdout
		if p.UseStandardError {
			output = os.Stderr
		}
		fmt.Fprintln(output)
		p.nonEmpty = false
	}
}
