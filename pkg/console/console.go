// Package console prints the coloured operator messages of the ofco commands.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Reporter writes progress, success, detail and warning lines to the operator.
// Warnings are counted even when quiet mode hides them.
type Reporter struct {
	out      io.Writer
	quiet    bool
	warnings int

	step    *color.Color
	info    *color.Color
	success *color.Color
	detail  *color.Color
	warn    *color.Color
	fail    *color.Color
	muted   *color.Color
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithQuiet suppresses warning lines.
func WithQuiet(quiet bool) Option {
	return func(reporter *Reporter) {
		reporter.quiet = quiet
	}
}

// WithoutColor disables ANSI colour sequences.
func WithoutColor() Option {
	return func(reporter *Reporter) {
		for _, c := range reporter.palette() {
			c.DisableColor()
		}
	}
}

// New creates a Reporter writing to out. A nil out writes to standard output.
func New(out io.Writer, options ...Option) *Reporter {
	if out == nil {
		out = os.Stdout
	}

	reporter := &Reporter{
		out:     out,
		step:    color.New(color.FgHiYellow),
		info:    color.New(color.FgHiCyan),
		success: color.New(color.FgHiGreen),
		detail:  color.New(color.FgHiWhite),
		warn:    color.New(color.FgYellow),
		fail:    color.New(color.FgHiRed),
		muted:   color.New(color.FgHiBlack),
	}

	for _, option := range options {
		option(reporter)
	}

	return reporter
}

func (reporter *Reporter) palette() []*color.Color {
	return []*color.Color{
		reporter.step, reporter.info, reporter.success, reporter.detail,
		reporter.warn, reporter.fail, reporter.muted,
	}
}

// Step announces a processing stage.
func (reporter *Reporter) Step(format string, args ...any) {
	reporter.line(reporter.step, " ", format, args...)
}

// Info prints an informational line.
func (reporter *Reporter) Info(format string, args ...any) {
	reporter.line(reporter.info, " ", format, args...)
}

// Success reports a completed stage.
func (reporter *Reporter) Success(format string, args ...any) {
	reporter.line(reporter.success, " ", format, args...)
}

// Detail prints an indented detail line, usually a count or a path.
func (reporter *Reporter) Detail(format string, args ...any) {
	reporter.line(reporter.detail, "   - ", format, args...)
}

// Warn prints a warning unless quiet mode is active.
func (reporter *Reporter) Warn(format string, args ...any) {
	reporter.warnings++
	if reporter.quiet {
		return
	}
	reporter.line(reporter.warn, "  ", format, args...)
}

// Error prints an error line. Errors are never suppressed.
func (reporter *Reporter) Error(format string, args ...any) {
	reporter.line(reporter.fail, " ", format, args...)
}

// Preview prints up to limit lines in a muted colour.
func (reporter *Reporter) Preview(lines []string, limit int) {
	for index, text := range lines {
		if index >= limit {
			break
		}
		reporter.line(reporter.muted, "   ", "%s", text)
	}
}

// Warnings returns the number of warnings raised, shown or not.
func (reporter *Reporter) Warnings() int {
	return reporter.warnings
}

// Quiet reports whether warnings are suppressed.
func (reporter *Reporter) Quiet() bool {
	return reporter.quiet
}

func (reporter *Reporter) line(c *color.Color, indent, format string, args ...any) {
	c.Fprintln(reporter.out, indent+fmt.Sprintf(format, args...))
}
