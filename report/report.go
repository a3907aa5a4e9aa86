// Package report prints diagnostics together with the source lines they
// point at.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pontaoski/gigly/errors"
)

const (
	reset   = "\033[0m"
	bold    = "\033[1m"
	red     = "\033[1;31m"
	yellow  = "\033[1;33m"
	green   = "\033[0;32m"
	magenta = "\033[1;35m"
)

type painter bool

func (p painter) paint(code, s string) string {
	if !p {
		return s
	}
	return code + s + reset
}

// Render writes d to w: the message, the offending lines with one line of
// context on either side and the span underlined, then the suggested fix.
func Render(w io.Writer, source string, d errors.Diagnostic, color bool) {
	p := painter(color)
	span := d.Span()

	fmt.Fprintf(w, "%s %s\n", p.paint(red, d.Category().String()+":"), p.paint(bold, d.Error()))
	if !span.IsZero() {
		fmt.Fprintf(w, "  --> %s\n", span.From)
		renderContext(w, p, strings.Split(source, "\n"), d)
	}
	if fix := d.Suggestion(); fix != "" {
		fmt.Fprintf(w, "%s\n", p.paint(yellow, "Suggested fix: "+fix))
	}
}

// RenderAll renders every diagnostic, separated by a rule.
func RenderAll(w io.Writer, source string, list errors.List, color bool) {
	p := painter(color)
	for i, d := range list {
		if i > 0 {
			fmt.Fprintln(w, p.paint(magenta, strings.Repeat("=", 60)))
		}
		Render(w, source, d, color)
	}
}

func renderContext(w io.Writer, p painter, lines []string, d errors.Diagnostic) {
	span := d.Span()
	from, to := span.From.Line, span.To.Line
	if to < from {
		to = from
	}

	first := max(1, from-1)
	last := min(len(lines), to+1)
	width := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		line := lines[n-1]
		fmt.Fprintf(w, "%s %s\n", p.paint(green, fmt.Sprintf("%*d |", width, n)), line)

		if n < from || n > to {
			continue
		}
		start, end := 1, len([]rune(line))
		if n == from {
			start = span.From.Column
		}
		if n == to {
			end = span.To.Column
		}
		if end < start {
			end = start
		}
		fmt.Fprintf(w, "%s %s%s\n",
			p.paint(green, strings.Repeat(" ", width)+" |"),
			indent(line, start),
			p.paint(red, strings.Repeat("^", end-start+1)))
	}
}

// indent reproduces the whitespace before column col so that carets line
// up under tabs as well as spaces.
func indent(line string, col int) string {
	var b strings.Builder
	for i, r := range []rune(line) {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}
