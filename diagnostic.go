package lox

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"
)

// Diagnostic is a single lexer/parser/resolver/runtime error, rendered
// with source context and a caret pointing at the offending column, the
// same shape as cwbudde/go-dws's internal/errors.CompilerError.
type Diagnostic struct {
	File    string
	Line    int
	Column  int
	Source  string
	Message string
	// Where augments the header for parser-style "at end" / "at '<lexeme>'"
	// framing; empty for lexer/runtime diagnostics.
	Where string
}

func (d *Diagnostic) Error() string {
	return d.Format(false)
}

// Format renders the diagnostic. When color is true ANSI codes highlight
// the caret and message, matching go-dws's Format(color bool) contract.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.File != "" {
		fmt.Fprintf(&sb, "[%s:%d] Error%s: %s\n", d.File, d.Line, d.Where, d.Message)
	} else {
		fmt.Fprintf(&sb, "[line %d] Error%s: %s\n", d.Line, d.Where, d.Message)
	}

	line := d.sourceLine()
	if line == "" || d.Column <= 0 {
		return strings.TrimRight(sb.String(), "\n")
	}

	lineNumStr := fmt.Sprintf("%4d | ", d.Line)
	sb.WriteString(lineNumStr)
	sb.WriteString(line)
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat(" ", len(lineNumStr)+displayWidth(line, d.Column-1)))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (d *Diagnostic) sourceLine() string {
	if d.Source == "" || d.Line < 1 {
		return ""
	}

	lines := strings.Split(d.Source, "\n")
	if d.Line > len(lines) {
		return ""
	}

	return lines[d.Line-1]
}

// displayWidth measures how many terminal cells the first n runes of line
// occupy, so the caret lines up under wide (e.g. fullwidth/CJK) glyphs
// instead of assuming one column per rune.
func displayWidth(line string, n int) int {
	cells := 0
	i := 0
	for _, r := range line {
		if i >= n {
			break
		}
		i++

		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			cells += 2
		default:
			cells++
		}
	}

	return cells
}

// FormatDiagnostics renders a batch of diagnostics the way go-dws's
// FormatErrors does: a single diagnostic on its own, or a count header
// followed by each diagnostic.
func FormatDiagnostics(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}

	if len(diags) == 1 {
		return diags[0].Format(color)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n\n", len(diags))
	for i, d := range diags {
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}

	return sb.String()
}
