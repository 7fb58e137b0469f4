package lox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDiagnosticFormatPlacesCaretUnderColumn(t *testing.T) {
	d := &Diagnostic{
		Line:    1,
		Column:  5,
		Source:  "var = 1;",
		Message: "Expect variable name.",
		Where:   " at '='",
	}

	out := d.Format(false)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "[line 1] Error at '=': Expect variable name.", lines[0])

	caretLine := lines[2]
	require.True(t, strings.HasSuffix(caretLine, "^"))

	sourceLine := lines[1]
	prefixLen := strings.Index(sourceLine, "|") + 2
	require.Equal(t, prefixLen+d.Column-1, len(caretLine)-1)
}

func TestDiagnosticFormatWithFileName(t *testing.T) {
	d := &Diagnostic{
		File:    "script.lox",
		Line:    3,
		Message: "Undefined variable 'x'.",
	}

	out := d.Format(false)
	require.Equal(t, "[script.lox:3] Error: Undefined variable 'x'.", out)
}

func TestDiagnosticFormatColorWrapsCaret(t *testing.T) {
	d := &Diagnostic{
		Line:    1,
		Column:  1,
		Source:  "x",
		Message: "boom",
	}

	colored := d.Format(true)
	require.Contains(t, colored, "\033[1;31m^\033[0m")
}

func TestFormatDiagnosticsMultipleErrors(t *testing.T) {
	diags := []*Diagnostic{
		{Line: 1, Message: "first"},
		{Line: 2, Message: "second"},
	}

	out := FormatDiagnostics(diags, false)
	require.Contains(t, out, "2 errors:")
	require.Contains(t, out, "first")
	require.Contains(t, out, "second")
}

func TestFormatDiagnosticsEmpty(t *testing.T) {
	require.Equal(t, "", FormatDiagnostics(nil, false))
}
