package lox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func scanSource(t *testing.T, source string) []Token {
	t.Helper()

	runtime := NewRuntime(DefaultConfig())
	scanner := NewScanner(bytes.NewBuffer([]byte(source)), runtime)
	tokens := scanner.ScanTokens()
	require.False(t, runtime.hadError, "unexpected scan error for %q", source)

	return tokens
}

func TestScannerTokenTypes(t *testing.T) {
	tokens := scanSource(t, `var x = "hi" + 1.5;`)

	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}

	require.Equal(t, []TokenType{Var, Identifiers, Equal, String, Plus, Number, Semicolon, Eof}, types)
}

func TestScannerTracksLineAndColumn(t *testing.T) {
	tokens := scanSource(t, "var a = 1;\nvar bb = 2;")

	// "bb" starts at column 5 on line 2.
	var bbToken Token
	for _, tok := range tokens {
		if tok.Type == Identifiers && tok.Lexeme == "bb" {
			bbToken = tok
		}
	}

	require.Equal(t, 2, bbToken.Line)
	require.Equal(t, 5, bbToken.Column)
}

func TestScannerMultiByteSourceDoesNotMisfireIsAtEnd(t *testing.T) {
	// A multi-byte rune in a comment or string used to desync the byte-length
	// check from the rune-index cursor; this should scan to completion
	// without dropping the trailing tokens.
	tokens := scanSource(t, `var s = "héllo wörld"; print s;`)

	require.Equal(t, Eof, tokens[len(tokens)-1].Type)

	var sawPrint bool
	for _, tok := range tokens {
		if tok.Type == PRINT {
			sawPrint = true
		}
	}
	require.True(t, sawPrint, "scanner stopped before reaching the print statement")
}

func TestScannerReportsUnterminatedString(t *testing.T) {
	runtime := NewRuntime(DefaultConfig())
	scanner := NewScanner(bytes.NewBuffer([]byte(`"never closed`)), runtime)
	scanner.ScanTokens()

	require.True(t, runtime.hadError)
}
