package lox

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// Runtime drives the Scanner -> Parser -> Resolver -> Interpreter pipeline
// for one script or REPL session. It owns the two sticky error flags the
// book's jlox uses to decide a process's exit code and accumulates enough
// context (source text, file name) to render caret diagnostics.
type Runtime struct {
	config Config

	stdout io.Writer
	stderr io.Writer

	source   string
	fileName string

	hadError        bool
	hadRuntimeError bool

	// interpreter persists across calls to run so a REPL session keeps
	// the variables, functions and classes a previous line declared.
	interpreter *Interpreter
}

// Exit codes follow the sysexits.h convention the book borrows: a clean
// run is 0, a usage error is 64 (EX_USAGE), a syntax or resolution error
// (or an unreadable script file) is 65 (EX_DATAERR), and an error raised
// while the program was actually executing is 70 (EX_SOFTWARE).
const (
	ExitOK       = 0
	ExitUsage    = 64
	ExitDataErr  = 65
	ExitSoftware = 70
)

func NewRuntime(config Config) *Runtime {
	r := &Runtime{
		config: config,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	r.interpreter = NewInterpreter(r)
	return r
}

// Run implements the classic jlox CLI contract: one argument runs a file,
// zero arguments drops into a REPL, more than one is a usage error.
func (r *Runtime) Run(args []string) int {
	if len(args) > 1 {
		fmt.Fprintln(r.stderr, "Usage: lox [script]")
		return ExitUsage
	} else if len(args) == 1 {
		return r.RunFile(args[0])
	}

	return r.RunPrompt()
}

func (r *Runtime) RunFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.stderr, "error reading file: %s\n", err.Error())
		return ExitDataErr
	}

	r.fileName = path
	r.run(string(data))

	if r.hadError {
		return ExitDataErr
	}
	if r.hadRuntimeError {
		return ExitSoftware
	}

	return ExitOK
}

func (r *Runtime) RunPrompt() int {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(r.stdout, ">>> ")

		if !scanner.Scan() {
			break
		}
		line := scanner.Text()

		if line == "" {
			continue
		}

		r.fileName = ""
		r.run(line)
		r.hadError = false
		r.hadRuntimeError = false
	}

	return ExitOK
}

func (r *Runtime) Error(line int, message string) {
	r.report(line, 0, "", message)
}

func (r *Runtime) run(source string) {
	r.source = source

	scanner := NewScanner(bytes.NewBuffer([]byte(source)), r)
	tokens := scanner.ScanTokens()
	if r.hadError {
		return
	}

	parser := NewParser(tokens, r)
	statements := parser.Parse()
	if r.hadError {
		return
	}

	resolver := NewResolver(r.interpreter, r)
	resolver.Resolve(statements)
	if r.hadError {
		return
	}

	r.interpreter.Interpret(statements)
}

// DumpAst parses source and renders its expression statements using
// AstPrinter, backing the CLI's --dump-ast flag.
func (r *Runtime) DumpAst(source string) string {
	r.source = source

	scanner := NewScanner(bytes.NewBuffer([]byte(source)), r)
	tokens := scanner.ScanTokens()

	parser := NewParser(tokens, r)
	statements := parser.Parse()

	printer := &AstPrinter{}
	var out bytes.Buffer
	for _, stmt := range statements {
		if exprStmt, ok := stmt.(*Expression); ok {
			fmt.Fprintln(&out, printer.Print(exprStmt.Expression))
		}
	}

	return out.String()
}

func (r *Runtime) report(line, column int, where, message string) {
	r.hadError = true

	d := &Diagnostic{
		File:    r.fileName,
		Line:    line,
		Column:  column,
		Source:  r.source,
		Message: message,
		Where:   where,
	}

	fmt.Fprintln(r.stderr, d.Format(!r.config.NoColor))
}

func (r *Runtime) tokenError(token Token, message string) {
	if token.Type == Eof {
		r.report(token.Line, token.Column, " at end", message)
	} else {
		r.report(token.Line, token.Column, " at '"+token.Lexeme+"'", message)
	}
}

func (r *Runtime) runtimeError(err error) {
	r.hadRuntimeError = true

	if rerr, ok := err.(*RuntimeError); ok {
		d := &Diagnostic{
			File:    r.fileName,
			Line:    rerr.token.Line,
			Column:  rerr.token.Column,
			Source:  r.source,
			Message: rerr.message,
		}
		fmt.Fprintln(r.stderr, d.Format(!r.config.NoColor))
		return
	}

	fmt.Fprintln(r.stderr, err.Error())
}
