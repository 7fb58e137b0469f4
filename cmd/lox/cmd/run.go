package cmd

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/iamsayantan/lox"
	"github.com/kr/pretty"
	"github.com/spf13/cobra"
)

var (
	dumpAST      bool
	dumpASTRaw   bool
	trace        bool
	maxCallDepth int
)

var runCmd = &cobra.Command{
	Use:   "run [script]",
	Short: "Run a Lox script, or start a REPL with no arguments",
	Long: `Execute a Lox program from a file, or drop into an interactive
prompt when no file is given.

Examples:
  # Run a script file
  lox run script.lox

  # Start the REPL
  lox run

  # Dump the parsed AST instead of executing
  lox run --dump-ast script.lox`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST instead of executing")
	runCmd.Flags().BoolVar(&dumpASTRaw, "dump-ast-raw", false, "print a Go-syntax dump of the AST (implies --dump-ast)")
	runCmd.Flags().BoolVar(&trace, "trace", false, "tag this run with a correlation id and report it before executing")
	runCmd.Flags().IntVar(&maxCallDepth, "max-call-depth", 0, "override the configured max call depth (0 keeps the configured value)")
}

func runScript(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if noColor {
		cfg.NoColor = true
	}
	if trace {
		cfg.Trace = true
	}
	if maxCallDepth > 0 {
		cfg.MaxCallDepth = maxCallDepth
	}

	if cfg.Trace {
		fmt.Fprintf(os.Stderr, "[trace %s]\n", uuid.New().String())
	}

	runtime := lox.NewRuntime(cfg)

	if len(args) == 0 {
		os.Exit(runtime.Run(nil))
		return nil
	}

	if dumpAST || dumpASTRaw {
		source, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		if dumpASTRaw {
			scanner := lox.NewScanner(bytes.NewBuffer(source), runtime)
			statements := lox.NewParser(scanner.ScanTokens(), runtime).Parse()
			fmt.Printf("%# v\n", pretty.Formatter(statements))
		} else {
			fmt.Print(runtime.DumpAst(string(source)))
		}

		return nil
	}

	os.Exit(runtime.Run(args))
	return nil
}
