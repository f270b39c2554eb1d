// Package cmd wires the compiler's three pipeline stages (lexer, parser,
// code generator) to a small cobra-based CLI: a default "compile" behavior,
// plus "dump-ast" and a deliberately-unimplemented "interpret" mode
// (spec.md §6, §9).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lang-compiler [file]",
	Short: "Compile indentation-structured source to x86-64 assembly",
	Long: `lang-compiler reads a single source file written in a small
Python-like, indentation-structured language and emits GNU-syntax x86-64
assembly suitable for assembling and linking into a native executable.

Invoked with just a file, it compiles. Use the "dump-ast" subcommand to
print the parsed syntax tree instead, or "interpret" to confirm that mode
is not implemented.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
	// main prints the returned error once; cobra's own error and usage
	// printing would repeat it.
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command, returning any error for main to report.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each pipeline stage to standard error")
	compileCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "output path; \"-\" or omitted means standard output")

	rootCmd.Flags().AddFlagSet(compileCmd.Flags())
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(dumpASTCmd)
	rootCmd.AddCommand(interpretCmd)
}

func logStage(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
