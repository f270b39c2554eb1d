package cmd

import (
	"fmt"
	"os"

	"github.com/skx/lang-compiler/codegen"
	"github.com/skx/lang-compiler/diag"
	"github.com/skx/lang-compiler/lexer"
	"github.com/skx/lang-compiler/parser"
	"github.com/spf13/cobra"
)

var outputPath string

var compileCmd = &cobra.Command{
	Use:   "compile [file]",
	Short: "Compile a source file to x86-64 assembly (default mode)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func runCompile(cmd *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	text := string(source)

	logStage("lexing %s", path)
	tokens, err := lexer.Tokenize(text)
	if err != nil {
		return reportStageError(err, text)
	}

	logStage("parsing %d tokens", len(tokens))
	program, err := parser.Parse(tokens)
	if err != nil {
		return reportStageError(err, text)
	}

	logStage("generating assembly for %d top-level function(s)", len(program.Functions()))
	asm, err := codegen.Generate(program)
	if err != nil {
		return reportStageError(err, text)
	}

	return writeOutput(asm)
}

// reportStageError renders a stage-specific error (LexError, ParseError, or
// GenError) as a diag.Error before returning it, so the CLI's single
// human-readable line matches the taxonomy every stage commits to.
func reportStageError(err error, source string) error {
	type diagConverter interface {
		ToDiag(source string) *diag.Error
	}
	type bareDiagConverter interface {
		ToDiag() *diag.Error
	}

	if dc, ok := err.(diagConverter); ok {
		return dc.ToDiag(source)
	}
	if dc, ok := err.(bareDiagConverter); ok {
		return dc.ToDiag()
	}
	return err
}

func writeOutput(asm string) error {
	if outputPath == "" || outputPath == "-" {
		_, err := fmt.Fprint(os.Stdout, asm)
		return err
	}
	return os.WriteFile(outputPath, []byte(asm), 0o644)
}
