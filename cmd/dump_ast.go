package cmd

import (
	"fmt"
	"os"

	"github.com/skx/lang-compiler/ast"
	"github.com/skx/lang-compiler/lexer"
	"github.com/skx/lang-compiler/parser"
	"github.com/spf13/cobra"
)

var dumpASTCmd = &cobra.Command{
	Use:   "dump-ast [file]",
	Short: "Parse a source file and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runDumpAST,
}

func runDumpAST(cmd *cobra.Command, args []string) error {
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

	dumped := ast.DumpString(program)
	if outputPath == "" || outputPath == "-" {
		_, err := fmt.Fprint(os.Stdout, dumped)
		return err
	}
	return os.WriteFile(outputPath, []byte(dumped), 0o644)
}
