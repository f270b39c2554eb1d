// Package diag renders the {stage, message, line, column} compiler errors
// produced by the lexer, parser, and code generator into the single
// human-readable diagnostic line spec.md §7 requires, with an optional
// source-context line and caret. It is grounded on
// CWBudde-go-dws/internal/errors's CompilerError.
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Stage identifies which pipeline stage raised an Error.
type Stage string

// The three stages spec.md §7 taxonomizes errors by.
const (
	Lexical Stage = "lexical error"
	Parse   Stage = "parse error"
	CodeGen Stage = "code generation error"
)

// Error is a single fatal diagnostic with source position. All errors in
// this compiler are fatal at the stage they arise; there is no recovery or
// batching (spec.md §7).
type Error struct {
	Stage   Stage
	Message string
	Line    int
	Column  int
	Source  string // full source text, for rendering the offending line
}

// New builds an Error. source may be empty if the caller has no source text
// on hand (Format then omits the context line).
func New(stage Stage, message string, line, column int, source string) *Error {
	return &Error{Stage: stage, Message: message, Line: line, Column: column, Source: source}
}

// Error implements the error interface with the uncolored rendering.
func (e *Error) Error() string {
	return e.Format(false)
}

// Format renders the diagnostic as a single message: a "stage: message (line
// N, column M)" header, followed by the offending source line and a caret
// pointing at the column, when source text is available. When color is true
// the caret is rendered in bold red, mirroring the teacher's ANSI-escape
// approach but through a real terminal-color dependency.
func (e *Error) Format(color bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s (line %d, column %d)", e.Stage, e.Message, e.Line, e.Column)

	if line := sourceLine(e.Source, e.Line); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(caret(e.Column, color))
	}

	return sb.String()
}

func sourceLine(source string, line int) string {
	if source == "" || line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}

func caret(column int, colored bool) string {
	pad := ""
	if column > 1 {
		pad = strings.Repeat(" ", column-1)
	}
	if !colored {
		return pad + "^"
	}
	return pad + color.New(color.FgRed, color.Bold).Sprint("^")
}
