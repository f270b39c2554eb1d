package ast

import (
	"fmt"
	"io"
	"strings"
)

// Dump renders a pre-order, indent-by-depth textual traversal of n to w,
// the sole supported AST-dump diagnostic operation (spec.md §1): each node
// is printed on its own line, indented two spaces per depth, followed by
// its children in source order.
func Dump(w io.Writer, n Node) error {
	return dump(w, n, 0)
}

func dump(w io.Writer, n Node, depth int) error {
	if n == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n.Describe()); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := dump(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// DumpString renders n the same way Dump does, returning the result as a
// string. Useful for tests and for embedding in error messages.
func DumpString(n Node) string {
	var sb strings.Builder
	_ = Dump(&sb, n)
	return sb.String()
}
