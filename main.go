// Command lang-compiler reads a small indentation-structured language and
// emits x86-64 assembly.
package main

import (
	"fmt"
	"os"

	"github.com/skx/lang-compiler/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
