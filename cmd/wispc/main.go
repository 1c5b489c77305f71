// Command wispc is a small CLI over the wisp compiler front end: it can
// tokenize source (lex), compile it and dump bytecode (compile), or drive
// an interactive compile-and-disassemble loop (repl).
package main

import (
	"fmt"
	"os"

	"github.com/skyfish4tb/wisp/cmd/wispc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
