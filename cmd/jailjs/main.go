// Command jailjs is a demo host embedding the jailjs evaluator: it reads a
// pre-parsed AST (as JSON, via ast.Decode) and runs it, the same shape of
// integration any real embedder's own host program would perform. It is not
// part of the evaluator's contract — parsing and CLI/build tooling live
// outside the core package entirely.
package main

import (
	"fmt"
	"os"

	"github.com/badlogic/jailjs/cmd/jailjs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
