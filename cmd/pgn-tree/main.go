// pgn-tree reads, indexes and rewrites chess games in PGN format.
package main

import (
	"fmt"
	"os"
)

const programVersion = "0.2.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pgn-tree: %v\n", err)
		os.Exit(1)
	}
}
