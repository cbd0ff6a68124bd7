// Command anfcheck loads ANF graph fixtures, runs their edit scripts and
// checks that every node's inputs and uses agree.
//
// Usage:
//
//	anfcheck check [flags] <fixture.yaml>...
//	anfcheck stats <fixture.yaml>...
//	anfcheck dump <fixture.yaml>
//	anfcheck version
//
// Examples:
//
//	anfcheck check graphs.yaml               # Build, edit and verify
//	anfcheck check --each-edit graphs.yaml   # Verify after every edit
//	anfcheck stats graphs.yaml               # Print node and edge counts
package main

import (
	"context"
	"fmt"
	"os"
)

const anfVersion = "0.1.0-dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
