// Package main provides the CLI entrypoint for bridgegen.
//
// bridgegen is a Go codegen tool that:
//   - Scans packages for //bridgegen: directives on functions and interfaces
//   - Derives blocking, future, callback and stream calling conventions
//   - Resolves layered configuration (directive, type defaults, process file)
//   - Writes the derived declarations as sibling _bridgegen.go files
package main

import (
	"fmt"
	"os"

	"bridgegen/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
