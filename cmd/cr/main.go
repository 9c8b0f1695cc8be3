// Package main is the entry point for the cr CLI tool.
package main

import (
	"os"

	"github.com/prentissw/charted-roots/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
