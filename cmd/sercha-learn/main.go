// Package main is the entry point for the sercha-learn CLI.
package main

import (
	"os"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driving/cli"
)

// version is set via ldflags during build.
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
