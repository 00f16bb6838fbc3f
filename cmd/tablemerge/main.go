// Package main provides the tablemerge command line tool.
package main

import (
	"os"

	"github.com/JonMunkholm/tablemerge/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
