// Package main provides the molview CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/molview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
