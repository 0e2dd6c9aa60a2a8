// Package main provides the sniff command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/sniff/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
