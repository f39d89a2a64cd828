// Package main provides the sqlprobe command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlprobe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
