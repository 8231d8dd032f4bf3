// Package main provides the entry point for the snipstash CLI.
package main

import (
	"os"

	"github.com/snipstash/snipstash/cmd/snipstash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
