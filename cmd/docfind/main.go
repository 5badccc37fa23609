// Package main provides the entry point for the docfind CLI.
package main

import (
	"fmt"
	"os"

	"github.com/docfind/docfind/cmd/docfind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
