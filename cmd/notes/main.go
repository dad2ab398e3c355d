// Package main provides the entry point for the notes CLI.
package main

import (
	"os"

	"github.com/namaewanam/notes/cmd/notes/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
