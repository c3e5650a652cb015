// ABOUTME: Entry point for the lostfound CLI
// ABOUTME: Command-line and terminal UI client for a Lost & Found backend

package main

import (
	"fmt"
	"os"

	"github.com/lostfound/lostfound/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
