// Command rowfile inspects and edits rowfile collections from the shell.
package main

import (
	"os"

	"github.com/jpl-au/rowfile/cmd/rowfile/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
