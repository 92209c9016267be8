// The main package for the pageharvest executable.
package main

import (
	"github.com/rgrier/pageharvest/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
