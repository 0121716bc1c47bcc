// The main package for the scrape-wunderground executable.
package main

import (
	"github.com/zperzan/scrape-wunderground/cmd"
)

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
