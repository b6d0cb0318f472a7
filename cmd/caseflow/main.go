// Command caseflow serves the entity connection graph and deadline engine
// over HTTP and offers read-only reports on the command line.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
