// Command labordash builds and queries the indicator snapshot from the
// command line. Configuration comes from the same environment variables as
// the server; flags override them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
