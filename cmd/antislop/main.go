// Command antislop scans a source tree for AI-generated "slop": leftover
// placeholders, hedging language, and structural stubs a careful human
// author would have finished or removed.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "antislop:", err)
		os.Exit(exitCodeFor(err))
	}
}
