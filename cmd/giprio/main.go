// Command giprio runs the coordination engine: bootstrap credentials and
// session state, then serve the twelve tool operations as line-delimited
// JSON over stdin/stdout until the input stream closes.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "giprio",
	Short: "GitHub issue priority coordination engine",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
