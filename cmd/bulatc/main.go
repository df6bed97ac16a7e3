// Command bulatc is the CLI driver for the compiler core: tokenize,
// parse, type-check, and lower source files, or drive the pipeline
// interactively from a REPL.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var tagUnit bool

func main() {
	root := &cobra.Command{
		Use:   "bulatc",
		Short: "compiler front-end CLI: tokens, parse, check, build, repl",
	}
	root.PersistentFlags().BoolVar(&tagUnit, "tag-unit", false, "tag every diagnostic with its compilation unit id")

	root.AddCommand(newTokensCmd())
	root.AddCommand(newParseCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newBuildCmd())
	root.AddCommand(newReplCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readSource(path string) string {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read file %s: %v\n", path, err)
		os.Exit(1)
	}
	return string(source)
}
