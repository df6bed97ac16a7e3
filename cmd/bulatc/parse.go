package main

import (
	"os"

	"github.com/spf13/cobra"

	"bulatc/internal/ast"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "parse a source file and print its AST as JSON",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			unit := newCompilationUnit(args[0], readSource(args[0]))
			file, diags := unit.parse()

			printJSON(map[string]interface{}{
				"ast":         ast.NodeToMap(file),
				"diagnostics": diags,
			})
			printDiags(os.Stderr, diags, tagUnit, unit.id)
			if len(diags) > 0 {
				os.Exit(1)
			}
		},
	}
	return cmd
}
