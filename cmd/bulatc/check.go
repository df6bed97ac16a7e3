package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "parse and type-check a source file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			unit := newCompilationUnit(args[0], readSource(args[0]))
			file, diags := unit.parse()
			if len(diags) > 0 {
				printDiags(os.Stderr, diags, tagUnit, unit.id)
				os.Exit(1)
			}

			if _, err := unit.check(file); err != nil {
				printDiag(os.Stderr, *err, tagUnit, unit.id)
				os.Exit(1)
			}
			color.New(color.FgGreen).Fprintln(os.Stdout, fmt.Sprintf("%s: ok", args[0]))
		},
	}
	return cmd
}
