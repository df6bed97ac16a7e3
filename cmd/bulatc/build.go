package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "check a source file and print the lowered IR of each function",
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

			dumps, err := lowerAll(file)
			if err != nil {
				printDiag(os.Stderr, *err, tagUnit, unit.id)
				os.Exit(1)
			}
			for _, d := range dumps {
				fmt.Println(d)
			}
		},
	}
	return cmd
}
