package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"bulatc/internal/irgen"
)

var (
	promptColor = color.New(color.FgGreen, color.Bold)
	bannerColor = color.New(color.FgCyan, color.Bold)
	dimColor    = color.New(color.FgHiBlack)
)

func newReplCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "interactively lower top-level functions typed at a prompt",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runRepl()
		},
	}
	return cmd
}

// runRepl drives tokens -> parse -> check -> build on each accumulated
// block of input and prints the lowered IR of any function it defines.
// There is no interpreter to "run" a statically-typed IR function
// without a back end, so the REPL's feedback loop is the lowered IR
// listing itself.
func runRepl() {
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".bulatc_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            promptColor.Sprint("bulatc> "),
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	bannerColor.Fprint(rl.Stdout(), "bulatc REPL ")
	dimColor.Fprintln(rl.Stdout(), "(type 'exit' or Ctrl+D to quit)")

	var accumulated strings.Builder
	braceDepth := 0

	for {
		if braceDepth > 0 {
			rl.SetPrompt(dimColor.Sprint("...     "))
		} else {
			rl.SetPrompt(promptColor.Sprint("bulatc> "))
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if braceDepth > 0 {
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				dimColor.Fprintln(rl.Stdout(), "(use 'exit' or Ctrl+D to quit)")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		if braceDepth == 0 && strings.TrimSpace(line) == "exit" {
			break
		}

		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")
		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()
		if strings.TrimSpace(source) == "" {
			continue
		}

		replEval(rl, source)
	}
}

func replEval(rl *readline.Instance, source string) {
	unit := newCompilationUnit("<repl>", source)
	file, diags := unit.parse()
	if len(diags) > 0 {
		printDiags(rl.Stderr(), diags, false, unit.id)
		return
	}

	if _, err := unit.check(file); err != nil {
		printDiag(rl.Stderr(), *err, false, unit.id)
		return
	}

	any := false
	for _, fd := range topLevelFuncs(file) {
		fn, err := irgen.LowerFunction(fd)
		if err != nil {
			printDiag(rl.Stderr(), *err, false, unit.id)
			continue
		}
		fmt.Fprint(rl.Stdout(), fn.Dump())
		any = true
	}
	if !any {
		dimColor.Fprintln(rl.Stdout(), "(no top-level function to lower)")
	}
}
