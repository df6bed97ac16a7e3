package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"bulatc/internal/diag"
	"bulatc/internal/token"
)

func newTokensCmd() *cobra.Command {
	var jsonMode bool
	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "tokenize a source file and print its tokens",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			unit := newCompilationUnit(args[0], readSource(args[0]))
			tokens, diags := unit.lex()

			if jsonMode {
				printTokensJSON(tokens, diags)
			} else {
				printTokensText(tokens)
			}
			printDiags(os.Stderr, diags, tagUnit, unit.id)
			if len(diags) > 0 {
				os.Exit(1)
			}
		},
	}
	cmd.Flags().BoolVar(&jsonMode, "json", false, "print tokens as JSON")
	return cmd
}

func printTokensText(tokens []token.Token) {
	for _, tok := range tokens {
		lexeme := tok.Lexeme
		if tok.Kind == token.NEWLINE {
			lexeme = "\\n"
		}
		fmt.Printf("%-10s %-12q %d:%d\n", tok.Kind, lexeme, tok.Span.Start.Line, tok.Span.Start.Column)
	}
}

type tokenJSON struct {
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Offset int    `json:"offset"`
}

func printTokensJSON(tokens []token.Token, diags []diag.Diagnostic) {
	toks := make([]tokenJSON, len(tokens))
	for i, tok := range tokens {
		toks[i] = tokenJSON{
			Kind:   tok.Kind.String(),
			Lexeme: tok.Lexeme,
			Line:   tok.Span.Start.Line,
			Column: tok.Span.Start.Column,
			Offset: tok.Span.Start.Offset,
		}
	}
	printJSON(map[string]interface{}{
		"tokens":      toks,
		"diagnostics": diags,
	})
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error: JSON encoding failed: %v\n", err)
		os.Exit(1)
	}
}
