package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"bulatc/internal/ast"
	"bulatc/internal/diag"
	"bulatc/internal/irgen"
	"bulatc/internal/lexer"
	"bulatc/internal/optable"
	"bulatc/internal/parser"
	"bulatc/internal/sema"
	"bulatc/internal/token"
	"bulatc/internal/types"
)

// compilationUnit is one source file plus everything a pipeline stage
// needs to carry between lex, parse, check, and build; multiple units may
// be compiled independently, e.g. in parallel. Each unit gets a uuid so a
// multi-unit driver run can correlate diagnostics back to the file they
// came from when --tag-unit is set.
type compilationUnit struct {
	id       uuid.UUID
	filename string
	source   string
	pool     *types.Pool
	ops      *optable.Table
}

func newCompilationUnit(filename, source string) *compilationUnit {
	return &compilationUnit{
		id:       uuid.New(),
		filename: filename,
		source:   source,
		pool:     types.NewPool(),
		ops:      optable.Default(),
	}
}

func (u *compilationUnit) lex() ([]token.Token, []diag.Diagnostic) {
	l := lexer.New(u.source, u.filename)
	return l.Tokenize()
}

func (u *compilationUnit) parse() (*ast.File, []diag.Diagnostic) {
	tokens, lexDiags := u.lex()
	p := parser.New(tokens, u.ops, u.pool)
	file, parseDiags := p.ParseFile()
	return file, append(lexDiags, parseDiags...)
}

func (u *compilationUnit) check(file *ast.File) (*ast.DeclContext, *diag.Diagnostic) {
	global := sema.NewGlobalContext(u.pool)
	return sema.New(u.pool, global).CheckFile(file)
}

// topLevelFuncs returns every top-level FuncDecl in file, in declaration
// order, for the build subcommand to lower one at a time.
func topLevelFuncs(file *ast.File) []*ast.FuncDecl {
	var out []*ast.FuncDecl
	for _, node := range file.Body {
		ds, ok := node.(*ast.DeclStmt)
		if !ok {
			continue
		}
		if fd, ok := ds.D.(*ast.FuncDecl); ok {
			out = append(out, fd)
		}
	}
	return out
}

func lowerAll(file *ast.File) ([]string, *diag.Diagnostic) {
	var dumps []string
	for _, fd := range topLevelFuncs(file) {
		fn, err := irgen.LowerFunction(fd)
		if err != nil {
			return dumps, err
		}
		dumps = append(dumps, fn.Dump())
	}
	return dumps, nil
}

// ---- diagnostic output ----
//
// Diagnostics go straight to stderr rather than through a logging
// framework; color.New wraps hand-rolled ANSI escapes and auto-detects
// TTYs via go-isatty so piped/redirected output stays plain.
var (
	errColor = color.New(color.FgRed, color.Bold)
	hintColor = color.New(color.FgYellow)
)

func printDiag(w io.Writer, d diag.Diagnostic, tagUnit bool, unitID uuid.UUID) {
	if tagUnit {
		d.Hint = fmt.Sprintf("unit=%s %s", unitID, d.Hint)
	}
	errColor.Fprintf(w, "[%s] %s (%s)", d.Code, d.Severity, d.Kind)
	fmt.Fprintf(w, " at %d:%d: %s\n", d.Span.Start.Line, d.Span.Start.Column, d.Message)
	if d.Hint != "" {
		hintColor.Fprintf(w, "  hint: %s\n", d.Hint)
	}
}

func printDiags(w io.Writer, diags []diag.Diagnostic, tagUnit bool, unitID uuid.UUID) {
	for _, d := range diags {
		printDiag(w, d, tagUnit, unitID)
	}
}
