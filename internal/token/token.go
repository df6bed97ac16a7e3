// Package token defines the fixed token tag set produced by the lexer
// collaborator.
package token

import (
	"fmt"

	"bulatc/internal/span"
)

// Kind represents the type of a token.
type Kind int

const (
	// Special tokens
	ILLEGAL Kind = iota
	EOF
	NEWLINE

	// Literals
	IDENT  // identifier
	INT    // integer_literal
	DOUBLE // double_literal
	STRING // string_literal

	// OPERATOR carries the lexemes registered in the Operator Table
	// (+, -, *, /, %, ==, !=, <, <=, >, >=, &&, ||, =, !) and also the
	// type-grammar "&" and arrow "->", the member-access ".", and the
	// compound assignments +=, -=, *=, /=. There is no per-operator Kind;
	// the parser compares Lexeme against the Operator Table, or against
	// the literal lexeme for the forms the table does not hold.
	OPERATOR

	// Delimiters
	LPAREN   // (
	RPAREN   // )
	LBRACE   // {
	RBRACE   // }
	LSQUARE  // [
	RSQUARE  // ]
	COMMA    // ,
	COLON    // :

	// Keywords
	KW_LET
	KW_VAR
	KW_FUNC
	KW_IF
	KW_ELSE
	KW_WHILE
	KW_RETURN
	KW_TRUE
	KW_FALSE
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",
	NEWLINE: "NEWLINE",

	IDENT:    "IDENT",
	INT:      "INT",
	DOUBLE:   "DOUBLE",
	STRING:   "STRING",
	OPERATOR: "OPERATOR",

	LPAREN:  "(",
	RPAREN:  ")",
	LBRACE:  "{",
	RBRACE:  "}",
	LSQUARE: "[",
	RSQUARE: "]",
	COMMA:   ",",
	COLON:   ":",

	KW_LET:    "let",
	KW_VAR:    "var",
	KW_FUNC:   "func",
	KW_IF:     "if",
	KW_ELSE:   "else",
	KW_WHILE:  "while",
	KW_RETURN: "return",
	KW_TRUE:   "true",
	KW_FALSE:  "false",
}

// String returns the human-readable name for a token kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword returns true if the kind is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= KW_LET && k <= KW_FALSE
}

// IsLiteral returns true if the kind is a literal (ident/int/double/string).
func (k Kind) IsLiteral() bool {
	return k >= IDENT && k <= STRING
}

var keywords = map[string]Kind{
	"let":    KW_LET,
	"var":    KW_VAR,
	"func":   KW_FUNC,
	"if":     KW_IF,
	"else":   KW_ELSE,
	"while":  KW_WHILE,
	"return": KW_RETURN,
	"true":   KW_TRUE,
	"false":  KW_FALSE,
}

// LookupIdent returns the keyword Kind for ident, or IDENT if it is not a keyword.
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// Token represents a lexical token with its kind, text, and source location.
type Token struct {
	Kind   Kind      `json:"kind"`
	Lexeme string    `json:"lexeme"`
	Span   span.Span `json:"span"`
}

// String returns a human-readable representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s %q %s", t.Kind, t.Lexeme, t.Span.Start)
}

// IsOperator reports whether the token is an operator_id token with the
// given lexeme.
func (t Token) IsOperator(lexeme string) bool {
	return t.Kind == OPERATOR && t.Lexeme == lexeme
}
