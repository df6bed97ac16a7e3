// Package diag provides diagnostic (error/warning) types for the compiler.
package diag

import (
	"fmt"

	"bulatc/internal/span"
)

// Severity indicates the severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Kind classifies a diagnostic by the error taxonomy the core raises.
// Some kinds are raised by more than one pass (DuplicateDeclaration by
// the parser and the checker, Unimplemented by the checker and the
// lowerer). Every kind is fatal to the compilation unit — none are
// recovered locally.
type Kind int

const (
	KindNone Kind = iota
	KindParseError
	KindUnresolvedName
	KindAmbiguousName
	KindTypeMismatch
	KindDuplicateDeclaration
	KindNotAssignable
	KindUnimplemented
)

var kindNames = map[Kind]string{
	KindNone:                 "none",
	KindParseError:           "ParseError",
	KindUnresolvedName:       "UnresolvedName",
	KindAmbiguousName:        "AmbiguousName",
	KindTypeMismatch:         "TypeMismatch",
	KindDuplicateDeclaration: "DuplicateDeclaration",
	KindNotAssignable:        "NotAssignable",
	KindUnimplemented:        "Unimplemented",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Diagnostic represents a compiler diagnostic message.
type Diagnostic struct {
	Code     string    `json:"code"`           // stable error code, e.g. "E0001"
	Kind     Kind      `json:"kind"`           // taxonomy kind
	Severity Severity  `json:"severity"`       // error or warning
	Message  string    `json:"message"`        // human-readable description
	Span     span.Span `json:"span"`           // source location
	Hint     string    `json:"hint,omitempty"` // optional hint
}

// String returns a human-readable representation of the diagnostic.
func (d Diagnostic) String() string {
	prefix := d.Severity.String()
	loc := fmt.Sprintf("%d:%d", d.Span.Start.Line, d.Span.Start.Column)
	msg := fmt.Sprintf("[%s] %s (%s) at %s: %s", d.Code, prefix, d.Kind, loc, d.Message)
	if d.Hint != "" {
		msg += " (hint: " + d.Hint + ")"
	}
	return msg
}

// Error implements the error interface so a Diagnostic can be returned
// directly from the checker and lowerer, which stop at the first failure
// within a unit.
func (d Diagnostic) Error() string { return d.String() }

// New creates an error-severity diagnostic carrying a taxonomy kind.
func New(code string, kind Kind, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Kind:     kind,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// Errorf creates an error diagnostic with no specific taxonomy kind. Kept
// for diagnostics raised outside the error taxonomy (e.g. CLI/IO errors).
func Errorf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}

// Warningf creates a warning diagnostic at the given span.
func Warningf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Span:     s,
	}
}
