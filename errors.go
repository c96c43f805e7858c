package glisp

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies hard evaluation errors
type ErrorKind int

const (
	Custom ErrorKind = iota
	UnboundSymbol
	ArityMismatch
	TypeMismatch
	DivideByZero
	IndexOutOfRange
	ConstBinding
)

func (k ErrorKind) String() string {
	switch k {
	case UnboundSymbol:
		return "unbound symbol"
	case ArityMismatch:
		return "arity mismatch"
	case TypeMismatch:
		return "type mismatch"
	case DivideByZero:
		return "divide by zero"
	case IndexOutOfRange:
		return "index out of range"
	case ConstBinding:
		return "const binding"
	default:
		return "error"
	}
}

// EvalError is the error returned by every failing evaluation
type EvalError struct {
	Kind ErrorKind
	Msg  string
}

func (e *EvalError) Error() string {
	return e.Msg
}

func newError(kind ErrorKind, format string, args ...any) error {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an EvalError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var ee *EvalError
	return errors.As(err, &ee) && ee.Kind == kind
}

// LexError is raised for input the lexer can't match. Line and Col are 1-based.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ParseError is a grammar violation. Pending lists the tokens the parser
// still had queued when it gave up.
type ParseError struct {
	Line    int
	Col     int
	Msg     string
	Pending []Token
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
	if len(e.Pending) > 0 {
		toks := make([]string, len(e.Pending))
		for i, t := range e.Pending {
			toks[i] = t.Text
		}
		msg += fmt.Sprintf(" (pending: %s)", strings.Join(toks, " "))
	}
	return msg
}

// SourceError is a lex or parse error rendered against the text it came
// from. It unwraps to the positioned error.
type SourceError struct {
	Err     error
	Snippet string
}

func (e *SourceError) Error() string { return e.Snippet }
func (e *SourceError) Unwrap() error { return e.Err }

// WrapErrorWithSource renders lex and parse errors as a snippet of src with
// a caret under the offending column. Other errors are returned unchanged.
func WrapErrorWithSource(err error, src string) error {
	var se *SourceError
	if errors.As(err, &se) {
		return err
	}
	var le *LexError
	if errors.As(err, &le) {
		return &SourceError{Err: err, Snippet: snippet(src, le.Error(), le.Line, le.Col)}
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return &SourceError{Err: err, Snippet: snippet(src, pe.Error(), pe.Line, pe.Col)}
	}
	return err
}

func snippet(src, header string, line, col int) string {
	lines := strings.Split(src, "\n")
	line = max(1, min(line, len(lines)))
	col = max(1, col)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", header)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
