package glisp

import (
	"fmt"
	"regexp"
)

// Kind names the variant an Object holds
type Kind int

const (
	KindEmpty Kind = iota
	KindNil
	KindBool
	KindInt
	KindDouble
	KindString
	KindSymbol
	KindRegex
	KindList
	KindEnv
	KindLambda
	KindBuiltin
	KindOpaque
	KindForm
)

var kindNames = [...]string{
	KindEmpty:   "empty",
	KindNil:     "nil",
	KindBool:    "bool",
	KindInt:     "int",
	KindDouble:  "double",
	KindString:  "string",
	KindSymbol:  "symbol",
	KindRegex:   "regex",
	KindList:    "list",
	KindEnv:     "environment",
	KindLambda:  "lambda",
	KindBuiltin: "builtin",
	KindOpaque:  "opaque",
	KindForm:    "special form",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Object is the runtime value. The set of implementations is closed: only
// types in this package satisfy it.
type Object interface {
	Kind() Kind
	object()
}

// EmptyValue is the uninitialized / no-value sentinel. It is not Nil.
type EmptyValue struct{}

// NilValue is the empty-list, false-ish value
type NilValue struct{}

type Bool bool
type Int int64
type Double float64

// String values share their backing bytes; slicing never copies.
type String string

type Symbol string

// Regex is a compiled pattern together with its source text
type Regex struct {
	Source string
	re     *regexp.Regexp
}

// Opaque wraps a host value, such as a time, that the core never inspects.
type Opaque struct {
	Type  string
	Value any
}

// Lambda is a user function closing over the environment it was created in
type Lambda struct {
	Params []string
	Doc    string
	Body   []Object
	Env    *Env
}

// Builtin indexes the interpreter's registry
type Builtin int

var (
	Empty Object = EmptyValue{}
	Nil   Object = NilValue{}
	True  Object = Bool(true)
	False Object = Bool(false)
)

func (EmptyValue) Kind() Kind { return KindEmpty }
func (NilValue) Kind() Kind   { return KindNil }
func (Bool) Kind() Kind       { return KindBool }
func (Int) Kind() Kind        { return KindInt }
func (Double) Kind() Kind     { return KindDouble }
func (String) Kind() Kind     { return KindString }
func (Symbol) Kind() Kind     { return KindSymbol }
func (*Regex) Kind() Kind     { return KindRegex }
func (*Opaque) Kind() Kind    { return KindOpaque }
func (*Lambda) Kind() Kind    { return KindLambda }
func (Builtin) Kind() Kind    { return KindBuiltin }

func (EmptyValue) object() {}
func (NilValue) object()   {}
func (Bool) object()       {}
func (Int) object()        {}
func (Double) object()     {}
func (String) object()     {}
func (Symbol) object()     {}
func (*Regex) object()     {}
func (*Opaque) object()    {}
func (*Lambda) object()    {}
func (Builtin) object()    {}

// CompileRegex builds a Regex object from pattern source
func CompileRegex(src string) (*Regex, error) {
	re, err := regexp.Compile(src)
	if err != nil {
		return nil, newError(Custom, "invalid regex /%s/: %v", src, err)
	}
	return &Regex{Source: src, re: re}, nil
}

// Regexp exposes the compiled pattern to builtins
func (r *Regex) Regexp() *regexp.Regexp {
	return r.re
}

// MakeBool converts a Go bool to #t or #f
func MakeBool(b bool) Object {
	if b {
		return True
	}
	return False
}

// isTerminal reports whether obj evaluates to itself
func isTerminal(obj Object) bool {
	switch t := obj.(type) {
	case Symbol, form:
		return false
	case *List:
		return t.quoted
	default:
		return true
	}
}
