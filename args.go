package glisp

import (
	"fmt"
)

// Errorf builds an EvalError for builtins outside this package
func Errorf(kind ErrorKind, format string, args ...any) error {
	return newError(kind, format, args...)
}

func ordinal(n int) string {
	suffix := "th"
	switch n % 10 {
	case 1:
		suffix = "st"
	case 2:
		suffix = "nd"
	case 3:
		suffix = "rd"
	}
	if n%100 >= 11 && n%100 <= 13 {
		suffix = "th"
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Requires is the standard type error for the i-th (0-based) argument
func Requires(name, what string, i int) error {
	return newError(TypeMismatch, "(%s: requires %s as %s argument)", name, what, ordinal(i+1))
}

// Arg returns the effective value of argument i, evaluating it unless it is
// already terminal
func Arg(env *Env, args *List, i int) (Object, error) {
	if i >= args.Len() {
		return nil, newError(ArityMismatch, "missing %s argument", ordinal(i+1))
	}
	return Value(env, args.items[i])
}

// Args evaluates every argument in order
func Args(env *Env, args *List) ([]Object, error) {
	out := make([]Object, args.Len())
	for i := range args.items {
		v, err := Value(env, args.items[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func ArgInt(env *Env, args *List, i int, name string) (int64, error) {
	v, err := Arg(env, args, i)
	if err != nil {
		return 0, err
	}
	n, ok := v.(Int)
	if !ok {
		return 0, Requires(name, "int", i)
	}
	return int64(n), nil
}

// ArgNumber coerces argument i through ToNumber; the result is Int or Double
func ArgNumber(env *Env, args *List, i int, name string) (Object, error) {
	v, err := Arg(env, args, i)
	if err != nil {
		return nil, err
	}
	n, err := ToNumber(env, v)
	if err != nil {
		return nil, Requires(name, "number", i)
	}
	return n, nil
}

func ArgDouble(env *Env, args *List, i int, name string) (float64, error) {
	n, err := ArgNumber(env, args, i, name)
	if err != nil {
		return 0, err
	}
	return toFloat(n), nil
}

func ArgString(env *Env, args *List, i int, name string) (string, error) {
	v, err := Arg(env, args, i)
	if err != nil {
		return "", err
	}
	s, ok := v.(String)
	if !ok {
		return "", Requires(name, "string", i)
	}
	return string(s), nil
}

func ArgBool(env *Env, args *List, i int) (bool, error) {
	if i >= args.Len() {
		return false, newError(ArityMismatch, "missing %s argument", ordinal(i+1))
	}
	return Truthy(env, args.items[i])
}

// ArgSymbol reads a symbol name from argument i. The raw argument may be a
// symbol, or evaluate to a quoted symbol ('x) or a string.
func ArgSymbol(env *Env, args *List, i int, name string) (string, error) {
	if i >= args.Len() {
		return "", newError(ArityMismatch, "missing %s argument", ordinal(i+1))
	}
	if sym, ok := args.items[i].(Symbol); ok {
		return string(sym), nil
	}
	v, err := Value(env, args.items[i])
	if err != nil {
		return "", err
	}
	return symbolName(v, name, i)
}

// ArgQuotedSymbol is ArgSymbol for builtins that always evaluate their
// argument, such as set
func ArgQuotedSymbol(env *Env, args *List, i int, name string) (string, error) {
	v, err := Arg(env, args, i)
	if err != nil {
		return "", err
	}
	return symbolName(v, name, i)
}

func symbolName(v Object, name string, i int) (string, error) {
	switch t := v.(type) {
	case Symbol:
		return string(t), nil
	case String:
		return string(t), nil
	case *List:
		if t.quoted && t.Len() == 1 {
			if sym, ok := t.items[0].(Symbol); ok {
				return string(sym), nil
			}
		}
	}
	return "", Requires(name, "symbol", i)
}

// ArgList requires argument i to be a quoted list
func ArgList(env *Env, args *List, i int, name string) (*List, error) {
	v, err := Arg(env, args, i)
	if err != nil {
		return nil, err
	}
	l, ok := v.(*List)
	if !ok || !l.quoted {
		return nil, Requires(name, "quoted list", i)
	}
	return l, nil
}

func ArgEnv(env *Env, args *List, i int, name string) (*Env, error) {
	v, err := Arg(env, args, i)
	if err != nil {
		return nil, err
	}
	e, ok := v.(*Env)
	if !ok {
		return nil, Requires(name, "environment", i)
	}
	return e, nil
}

// ArgRegex accepts a regex literal or a string holding a pattern
func ArgRegex(env *Env, args *List, i int, name string) (*Regex, error) {
	v, err := Arg(env, args, i)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case *Regex:
		return t, nil
	case String:
		return CompileRegex(string(t))
	}
	return nil, Requires(name, "regex", i)
}

// ArgCallable requires a lambda or builtin
func ArgCallable(env *Env, args *List, i int, name string) (Object, error) {
	v, err := Arg(env, args, i)
	if err != nil {
		return nil, err
	}
	switch v.(type) {
	case *Lambda, Builtin:
		return v, nil
	}
	return nil, Requires(name, "function", i)
}
