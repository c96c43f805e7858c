package glisp

import (
	"fmt"
	"math"
	"strings"
)

func typeBuiltins() []builtinSpec {
	return []builtinSpec{
		{"int", 1, 2, toInt, "(int x [default]) converts to an int, truncating doubles"},
		{"double", 1, 2, toDouble, "(double x [default]) converts to a double"},
		{"string", 0, -1, toString, "(string x...) joins the display form of each argument"},
		{"bool", 1, 1, toBool, "(bool x) truthiness of x"},
		{"symbol?", 1, 1, isKind(isSymbol), "(symbol? x)"},
		{"list?", 1, 1, isKind(isList), "(list? x)"},
		{"number?", 1, 1, isKind(isNumber), "(number? x)"},
		{"string?", 1, 1, isKind(isString), "(string? x)"},
		{"nil?", 1, 1, isKind(isNil), "(nil? x)"},
		{"empty?", 1, 1, isKind(isEmpty), "(empty? x) true for no value, an empty list or an empty string"},
		{"lambda?", 1, 1, isKind(isLambda), "(lambda? x)"},
		{"type-of", 1, 1, typeOf, "(type-of x) name of the kind of x"},
		{"print", 0, -1, printBuiltin, "(print x...) writes each argument and returns the last"},
		{"println", 0, -1, printlnBuiltin, "(println x...) print followed by a newline"},
		{"dump", 1, 1, dump, "(dump x) writes x in source syntax and returns it"},
		{"json", 1, 1, jsonBuiltin, "(json x) encodes a list or environment as JSON"},
	}
}

func toInt(env *Env, args *List) (Object, error) {
	v, err := Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	n, err := convert(env, v)
	if err != nil {
		return fallback(env, args, err)
	}
	if d, ok := n.(Double); ok {
		f := float64(d)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fallback(env, args, newError(TypeMismatch, "cannot convert %s to an int", Print(d)))
		}
		return Int(int64(f)), nil
	}
	return n, nil
}

func toDouble(env *Env, args *List) (Object, error) {
	v, err := Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	n, err := convert(env, v)
	if err != nil {
		return fallback(env, args, err)
	}
	return Double(toFloat(n)), nil
}

// convert is ToNumber that also accepts booleans
func convert(env *Env, v Object) (Object, error) {
	if b, ok := v.(Bool); ok {
		if b {
			return Int(1), nil
		}
		return Int(0), nil
	}
	return ToNumber(env, v)
}

// fallback returns the optional second argument in place of a failed
// conversion
func fallback(env *Env, args *List, err error) (Object, error) {
	if args.Len() < 2 {
		return nil, err
	}
	return Arg(env, args, 1)
}

func toString(env *Env, args *List) (Object, error) {
	values, err := Args(env, args)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, v := range values {
		b.WriteString(Display(v))
	}
	return String(b.String()), nil
}

func toBool(env *Env, args *List) (Object, error) {
	ok, err := ArgBool(env, args, 0)
	if err != nil {
		return nil, err
	}
	return MakeBool(ok), nil
}

func isKind(pred func(Object) bool) BuiltinFunc {
	return func(env *Env, args *List) (Object, error) {
		v, err := Arg(env, args, 0)
		if err != nil {
			return nil, err
		}
		return MakeBool(pred(v)), nil
	}
}

func isSymbol(v Object) bool {
	switch t := v.(type) {
	case Symbol:
		return true
	case *List:
		if t.quoted && t.Len() == 1 {
			_, ok := t.items[0].(Symbol)
			return ok
		}
	}
	return false
}

func isList(v Object) bool {
	_, ok := v.(*List)
	return ok
}

func isString(v Object) bool {
	_, ok := v.(String)
	return ok
}

func isNil(v Object) bool {
	return v == Nil
}

func isEmpty(v Object) bool {
	switch t := v.(type) {
	case EmptyValue:
		return true
	case String:
		return t == ""
	case *List:
		return len(t.Data()) == 0
	}
	return false
}

func isLambda(v Object) bool {
	_, ok := v.(*Lambda)
	return ok
}

func typeOf(env *Env, args *List) (Object, error) {
	v, err := Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	if o, ok := v.(*Opaque); ok {
		return String(o.Type), nil
	}
	return String(v.Kind().String()), nil
}

func printBuiltin(env *Env, args *List) (Object, error) {
	values, err := Args(env, args)
	if err != nil {
		return nil, err
	}
	var result Object = Nil
	for _, v := range values {
		fmt.Fprint(env.output(), Display(v))
		result = v
	}
	return result, nil
}

func printlnBuiltin(env *Env, args *List) (Object, error) {
	result, err := printBuiltin(env, args)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(env.output())
	return result, nil
}

func dump(env *Env, args *List) (Object, error) {
	v, err := Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(env.output(), Print(v))
	return v, nil
}

func jsonBuiltin(env *Env, args *List) (Object, error) {
	v, err := Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	s, err := PrintJSON(v)
	if err != nil {
		return nil, err
	}
	return String(s), nil
}
