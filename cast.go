package glisp

import (
	"strings"
)

// Truthy casts obj to a boolean, evaluating it first when it is a symbol,
// a call or a special form. Numbers are true when non-zero, strings when
// they hold a number, lists when they hold data. Everything else is false.
func Truthy(env *Env, obj Object) (bool, error) {
	v, err := Value(env, obj)
	if err != nil {
		return false, err
	}
	switch t := v.(type) {
	case Bool:
		return bool(t), nil
	case Int:
		return t != 0, nil
	case Double:
		return t != 0, nil
	case String:
		_, _, ok := parseNumber(strings.TrimSpace(string(t)))
		return ok, nil
	case *List:
		return len(t.Data()) > 0, nil
	default:
		return false, nil
	}
}

// ToNumber casts obj to Int or Double. Strings must hold a complete numeric
// literal; quoted lists are data and never numbers.
func ToNumber(env *Env, obj Object) (Object, error) {
	return toNumber(env, obj, 0)
}

const maxResolveDepth = 64

func toNumber(env *Env, obj Object, depth int) (Object, error) {
	if depth > maxResolveDepth {
		return nil, newError(TypeMismatch, "cannot convert %s to a number: resolution too deep", Print(obj))
	}
	switch t := obj.(type) {
	case Int, Double:
		return t, nil
	case String:
		n, _, ok := parseNumber(strings.TrimSpace(string(t)))
		if !ok {
			return nil, newError(TypeMismatch, "cannot convert %s to a number", Print(t))
		}
		return n, nil
	case Symbol:
		v, err := env.Resolve(string(t))
		if err != nil {
			return nil, err
		}
		return toNumber(env, v, depth+1)
	case *List:
		if t.quoted {
			return nil, newError(TypeMismatch, "cannot convert quoted list %s to a number", Print(t))
		}
		v, err := Eval(env, t)
		if err != nil {
			return nil, err
		}
		return toNumber(env, v, depth+1)
	case form:
		v, err := t.eval(env)
		if err != nil {
			return nil, err
		}
		return toNumber(env, v, depth+1)
	default:
		return nil, newError(TypeMismatch, "cannot convert %s to a number", obj.Kind())
	}
}

func toFloat(n Object) float64 {
	switch t := n.(type) {
	case Int:
		return float64(t)
	case Double:
		return float64(t)
	}
	return 0
}

func isNumber(obj Object) bool {
	switch obj.(type) {
	case Int, Double:
		return true
	}
	return false
}
