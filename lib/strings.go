package lib

import (
	"fmt"
	"strings"

	"github.com/jpschroeder/glisp"
)

func stringBuiltins() []builtin {
	return []builtin{
		{"concat", 0, -1, concat, "(concat x...) joins the display form of each argument"},
		{"upper", 1, 1, mapString("upper", strings.ToUpper), "(upper s)"},
		{"lower", 1, 1, mapString("lower", strings.ToLower), "(lower s)"},
		{"trim", 1, 1, mapString("trim", strings.TrimSpace), "(trim s) strips surrounding whitespace"},
		{"split", 1, 2, split, "(split s [sep]) splits on sep, or on whitespace"},
		{"join", 1, 2, join, "(join list [sep]) joins the items' display form"},
		{"substr", 2, 3, substr, "(substr s start [n]) characters from start"},
		{"replace", 3, 3, replace, "(replace s old new) replaces every occurrence"},
		{"starts-with", 2, 2, testString("starts-with", strings.HasPrefix), "(starts-with s prefix)"},
		{"ends-with", 2, 2, testString("ends-with", strings.HasSuffix), "(ends-with s suffix)"},
		{"contains", 2, 2, testString("contains", strings.Contains), "(contains s sub)"},
		{"format", 1, -1, format, "(format layout x...) printf style formatting"},
	}
}

func concat(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	values, err := glisp.Args(env, args)
	if err != nil {
		return nil, err
	}
	var b strings.Builder
	for _, v := range values {
		b.WriteString(glisp.Display(v))
	}
	return glisp.String(b.String()), nil
}

func mapString(name string, fn func(string) string) glisp.BuiltinFunc {
	return func(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
		s, err := glisp.ArgString(env, args, 0, name)
		if err != nil {
			return nil, err
		}
		return glisp.String(fn(s)), nil
	}
}

func testString(name string, fn func(string, string) bool) glisp.BuiltinFunc {
	return func(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
		s, err := glisp.ArgString(env, args, 0, name)
		if err != nil {
			return nil, err
		}
		t, err := glisp.ArgString(env, args, 1, name)
		if err != nil {
			return nil, err
		}
		return glisp.MakeBool(fn(s, t)), nil
	}
}

func strs(parts []string) glisp.Object {
	out := make([]glisp.Object, len(parts))
	for i, p := range parts {
		out[i] = glisp.String(p)
	}
	return glisp.NewData(out...)
}

func split(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	s, err := glisp.ArgString(env, args, 0, "split")
	if err != nil {
		return nil, err
	}
	if args.Len() == 1 {
		return strs(strings.Fields(s)), nil
	}
	sep, err := glisp.ArgString(env, args, 1, "split")
	if err != nil {
		return nil, err
	}
	return strs(strings.Split(s, sep)), nil
}

func join(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	l, err := glisp.ArgList(env, args, 0, "join")
	if err != nil {
		return nil, err
	}
	sep := ""
	if args.Len() == 2 {
		if sep, err = glisp.ArgString(env, args, 1, "join"); err != nil {
			return nil, err
		}
	}
	data := l.Data()
	parts := make([]string, len(data))
	for i, item := range data {
		parts[i] = glisp.Display(item)
	}
	return glisp.String(strings.Join(parts, sep)), nil
}

func substr(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	s, err := glisp.ArgString(env, args, 0, "substr")
	if err != nil {
		return nil, err
	}
	start, err := glisp.ArgInt(env, args, 1, "substr")
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	lo := int(start)
	if lo < 0 {
		lo += len(runes)
	}
	lo = max(0, min(lo, len(runes)))
	hi := len(runes)
	if args.Len() == 3 {
		n, err := glisp.ArgInt(env, args, 2, "substr")
		if err != nil {
			return nil, err
		}
		if n < 0 {
			return nil, glisp.Requires("substr", "non-negative length", 2)
		}
		hi = min(lo+int(n), len(runes))
	}
	return glisp.String(runes[lo:hi]), nil
}

func replace(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	s, err := glisp.ArgString(env, args, 0, "replace")
	if err != nil {
		return nil, err
	}
	old, err := glisp.ArgString(env, args, 1, "replace")
	if err != nil {
		return nil, err
	}
	repl, err := glisp.ArgString(env, args, 2, "replace")
	if err != nil {
		return nil, err
	}
	return glisp.String(strings.ReplaceAll(s, old, repl)), nil
}

// format hands numbers, strings and booleans to fmt as native values; other
// objects are passed in source syntax
func format(env *glisp.Env, args *glisp.List) (glisp.Object, error) {
	layout, err := glisp.ArgString(env, args, 0, "format")
	if err != nil {
		return nil, err
	}
	values, err := glisp.Args(env, args.Tail())
	if err != nil {
		return nil, err
	}
	native := make([]any, len(values))
	for i, v := range values {
		switch t := v.(type) {
		case glisp.Int:
			native[i] = int64(t)
		case glisp.Double:
			native[i] = float64(t)
		case glisp.String:
			native[i] = string(t)
		case glisp.Bool:
			native[i] = bool(t)
		default:
			native[i] = glisp.Print(v)
		}
	}
	return glisp.String(fmt.Sprintf(layout, native...)), nil
}
