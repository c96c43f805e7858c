package glisp

import (
	"sort"
	"unicode/utf8"
)

func listBuiltins() []builtinSpec {
	return []builtinSpec{
		{"list", 0, -1, list, "(list x...) builds a quoted list of the evaluated arguments"},
		{"cons", 2, 2, cons, "(cons x list) prepends x"},
		{"car", 1, 1, car, "(car list) first item, or nil"},
		{"first", 1, 1, car, "(first list) first item, or nil"},
		{"cdr", 1, 1, cdr, "(cdr list) all items but the first"},
		{"rest", 1, 1, cdr, "(rest list) all items but the first"},
		{"last", 1, 1, last, "(last list) final item, or nil"},
		{"nth", 2, 2, nth, "(nth i list) item at i; negative counts from the end"},
		{"length", 1, 1, length, "(length x) items in a list, characters in a string, bindings in an environment"},
		{"append", 0, -1, appendBuiltin, "(append list...) concatenates lists, or strings"},
		{"push", 2, 3, push, "(push x list [i]) inserts x, at the end by default, and rebinds a named list"},
		{"pop", 1, 2, pop, "(pop list [i]) removes and returns an item, the last by default, and rebinds a named list"},
		{"reverse", 1, 1, reverse, "(reverse x) reversed copy of a list or string"},
		{"sort", 1, 2, sortBuiltin, "(sort list [less]) sorted copy, ordered by < or by a comparator"},
		{"slice", 2, 3, slice, "(slice x start [n]) sub-list or substring"},
	}
}

// items reads argument i as data. Nil counts as the empty list.
func items(env *Env, args *List, i int, name string) ([]Object, error) {
	v, err := Arg(env, args, i)
	if err != nil {
		return nil, err
	}
	if v == Nil {
		return nil, nil
	}
	l, ok := v.(*List)
	if !ok || !l.quoted {
		return nil, Requires(name, "quoted list", i)
	}
	return l.Data(), nil
}

func list(env *Env, args *List) (Object, error) {
	values, err := Args(env, args)
	if err != nil {
		return nil, err
	}
	return NewData(values...), nil
}

func cons(env *Env, args *List) (Object, error) {
	x, err := Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	tail, err := Arg(env, args, 1)
	if err != nil {
		return nil, err
	}
	if tail == Nil {
		return NewData(x), nil
	}
	if l, ok := tail.(*List); ok && l.quoted {
		data := l.Data()
		out := make([]Object, 0, len(data)+1)
		return NewData(append(append(out, x), data...)...), nil
	}
	return NewData(x, tail), nil
}

func car(env *Env, args *List) (Object, error) {
	data, err := items(env, args, 0, "car")
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return Nil, nil
	}
	return data[0], nil
}

func cdr(env *Env, args *List) (Object, error) {
	data, err := items(env, args, 0, "cdr")
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return NewData(), nil
	}
	return NewData(append([]Object(nil), data[1:]...)...), nil
}

func last(env *Env, args *List) (Object, error) {
	data, err := items(env, args, 0, "last")
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return Nil, nil
	}
	return data[len(data)-1], nil
}

func nth(env *Env, args *List) (Object, error) {
	i, err := ArgInt(env, args, 0, "nth")
	if err != nil {
		return nil, err
	}
	data, err := items(env, args, 1, "nth")
	if err != nil {
		return nil, err
	}
	idx, err := resolveIndex(int(i), len(data))
	if err != nil {
		return nil, err
	}
	return data[idx], nil
}

func length(env *Env, args *List) (Object, error) {
	v, err := Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case NilValue:
		return Int(0), nil
	case String:
		return Int(utf8.RuneCountInString(string(t))), nil
	case *List:
		return Int(len(t.Data())), nil
	case *Env:
		return Int(t.Len()), nil
	}
	return nil, Requires("length", "list or string", 0)
}

func appendBuiltin(env *Env, args *List) (Object, error) {
	values, err := Args(env, args)
	if err != nil {
		return nil, err
	}
	if len(values) > 0 {
		if _, ok := values[0].(String); ok {
			var s string
			for i, v := range values {
				str, ok := v.(String)
				if !ok {
					return nil, Requires("append", "string", i)
				}
				s += string(str)
			}
			return String(s), nil
		}
	}
	var out []Object
	for i, v := range values {
		if v == Nil {
			continue
		}
		l, ok := v.(*List)
		if !ok || !l.quoted {
			return nil, Requires("append", "quoted list", i)
		}
		out = append(out, l.Data()...)
	}
	return NewData(out...), nil
}

// rebind stores a changed list back under the name it was read from. A
// literal argument has no name and is left alone.
func rebind(env *Env, args *List, i int, l *List) error {
	if name, ok := args.items[i].(Symbol); ok {
		return env.Assign(string(name), l)
	}
	return nil
}

// push builds a new list, so other holders of the old one never see x
func push(env *Env, args *List) (Object, error) {
	x, err := Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	l, err := ArgList(env, args, 1, "push")
	if err != nil {
		return nil, err
	}
	l, data := l.detach()
	at := data.Len()
	if args.Len() == 3 {
		i, err := ArgInt(env, args, 2, "push")
		if err != nil {
			return nil, err
		}
		at = int(i)
		if at < 0 {
			at += data.Len() + 1
		}
		if at < 0 || at > data.Len() {
			return nil, newError(IndexOutOfRange, "(push: index %d out of range for list of length %d)", i, data.Len())
		}
	}
	data.items = append(data.items, nil)
	copy(data.items[at+1:], data.items[at:])
	data.items[at] = x
	if err := rebind(env, args, 1, l); err != nil {
		return nil, err
	}
	return l, nil
}

func pop(env *Env, args *List) (Object, error) {
	l, err := ArgList(env, args, 0, "pop")
	if err != nil {
		return nil, err
	}
	l, data := l.detach()
	idx := data.Len() - 1
	if args.Len() == 2 {
		i, err := ArgInt(env, args, 1, "pop")
		if err != nil {
			return nil, err
		}
		if idx, err = resolveIndex(int(i), data.Len()); err != nil {
			return nil, err
		}
	} else if idx < 0 {
		return nil, newError(IndexOutOfRange, "pop from empty list")
	}
	v := data.items[idx]
	data.items = append(data.items[:idx], data.items[idx+1:]...)
	if err := rebind(env, args, 0, l); err != nil {
		return nil, err
	}
	return v, nil
}

func reverse(env *Env, args *List) (Object, error) {
	v, err := Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	if s, ok := v.(String); ok {
		runes := []rune(string(s))
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return String(runes), nil
	}
	data, err := items(env, args, 0, "reverse")
	if err != nil {
		return nil, err
	}
	out := make([]Object, len(data))
	for i, item := range data {
		out[len(data)-1-i] = item
	}
	return NewData(out...), nil
}

func sortBuiltin(env *Env, args *List) (Object, error) {
	data, err := items(env, args, 0, "sort")
	if err != nil {
		return nil, err
	}
	less := func(x, y Object) (bool, error) {
		return lessValues(env, x, y)
	}
	if args.Len() == 2 {
		fn, err := ArgCallable(env, args, 1, "sort")
		if err != nil {
			return nil, err
		}
		less = func(x, y Object) (bool, error) {
			v, err := Call(env, fn, x, y)
			if err != nil {
				return false, err
			}
			return Truthy(env, evaluated{v})
		}
	}

	out := append([]Object(nil), data...)
	var sortErr error
	sort.SliceStable(out, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		ok, err := less(out[i], out[j])
		if err != nil {
			sortErr = err
		}
		return ok
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return NewData(out...), nil
}

func slice(env *Env, args *List) (Object, error) {
	v, err := Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	start, err := ArgInt(env, args, 1, "slice")
	if err != nil {
		return nil, err
	}
	n := int64(-1)
	if args.Len() == 3 {
		if n, err = ArgInt(env, args, 2, "slice"); err != nil {
			return nil, err
		}
	}

	if s, ok := v.(String); ok {
		runes := []rune(string(s))
		lo, hi := bounds(int(start), int(n), len(runes))
		return String(runes[lo:hi]), nil
	}
	data, err := items(env, args, 0, "slice")
	if err != nil {
		return nil, err
	}
	lo, hi := bounds(int(start), int(n), len(data))
	return NewData(append([]Object(nil), data[lo:hi]...)...), nil
}

// bounds clamps start and count to [0, size]. A negative start counts from
// the end; a negative count runs to the end.
func bounds(start, n, size int) (int, int) {
	if start < 0 {
		start += size
	}
	start = max(0, min(start, size))
	end := size
	if n >= 0 {
		end = min(start+n, size)
	}
	return start, end
}
