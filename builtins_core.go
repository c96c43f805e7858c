package glisp

import (
	"fmt"
)

func coreBuiltins() []builtinSpec {
	return []builtinSpec{
		{"quote", 1, 1, quote, "(quote expr) returns expr unevaluated"},
		{"eval", 1, 1, evalBuiltin, "(eval expr) evaluates a quoted expression or a string of source"},
		{"begin", 0, -1, begin, "(begin expr...) evaluates each expression and returns the last"},
		{"let", 1, -1, let, "(let ((name value)...) body...) binds values computed in the outer scope"},
		{"letn", 1, -1, letn, "(letn ((name value)...) body...) binds values in order, each seeing the previous"},
		{"set", 2, -1, set, "(set 'name value...) assigns existing bindings"},
		{"setq", 2, -1, setq, "(setq name value...) assigns existing bindings without quoting"},
		{"swap", 2, 2, swap, "(swap a b) exchanges the values of two bindings"},
		{"for", 1, -1, forBuiltin, "(for (x list) body...), (for (i start end step) body...) or (for (((i 0)) cond step) body...)"},
		{"while", 1, -1, while, "(while cond body...) repeats body while cond holds"},
		{"defer", 1, 1, deferBuiltin, "(defer expr) evaluates expr when the current scope closes"},
		{"apply", 2, 2, apply, "(apply f list) calls f with the list items as arguments"},
		{"map", 2, 2, mapBuiltin, "(map f list) returns a list of f applied to each item"},
		{"filter", 2, 2, filter, "(filter f list) returns the items for which f holds"},
		{"curry", 2, -1, curry, "(curry f args...) returns f with leading arguments fixed"},
		{"ifdef", 1, 1, ifdef, "(ifdef name) reports whether name resolves"},
		{"locate", 1, 1, locate, "(locate name) returns the environment binding name, or nil"},
		{"undef", 1, 1, undef, "(undef name) removes a binding"},
		{"symbols", 0, 1, symbols, "(symbols [env]) lists the names bound in a scope"},
		{"help", 1, 1, help, "(help name) shows the documentation of a builtin or lambda"},
		{"constant", 2, 2, constant, "(constant name value) binds a global that can never change"},
	}
}

func quote(env *Env, args *List) (Object, error) {
	return Quote(args.items[0]), nil
}

func evalBuiltin(env *Env, args *List) (Object, error) {
	v, err := Arg(env, args, 0)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case *List:
		if t.quoted {
			return Eval(env, t.Unquote())
		}
	case String:
		exprs, err := ReadAll(string(t))
		if err != nil {
			return nil, err
		}
		return evalBody(env, exprs)
	}
	return Eval(env, v)
}

func begin(env *Env, args *List) (Object, error) {
	return evalBody(env, args.items)
}

type letBinding struct {
	name string
	expr Object
}

// letBindings reads ((name expr)...) without evaluating anything. A bare
// name or a one-element pair binds Nil.
func letBindings(name string, obj Object) ([]letBinding, error) {
	l, ok := obj.(*List)
	if !ok {
		return nil, Requires(name, "binding list", 0)
	}
	var out []letBinding
	for _, item := range l.Data() {
		switch t := item.(type) {
		case Symbol:
			out = append(out, letBinding{string(t), Nil})
		case *List:
			pair := t.Data()
			if len(pair) == 0 || len(pair) > 2 {
				return nil, newError(TypeMismatch, "(%s: malformed binding %s)", name, Print(t))
			}
			sym, ok := pair[0].(Symbol)
			if !ok {
				return nil, newError(TypeMismatch, "(%s: binding name must be a symbol, got %s)", name, Print(pair[0]))
			}
			var expr Object = Nil
			if len(pair) == 2 {
				expr = pair[1]
			}
			out = append(out, letBinding{string(sym), expr})
		default:
			return nil, newError(TypeMismatch, "(%s: malformed binding %s)", name, Print(item))
		}
	}
	return out, nil
}

func let(env *Env, args *List) (Object, error) {
	bindings, err := letBindings("let", args.items[0])
	if err != nil {
		return nil, err
	}
	values := make([]Object, len(bindings))
	for i, b := range bindings {
		if values[i], err = Eval(env, b.expr); err != nil {
			return nil, err
		}
	}
	scope := NewEnv(env)
	defer scope.Close()
	for i, b := range bindings {
		if err := scope.Put(b.name, values[i]); err != nil {
			return nil, err
		}
	}
	return evalBody(scope, args.items[1:])
}

func letn(env *Env, args *List) (Object, error) {
	bindings, err := letBindings("letn", args.items[0])
	if err != nil {
		return nil, err
	}
	scope := NewEnv(env)
	defer scope.Close()
	for _, b := range bindings {
		v, err := Eval(scope, b.expr)
		if err != nil {
			return nil, err
		}
		if err := scope.Put(b.name, v); err != nil {
			return nil, err
		}
	}
	return evalBody(scope, args.items[1:])
}

func set(env *Env, args *List) (Object, error) {
	return assignPairs(env, args, "set", ArgQuotedSymbol)
}

func setq(env *Env, args *List) (Object, error) {
	return assignPairs(env, args, "setq", ArgSymbol)
}

func assignPairs(env *Env, args *List, name string,
	symbol func(*Env, *List, int, string) (string, error)) (Object, error) {
	if args.Len()%2 != 0 {
		return nil, newError(ArityMismatch, "%s: expects name and value pairs, got %d arguments", name, args.Len())
	}
	var result Object = Nil
	for i := 0; i < args.Len(); i += 2 {
		sym, err := symbol(env, args, i, name)
		if err != nil {
			return nil, err
		}
		v, err := Arg(env, args, i+1)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(sym, v); err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func swap(env *Env, args *List) (Object, error) {
	a, err := ArgSymbol(env, args, 0, "swap")
	if err != nil {
		return nil, err
	}
	b, err := ArgSymbol(env, args, 1, "swap")
	if err != nil {
		return nil, err
	}
	av, err := env.Resolve(a)
	if err != nil {
		return nil, err
	}
	bv, err := env.Resolve(b)
	if err != nil {
		return nil, err
	}
	if err := env.Assign(a, bv); err != nil {
		return nil, err
	}
	if err := env.Assign(b, av); err != nil {
		return nil, err
	}
	return bv, nil
}

// forBuiltin picks the loop shape from the control clause. Every shape runs
// in one child scope shared by all iterations.
func forBuiltin(env *Env, args *List) (Object, error) {
	control, ok := args.items[0].(*List)
	if !ok || control.quoted || control.Len() < 2 {
		return nil, Requires("for", "control clause", 0)
	}
	scope := NewEnv(env)
	defer scope.Close()

	items := control.items
	if _, ok := items[0].(*List); ok {
		return forClassic(scope, control, args.items[1:])
	}
	sym, ok := items[0].(Symbol)
	if !ok {
		return nil, newError(TypeMismatch, "(for: loop variable must be a symbol, got %s)", Print(items[0]))
	}
	switch len(items) {
	case 2:
		return forEach(scope, string(sym), items[1], args.items[1:])
	case 3, 4:
		return forRange(scope, string(sym), items[1:], args.items[1:])
	}
	return nil, newError(ArityMismatch, "(for: control clause has %d elements)", len(items))
}

func forEach(scope *Env, name string, listExpr Object, body []Object) (Object, error) {
	v, err := Value(scope, listExpr)
	if err != nil {
		return nil, err
	}
	l, ok := v.(*List)
	if !ok || !l.quoted {
		if v == Nil {
			return Nil, nil
		}
		return nil, Requires("for", "quoted list", 1)
	}
	var result Object = Nil
	for _, item := range l.Data() {
		scope.setLocal(name, item, false)
		if result, err = evalBody(scope, body); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func forRange(scope *Env, name string, bounds []Object, body []Object) (Object, error) {
	nums := make([]Object, len(bounds))
	for i, b := range bounds {
		v, err := Value(scope, b)
		if err != nil {
			return nil, err
		}
		if nums[i], err = ToNumber(scope, v); err != nil {
			return nil, Requires("for", "number", i+1)
		}
	}
	var step Object = Int(1)
	if len(nums) == 3 {
		step = nums[2]
	}
	if toFloat(step) == 0 {
		return nil, newError(Custom, "(for: step must not be zero)")
	}

	var result Object = Nil
	run := func(i Object) error {
		scope.setLocal(name, i, false)
		var err error
		result, err = evalBody(scope, body)
		return err
	}

	start, end := nums[0], nums[1]
	si, ok1 := start.(Int)
	ei, ok2 := end.(Int)
	st, ok3 := step.(Int)
	if ok1 && ok2 && ok3 {
		for i := si; (st > 0 && i <= ei) || (st < 0 && i >= ei); i += st {
			if err := run(i); err != nil {
				return nil, err
			}
		}
		return result, nil
	}
	sf, ef, stf := toFloat(start), toFloat(end), toFloat(step)
	for i := sf; (stf > 0 && i <= ef) || (stf < 0 && i >= ef); i += stf {
		if err := run(Double(i)); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// forClassic is ((name init)...) cond step followed by the body
func forClassic(scope *Env, control *List, body []Object) (Object, error) {
	items := control.items
	if len(items) != 3 {
		return nil, newError(ArityMismatch, "(for: classic loop takes bindings, condition and step)")
	}
	bindings, err := letBindings("for", items[0])
	if err != nil {
		return nil, err
	}
	for _, b := range bindings {
		v, err := Eval(scope, b.expr)
		if err != nil {
			return nil, err
		}
		scope.setLocal(b.name, v, false)
	}
	var result Object = Nil
	for {
		ok, err := Truthy(scope, items[1])
		if err != nil {
			return nil, err
		}
		if !ok {
			return result, nil
		}
		if result, err = evalBody(scope, body); err != nil {
			return nil, err
		}
		if _, err := Eval(scope, items[2]); err != nil {
			return nil, err
		}
	}
}

func while(env *Env, args *List) (Object, error) {
	var result Object = Nil
	for {
		ok, err := Truthy(env, args.items[0])
		if err != nil {
			return nil, err
		}
		if !ok {
			return result, nil
		}
		if result, err = evalBody(env, args.items[1:]); err != nil {
			return nil, err
		}
	}
}

func deferBuiltin(env *Env, args *List) (Object, error) {
	env.Defer(args.items[0])
	return Nil, nil
}

func apply(env *Env, args *List) (Object, error) {
	fn, err := ArgCallable(env, args, 0, "apply")
	if err != nil {
		return nil, err
	}
	l, err := ArgList(env, args, 1, "apply")
	if err != nil {
		return nil, err
	}
	return Call(env, fn, l.Data()...)
}

func mapBuiltin(env *Env, args *List) (Object, error) {
	fn, err := ArgCallable(env, args, 0, "map")
	if err != nil {
		return nil, err
	}
	l, err := ArgList(env, args, 1, "map")
	if err != nil {
		return nil, err
	}
	data := l.Data()
	out := make([]Object, len(data))
	for i, item := range data {
		if out[i], err = Call(env, fn, item); err != nil {
			return nil, err
		}
	}
	return NewData(out...), nil
}

func filter(env *Env, args *List) (Object, error) {
	fn, err := ArgCallable(env, args, 0, "filter")
	if err != nil {
		return nil, err
	}
	l, err := ArgList(env, args, 1, "filter")
	if err != nil {
		return nil, err
	}
	out := []Object{}
	for _, item := range l.Data() {
		v, err := Call(env, fn, item)
		if err != nil {
			return nil, err
		}
		if ok, err := Truthy(env, evaluated{v}); err != nil {
			return nil, err
		} else if ok {
			out = append(out, item)
		}
	}
	return NewData(out...), nil
}

// curry returns a lambda that calls fn with the bound values followed by
// its own arguments. A lambda keeps its remaining parameter names; anything
// else gets a single parameter.
func curry(env *Env, args *List) (Object, error) {
	fn, err := ArgCallable(env, args, 0, "curry")
	if err != nil {
		return nil, err
	}
	bound, err := Args(env, args.Tail())
	if err != nil {
		return nil, err
	}
	var params []string
	if l, ok := fn.(*Lambda); ok {
		if len(bound) > len(l.Params) {
			return nil, newError(ArityMismatch, "curry: lambda takes %d arguments, got %d", len(l.Params), len(bound))
		}
		for i := range l.Params[len(bound):] {
			params = append(params, fmt.Sprintf("_curry%d", i))
		}
	} else {
		params = []string{"_curry0"}
	}
	call := []Object{evaluated{fn}}
	for _, v := range bound {
		call = append(call, evaluated{v})
	}
	for _, p := range params {
		call = append(call, Symbol(p))
	}
	return &Lambda{Params: params, Body: []Object{NewList(call...)}, Env: env}, nil
}

// soft reports whether err is an ordinary lookup failure rather than a fault
func soft(err error) bool {
	return IsKind(err, UnboundSymbol) || IsKind(err, IndexOutOfRange) || IsKind(err, TypeMismatch)
}

func ifdef(env *Env, args *List) (Object, error) {
	name, err := ArgSymbol(env, args, 0, "ifdef")
	if err != nil {
		return nil, err
	}
	if _, err := env.Resolve(name); err != nil {
		if soft(err) {
			return False, nil
		}
		return nil, err
	}
	return True, nil
}

func locate(env *Env, args *List) (Object, error) {
	name, err := ArgSymbol(env, args, 0, "locate")
	if err != nil {
		return nil, err
	}
	p, err := ParsePath(name)
	if err != nil {
		return nil, err
	}
	owner := env.owner(p.Prefix)
	if owner == nil {
		return Nil, nil
	}
	if len(p.Stems) > 0 {
		if _, err := p.resolve(owner.vars[p.Prefix].value); err != nil {
			if soft(err) {
				return Nil, nil
			}
			return nil, err
		}
	}
	return owner, nil
}

func undef(env *Env, args *List) (Object, error) {
	name, err := ArgSymbol(env, args, 0, "undef")
	if err != nil {
		return nil, err
	}
	if err := env.Erase(name); err != nil {
		if IsKind(err, ConstBinding) {
			return nil, err
		}
		if soft(err) {
			return False, nil
		}
		return nil, err
	}
	return True, nil
}

func symbols(env *Env, args *List) (Object, error) {
	scope := env
	if args.Len() == 1 {
		var err error
		if scope, err = ArgEnv(env, args, 0, "symbols"); err != nil {
			return nil, err
		}
	}
	names := scope.Names()
	out := make([]Object, len(names))
	for i, n := range names {
		out[i] = Symbol(n)
	}
	return NewData(out...), nil
}

func help(env *Env, args *List) (Object, error) {
	name, err := ArgSymbol(env, args, 0, "help")
	if err != nil {
		return nil, err
	}
	v, err := env.Resolve(name)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case Builtin:
		if env.interp == nil {
			return String(""), nil
		}
		return String(env.interp.registry.Info(t).Help), nil
	case *Lambda:
		return String(t.Doc), nil
	}
	return nil, Requires("help", "function", 0)
}

func constant(env *Env, args *List) (Object, error) {
	name, err := ArgSymbol(env, args, 0, "constant")
	if err != nil {
		return nil, err
	}
	v, err := Arg(env, args, 1)
	if err != nil {
		return nil, err
	}
	if err := env.Root().DefineConst(name, v); err != nil {
		return nil, err
	}
	return v, nil
}
