package glisp

// Equal is strict, type-exact equality. Values of different kinds are never
// equal, so (= 1 1.0) is false.
func Equal(a, b Object) bool {
	switch x := a.(type) {
	case *List:
		y, ok := b.(*List)
		return ok && listEqual(x, y)
	case *Env:
		y, ok := b.(*Env)
		return ok && envEqual(x, y)
	case *Regex:
		y, ok := b.(*Regex)
		return ok && x.Source == y.Source
	case *Lambda, *Opaque:
		return a == b
	case evaluated:
		return Equal(x.value, b)
	case form:
		return a == b
	}
	if y, ok := b.(evaluated); ok {
		return Equal(a, y.value)
	}
	return a == b
}

func listEqual(x, y *List) bool {
	if x == y {
		return true
	}
	if x.quoted != y.quoted || len(x.items) != len(y.items) {
		return false
	}
	for i := range x.items {
		if !Equal(x.items[i], y.items[i]) {
			return false
		}
	}
	return true
}

func envEqual(x, y *Env) bool {
	if x == y {
		return true
	}
	if len(x.vars) != len(y.vars) || x.parent != y.parent {
		return false
	}
	for name, bx := range x.vars {
		by, ok := y.vars[name]
		if !ok || !Equal(bx.value, by.value) {
			return false
		}
	}
	return true
}

// Less orders a before b. Numbers compare numerically (a string facing a
// number is converted), strings by bytes, bools false before true, symbols
// by name and lists element-wise. Any other pairing is an error.
func Less(env *Env, a, b Object) (bool, error) {
	x, err := Value(env, a)
	if err != nil {
		return false, err
	}
	y, err := Value(env, b)
	if err != nil {
		return false, err
	}
	return lessValues(env, x, y)
}

// lessValues compares without evaluating, so list elements are taken as data
func lessValues(env *Env, x, y Object) (bool, error) {
	if isNumber(x) || isNumber(y) {
		nx, err := ToNumber(env, x)
		if err != nil {
			return false, incomparable(x, y)
		}
		ny, err := ToNumber(env, y)
		if err != nil {
			return false, incomparable(x, y)
		}
		ix, xInt := nx.(Int)
		iy, yInt := ny.(Int)
		if xInt && yInt {
			return ix < iy, nil
		}
		return toFloat(nx) < toFloat(ny), nil
	}
	switch vx := x.(type) {
	case String:
		if vy, ok := y.(String); ok {
			return vx < vy, nil
		}
	case Bool:
		if vy, ok := y.(Bool); ok {
			return !bool(vx) && bool(vy), nil
		}
	case Symbol:
		if vy, ok := y.(Symbol); ok {
			return vx < vy, nil
		}
	case *List:
		if vy, ok := y.(*List); ok {
			return listLess(env, vx.Data(), vy.Data())
		}
	}
	return false, incomparable(x, y)
}

func listLess(env *Env, x, y []Object) (bool, error) {
	for i := 0; i < len(x) && i < len(y); i++ {
		lt, err := lessValues(env, x[i], y[i])
		if err != nil || lt {
			return lt, err
		}
		gt, err := lessValues(env, y[i], x[i])
		if err != nil || gt {
			return false, err
		}
	}
	return len(x) < len(y), nil
}

func incomparable(x, y Object) error {
	return newError(TypeMismatch, "cannot order %s and %s", x.Kind(), y.Kind())
}
