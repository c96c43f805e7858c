package glisp

import (
	"math"
)

func mathBuiltins() []builtinSpec {
	return []builtinSpec{
		{"+", 0, -1, add, "(+ n...) sum"},
		{"-", 1, -1, sub, "(- n...) difference, or negation with one argument"},
		{"*", 0, -1, mul, "(* n...) product"},
		{"/", 2, -1, div, "(/ n d...) quotient; ints divide with truncation"},
		{"%", 2, 2, mod, "(% n d) remainder"},
		{"abs", 1, 1, abs, "(abs n) absolute value"},
		{"min", 1, -1, minBuiltin, "(min n...) smallest argument"},
		{"max", 1, -1, maxBuiltin, "(max n...) largest argument"},
		{"=", 1, -1, eq, "(= a b...) strict equality, no conversion between kinds"},
		{"!=", 2, -1, neq, "(!= a b...) negation of ="},
		{"<", 1, -1, lt, "(< a b...) strictly increasing"},
		{">", 1, -1, gt, "(> a b...) strictly decreasing"},
		{"<=", 1, -1, lte, "(<= a b...) non-decreasing"},
		{">=", 1, -1, gte, "(>= a b...) non-increasing"},
		{"not", 1, 1, not, "(not x) logical negation"},
	}
}

// numbers evaluates every argument and converts it through ToNumber
func numbers(env *Env, args *List, name string) ([]Object, error) {
	out := make([]Object, args.Len())
	for i := range out {
		n, err := ArgNumber(env, args, i, name)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func add(env *Env, args *List) (Object, error) {
	if args.Len() == 0 {
		return Int(0), nil
	}
	return agg(env, args, "+", nil,
		func(r, x int64) int64 {
			return r + x
		},
		func(r, x float64) float64 {
			return r + x
		})
}

func sub(env *Env, args *List) (Object, error) {
	if args.Len() == 1 {
		n, err := ArgNumber(env, args, 0, "-")
		if err != nil {
			return nil, err
		}
		if i, ok := n.(Int); ok {
			return -i, nil
		}
		return -n.(Double), nil
	}
	return agg(env, args, "-", nil,
		func(r, x int64) int64 {
			return r - x
		},
		func(r, x float64) float64 {
			return r - x
		})
}

func mul(env *Env, args *List) (Object, error) {
	if args.Len() == 0 {
		return Int(1), nil
	}
	return agg(env, args, "*", nil,
		func(r, x int64) int64 {
			return r * x
		},
		func(r, x float64) float64 {
			return r * x
		})
}

func div(env *Env, args *List) (Object, error) {
	return agg(env, args, "/", nonZero("/"),
		func(r, x int64) int64 {
			return r / x
		},
		func(r, x float64) float64 {
			return r / x
		})
}

func mod(env *Env, args *List) (Object, error) {
	return agg(env, args, "%", nonZero("%"),
		func(r, x int64) int64 {
			return r % x
		},
		math.Mod)
}

// nonZero rejects a zero divisor of either kind
func nonZero(name string) func(Object) error {
	return func(n Object) error {
		if toFloat(n) == 0 {
			return newError(DivideByZero, "(%s: division by zero)", name)
		}
		return nil
	}
}

// agg folds the arguments left to right. The accumulator stays an int until
// an operand is a double.
func agg(env *Env, args *List, name string, check func(Object) error,
	accumInt func(int64, int64) int64, accumFloat func(float64, float64) float64) (Object, error) {
	nums, err := numbers(env, args, name)
	if err != nil {
		return nil, err
	}

	ret := nums[0]
	for _, n := range nums[1:] {
		if check != nil {
			if err := check(n); err != nil {
				return nil, err
			}
		}
		ri, rIsInt := ret.(Int)
		ai, aIsInt := n.(Int)
		if rIsInt && aIsInt {
			ret = Int(accumInt(int64(ri), int64(ai)))
		} else {
			ret = Double(accumFloat(toFloat(ret), toFloat(n)))
		}
	}
	return ret, nil
}

func abs(env *Env, args *List) (Object, error) {
	n, err := ArgNumber(env, args, 0, "abs")
	if err != nil {
		return nil, err
	}
	switch t := n.(type) {
	case Int:
		if t < 0 {
			return -t, nil
		}
		return t, nil
	default:
		return Double(math.Abs(toFloat(t))), nil
	}
}

func minBuiltin(env *Env, args *List) (Object, error) {
	return extreme(env, args, "min", false)
}

func maxBuiltin(env *Env, args *List) (Object, error) {
	return extreme(env, args, "max", true)
}

func extreme(env *Env, args *List, name string, largest bool) (Object, error) {
	nums, err := numbers(env, args, name)
	if err != nil {
		return nil, err
	}
	best := nums[0]
	for _, n := range nums[1:] {
		a, b := n, best
		if largest {
			a, b = best, n
		}
		less, err := lessValues(env, a, b)
		if err != nil {
			return nil, err
		}
		if less {
			best = n
		}
	}
	return best, nil
}

func eq(env *Env, args *List) (Object, error) {
	values, err := Args(env, args)
	if err != nil {
		return nil, err
	}
	for _, v := range values[1:] {
		if !Equal(values[0], v) {
			return False, nil
		}
	}
	return True, nil
}

func neq(env *Env, args *List) (Object, error) {
	v, err := eq(env, args)
	if err != nil {
		return nil, err
	}
	return MakeBool(v == False), nil
}

func lt(env *Env, args *List) (Object, error) {
	return order(env, args, func(x, y Object) (bool, error) {
		return lessValues(env, x, y)
	})
}

func gt(env *Env, args *List) (Object, error) {
	return order(env, args, func(x, y Object) (bool, error) {
		return lessValues(env, y, x)
	})
}

func lte(env *Env, args *List) (Object, error) {
	return order(env, args, func(x, y Object) (bool, error) {
		less, err := lessValues(env, y, x)
		return !less, err
	})
}

func gte(env *Env, args *List) (Object, error) {
	return order(env, args, func(x, y Object) (bool, error) {
		less, err := lessValues(env, x, y)
		return !less, err
	})
}

// order checks that every adjacent pair of evaluated arguments satisfies ok
func order(env *Env, args *List, ok func(x, y Object) (bool, error)) (Object, error) {
	values, err := Args(env, args)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(values); i++ {
		ret, err := ok(values[i-1], values[i])
		if err != nil {
			return nil, err
		}
		if !ret {
			return False, nil
		}
	}
	return True, nil
}

func not(env *Env, args *List) (Object, error) {
	ok, err := ArgBool(env, args, 0)
	if err != nil {
		return nil, err
	}
	return MakeBool(!ok), nil
}
