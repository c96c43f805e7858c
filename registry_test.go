package glisp

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	noop := func(env *Env, args *List) (Object, error) { return Nil, nil }

	require.NoError(t, r.Register("a", 0, 0, noop, "first"))
	require.NoError(t, r.Register("b", 1, -1, noop, "second"))
	assert.Error(t, r.Register("a", 0, 1, noop, ""))
	assert.Error(t, r.Register("c", 2, 1, noop, ""))

	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Equal(t, 2, r.Len())

	b, ok := r.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, Builtin(1), b)
	info := r.Info(b)
	assert.Equal(t, "b", info.Name)
	assert.Equal(t, 1, info.Min)
	assert.Equal(t, -1, info.Max)
	assert.Equal(t, "second", info.Help)

	_, ok = r.Lookup("c")
	assert.False(t, ok)
}

func TestRegistryNamesMatchGlobals(t *testing.T) {
	in := newTestInterpreter(t)
	for i, name := range in.Registry().Names() {
		v, ok := in.Global().Find(name)
		require.True(t, ok, name)
		assert.Equal(t, Builtin(i), v, name)
		assert.True(t, in.Global().IsConst(name), name)
	}
}

func TestCustomBuiltins(t *testing.T) {
	register := func(r *Registry) error {
		if err := r.Register("ping", 0, 0, func(env *Env, args *List) (Object, error) {
			return String("pong"), nil
		}, "(ping)"); err != nil {
			return err
		}
		return r.Register("argc", 0, -1, func(env *Env, args *List) (Object, error) {
			return Int(args.Len()), nil
		}, "(argc x...)")
	}
	in := newTestInterpreter(t, WithBuiltins(register))

	v, err := in.EvalString("(ping)")
	require.NoError(t, err)
	assert.Equal(t, String("pong"), v)

	_, err = in.EvalString("(ping 1)")
	assert.True(t, IsKind(err, ArityMismatch))

	v, err = in.EvalString("(argc (undefined) 2 3)")
	require.NoError(t, err)
	assert.Equal(t, Int(3), v)

	v, err = in.EvalString("(help ping)")
	require.NoError(t, err)
	assert.Equal(t, String("(ping)"), v)
}

func TestDuplicateBuiltinRejected(t *testing.T) {
	_, err := New(WithOutput(io.Discard), WithBuiltins(func(r *Registry) error {
		return r.Register("car", 1, 1, car, "")
	}))
	assert.Error(t, err)
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{
		1: "1st", 2: "2nd", 3: "3rd", 4: "4th", 11: "11th", 12: "12th",
		13: "13th", 21: "21st", 22: "22nd", 101: "101st", 111: "111th",
	}
	for n, want := range cases {
		assert.Equal(t, want, ordinal(n))
	}
}
