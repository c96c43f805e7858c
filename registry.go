package glisp

import (
	"fmt"
)

// BuiltinFunc is the single calling convention for native functions. args
// holds the raw, unevaluated argument expressions; the function decides
// which of them to evaluate.
type BuiltinFunc func(env *Env, args *List) (Object, error)

// BuiltinInfo describes one registered builtin. Max -1 means unbounded.
type BuiltinInfo struct {
	Name string
	Min  int
	Max  int
	Fn   BuiltinFunc
	Help string
}

// Registry is an append-only table of builtins. A Builtin value is an index
// into it.
type Registry struct {
	infos []BuiltinInfo
	index map[string]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Register appends a builtin. Names must be unique.
func (r *Registry) Register(name string, min, max int, fn BuiltinFunc, help string) error {
	if _, dup := r.index[name]; dup {
		return fmt.Errorf("builtin %q registered twice", name)
	}
	if max >= 0 && max < min {
		return fmt.Errorf("builtin %q: max arity %d below min %d", name, max, min)
	}
	r.index[name] = len(r.infos)
	r.infos = append(r.infos, BuiltinInfo{Name: name, Min: min, Max: max, Fn: fn, Help: help})
	return nil
}

func (r *Registry) Lookup(name string) (Builtin, bool) {
	i, ok := r.index[name]
	return Builtin(i), ok
}

func (r *Registry) Info(b Builtin) BuiltinInfo {
	return r.infos[b]
}

func (r *Registry) Len() int {
	return len(r.infos)
}

// Names lists builtins in registration order, so Names()[i] is Builtin(i)
func (r *Registry) Names() []string {
	names := make([]string, len(r.infos))
	for i, info := range r.infos {
		names[i] = info.Name
	}
	return names
}

func (r *Registry) call(env *Env, b Builtin, args *List) (Object, error) {
	if int(b) < 0 || int(b) >= len(r.infos) {
		return nil, newError(Custom, "unknown builtin #%d", int(b))
	}
	info := r.infos[b]
	n := args.Len()
	if info.Min > 0 && n < info.Min {
		return nil, newError(ArityMismatch, "%s: expects at least %d arguments, got %d", info.Name, info.Min, n)
	}
	if info.Max >= 0 && n > info.Max {
		return nil, newError(ArityMismatch, "%s: expects at most %d arguments, got %d", info.Name, info.Max, n)
	}
	return info.Fn(env, args)
}

type builtinSpec struct {
	name     string
	min, max int
	fn       BuiltinFunc
	help     string
}

func registerAll(r *Registry, specs []builtinSpec) error {
	for _, s := range specs {
		if err := r.Register(s.name, s.min, s.max, s.fn, s.help); err != nil {
			return err
		}
	}
	return nil
}

// RegisterCore installs the language builtins
func RegisterCore(r *Registry) error {
	for _, group := range [][]builtinSpec{coreBuiltins(), mathBuiltins(), listBuiltins(), typeBuiltins()} {
		if err := registerAll(r, group); err != nil {
			return err
		}
	}
	return nil
}
