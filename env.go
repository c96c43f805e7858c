package glisp

import (
	"fmt"
	"log/slog"
	"sort"
)

type binding struct {
	value   Object
	isConst bool
}

// Env is one scope frame. It does not own its parent.
type Env struct {
	vars     map[string]*binding
	parent   *Env
	deferred []Object
	interp   *Interpreter
}

func (*Env) Kind() Kind { return KindEnv }
func (*Env) object()    {}

// NewEnv creates a frame below parent (which may be nil)
func NewEnv(parent *Env) *Env {
	e := &Env{vars: make(map[string]*binding), parent: parent}
	if parent != nil {
		e.interp = parent.interp
	}
	return e
}

func (e *Env) Parent() *Env              { return e.parent }
func (e *Env) Interpreter() *Interpreter { return e.interp }
func (e *Env) Len() int                  { return len(e.vars) }

// Root walks up to the outermost frame
func (e *Env) Root() *Env {
	r := e
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Find looks name up in this frame only
func (e *Env) Find(name string) (Object, bool) {
	p, err := ParsePath(name)
	if err != nil {
		return nil, false
	}
	b, ok := e.vars[p.Prefix]
	if !ok {
		return nil, false
	}
	v, err := p.resolve(b.value)
	return v, err == nil
}

// DeepFind looks name up along the parent chain
func (e *Env) DeepFind(name string) (Object, bool) {
	v, err := e.Resolve(name)
	return v, err == nil
}

// Resolve is DeepFind reporting why a lookup failed
func (e *Env) Resolve(name string) (Object, error) {
	p, err := ParsePath(name)
	if err != nil {
		return nil, err
	}
	owner := e.owner(p.Prefix)
	if owner == nil {
		return nil, newError(UnboundSymbol, "unbound symbol: %s", p.Prefix)
	}
	return p.resolve(owner.vars[p.Prefix].value)
}

// owner is the frame where a plain name is bound, or nil
func (e *Env) owner(name string) *Env {
	for f := e; f != nil; f = f.parent {
		if _, ok := f.vars[name]; ok {
			return f
		}
	}
	return nil
}

// IsConst reports whether the binding name resolves to is constant
func (e *Env) IsConst(name string) bool {
	f := e.owner(name)
	return f != nil && f.vars[name].isConst
}

func (e *Env) setLocal(name string, v Object, isConst bool) {
	if b, ok := e.vars[name]; ok {
		b.value = v
		b.isConst = b.isConst || isConst
		return
	}
	e.vars[name] = &binding{value: v, isConst: isConst}
}

// Define binds name in this frame, replacing any non-constant binding
func (e *Env) Define(name string, v Object) error {
	if b, ok := e.vars[name]; ok && b.isConst {
		return newError(ConstBinding, "cannot redefine constant %s", name)
	}
	e.setLocal(name, v, false)
	return nil
}

// DefineConst binds name in this frame and marks it constant
func (e *Env) DefineConst(name string, v Object) error {
	if b, ok := e.vars[name]; ok && b.isConst {
		return newError(ConstBinding, "cannot redefine constant %s", name)
	}
	e.setLocal(name, v, true)
	return nil
}

// Put stores v at a possibly path-addressed name in this frame, creating
// intermediate lists and environments as needed.
func (e *Env) Put(name string, v Object) error {
	p, err := ParsePath(name)
	if err != nil {
		return err
	}
	if len(p.Stems) == 0 {
		return e.Define(p.Prefix, v)
	}
	var cur Object
	if b, ok := e.vars[p.Prefix]; ok {
		cur = b.value
	}
	root, err := p.assign(cur, p.Stems, v)
	if err != nil {
		return err
	}
	e.setLocal(p.Prefix, root, false)
	return nil
}

// Assign mutates an existing binding found along the parent chain. It never
// creates a new top-level name.
func (e *Env) Assign(name string, v Object) error {
	p, err := ParsePath(name)
	if err != nil {
		return err
	}
	owner := e.owner(p.Prefix)
	if owner == nil {
		return newError(UnboundSymbol, "unbound symbol: %s", p.Prefix)
	}
	b := owner.vars[p.Prefix]
	if len(p.Stems) == 0 {
		if b.isConst {
			return newError(ConstBinding, "cannot assign to constant %s", p.Prefix)
		}
		b.value = v
		return nil
	}
	root, err := p.assign(b.value, p.Stems, v)
	if err != nil {
		return err
	}
	b.value = root
	return nil
}

// Erase removes name from the frame that binds it. Path names remove a
// field from the addressed environment.
func (e *Env) Erase(name string) error {
	p, err := ParsePath(name)
	if err != nil {
		return err
	}
	if len(p.Stems) == 0 {
		owner := e.owner(p.Prefix)
		if owner == nil {
			return newError(UnboundSymbol, "unbound symbol: %s", p.Prefix)
		}
		if owner.vars[p.Prefix].isConst {
			return newError(ConstBinding, "cannot erase constant %s", p.Prefix)
		}
		delete(owner.vars, p.Prefix)
		return nil
	}
	last := p.Stems[len(p.Stems)-1]
	if last.IsIndex {
		return newError(TypeMismatch, "%s: only environment fields can be erased", p)
	}
	parent := Path{Prefix: p.Prefix, Stems: p.Stems[:len(p.Stems)-1]}
	holder, err := e.Resolve(parent.String())
	if err != nil {
		return err
	}
	env, ok := holder.(*Env)
	if !ok {
		return newError(TypeMismatch, "%s is a %s, not an environment", parent, holder.Kind())
	}
	return env.Erase(last.Field)
}

// Names lists the names bound in this frame, sorted
func (e *Env) Names() []string {
	names := make([]string, 0, len(e.vars))
	for k := range e.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Defer queues obj to be evaluated when the frame is closed
func (e *Env) Defer(obj Object) {
	e.deferred = append(e.deferred, obj)
}

// Close runs deferred tasks in reverse order. Failures are logged and never
// returned.
func (e *Env) Close() {
	for len(e.deferred) > 0 {
		task := e.deferred[len(e.deferred)-1]
		e.deferred = e.deferred[:len(e.deferred)-1]
		if err := e.runDeferred(task); err != nil {
			e.logger().Warn("deferred task failed", "task", Print(task), "error", err)
		}
	}
}

func (e *Env) runDeferred(task Object) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	_, err = Eval(e, task)
	return err
}

func (e *Env) logger() *slog.Logger {
	if e.interp != nil {
		return e.interp.log
	}
	return slog.Default()
}
