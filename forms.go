package glisp

// form is a special-form node built by the parser. It evaluates itself.
type form interface {
	Object
	eval(env *Env) (Object, error)
}

type IfExpr struct {
	Condition   Object
	Consequent  Object
	Alternative Object // nil when omitted
}

type CondClause struct {
	Predicate Object
	Body      []Object
	Else      bool
}

type CondExpr struct {
	Clauses []CondClause
}

type AndExpr struct {
	Conditions []Object
}

type OrExpr struct {
	Conditions []Object
}

// DefineExpr binds Name in the outermost environment. Force, when present,
// allows replacing an existing binding.
type DefineExpr struct {
	Name  string
	Value Object
	Force Object
}

type LambdaExpr struct {
	Params []string
	Doc    string
	Body   []Object
}

// EnvExpr is an environment literal {ctx (name value)...}
type EnvExpr struct {
	Context string
	Names   []string
	Values  []Object
}

// evaluated carries a value that must not be evaluated again, used when
// builtins hand already computed values to a callable
type evaluated struct {
	value Object
}

func (*IfExpr) Kind() Kind     { return KindForm }
func (*CondExpr) Kind() Kind   { return KindForm }
func (*AndExpr) Kind() Kind    { return KindForm }
func (*OrExpr) Kind() Kind     { return KindForm }
func (*DefineExpr) Kind() Kind { return KindForm }
func (*LambdaExpr) Kind() Kind { return KindForm }
func (*EnvExpr) Kind() Kind    { return KindForm }
func (evaluated) Kind() Kind   { return KindForm }

func (*IfExpr) object()     {}
func (*CondExpr) object()   {}
func (*AndExpr) object()    {}
func (*OrExpr) object()     {}
func (*DefineExpr) object() {}
func (*LambdaExpr) object() {}
func (*EnvExpr) object()    {}
func (evaluated) object()   {}

func (e *IfExpr) eval(env *Env) (Object, error) {
	ok, err := Truthy(env, e.Condition)
	if err != nil {
		return nil, err
	}
	if ok {
		return Eval(env, e.Consequent)
	}
	if e.Alternative == nil {
		return Nil, nil
	}
	return Eval(env, e.Alternative)
}

// a cond with no matching clause yields Empty
func (e *CondExpr) eval(env *Env) (Object, error) {
	for _, c := range e.Clauses {
		ok := c.Else
		if !ok {
			var err error
			if ok, err = Truthy(env, c.Predicate); err != nil {
				return nil, err
			}
		}
		if !ok {
			continue
		}
		if len(c.Body) == 0 {
			return True, nil
		}
		return evalBody(env, c.Body)
	}
	return Empty, nil
}

func (e *AndExpr) eval(env *Env) (Object, error) {
	for _, c := range e.Conditions {
		ok, err := Truthy(env, c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return False, nil
		}
	}
	return True, nil
}

func (e *OrExpr) eval(env *Env) (Object, error) {
	for _, c := range e.Conditions {
		ok, err := Truthy(env, c)
		if err != nil {
			return nil, err
		}
		if ok {
			return True, nil
		}
	}
	return False, nil
}

func (e *DefineExpr) eval(env *Env) (Object, error) {
	root := env.Root()
	p, err := ParsePath(e.Name)
	if err != nil {
		return nil, err
	}
	if len(p.Stems) == 0 {
		if b, ok := root.vars[p.Prefix]; ok {
			if b.isConst {
				return nil, newError(ConstBinding, "define: %s is a constant", p.Prefix)
			}
			if e.Force == nil {
				return nil, newError(Custom, "define: %s is already defined", p.Prefix)
			}
			force, err := Truthy(env, e.Force)
			if err != nil {
				return nil, err
			}
			if !force {
				return nil, newError(Custom, "define: %s is already defined", p.Prefix)
			}
			root.logger().Warn("redefining symbol", "name", p.Prefix)
		}
	}
	v, err := Eval(env, e.Value)
	if err != nil {
		return nil, err
	}
	if err := root.Put(e.Name, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *LambdaExpr) eval(env *Env) (Object, error) {
	return &Lambda{Params: e.Params, Doc: e.Doc, Body: e.Body, Env: env}, nil
}

func (e *EnvExpr) eval(env *Env) (Object, error) {
	var parent *Env
	if e.Context != "" {
		v, err := env.Resolve(e.Context)
		if err != nil {
			return nil, err
		}
		ctx, ok := v.(*Env)
		if !ok {
			return nil, newError(TypeMismatch, "%s is a %s, not an environment", e.Context, v.Kind())
		}
		parent = ctx
	}
	out := NewEnv(parent)
	out.interp = env.interp
	for i, name := range e.Names {
		v, err := Eval(env, e.Values[i])
		if err != nil {
			return nil, err
		}
		if err := out.Put(name, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (e evaluated) eval(*Env) (Object, error) {
	return e.value, nil
}
