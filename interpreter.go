package glisp

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Interpreter owns the builtin registry and the global environment, which
// lives as long as the interpreter does.
type Interpreter struct {
	registry *Registry
	global   *Env
	log      *slog.Logger
	out      io.Writer
	extra    []func(*Registry) error
}

type Option func(*Interpreter)

func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.log = l }
}

// WithOutput sets where print and the REPL echo write
func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

// WithBuiltins adds a registration hook run after the core builtins
func WithBuiltins(register func(*Registry) error) Option {
	return func(in *Interpreter) { in.extra = append(in.extra, register) }
}

// New builds the registry once, in a fixed order, and binds every builtin
// as a constant in the global environment
func New(opts ...Option) (*Interpreter, error) {
	in := &Interpreter{
		registry: NewRegistry(),
		log:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(in)
	}

	if err := RegisterCore(in.registry); err != nil {
		return nil, err
	}
	for _, register := range in.extra {
		if err := register(in.registry); err != nil {
			return nil, err
		}
	}

	in.global = NewEnv(nil)
	in.global.interp = in
	for i, name := range in.registry.Names() {
		if err := in.global.DefineConst(name, Builtin(i)); err != nil {
			return nil, err
		}
	}
	in.log.Debug("interpreter ready", "builtins", in.registry.Len())
	return in, nil
}

func (in *Interpreter) Global() *Env         { return in.global }
func (in *Interpreter) Registry() *Registry  { return in.registry }
func (in *Interpreter) Logger() *slog.Logger { return in.log }

// EvalString evaluates every expression in text in the global environment
// and returns the last result
func (in *Interpreter) EvalString(text string) (Object, error) {
	status, v, err := Parse(in.global, text, true)
	switch status {
	case Incomplete:
		return nil, &ParseError{Line: 1, Col: 1, Msg: "incomplete input"}
	case Failed:
		return nil, WrapErrorWithSource(err, text)
	}
	return v, nil
}

// Load reads a whole script and evaluates it. The first hard error aborts
// the script.
func (in *Interpreter) Load(r io.Reader, name string) (Object, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	in.log.Debug("loading script", "name", name)
	text := string(src)
	if strings.HasPrefix(text, "#!") {
		text = ";" + text[1:]
	}
	return in.EvalString(text)
}

// Close runs the global environment's deferred tasks
func (in *Interpreter) Close() {
	in.global.Close()
}

func (e *Env) output() io.Writer {
	if e.interp != nil {
		return e.interp.out
	}
	return os.Stdout
}

// Eval evaluates obj in env
func Eval(env *Env, obj Object) (Object, error) {
	switch t := obj.(type) {
	case Symbol:
		return env.Resolve(string(t))
	case *List:
		if t.quoted {
			return t, nil
		}
		if len(t.items) == 0 {
			return Nil, nil
		}
		fn, err := Eval(env, t.items[0])
		if err != nil {
			return nil, err
		}
		return Apply(env, fn, t.Tail())
	case form:
		return t.eval(env)
	default:
		return obj, nil
	}
}

// Value returns obj when it is already terminal and evaluates it otherwise
func Value(env *Env, obj Object) (Object, error) {
	if isTerminal(obj) {
		return obj, nil
	}
	return Eval(env, obj)
}

// Apply calls fn with unevaluated args. Evaluating the arguments is left
// to the callee.
func Apply(env *Env, fn Object, args *List) (Object, error) {
	switch t := fn.(type) {
	case *Lambda:
		return callLambda(env, t, args)
	case Builtin:
		if env.interp == nil {
			return nil, newError(Custom, "builtin called outside an interpreter")
		}
		return env.interp.registry.call(env, t, args)
	default:
		return nil, newError(TypeMismatch, "%s is not callable: %s", fn.Kind(), Print(fn))
	}
}

// Call applies fn to values that are already evaluated
func Call(env *Env, fn Object, values ...Object) (Object, error) {
	args := make([]Object, len(values))
	for i, v := range values {
		if isTerminal(v) {
			args[i] = v
		} else {
			args[i] = evaluated{v}
		}
	}
	return Apply(env, fn, NewList(args...))
}

// callLambda binds actuals, evaluated in the caller's env, in a child of
// the lambda's own env. Missing actuals are Nil; extra ones are an error.
func callLambda(env *Env, l *Lambda, args *List) (Object, error) {
	if args.Len() > len(l.Params) {
		return nil, newError(ArityMismatch, "lambda takes %d arguments, got %d", len(l.Params), args.Len())
	}
	scope := NewEnv(l.Env)
	if scope.interp == nil {
		scope.interp = env.interp
	}
	defer scope.Close()
	for i, name := range l.Params {
		var v Object = Nil
		if i < args.Len() {
			var err error
			if v, err = Eval(env, args.items[i]); err != nil {
				return nil, err
			}
		}
		scope.setLocal(name, v, false)
	}
	return evalBody(scope, l.Body)
}

func evalBody(env *Env, body []Object) (Object, error) {
	var result Object = Nil
	for _, expr := range body {
		var err error
		if result, err = Eval(env, expr); err != nil {
			return nil, err
		}
	}
	return result, nil
}
