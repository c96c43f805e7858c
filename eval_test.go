package glisp

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	testEval(t, "(+ 1 2)", Int(3))
	testEval(t, "(+ 5 (* 2 3))", Int(11))
	testEval(t, "(- (+ 5 (* 2 3)) 3)", Int(8))
	testEval(t, "(/ (- (+ 5 (* 2 3)) 3) 4)", Int(2))
	testEval(t, "(/ (- (+ 515 (* 87 311)) 302) 27)", Int(1010))
	testEval(t, "(* -3 6)", Int(-18))
	testEval(t, "(/ (- (+ 515 (* -87 311)) 296) 27)", Int(-994))
	testEval(t, "(+)", Int(0))
	testEval(t, "(*)", Int(1))
	testEval(t, "(- 5)", Int(-5))
	testEval(t, "(- 2.5)", Double(-2.5))
	testEval(t, `(+ "2" 3)`, Int(5))
}

func TestNumericTower(t *testing.T) {
	testEval(t, "(+ 1 2.5)", Double(3.5))
	testEval(t, "(/ 4 2)", Int(2))
	testEval(t, "(/ 7 2)", Int(3))
	testEval(t, "(/ 7.0 2)", Double(3.5))
	testEval(t, "(% 7 3)", Int(1))
	testEval(t, "(% 7.5 2)", Double(1.5))
	testEval(t, "(abs -3)", Int(3))
	testEval(t, "(abs -1.5)", Double(1.5))
	testEval(t, "(min 3 1 2)", Int(1))
	testEval(t, "(max 3 1 2)", Int(3))
	testEval(t, "(max 1 2.5)", Double(2.5))
}

func TestDivideByZero(t *testing.T) {
	testEvalErrorKind(t, "(/ 1 0)", DivideByZero)
	testEvalErrorKind(t, "(/ 1.5 0)", DivideByZero)
	testEvalErrorKind(t, "(/ 1 0.0)", DivideByZero)
	testEvalErrorKind(t, "(/ 8 2 0)", DivideByZero)
	testEvalErrorKind(t, "(% 1 0)", DivideByZero)
}

func TestEq(t *testing.T) {
	testEval(t, "(= 1 2)", False)
	testEval(t, "(= 1 1)", True)
	testEval(t, "(= 1 1.0)", False)
	testEval(t, `(= "blah" "bloo")`, False)
	testEval(t, `(= "blah" "blah")`, True)
	testEval(t, "(= [1 2] [1 2])", True)
	testEval(t, "(= [1 2] [1 3])", False)
	testEval(t, "(= '(1 2) [1 2])", False)
	testEval(t, "(= {(a 1)} {(a 1)})", True)
	testEval(t, "(!= 1 2)", True)
	testEval(t, "(!= 1 1)", False)
}

func TestOrder(t *testing.T) {
	testEval(t, "(< 1)", True)
	testEval(t, "(< 1 2 3 10)", True)
	testEval(t, "(< 10 20 30 15)", False)
	testEval(t, "(< 10 50 30 40)", False)
	testEval(t, "(< 50 20 30 40)", False)
	testEval(t, "(>= 1)", True)
	testEval(t, "(>= 10 9 8 8.0 -1 -2.5)", True)
	testEval(t, "(>= 0 9 8 8 -1 -2.5)", False)
	testEval(t, "(>= 10 9 8 8.5 -1 -2.5)", False)
	testEval(t, "(> 3 2)", True)
	testEval(t, "(<= 2 2 3)", True)
	testEval(t, `(< "a" "b")`, True)
	testEval(t, `(< 1 "2")`, True)
	testEval(t, "(< [1 2] [1 3])", True)
	testEvalErrorKind(t, "(< nil nil)", TypeMismatch)
	testEvalErrorKind(t, "(< /a/ /b/)", TypeMismatch)
}

func TestNot(t *testing.T) {
	testEval(t, "(not #t)", False)
	testEval(t, "(not 0)", True)
	testEval(t, "(not nil)", True)
}

func TestBegin(t *testing.T) {
	testEval(t, "(begin)", Nil)
	testEval(t, "(begin 1)", Int(1))
	testEval(t, "(begin (+ 1 2) (+ 3 4))", Int(7))
}

func TestDefine(t *testing.T) {
	testEval(t, "(define x 10)", Int(10))
	testEval(t, "(define x 10) x", Int(10))
	testEval(t, "(define x (+ 10 5)) (+ x 7)", Int(22))
	testEval(t, "(define (f) (define inner 3)) (f) inner", Int(3))
	testEvalErrorKind(t, "(define x 1) (define x 2)", Custom)
	testEvalErrorKind(t, "(define x 1) (define x 2 #f)", Custom)
	testEval(t, "(define x 1) (define x 2 #t) x", Int(2))
	testEvalErrorKind(t, "(define car 1 #t)", ConstBinding)
}

func TestDefineForceWarns(t *testing.T) {
	var logs bytes.Buffer
	in := newTestInterpreter(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	_, err := in.EvalString("(define x 1)")
	require.NoError(t, err)
	v, err := in.EvalString("(define x 3 #t)")
	require.NoError(t, err)
	assert.Equal(t, Int(3), v)
	assert.Contains(t, logs.String(), "redefining symbol")
	assert.Contains(t, logs.String(), "name=x")
}

func TestLambda(t *testing.T) {
	testEval(t, "((lambda (x) (+ 1 x)) 10)", Int(11))
	testEval(t, "((lambda (x y) (+ y x)) 10 7)", Int(17))
	testEval(t, "(define (square x) (* x x)) (square 5)", Int(25))
	testEval(t, "((lambda (x y) y) 1)", Nil)
	testEval(t, "((lambda () 4))", Int(4))
	testEvalErrorKind(t, "((lambda (x) x) 1 2)", ArityMismatch)
}

func TestClosures(t *testing.T) {
	testEval(t, `
		(define (adder n) (lambda (x) (+ x n)))
		((adder 2) 3)`, Int(5))
	testEval(t, `
		(define (counter)
			(let ((n 0))
				(lambda () (setq n (+ n 1)))))
		(define c (counter))
		(c)
		(c)`, Int(2))
}

func TestIf(t *testing.T) {
	testEval(t, "(if #t 1)", Int(1))
	testEval(t, "(if #f 1)", Nil)
	testEval(t, "(if #t 1 2)", Int(1))
	testEval(t, "(if #f 1 2)", Int(2))
	testEval(t, `(if (> 3 2) "yes" "no")`, String("yes"))
	testEval(t, `(if (= 1 2) "trueval" 2)`, Int(2))
	testEval(t, `(if "blah" 1 2)`, Int(2))
	testEval(t, `(if "12" 1 2)`, Int(1))
	testEval(t, "(if nil 1 2)", Int(2))
	testEval(t, "(if [] 1 2)", Int(2))
	testEval(t, "(if [0] 1 2)", Int(1))
	testEval(t, "(if '() 1 2)", Int(2))
	testEval(t, "(if '(0) 1 2)", Int(1))
	testEval(t, "(list (if '() 1 2) (length '()) (empty? '()))", NewData(Int(2), Int(0), True))
	testEval(t, "(if 0 1 2)", Int(2))
	testEval(t, "(if 0.5 1 2)", Int(1))
}

func TestCond(t *testing.T) {
	testEval(t, "(cond (#f 1) (#f 2) (else 3))", Int(3))
	testEval(t, "(cond (#f 1))", Empty)
	testEval(t, "(cond ((= 1 1)))", True)
	testEval(t, "(cond ((> 2 1) 5 6) (else 7))", Int(6))
}

func TestAndOr(t *testing.T) {
	testEval(t, "(and)", True)
	testEval(t, "(and 1 2)", True)
	testEval(t, "(and 1 0)", False)
	testEval(t, "(or)", False)
	testEval(t, `(or #f 0 "x")`, False)
	testEval(t, "(or #f 1)", True)
	testEval(t, "(and #f (undefined))", False)
	testEval(t, "(or #t (undefined))", True)
}

func TestFib(t *testing.T) {
	testEval(t, `
		(define (fib n)
			(if (< n 2)
				n
				(+ (fib (- n 1)) (fib (- n 2)))))
		(fib 10)`, Int(55))
	testEval(t, `
		(define (fib n)
			(define (fib-iter curr next n)
				(if (= n 0)
					curr
					(fib-iter next (+ curr next) (- n 1))))
			(fib-iter 0 1 n))
		(fib 10)`, Int(55))
}

func TestLet(t *testing.T) {
	testEval(t, "(let ((a 1) (b 2)) (+ a b))", Int(3))
	testEval(t, "(let ((a 1)) (let ((a 2)) a))", Int(2))
	testEval(t, "(let ((a 1)) (let ((a 2)) a) a)", Int(1))
	testEval(t, "(define a 1) (define b 2) (let ((a b) (b a)) (- a b))", Int(1))
	testEval(t, "(let (a) a)", Nil)
	testEval(t, "(letn ((a 1) (b (+ a 1))) b)", Int(2))
	testEvalErrorKind(t, "(let ((a 1) (b (+ a 1))) b)", UnboundSymbol)
	testEvalErrorKind(t, "(let ((a 1)) a) a", UnboundSymbol)
}

func TestSet(t *testing.T) {
	testEval(t, "(define x 1) (set 'x 5) x", Int(5))
	testEval(t, "(define x 1) (setq x 7) x", Int(7))
	testEval(t, "(define x 1) (define y 2) (setq x 3 y 4) (list x y)", NewData(Int(3), Int(4)))
	testEval(t, "(define a 1) (define b 2) (swap a b) (list a b)", NewData(Int(2), Int(1)))
	testEval(t, "(define x 1) (let ((y 2)) (setq x y)) x", Int(2))
	testEvalErrorKind(t, "(setq y 1)", UnboundSymbol)
	testEvalErrorKind(t, "(set 'x)", ArityMismatch)
	testEvalErrorKind(t, "(define x 1) (setq x 1 x)", ArityMismatch)
	testEvalErrorKind(t, "(setq car 1)", ConstBinding)
}

func TestPaths(t *testing.T) {
	testEval(t, "(define l [1 2 3]) l:1", Int(2))
	testEval(t, "(define l [1 2 3]) (car l)", Int(1))
	testEval(t, "(define l [1 2 3]) l:-1", Int(3))
	testEval(t, "(define q '(1 2 3)) q:2", Int(3))
	testEval(t, "(define e {(a 1) (b {(c 3)})}) e:b:c", Int(3))
	testEval(t, "(define e {(a 1)}) (setq e:a 5) e:a", Int(5))
	testEval(t, "(define l [1 2 3]) (setq l:0 9) l", NewData(Int(9), Int(2), Int(3)))
	testEval(t, "(define a [1 2]) (define b a) (setq b:0 9) a", NewData(Int(1), Int(2)))
	testEval(t, "(define (f) (let ((l [0])) (setq l:0 (+ l:0 1)) l:0)) (f) (f)", Int(1))
	testEval(t, "(define l nil) (define l:0 5 #t) l", NewData(Int(5)))
	testEval(t, "(define base {(a 1)}) (define child {base (b 2)}) child:a", Int(1))
	testEval(t, "(define e {(l [1 [2 3]])}) e:l:1:0", Int(2))
	testEvalErrorKind(t, "(define l [1 2 3]) l:5", IndexOutOfRange)
	testEvalErrorKind(t, "(define x 1) x:0", TypeMismatch)
	testEvalErrorKind(t, "(define e {(a 1)}) e:b", UnboundSymbol)
}

func TestQuoting(t *testing.T) {
	in := newTestInterpreter(t)
	for _, src := range []string{"(+ 1 2)", "x", "[1 2]", "(a (b c))", "42", `"s"`} {
		parsed, err := Read(src)
		require.NoError(t, err, src)

		v, err := in.EvalString("'" + src)
		require.NoError(t, err, src)
		l, ok := v.(*List)
		require.True(t, ok, src)
		assert.True(t, Equal(parsed, l.Unquote()), "'%s gave %s", src, Print(v))

		again, err := Eval(in.Global(), v)
		require.NoError(t, err, src)
		assert.Same(t, v, again, src)
	}
	testEval(t, "(quote (1 2))", Quote(NewList(Int(1), Int(2))))
	testEval(t, "(quote x)", Quote(Symbol("x")))
}

func TestTerminalValuesEvaluateToThemselves(t *testing.T) {
	in := newTestInterpreter(t)
	for _, v := range []Object{Int(1), Double(2.5), String("s"), True, False, Nil, Empty} {
		got, err := Eval(in.Global(), v)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestArity(t *testing.T) {
	testEvalErrorKind(t, "(car)", ArityMismatch)
	testEvalErrorKind(t, "(car [1] [2])", ArityMismatch)
	testEvalErrorKind(t, "(now-or-never)", UnboundSymbol)
	testEvalErrorKind(t, "(1 2)", TypeMismatch)
	testEvalError(t, "(if)")
	testEvalError(t, "(if #t)")
	testEvalError(t, "(if #t 1 2 3)")
	testEvalError(t, "(define)")
	testEvalError(t, `(define "x" 1)`)
}

func TestRequiresMessage(t *testing.T) {
	in := newTestInterpreter(t)
	_, err := in.EvalString("(car 1)")
	require.Error(t, err)
	assert.Equal(t, "(car: requires quoted list as 1st argument)", err.Error())

	_, err = in.EvalString(`(nth "a" [1])`)
	require.Error(t, err)
	assert.Equal(t, "(nth: requires int as 1st argument)", err.Error())

	_, err = in.EvalString(`(nth 0 "a")`)
	require.Error(t, err)
	assert.Equal(t, "(nth: requires quoted list as 2nd argument)", err.Error())
}

func TestDefer(t *testing.T) {
	testEval(t, `
		(define n 0)
		(define (f) (defer (setq n (+ n 1))) n)
		(list (f) n)`, NewData(Int(0), Int(1)))
	testEval(t, `
		(define order [])
		(define (f)
			(defer (push 1 order))
			(defer (push 2 order))
			0)
		(f)
		order`, NewData(Int(2), Int(1)))
}

func TestDeferredFailuresAreLogged(t *testing.T) {
	var logs bytes.Buffer
	in := newTestInterpreter(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	v, err := in.EvalString("(define (g) (defer (undefined-fn)) 5) (g)")
	require.NoError(t, err)
	assert.Equal(t, Int(5), v)
	assert.Contains(t, logs.String(), "deferred task failed")
}

func TestGlobalDeferRunsOnClose(t *testing.T) {
	in := newTestInterpreter(t)
	_, err := in.EvalString("(define n 0) (defer (setq n 10))")
	require.NoError(t, err)

	v, _ := in.Global().DeepFind("n")
	assert.Equal(t, Int(0), v)
	in.Close()
	v, _ = in.Global().DeepFind("n")
	assert.Equal(t, Int(10), v)
}

func TestFor(t *testing.T) {
	testEval(t, "(define s 0) (for (i 1 5) (setq s (+ s i))) s", Int(15))
	testEval(t, "(define s 0) (for (i 5 1 -1) (setq s (+ s i))) s", Int(15))
	testEval(t, "(define s 0) (for (i 0 10 5) (setq s (+ s i))) s", Int(15))
	testEval(t, "(for (i 1 0) i)", Nil)
	testEval(t, "(for (i 0 1 0.5) i)", Double(1))
	testEval(t, "(define s 0) (for (x [1 2 3]) (setq s (+ s x))) s", Int(6))
	testEval(t, "(for (x [1 2 3]) x)", Int(3))
	testEval(t, "(for (x []) x)", Nil)
	testEval(t, "(define s 0) (for (((i 0)) (< i 3) (setq i (+ i 1))) (setq s (+ s i))) s", Int(3))
	testEvalErrorKind(t, "(for (i 1 3 0) i)", Custom)
	testEvalErrorKind(t, "(for (i 1 3) i) i", UnboundSymbol)
	testEvalErrorKind(t, "(for ((i 0)) (< i 3) (setq i (+ i 1)) i)", TypeMismatch)

	doc, err := newTestInterpreter(t).EvalString("(help for)")
	require.NoError(t, err)
	assert.Contains(t, Display(doc), "(for (((i 0)) cond step) body...)")
}

func TestWhile(t *testing.T) {
	testEval(t, "(define i 0) (while (< i 5) (setq i (+ i 1))) i", Int(5))
	testEval(t, "(define i 0) (while (< i 3) (setq i (+ i 1)))", Int(3))
	testEval(t, "(while #f 1)", Nil)
}

func TestHigherOrder(t *testing.T) {
	testEval(t, "(map (lambda (x) (* x x)) [1 2 3])", NewData(Int(1), Int(4), Int(9)))
	testEval(t, "(map car [[1 2] [3 4]])", NewData(Int(1), Int(3)))
	testEval(t, "(filter (lambda (x) (> x 1)) [1 2 3])", NewData(Int(2), Int(3)))
	testEval(t, `(filter number? [1 "a" 2])`, NewData(Int(1), Int(2)))
	testEval(t, "(apply + [1 2 3])", Int(6))
	testEval(t, "(apply list '(1 2))", NewData(Int(1), Int(2)))
	testEval(t, "(define add1 (curry + 1)) (add1 5)", Int(6))
	testEval(t, "(define (add3 a b c) (+ a b c)) ((curry add3 1 2) 3)", Int(6))
	testEval(t, "(sort [3 1 2])", NewData(Int(1), Int(2), Int(3)))
	testEval(t, "(sort [3 1 2] >)", NewData(Int(3), Int(2), Int(1)))
	testEval(t, `(sort ["b" "a"])`, NewData(String("a"), String("b")))
	testEvalErrorKind(t, "(map 1 [1])", TypeMismatch)
	testEvalErrorKind(t, "(sort [1 nil])", TypeMismatch)
}

func TestIntrospection(t *testing.T) {
	testEval(t, "(ifdef x)", False)
	testEval(t, "(define x 1) (ifdef x)", True)
	testEval(t, "(ifdef 'x)", False)
	testEval(t, "(define l [1]) (ifdef l:3)", False)
	testEval(t, "(define l [1]) (ifdef l:0)", True)

	testEval(t, "(define x 1) (undef x) (ifdef x)", False)
	testEval(t, "(undef x)", False)
	testEvalErrorKind(t, "(undef car)", ConstBinding)
	testEval(t, "(define e {(a 1) (b 2)}) (undef e:a) (symbols e)", NewData(Symbol("b")))

	testEval(t, "(symbols {(b 2) (a 1)})", NewData(Symbol("a"), Symbol("b")))
	testEval(t, "(symbols (let ((a 1)) (locate a)))", NewData(Symbol("a")))
	testEval(t, "(locate nothing)", Nil)

	testEval(t, "(help car)", String("(car list) first item, or nil"))
	testEval(t, `(define (f x) "doubles x" (* 2 x)) (help f)`, String("doubles x"))

	testEval(t, "(constant pi 3) pi", Int(3))
	testEvalErrorKind(t, "(constant pi 3) (setq pi 4)", ConstBinding)
	testEvalErrorKind(t, "(constant pi 3) (define pi 4 #t)", ConstBinding)
}

func TestLocateGlobal(t *testing.T) {
	in := newTestInterpreter(t)
	v, err := in.EvalString("(locate car)")
	require.NoError(t, err)
	assert.Same(t, in.Global(), v)
}

func TestEvalBuiltin(t *testing.T) {
	testEval(t, "(eval '(+ 1 2))", Int(3))
	testEval(t, `(eval "(* 2 3)")`, Int(6))
	testEval(t, "(define x 5) (eval 'x)", Int(5))
	testEval(t, "(eval 1)", Int(1))
}

func TestTypes(t *testing.T) {
	testEval(t, `(int "42")`, Int(42))
	testEval(t, "(int 3.9)", Int(3))
	testEval(t, `(int "abc" -1)`, Int(-1))
	testEval(t, "(int #t)", Int(1))
	testEval(t, "(double 2)", Double(2))
	testEval(t, `(string 1 "a" 2.5)`, String("1a2.5"))
	testEval(t, `(bool "0")`, False)
	testEval(t, `(bool "1")`, True)
	testEvalErrorKind(t, `(int "abc")`, TypeMismatch)

	testEval(t, "(symbol? 'x)", True)
	testEval(t, "(symbol? 1)", False)
	testEval(t, "(list? [1])", True)
	testEval(t, "(number? 1.5)", True)
	testEval(t, `(string? "")`, True)
	testEval(t, "(nil? nil)", True)
	testEval(t, "(nil? [])", False)
	testEval(t, "(empty? [])", True)
	testEval(t, `(empty? "")`, True)
	testEval(t, "(empty? [1])", False)
	testEval(t, "(lambda? (lambda (x) x))", True)
	testEval(t, "(lambda? car)", False)
	testEval(t, "(type-of 1)", String("int"))
	testEval(t, "(type-of [1])", String("list"))
	testEval(t, "(type-of {})", String("environment"))
	testEval(t, "(type-of car)", String("builtin"))
}

func TestLists(t *testing.T) {
	testEval(t, "(list 1 2 (+ 1 2))", NewData(Int(1), Int(2), Int(3)))
	testEval(t, "(list)", NewData())
	testEval(t, "(cons 0 [1 2])", NewData(Int(0), Int(1), Int(2)))
	testEval(t, "(cons 1 nil)", NewData(Int(1)))
	testEval(t, "(car [])", Nil)
	testEval(t, "(car '(1 2 3))", Int(1))
	testEval(t, "(first [4 5])", Int(4))
	testEval(t, "(cdr [1 2 3])", NewData(Int(2), Int(3)))
	testEval(t, "(rest [])", NewData())
	testEval(t, "(last [1 2 3])", Int(3))
	testEval(t, "(nth 1 [1 2 3])", Int(2))
	testEval(t, "(nth -1 [1 2 3])", Int(3))
	testEvalErrorKind(t, "(nth 3 [1 2 3])", IndexOutOfRange)
	testEval(t, "(length [1 2 3])", Int(3))
	testEval(t, `(length "héllo")`, Int(5))
	testEval(t, "(length nil)", Int(0))
	testEval(t, "(length {(a 1)})", Int(1))
	testEval(t, "(append [1] [2 3] nil)", NewData(Int(1), Int(2), Int(3)))
	testEval(t, `(append "a" "b")`, String("ab"))
	testEval(t, "(define l [1 2]) (push 3 l) l", NewData(Int(1), Int(2), Int(3)))
	testEval(t, "(define l [1 2]) (push 0 l 0) l", NewData(Int(0), Int(1), Int(2)))
	testEval(t, "(define l [1 2 3]) (list (pop l) l)", NewData(Int(3), NewData(Int(1), Int(2))))
	testEval(t, "(define l [1 2 3]) (pop l 0)", Int(1))
	testEval(t, "(define l [1 2 3]) (pop l 0) l", NewData(Int(2), Int(3)))
	testEval(t, "(define a [1 2]) (define b a) (push 3 b) a", NewData(Int(1), Int(2)))
	testEval(t, "(define a [1 2]) (define b a) (push 3 b) b", NewData(Int(1), Int(2), Int(3)))
	testEval(t, "(define a [1 2]) (define b a) (pop b) a", NewData(Int(1), Int(2)))
	testEval(t, "(define (f) (let ((l [])) (push 1 l) (length l))) (f) (f)", Int(1))
	testEval(t, "(define a '(1 2)) (define b a) (push 3 b) (list a b)",
		NewData(Quote(NewList(Int(1), Int(2))), Quote(NewList(Int(1), Int(2), Int(3)))))
	testEval(t, "(push 3 [1 2])", NewData(Int(1), Int(2), Int(3)))
	testEval(t, "(define e {(l [1])}) (push 2 e:l) e:l", NewData(Int(1), Int(2)))
	testEvalErrorKind(t, "(pop [])", IndexOutOfRange)
	testEval(t, "(reverse [1 2 3])", NewData(Int(3), Int(2), Int(1)))
	testEval(t, `(reverse "abc")`, String("cba"))
	testEval(t, "(slice [1 2 3 4] 1 2)", NewData(Int(2), Int(3)))
	testEval(t, "(slice [1 2 3 4] -2)", NewData(Int(3), Int(4)))
	testEval(t, `(slice "hello" 1 3)`, String("ell"))
}

func TestPrintBuiltins(t *testing.T) {
	var out bytes.Buffer
	in := newTestInterpreter(t, WithOutput(&out))

	v, err := in.EvalString(`(println "a" 1)`)
	require.NoError(t, err)
	assert.Equal(t, Int(1), v)
	assert.Equal(t, "a1\n", out.String())

	out.Reset()
	_, err = in.EvalString(`(dump "x")`)
	require.NoError(t, err)
	assert.Equal(t, "\"x\"\n", out.String())

	out.Reset()
	_, err = in.EvalString(`(print [1 "b"])`)
	require.NoError(t, err)
	assert.Equal(t, `[1 "b"]`, out.String())
}

func TestJSON(t *testing.T) {
	testEval(t, `(json [1 "a" #t nil])`, String(`[1,"a",true,null]`))
	testEval(t, "(json {(a 1) (b [1.5 2])})", String(`{"a":1,"b":[1.5,2]}`))
	testEval(t, "(json '(1 2))", String(`[1,2]`))
	testEvalErrorKind(t, "(json 1)", TypeMismatch)
}

func TestParseIncomplete(t *testing.T) {
	in := newTestInterpreter(t)
	for _, src := range []string{"(+ 1 2", `"abc`, "(foo ;# unfinished", "[1 (2", `(f '"(raw`} {
		status, _, err := Parse(in.Global(), src, true)
		assert.Equal(t, Incomplete, status, src)
		assert.NoError(t, err, src)
	}

	status, _, err := Parse(in.Global(), "(+ 1 2))", true)
	assert.Equal(t, Failed, status)
	assert.Error(t, err)

	status, _, err = Parse(in.Global(), "[1 (2 3]", true)
	assert.Equal(t, Failed, status)
	assert.Error(t, err)

	status, v, err := Parse(in.Global(), "(+ 1 2)", true)
	require.NoError(t, err)
	assert.Equal(t, Complete, status)
	assert.Equal(t, Int(3), v)
}

func TestParseEchoesResults(t *testing.T) {
	var out bytes.Buffer
	in := newTestInterpreter(t, WithOutput(&out))
	status, _, err := Parse(in.Global(), "(+ 1 2) [1 2]", false)
	require.NoError(t, err)
	assert.Equal(t, Complete, status)
	assert.Equal(t, "3\n[1 2]\n", out.String())
}

func TestErrorSnippet(t *testing.T) {
	in := newTestInterpreter(t)
	_, err := in.EvalString("(+ 1\n   1.5abc)")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed number")
	assert.Contains(t, err.Error(), "   2 |    1.5abc)")
	assert.Contains(t, err.Error(), "^")
	var le *LexError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, 2, le.Line)

	_, err = in.EvalString("(+ 1 2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incomplete input")
}

func TestLoadSkipsShebang(t *testing.T) {
	in := newTestInterpreter(t)
	v, err := in.Load(bytes.NewBufferString("#!/usr/bin/env glisp\n(define x 2)\n(* x 21)\n"), "script.gl")
	require.NoError(t, err)
	assert.Equal(t, Int(42), v)
}

func newTestInterpreter(t *testing.T, opts ...Option) *Interpreter {
	t.Helper()
	opts = append([]Option{
		WithOutput(io.Discard),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	in, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(in.Close)
	return in
}

func testEval(t *testing.T, input string, output Object) {
	t.Helper()
	in := newTestInterpreter(t)
	actual, err := in.EvalString(input)
	if !assert.NoError(t, err, "Expr: %s", input) {
		return
	}
	assert.True(t, Equal(actual, output),
		"\nExpr: %s\nExpected: %s - %s\nActual: %s - %s\n",
		input, output.Kind(), Print(output), actual.Kind(), Print(actual))
}

func testEvalError(t *testing.T, input string) {
	t.Helper()
	in := newTestInterpreter(t)
	actual, err := in.EvalString(input)
	if err == nil {
		t.Errorf("Expr: %s\nExpected: Error\nActual: %s\n", input, Print(actual))
	}
}

func testEvalErrorKind(t *testing.T, input string, kind ErrorKind) {
	t.Helper()
	in := newTestInterpreter(t)
	actual, err := in.EvalString(input)
	if err == nil {
		t.Errorf("Expr: %s\nExpected: %s error\nActual: %s\n", input, kind, Print(actual))
		return
	}
	assert.True(t, IsKind(err, kind), "Expr: %s\nExpected: %s error\nActual: %v", input, kind, err)
}
