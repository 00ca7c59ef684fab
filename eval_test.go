package lc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestInterp builds an Interp with the prelude loaded, the shape
// every scenario in this file needs (`and`/`or`/`when`/`unless`,
// `list`, `not`).
func newTestInterp(t *testing.T) *Interp {
	t.Helper()
	ip := New(nil)
	require.NoError(t, ip.LoadPrelude())
	return ip
}

func evalOne(t *testing.T, ip *Interp, src string) *Value {
	t.Helper()
	v, err := ip.EvalString(src)
	require.NoError(t, err)
	return v
}

func TestEvalSelfEvaluatingAtoms(t *testing.T) {
	ip := newTestInterp(t)
	assert.Equal(t, int64(42), evalOne(t, ip, "42").Int)
	assert.Equal(t, "hi", evalOne(t, ip, `"hi"`).Str)
	assert.True(t, evalOne(t, ip, "nil").IsNil())
}

func TestEvalUnboundVariableIsFatal(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("totally-unbound")
	require.Error(t, err)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindBinding, fe.Kind)
}

func TestEvalQuoteDoesNotEvaluate(t *testing.T) {
	ip := newTestInterp(t)
	v := evalOne(t, ip, "(quote (+ 1 2))")
	require.True(t, v.IsPair())
	assert.Equal(t, "+", v.Car.Str)
}

func TestEvalIfCascade(t *testing.T) {
	ip := newTestInterp(t)
	assert.Equal(t, int64(1), evalOne(t, ip, "(if t 1 2)").Int)
	assert.Equal(t, int64(2), evalOne(t, ip, "(if nil 1 2)").Int)
	assert.Equal(t, int64(2), evalOne(t, ip, "(if nil 1 t 2 3)").Int)
	assert.Equal(t, int64(3), evalOne(t, ip, "(if nil 1 nil 2 3)").Int)
	assert.True(t, evalOne(t, ip, "(if nil 1)").IsNil())
}

func TestEvalFnAndApplication(t *testing.T) {
	ip := newTestInterp(t)
	v := evalOne(t, ip, "((fn (x y) (+ x y)) 3 4)")
	assert.Equal(t, int64(7), v.Int)
}

func TestEvalFnRestParams(t *testing.T) {
	ip := newTestInterp(t)
	v := evalOne(t, ip, "((fn (a . rest) rest) 1 2 3)")
	assert.Equal(t, 2, listLength(v))
}

func TestEvalFnVariadicParams(t *testing.T) {
	ip := newTestInterp(t)
	v := evalOne(t, ip, "((fn all all) 1 2 3)")
	assert.Equal(t, 3, listLength(v))
}

func TestEvalArityMismatchIsFatal(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("((fn (x y) x) 1)")
	require.Error(t, err)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindApplication, fe.Kind)
}

func TestEvalClosureCapturesLexicalEnv(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("(def make-adder (fn (n) (fn (x) (+ x n))))")
	require.NoError(t, err)
	v := evalOne(t, ip, "((make-adder 10) 5)")
	assert.Equal(t, int64(15), v.Int)
}

func TestEvalRecursiveFunctionViaDef(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("(def fact (n) (if (= n 0) 1 (* n (fact (- n 1)))))")
	require.NoError(t, err)
	v := evalOne(t, ip, "(fact 5)")
	assert.Equal(t, int64(120), v.Int)
}

func TestEvalDefShortFormPrintsAsFunction(t *testing.T) {
	ip := newTestInterp(t)
	v := evalOne(t, ip, "(def square (n) (* n n))")
	assert.Equal(t, "#<function square>", Print(v))
}

func TestEvalDefRedefinitionIsFatal(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("(def x 1)")
	require.NoError(t, err)
	_, err = ip.EvalString("(def x 2)")
	require.Error(t, err)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindBinding, fe.Kind)
}

func TestEvalDefAlwaysTargetsGlobalFrame(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("((fn () (def leaked 99)))")
	require.NoError(t, err)
	v := evalOne(t, ip, "leaked")
	assert.Equal(t, int64(99), v.Int)
}

func TestEvalSetOnVariable(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("(def x 1)")
	require.NoError(t, err)
	_, err = ip.EvalString("(set x 2)")
	require.NoError(t, err)
	v := evalOne(t, ip, "x")
	assert.Equal(t, int64(2), v.Int)
}

func TestEvalSetOnCarAndCdr(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("(def p (cons 1 2))")
	require.NoError(t, err)
	_, err = ip.EvalString("(set (car p) 9)")
	require.NoError(t, err)
	v := evalOne(t, ip, "p")
	assert.Equal(t, "(9 . 2)", Print(v))

	_, err = ip.EvalString("(set (cdr p) 10)")
	require.NoError(t, err)
	v = evalOne(t, ip, "p")
	assert.Equal(t, "(9 . 10)", Print(v))
}

func TestEvalSetAliasingThroughSharedBinding(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString(`
		(def counter (cons 0 nil))
		(def bump (fn () (set (car counter) (+ (car counter) 1))))
	`)
	require.NoError(t, err)
	evalOne(t, ip, "(bump)")
	evalOne(t, ip, "(bump)")
	v := evalOne(t, ip, "(car counter)")
	assert.Equal(t, int64(2), v.Int)
}

func TestEvalSetOnIfPlace(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("(def a (cons 1 1)) (def b (cons 2 2))")
	require.NoError(t, err)
	_, err = ip.EvalString("(set (if t (car a) (car b)) 100)")
	require.NoError(t, err)
	assert.Equal(t, int64(100), evalOne(t, ip, "(car a)").Int)
	assert.Equal(t, int64(1), evalOne(t, ip, "(car b)").Int)
}

func TestEvalSetThroughFunctionCallSlot(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("(def pair (cons 1 2)) (def first (fn (p) (car p)))")
	require.NoError(t, err)
	_, err = ip.EvalString("(set (first pair) 42)")
	require.NoError(t, err)
	v := evalOne(t, ip, "pair")
	assert.Equal(t, "(42 . 2)", Print(v))
}

func TestQuasiquoteLiteral(t *testing.T) {
	ip := newTestInterp(t)
	v := evalOne(t, ip, "`(1 2 3)")
	assert.Equal(t, "(1 2 3)", Print(v))
}

func TestQuasiquoteUnquote(t *testing.T) {
	ip := newTestInterp(t)
	v := evalOne(t, ip, "`(1 ,(+ 1 1) 3)")
	assert.Equal(t, "(1 2 3)", Print(v))
}

func TestQuasiquoteUnquoteSplicing(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("(def xs (list 2 3))")
	require.NoError(t, err)
	v := evalOne(t, ip, "`(1 ,@xs 4)")
	assert.Equal(t, "(1 2 3 4)", Print(v))
}

func TestQuasiquoteSplicingOutsideListIsFatal(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("`,@(list 1 2)")
	require.Error(t, err)
}

func TestQuasiquoteNested(t *testing.T) {
	ip := newTestInterp(t)
	v := evalOne(t, ip, "`(1 `(2 ,(+ 1 2)))")
	require.True(t, v.IsPair())
}

func TestArithmeticFolding(t *testing.T) {
	ip := newTestInterp(t)
	assert.Equal(t, int64(0), evalOne(t, ip, "(+)").Int)
	assert.Equal(t, int64(5), evalOne(t, ip, "(+ 5)").Int)
	assert.Equal(t, int64(6), evalOne(t, ip, "(+ 1 2 3)").Int)

	assert.Equal(t, int64(0), evalOne(t, ip, "(-)").Int)
	assert.Equal(t, int64(-5), evalOne(t, ip, "(- 5)").Int)
	assert.Equal(t, int64(5), evalOne(t, ip, "(- 10 3 2)").Int)

	assert.Equal(t, int64(1), evalOne(t, ip, "(*)").Int)
	assert.Equal(t, int64(5), evalOne(t, ip, "(* 5)").Int)
	assert.Equal(t, int64(24), evalOne(t, ip, "(* 2 3 4)").Int)

	assert.Equal(t, int64(1), evalOne(t, ip, "(/)").Int)
	assert.Equal(t, int64(0), evalOne(t, ip, "(/ 5)").Int)
	assert.Equal(t, int64(10), evalOne(t, ip, "(/ 100 5 2)").Int)
}

func TestDivisionByZeroIsFatal(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("(/ 1 0)")
	require.Error(t, err)
	var fe *FatalError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, KindNumeric, fe.Kind)
}

func TestArithmeticOnNonIntegerYieldsNilNotFatal(t *testing.T) {
	ip := newTestInterp(t)
	v := evalOne(t, ip, `(+ 1 "x")`)
	assert.True(t, v.IsNil())
}

func TestComparisons(t *testing.T) {
	ip := newTestInterp(t)
	assert.False(t, evalOne(t, ip, "(< 1 2 3)").IsNil())
	assert.True(t, evalOne(t, ip, "(< 1 3 2)").IsNil())
	assert.False(t, evalOne(t, ip, "(= 1 1 1)").IsNil())
	assert.True(t, evalOne(t, ip, "(= 1 2)").IsNil())
}

func TestEqualityPredicates(t *testing.T) {
	ip := newTestInterp(t)
	assert.False(t, evalOne(t, ip, "(eq? 'a 'a)").IsNil())
	assert.True(t, evalOne(t, ip, "(eq? (cons 1 2) (cons 1 2))").IsNil())
	assert.False(t, evalOne(t, ip, "(equal? (cons 1 2) (cons 1 2))").IsNil())
	assert.False(t, evalOne(t, ip, "(eqv? 3 3)").IsNil())
}

func TestAndOrMacros(t *testing.T) {
	ip := newTestInterp(t)
	assert.False(t, evalOne(t, ip, "(and 1 2 3)").IsNil())
	assert.True(t, evalOne(t, ip, "(and 1 nil 3)").IsNil())
	assert.False(t, evalOne(t, ip, "(or nil nil 3)").IsNil())
	assert.True(t, evalOne(t, ip, "(or nil nil)").IsNil())
}

func TestWhenUnlessMacrosSequenceBody(t *testing.T) {
	ip := newTestInterp(t)
	_, err := ip.EvalString("(def log (cons 0 nil))")
	require.NoError(t, err)
	_, err = ip.EvalString(`
		(when t
		  (set (car log) 1)
		  (set (car log) 2))
	`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), evalOne(t, ip, "(car log)").Int)

	_, err = ip.EvalString("(unless t (set (car log) 99))")
	require.NoError(t, err)
	assert.Equal(t, int64(2), evalOne(t, ip, "(car log)").Int, "unless must not run its body when the test is true")
}

func TestListPreludeFunction(t *testing.T) {
	ip := newTestInterp(t)
	v := evalOne(t, ip, "(list 1 2 3)")
	assert.Equal(t, "(1 2 3)", Print(v))
}

func TestNotPreludeFunction(t *testing.T) {
	ip := newTestInterp(t)
	assert.False(t, evalOne(t, ip, "(not nil)").IsNil())
	assert.True(t, evalOne(t, ip, "(not 1)").IsNil())
}
