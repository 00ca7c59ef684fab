package lc

import (
	"fmt"
	"os"
)

// wellKnown caches the interned Symbols the evaluator dispatches
// special forms on, so head-position checks are a single pointer
// compare against a field instead of re-interning (and linearly
// rescanning the symbol table for) a string literal on every form.
type wellKnown struct {
	quoteSym, quasiquoteSym, unquoteSym, unquoteSplicingSym *Value
	ifSym, fnSym, macroSym, defSym, setSym                  *Value
	carSym, cdrSym                                           *Value
	tSym                                                     *Value
}

func newWellKnown(st *SymbolTable) wellKnown {
	return wellKnown{
		quoteSym:          st.Intern("quote"),
		quasiquoteSym:     st.Intern("quasiquote"),
		unquoteSym:        st.Intern("unquote"),
		unquoteSplicingSym: st.Intern("unquote-splicing"),
		ifSym:             st.Intern("if"),
		fnSym:             st.Intern("fn"),
		macroSym:          st.Intern("macro"),
		defSym:            st.Intern("def"),
		setSym:            st.Intern("set"),
		carSym:            st.Intern("car"),
		cdrSym:            st.Intern("cdr"),
		tSym:              st.Intern("t"),
	}
}

// second returns the second element of an unevaluated form `(head X
// ...)`, or Nil if absent — used throughout special-form handling
// where an optional argument defaults to Nil rather than erroring.
func second(form *Value) *Value {
	if form.Cdr.IsPair() {
		return form.Cdr.Car
	}
	return NilValue
}

// Eval evaluates form in env per §4.5/§6: Symbols resolve through the
// environment, every other atom is self-evaluating, and Pairs are
// either one of the seven special forms or an application.
func (ip *Interp) Eval(form *Value, env *Env) *Value {
	switch {
	case form.IsNil():
		return NilValue
	case form.IsSymbol():
		v, ok := env.Lookup(form)
		if !ok {
			panic(newFatal(KindBinding, "unbound variable: %s", form.Str))
		}
		return v
	case form.IsPair():
		return ip.evalPair(form, env)
	default:
		// Integer, String, Builtin, Function, Macro: self-evaluating.
		return form
	}
}

func (ip *Interp) evalPair(form *Value, env *Env) *Value {
	if ip.Config.GetBool("eval.trace") {
		fmt.Fprintf(os.Stderr, "trace: %s\n", Print(form))
	}
	head := form.Car
	if head.IsSymbol() {
		switch head {
		case ip.wk.quoteSym:
			return second(form)
		case ip.wk.quasiquoteSym:
			return ip.quasiquote(second(form), env)
		case ip.wk.ifSym:
			return ip.evalIf(form.Cdr, env)
		case ip.wk.fnSym:
			return ip.makeClosure(form, env, TagFunction)
		case ip.wk.macroSym:
			return ip.makeClosure(form, env, TagMacro)
		case ip.wk.defSym:
			return ip.evalDef(form.Cdr, env)
		case ip.wk.setSym:
			return ip.evalSet(form.Cdr, env)
		}
	}
	proc := ip.Eval(head, env)
	args := ip.evalArgs(form.Cdr, env)
	return ip.apply(proc, args)
}

// evalArgs evaluates every element of an unevaluated argument list,
// left to right.
func (ip *Interp) evalArgs(list *Value, env *Env) []*Value {
	var args []*Value
	for a := list; a.IsPair(); a = a.Cdr {
		args = append(args, ip.Eval(a.Car, env))
	}
	return args
}

// evalIf implements the cascading `(if test1 then1 test2 then2 ...
// [else])` form: tests are tried in order, the first truthy one's
// "then" is evaluated and returned, and a trailing unpaired form is
// the else branch. Exhausting every test with no trailing else yields
// Nil.
func (ip *Interp) evalIf(rest *Value, env *Env) *Value {
	for rest.IsPair() {
		if !rest.Cdr.IsPair() {
			return ip.Eval(rest.Car, env)
		}
		test, then := rest.Car, rest.Cdr.Car
		if !ip.Eval(test, env).IsNil() {
			return ip.Eval(then, env)
		}
		rest = rest.Cdr.Cdr
	}
	return NilValue
}

// makeClosure builds a Function or Macro value from `(fn PARAMS
// BODY...)` / `(macro PARAMS BODY...)`, capturing env as the lexical
// closure. The display name is left empty; Env.Define fills it in the
// first time the value is bound, whether by `def` or as an argument
// bound to a parameter name.
func (ip *Interp) makeClosure(form *Value, env *Env, tag Tag) *Value {
	v := ip.Heap.Alloc(tag)
	v.Params = second(form)
	v.Body = form.Cdr.Cdr
	v.Closure = env
	return v
}

// evalDef implements §4.4's two surface forms. The long form `(def
// name value-expr)` evaluates value-expr in the current lexical env
// and binds it globally. The short form `(def name (params...)
// body...)` — recognized here by having at least one body form, since
// that is the only structural signal that distinguishes it from the
// long form's two-element shape — desugars to `(def name (fn
// (params...) body...))`.
//
// `def` always writes to the global frame regardless of the lexically
// current env (so a `def` nested inside a function body still
// installs a top-level binding), and redefining an already-global name
// is fatal: there is no updating an existing `def` short of `set`.
func (ip *Interp) evalDef(rest *Value, env *Env) *Value {
	if !rest.IsPair() {
		panic(newFatal(KindBinding, "def: missing name"))
	}
	name := rest.Car
	if !name.IsSymbol() {
		panic(newFatal(KindBinding, "def: name must be a symbol"))
	}
	if listLength(rest) >= 3 {
		params := rest.Cdr.Car
		body := rest.Cdr.Cdr
		fnForm := ip.cons(ip.wk.fnSym, ip.cons(params, body))
		return ip.evalDef(ip.cons(name, ip.cons(fnForm, NilValue)), env)
	}
	if _, exists := ip.Global.Lookup(name); exists {
		panic(newFatal(KindBinding, "def: %s is already defined", name.Str))
	}
	value := ip.Eval(second(rest), env)
	ip.Global.Define(name, value)
	return value
}

// evalSet implements generalized assignment: evaluate the new value,
// resolve place to a Slot (slot.go), overwrite it, and yield the new
// value.
func (ip *Interp) evalSet(rest *Value, env *Env) *Value {
	if !rest.IsPair() {
		panic(newFatal(KindBinding, "set: missing place"))
	}
	place := rest.Car
	value := ip.Eval(second(rest), env)
	slot := ip.resolveSlot(place, env)
	slot.Set(value)
	return value
}

// apply dispatches a procedure call; proc has already been evaluated.
func (ip *Interp) apply(proc *Value, args []*Value) *Value {
	switch {
	case proc.IsBuiltin():
		return proc.Builtin(ip.sliceToList(args))
	case proc.IsFunction():
		return ip.applyFunction(proc, args)
	case proc.IsMacro():
		panic(newFatal(KindApplication, "can't call a macro outside of expansion"))
	default:
		panic(newFatal(KindApplication, "%s is not callable", Print(proc)))
	}
}

func (ip *Interp) applyFunction(fn *Value, args []*Value) *Value {
	env := ip.bindArgs(fn, args)
	return ip.evalBody(fn.Body, env)
}

// applyMacro runs a Macro's body exactly like applyFunction — a Macro
// has the same Params/Body/Closure shape as a Function, only invoked
// from the expander instead of from application position. It is the
// expander's sole authorized way to call one.
func (ip *Interp) applyMacro(mac *Value, args []*Value) *Value {
	env := ip.bindArgs(mac, args)
	return ip.evalBody(mac.Body, env)
}

// bindArgs extends fn's captured closure with a fresh frame binding
// its parameters to args, per §4.4's three parameter-list shapes: a
// proper list binds positionally and requires an exact count; an
// improper list binds its named prefix positionally and collects the
// remaining arguments into the tail Symbol; a lone Symbol (Params
// itself, not a list at all) collects every argument into it.
func (ip *Interp) bindArgs(fn *Value, args []*Value) *Env {
	env := fn.Closure.Extend()
	if fn.Params.IsSymbol() {
		env.Define(fn.Params, ip.sliceToList(args))
		return env
	}
	p := fn.Params
	i := 0
	for p.IsPair() {
		if i >= len(args) {
			ip.arityFatal(fn, len(args))
		}
		env.Define(p.Car, args[i])
		i++
		p = p.Cdr
	}
	switch {
	case p.IsSymbol():
		env.Define(p, ip.sliceToList(args[i:]))
	case p.IsNil():
		if i != len(args) {
			ip.arityFatal(fn, len(args))
		}
	}
	return env
}

func (ip *Interp) arityFatal(fn *Value, got int) {
	name := fn.FnName
	if name == "" {
		name = "<anonymous>"
	}
	panic(newFatal(KindApplication, "%s: wrong number of arguments (%d given)", name, got))
}

// evalBody evaluates a proper list of body forms in sequence, yielding
// the last one's value (Nil for an empty body).
func (ip *Interp) evalBody(body *Value, env *Env) *Value {
	result := NilValue
	for b := body; b.IsPair(); b = b.Cdr {
		result = ip.Eval(b.Car, env)
	}
	return result
}

func (ip *Interp) cons(car, cdr *Value) *Value {
	p := ip.Heap.Alloc(TagPair)
	p.Car = car
	p.Cdr = cdr
	return p
}

func (ip *Interp) sliceToList(vals []*Value) *Value {
	result := NilValue
	for i := len(vals) - 1; i >= 0; i-- {
		result = ip.cons(vals[i], result)
	}
	return result
}
