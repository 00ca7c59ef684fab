package lc

// quasiquote evaluates a quasiquote template per §4.5: the result is a
// structural copy of form, except that `(unquote E)` anywhere is
// replaced by the value of evaluating E, and `(unquote-splicing E)` —
// legal only as a direct list element — splices E's elements in place
// of itself. A template that is not itself a Pair is returned
// unchanged (Symbols, Integers, Strings, Nil all self-quote).
//
// The recursion mirrors the textbook two-function quasiquote
// algorithm: qq handles "a position that might itself be an unquote",
// qqList handles "walking a list's elements looking for splices".
// Because `(unquote E)` and `(unquote-splicing E)` are just ordinary
// 2-element lists in this data model, a literal list that happens to
// start with the symbol `unquote` is indistinguishable from the
// reader's `,` shorthand — the same ambiguity every minimal
// quasiquote implementation inherits, not a bug particular to this one.
func (ip *Interp) quasiquote(form *Value, env *Env) *Value {
	return ip.qq(form, env)
}

func (ip *Interp) qq(form *Value, env *Env) *Value {
	if !form.IsPair() {
		return form
	}
	if form.Car == ip.wk.unquoteSym && listLength(form) == 2 {
		return ip.Eval(second(form), env)
	}
	if form.Car == ip.wk.unquoteSplicingSym {
		panic(newFatal(KindApplication, "unquote-splicing not valid outside a list"))
	}
	return ip.qqList(form, env)
}

// qqList walks form as a list node, substituting a spliced sequence
// wherever an element is itself shaped `(unquote-splicing E)`.
func (ip *Interp) qqList(form *Value, env *Env) *Value {
	elem := form.Car
	if elem.IsPair() && elem.Car == ip.wk.unquoteSplicingSym && listLength(elem) == 2 {
		spliced := ip.Eval(second(elem), env)
		if !spliced.IsList() {
			panic(newFatal(KindApplication, "unquote-splicing requires a proper list"))
		}
		rest := ip.qq(form.Cdr, env)
		return ip.appendList(spliced, rest)
	}
	car := ip.qq(elem, env)
	rest := ip.qq(form.Cdr, env)
	return ip.cons(car, rest)
}

// appendList conses every element of a (which must be a proper list,
// or Nil) onto the front of b.
func (ip *Interp) appendList(a, b *Value) *Value {
	if a.IsNil() {
		return b
	}
	if listLength(a) < 0 {
		panic(newFatal(KindApplication, "unquote-splicing requires a proper list"))
	}
	elems := listToSlice(a)
	result := b
	for i := len(elems) - 1; i >= 0; i-- {
		result = ip.cons(elems[i], result)
	}
	return result
}

// Expand implements §4.5's bottom-up, fixed-point macro expansion: a
// non-Pair form expands to itself; a Pair's elements are expanded
// first (the "bottom" of bottom-up), and only then is its head
// position checked for a Macro binding. If found, the (now-expanded)
// argument forms are bound to the macro's parameters as they are, with
// no `(quote ...)` wrapper built (the same effect as quoting each one
// and evaluating it), so the macro body receives raw, unevaluated
// forms; the macro body runs, and the result
// is expanded again — expansion is a fixed point, not a single pass,
// so a macro whose expansion itself contains a macro call is fully
// unwound before Eval ever sees it.
func (ip *Interp) Expand(form *Value, env *Env) *Value {
	if !form.IsPair() {
		return form
	}
	expanded := ip.expandElements(form, env)
	if !expanded.IsPair() {
		return expanded
	}
	head := expanded.Car
	if head.IsSymbol() {
		if binding, ok := env.Lookup(head); ok && binding.IsMacro() {
			// applyMacro binds parameters directly to these forms,
			// the same way applyFunction binds parameters directly
			// to its already-evaluated args — for a macro, "already
			// evaluated" is the identity transform: the raw
			// (expanded) argument forms themselves, as if each had
			// been wrapped in `(quote ...)` and evaluated.
			args := listToSlice(expanded.Cdr)
			result := ip.applyMacro(binding, args)
			return ip.Expand(result, env)
		}
	}
	return expanded
}

// expandElements rebuilds form's list structure with every element
// expanded, preserving any improper final cdr unchanged (a non-Pair
// tail has no elements left to expand).
func (ip *Interp) expandElements(form *Value, env *Env) *Value {
	if !form.IsPair() {
		return form
	}
	car := ip.Expand(form.Car, env)
	cdr := ip.expandElements(form.Cdr, env)
	return ip.cons(car, cdr)
}
