package lc

// SlotKind distinguishes the three concrete mutable-location shapes
// §4.5/§9 describe: a variable's value-holder, or a Pair's car/cdr
// field. Modeled as the small closed sum type the design notes ask
// for ("a Place as a small sum type... and dispatch writes
// accordingly") rather than a raw pointer, since Go has no interior
// pointers into a tagged struct's chosen field.
type SlotKind int

const (
	SlotVar SlotKind = iota
	SlotCar
	SlotCdr
)

// Slot is a resolved, writable location: a Symbol's binding holder, or
// a Pair whose Car/Cdr field `set` is about to overwrite.
type Slot struct {
	Kind    SlotKind
	Binding *Value // SlotVar: the binding Pair `(name . (value))`
	Pair    *Value // SlotCar / SlotCdr: the Pair being mutated
}

func (s Slot) Get() *Value {
	switch s.Kind {
	case SlotVar:
		return s.Binding.Cdr.Car
	case SlotCar:
		return s.Pair.Car
	case SlotCdr:
		return s.Pair.Cdr
	default:
		return NilValue
	}
}

// Set overwrites the slot's target in place, which is what makes the
// mutation visible to every other alias of the same binding or Pair.
func (s Slot) Set(v *Value) {
	switch s.Kind {
	case SlotVar:
		setBindingValue(s.Binding, v)
	case SlotCar:
		s.Pair.Car = v
	case SlotCdr:
		s.Pair.Cdr = v
	}
}

// resolveSlot implements §4.5's "Mutable slot resolution" table. place
// is an unevaluated form; most of its cases either evaluate a
// sub-expression for the Pair it targets, or recurse into another
// slot resolution (the `if`/`def`/`set`/call-result cases).
func (ip *Interp) resolveSlot(place *Value, env *Env) Slot {
	if place.IsSymbol() {
		binding := env.lookupBinding(place)
		if binding == nil {
			panic(newFatal(KindBinding, "set: unbound variable %s", place.Str))
		}
		return Slot{Kind: SlotVar, Binding: binding}
	}
	if !place.IsPair() {
		panic(newFatal(KindBinding, "set: %s is not an assignable place", Print(place)))
	}

	head := place.Car
	switch head {
	case ip.wk.carSym:
		p := ip.Eval(second(place), env)
		if !p.IsPair() {
			panic(newFatal(KindBinding, "set: (car ...) target is not a pair"))
		}
		return Slot{Kind: SlotCar, Pair: p}
	case ip.wk.cdrSym:
		p := ip.Eval(second(place), env)
		if !p.IsPair() {
			panic(newFatal(KindBinding, "set: (cdr ...) target is not a pair"))
		}
		return Slot{Kind: SlotCdr, Pair: p}
	case ip.wk.ifSym:
		return ip.resolveIfSlot(place.Cdr, env)
	case ip.wk.defSym:
		ip.evalDef(place.Cdr, env)
		return ip.resolveSlot(place.Cdr.Car, env)
	case ip.wk.setSym:
		ip.evalSet(place.Cdr, env)
		return ip.resolveSlot(place.Cdr.Car, env)
	default:
		return ip.resolveCallSlot(place, env)
	}
}

// resolveIfSlot mirrors evalIf's cascade, but resolves the selected
// branch as a slot instead of evaluating it for a value.
func (ip *Interp) resolveIfSlot(rest *Value, env *Env) Slot {
	for rest.IsPair() {
		if !rest.Cdr.IsPair() {
			return ip.resolveSlot(rest.Car, env)
		}
		test, then := rest.Car, rest.Cdr.Car
		if !ip.Eval(test, env).IsNil() {
			return ip.resolveSlot(then, env)
		}
		rest = rest.Cdr.Cdr
	}
	panic(newFatal(KindBinding, "set: if-place selected no branch"))
}

// resolveCallSlot handles "any other applied Function call" — the
// slot returned by executing the body with the last body form
// resolved as a slot, earlier forms run for effect. Builtins never
// yield slots.
func (ip *Interp) resolveCallSlot(place *Value, env *Env) Slot {
	proc := ip.Eval(place.Car, env)
	if !proc.IsFunction() {
		panic(newFatal(KindBinding, "set: %s does not resolve to an assignable place", Print(place)))
	}
	args := ip.evalArgs(place.Cdr, env)
	callEnv := ip.bindArgs(proc, args)
	body := proc.Body
	if body.IsNil() {
		panic(newFatal(KindBinding, "set: function has no body to resolve a slot from"))
	}
	for body.Cdr.IsPair() {
		ip.Eval(body.Car, callEnv)
		body = body.Cdr
	}
	return ip.resolveSlot(body.Car, callEnv)
}
