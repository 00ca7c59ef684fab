package lc

// Env is a linked environment frame: a parent link (nil for the
// global frame) plus a list of bindings. It is the Go-native
// counterpart of purple_go/pkg/eval's alist environment
// (EnvExtend/EnvLookup walking a *Value chain of cons cells); here the
// frame is a plain Go struct instead of a Value so the heap only ever
// has to trace the *bindings* (themselves ordinary Pairs, reachable
// the normal way) and not a separate environment-representation tag.
//
// A binding is, per §3, a Pair whose car is the name Symbol and whose
// cdr is a one-element list holding the current value — the "inner
// Pair trick" that gives `set` a single cell to mutate that every
// future lookup of that name will see.
type Env struct {
	parent *Env
	// bindings is itself a Value list of binding Pairs, so it is
	// reachable from markRoots without a separate walk: the global
	// frame's bindings list is exactly what RegisterRoot needs to
	// keep alive the programs it holds.
	bindings *Value
	heap     *Heap
}

// NewGlobalEnv creates the unique leaf frame whose parent is nil. Only
// this frame is a legal target for `def` (see eval.go).
func NewGlobalEnv(heap *Heap) *Env {
	return &Env{heap: heap}
}

// Extend creates an empty child frame of e.
func (e *Env) Extend() *Env {
	return &Env{parent: e, heap: e.heap}
}

// IsGlobal reports whether e is the root frame.
func (e *Env) IsGlobal() bool { return e.parent == nil }

// lookupBinding walks the parent chain and returns the first binding
// Pair — not its value — whose car is name by identity, or nil if
// none exists. Returning the binding itself (rather than the value it
// holds) is what lets slot.go mutate the inner value-holder in place.
func (e *Env) lookupBinding(name *Value) *Value {
	for frame := e; frame != nil; frame = frame.parent {
		for b := frame.bindings; b.IsPair(); b = b.Cdr {
			binding := b.Car
			if eq(binding.Car, name) {
				return binding
			}
		}
	}
	return nil
}

// Lookup resolves name to its current value, or reports ok=false if
// name is unbound anywhere in the chain.
func (e *Env) Lookup(name *Value) (value *Value, ok bool) {
	binding := e.lookupBinding(name)
	if binding == nil {
		return nil, false
	}
	return binding.Cdr.Car, true
}

// Define prepends a fresh binding for name to frame unconditionally —
// it does not check for shadowing at the frame level. Global
// redefinition checking (the `def`-specific rule) is the evaluator's
// job, not the environment's; see evalDef in eval.go.
//
// If value is an unnamed Function or Macro, Define writes name's text
// into its display-name slot, matching §4.4: "If the value is a
// Function without a display name, define writes the defining name
// into the Function's name slot (for printing only)."
func (e *Env) Define(name, value *Value) {
	if (value.IsFunction() || value.IsMacro()) && value.FnName == "" {
		value.FnName = name.Str
	}
	holder := e.heap.Alloc(TagPair)
	holder.Car = value
	holder.Cdr = NilValue

	binding := e.heap.Alloc(TagPair)
	binding.Car = name
	binding.Cdr = holder

	frameBindings := e.heap.Alloc(TagPair)
	frameBindings.Car = binding
	frameBindings.Cdr = e.bindings
	e.bindings = frameBindings
}

// setBindingValue overwrites the value held by an already-resolved binding
// Pair (as returned by lookupBinding), making the new value visible to
// every alias of that binding — this is the mutation point `set`
// targets when its place is a bare variable (see slot.go).
func setBindingValue(binding, value *Value) {
	binding.Cdr.Car = value
}

// markRoots feeds every *Value reachable from this frame's bindings
// (and its ancestors) to mark, letting Heap.Collect trace a closure's
// captured environment without the heap needing to know Env's layout.
func (e *Env) markRoots(mark func(*Value)) {
	for frame := e; frame != nil; frame = frame.parent {
		mark(frame.bindings)
	}
}
