package lc

// SymbolTable interns symbol names so that two symbols with equal
// names are, per §3's invariant, the same allocated cell: identity
// comparison then decides name equality everywhere else in the
// interpreter (environment lookup, special-form head dispatch,
// eq?/eqv?/equal?).
//
// Intern performs a linear scan over previously interned symbols
// rather than a map lookup — §4.2 mandates this directly, mirroring
// how a bootstrap Lisp with no hash table yet would have to work, and
// it keeps the symbol table itself trivially a single flat root for
// the heap to scan (see asRoot).
type SymbolTable struct {
	heap    *Heap
	symbols []*Value
	limit   int // 0 = unbounded
}

// NewSymbolTable creates an empty table backed by heap. limit bounds
// how many distinct names may ever be interned (0 disables the
// bound); it exists so the `symtab.max_symbols` config key can cap a pathingly
// symbol-heavy load without the table growing without end.
func NewSymbolTable(heap *Heap, limit int) *SymbolTable {
	st := &SymbolTable{heap: heap, limit: limit}
	heap.RegisterRoot(st.asRoot)
	return st
}

// Intern returns the unique Symbol cell for name, allocating one on
// first sight.
func (st *SymbolTable) Intern(name string) *Value {
	for _, sym := range st.symbols {
		if sym.Str == name {
			return sym
		}
	}
	if st.limit > 0 && len(st.symbols) >= st.limit {
		panic(newFatal(KindMemory, "symbol table limit of %d exceeded interning %q", st.limit, name))
	}
	sym := st.heap.Alloc(TagSymbol)
	sym.Str = name
	st.symbols = append([]*Value{sym}, st.symbols...)
	return sym
}

// Lookup returns the already-interned Symbol for name, or nil if name
// has never been interned. Unlike Intern it never allocates.
func (st *SymbolTable) Lookup(name string) (*Value, bool) {
	for _, sym := range st.symbols {
		if sym.Str == name {
			return sym, true
		}
	}
	return nil, false
}

func (st *SymbolTable) asRoot() []*Value {
	return st.symbols
}
