package lc

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Interp is the interpreter facade the driver (cmd/lc) and embedders
// talk to: one Heap, one SymbolTable, one global Env, wired together
// with the well-known symbols eval.go/expand.go/slot.go dispatch on.
// Grounded on the teacher's api.go (a single Grammar/VM facade type
// wrapping the pieces the rest of the package exposes separately),
// traded from a parser+codegen pipeline to a read-expand-eval one.
type Interp struct {
	Heap   *Heap
	Symtab *SymbolTable
	Global *Env
	Config *Config

	wk wellKnown
}

// New builds an Interp with its global environment populated by the
// builtins in builtins.go. A nil cfg uses NewConfig's defaults.
func New(cfg *Config) *Interp {
	if cfg == nil {
		cfg = NewConfig()
	}
	heap := NewHeap(cfg.GetInt("heap.initial_cells"))
	symtab := NewSymbolTable(heap, cfg.GetInt("symtab.max_symbols"))
	global := NewGlobalEnv(heap)
	heap.RegisterRoot(func() []*Value { return []*Value{global.bindings} })

	ip := &Interp{
		Heap:   heap,
		Symtab: symtab,
		Global: global,
		Config: cfg,
		wk:     newWellKnown(symtab),
	}
	registerBuiltins(ip)
	ip.Global.Define(ip.wk.tSym, ip.wk.tSym)
	return ip
}

// EvalString reads every top-level form out of src, expanding and
// evaluating each in the global environment, and returns the value of
// the last one (Nil if src held no forms).
func (ip *Interp) EvalString(src string) (*Value, error) {
	return ip.evalStream(strings.NewReader(src), nil)
}

// EvalReader is EvalString over an already-open io.Reader.
func (ip *Interp) EvalReader(r io.Reader) (*Value, error) {
	return ip.evalStream(r, nil)
}

// LoadFile implements the `load` builtin's contract: read, expand and
// evaluate every top-level form in the named file, in the global
// environment, stopping at the first fatal error. Disabled entirely
// when the `load.allowed` config key is false.
func (ip *Interp) LoadFile(path string) error {
	if !ip.Config.GetBool("load.allowed") {
		return newFatal(KindApplication, "load: disabled by configuration")
	}
	f, err := os.Open(path)
	if err != nil {
		return wrapFatal(KindApplication, err, "load: can't open %s", path)
	}
	defer f.Close()
	_, err = ip.evalStream(f, nil)
	return err
}

// REPL reads every top-level form from r, expanding and evaluating
// each in the global environment and writing its printed
// representation followed by a newline to w — the one place this
// package adds the newline Print itself never does (see the `print`
// builtin's doc comment in builtins.go).
func (ip *Interp) REPL(r io.Reader, w io.Writer) error {
	_, err := ip.evalStream(r, func(v *Value) {
		fmt.Fprintln(w, Print(v))
	})
	return err
}

// evalStream is the read-expand-eval loop shared by EvalString,
// LoadFile and REPL. onForm, if non-nil, is called with the result of
// every top-level form as it is evaluated; it may be nil when only the
// final result matters. A FatalError raised anywhere inside (the
// reader, the expander, or the evaluator) unwinds the whole loop via
// panic/recover rather than being caught per top-level form: §7 treats
// every semantic failure as fatal to the surrounding evaluation, not
// just the one form that triggered it.
func (ip *Interp) evalStream(r io.Reader, onForm func(*Value)) (result *Value, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if fe, ok := rec.(*FatalError); ok {
				err = fe
				result = nil
				return
			}
			panic(rec)
		}
	}()

	rd := NewReader(r, ip.Heap, ip.Symtab)
	result = NilValue
	for {
		form, rerr := rd.Read()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, rerr
		}
		expanded := ip.Expand(form, ip.Global)
		result = ip.Eval(expanded, ip.Global)
		if onForm != nil {
			onForm(result)
		}
	}
	return result, nil
}
