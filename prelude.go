package lc

import _ "embed"

//go:embed lib.lisp
var preludeSource string

// LoadPrelude evaluates the startup prelude (lib.lisp) in ip's global
// environment — `list`, `not`, and the `and`/`or`/`when`/`unless`
// macros every other example in this package's tests assumes exist.
func (ip *Interp) LoadPrelude() error {
	_, err := ip.EvalString(preludeSource)
	return err
}
