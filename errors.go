package lc

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind enumerates the §7 fatal-error taxonomy. Every case in the
// evaluator, reader and environment that the spec marks fatal
// constructs one of these instead of returning a recoverable error
// Value — there is no such Value in this tag set.
type ErrorKind int

const (
	KindLex ErrorKind = iota
	KindBinding
	KindApplication
	KindNumeric
	KindMemory
	KindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case KindLex:
		return "lex/parse"
	case KindBinding:
		return "binding"
	case KindApplication:
		return "application"
	case KindNumeric:
		return "numeric"
	case KindMemory:
		return "memory"
	case KindConfig:
		return "config"
	default:
		return "error"
	}
}

// FatalError is the single error type this interpreter raises for any
// semantic or lexical failure. §7 draws no distinction between
// "recoverable" and "fatal" within a kind — every FatalError ends the
// whole EvalString/EvalReader/LoadFile/REPL call it is raised in (later
// top-level forms of the same source are not evaluated; see
// Interp.evalStream) or, from the driver, the process.
//
// Position is best-effort: the reader always has one, the evaluator
// generally doesn't (source locations in error messages are an
// explicit non-goal), so it is left at its zero value there.
type FatalError struct {
	Kind    ErrorKind
	Message string
	Pos     Position
	cause   error
}

func (e *FatalError) Error() string {
	if e.Pos.Valid {
		return fmt.Sprintf("%s error at line %d, column %d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause, if any, so errors.Is/As can
// reach it. Error (and so %v or %+v of a FatalError) prints only the
// kind, position and message, not the cause.
func (e *FatalError) Unwrap() error { return e.cause }

func newFatal(kind ErrorKind, format string, args ...interface{}) *FatalError {
	return &FatalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func newFatalAt(kind ErrorKind, pos Position, format string, args ...interface{}) *FatalError {
	return &FatalError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// wrapFatal attaches cause to a fatal diagnostic the way
// db47h-ngaro/vm/mem.go wraps a failed image read with
// errors.Wrap(err, "cell read failed") — the low-level I/O failure
// (a file that can't be opened by `load`, a Reader that errors mid
// stream) survives as the FatalError's cause instead of being
// discarded.
func wrapFatal(kind ErrorKind, cause error, format string, args ...interface{}) *FatalError {
	return &FatalError{Kind: kind, Message: fmt.Sprintf(format, args...), cause: errors.Wrap(cause, kind.String())}
}
