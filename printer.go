package lc

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Print renders v in reader-acceptable syntax where one exists,
// matching §4.5's Printer: Nil as "nil", Symbols by name, Integers in
// decimal, Strings double-quoted, Pairs space-separated inside `()`
// with a `.` before an improper final cdr, and procedures as opaque
// `#<...>` tokens. Grounded on the teacher's Text visitor
// (value.go/tree_printer.go) — the recursive structure is the same,
// traded from interface Accept dispatch to a Tag switch because Value
// here is a closed variant, not an open interface.
func Print(v *Value) string {
	var sb strings.Builder
	Fprint(&sb, v)
	return sb.String()
}

// Fprint writes Print's output to w directly, avoiding an intermediate
// string for the common case of printing straight to stdout.
func Fprint(w io.Writer, v *Value) {
	printValue(w, v)
}

func printValue(w io.Writer, v *Value) {
	if v.IsNil() {
		io.WriteString(w, "nil")
		return
	}
	switch v.Tag {
	case TagSymbol:
		io.WriteString(w, v.Str)
	case TagInteger:
		io.WriteString(w, strconv.FormatInt(v.Int, 10))
	case TagString:
		io.WriteString(w, strconv.Quote(v.Str))
	case TagPair:
		printPair(w, v)
	case TagBuiltin:
		printProcedure(w, "builtin", v.BuiltinName)
	case TagFunction:
		printProcedure(w, "function", v.FnName)
	case TagMacro:
		printProcedure(w, "macro", v.FnName)
	default:
		fmt.Fprintf(w, "#<%s>", v.Tag)
	}
}

func printProcedure(w io.Writer, kind, name string) {
	if name == "" {
		fmt.Fprintf(w, "#<%s>", kind)
		return
	}
	fmt.Fprintf(w, "#<%s %s>", kind, name)
}

func printPair(w io.Writer, v *Value) {
	io.WriteString(w, "(")
	first := true
	for {
		if !first {
			io.WriteString(w, " ")
		}
		first = false
		printValue(w, v.Car)
		switch {
		case v.Cdr.IsNil():
			io.WriteString(w, ")")
			return
		case v.Cdr.IsPair():
			v = v.Cdr
		default:
			io.WriteString(w, " . ")
			printValue(w, v.Cdr)
			io.WriteString(w, ")")
			return
		}
	}
}
