package lc

import "fmt"

// registerBuiltins installs every native primitive §4.6/§7 name into
// ip's global environment. Grounded on the teacher's api.go pattern of
// a single registration pass wiring Go funcs into the evaluator's
// namespace, generalized from "builtin parsing expressions" to
// "builtin Lisp procedures".
func registerBuiltins(ip *Interp) {
	ip.defBuiltin("car", func(args *Value) *Value {
		v := first(args)
		if v.IsPair() {
			return v.Car
		}
		return NilValue
	})
	ip.defBuiltin("cdr", func(args *Value) *Value {
		v := first(args)
		if v.IsPair() {
			return v.Cdr
		}
		return NilValue
	})
	ip.defBuiltin("cons", func(args *Value) *Value {
		return ip.cons(first(args), nthArg(args, 1))
	})
	ip.defBuiltin("length", func(args *Value) *Value {
		n := listLength(first(args))
		if n < 0 {
			return NilValue
		}
		out := ip.Heap.Alloc(TagInteger)
		out.Int = int64(n)
		return out
	})

	ip.defBuiltin("nil?", func(args *Value) *Value { return ip.boolVal(first(args).IsNil()) })
	ip.defBuiltin("symbol?", func(args *Value) *Value { return ip.boolVal(first(args).IsSymbol()) })
	ip.defBuiltin("string?", func(args *Value) *Value { return ip.boolVal(first(args).IsString()) })
	ip.defBuiltin("integer?", func(args *Value) *Value { return ip.boolVal(first(args).IsInteger()) })
	ip.defBuiltin("pair?", func(args *Value) *Value { return ip.boolVal(first(args).IsPair()) })
	ip.defBuiltin("function?", func(args *Value) *Value { return ip.boolVal(first(args).IsFunction()) })
	ip.defBuiltin("builtin?", func(args *Value) *Value { return ip.boolVal(first(args).IsBuiltin()) })
	ip.defBuiltin("procedure?", func(args *Value) *Value { return ip.boolVal(first(args).IsProcedure()) })

	ip.defBuiltin("eq?", func(args *Value) *Value { return ip.boolVal(eq(first(args), nthArg(args, 1))) })
	ip.defBuiltin("eqv?", func(args *Value) *Value { return ip.boolVal(eqv(first(args), nthArg(args, 1))) })
	ip.defBuiltin("equal?", func(args *Value) *Value { return ip.boolVal(equalValue(first(args), nthArg(args, 1))) })

	ip.defBuiltin("+", func(args *Value) *Value {
		return ip.numericFold(args, 0, func(a, b int64) int64 { return a + b })
	})
	ip.defBuiltin("-", func(args *Value) *Value {
		return ip.numericFold(args, 0, func(a, b int64) int64 { return a - b })
	})
	ip.defBuiltin("*", func(args *Value) *Value {
		return ip.numericFold(args, 1, func(a, b int64) int64 { return a * b })
	})
	ip.defBuiltin("/", func(args *Value) *Value {
		return ip.numericFold(args, 1, func(a, b int64) int64 {
			if b == 0 {
				panic(newFatal(KindNumeric, "division by zero"))
			}
			return a / b
		})
	})

	ip.defBuiltin("<", func(args *Value) *Value { return ip.compareChain(args, func(a, b int64) bool { return a < b }) })
	ip.defBuiltin("<=", func(args *Value) *Value { return ip.compareChain(args, func(a, b int64) bool { return a <= b }) })
	ip.defBuiltin(">", func(args *Value) *Value { return ip.compareChain(args, func(a, b int64) bool { return a > b }) })
	ip.defBuiltin(">=", func(args *Value) *Value { return ip.compareChain(args, func(a, b int64) bool { return a >= b }) })
	ip.defBuiltin("=", func(args *Value) *Value { return ip.compareChain(args, func(a, b int64) bool { return a == b }) })

	// print concatenates its arguments' reader-syntax representation
	// with no separators and no trailing newline — the driver's own
	// top-level print loop is what supplies the newline between forms.
	ip.defBuiltin("print", func(args *Value) *Value {
		for a := args; a.IsPair(); a = a.Cdr {
			fmt.Print(Print(a.Car))
		}
		return NilValue
	})

	ip.defBuiltin("load", func(args *Value) *Value {
		path := first(args)
		if !path.IsString() {
			panic(newFatal(KindApplication, "load: path must be a string"))
		}
		if err := ip.LoadFile(path.Str); err != nil {
			panic(err)
		}
		return NilValue
	})
}

func (ip *Interp) defBuiltin(name string, fn BuiltinFn) {
	v := ip.Heap.Alloc(TagBuiltin)
	v.BuiltinName = name
	v.Builtin = fn
	ip.Global.Define(ip.Symtab.Intern(name), v)
}

func (ip *Interp) boolVal(b bool) *Value {
	if b {
		return ip.wk.tSym
	}
	return NilValue
}

// first and nthArg walk an already-evaluated argument list (a proper
// list Value, as every builtin receives it); both default to Nil past
// the end rather than erroring, matching §7's "wrong arity to a
// builtin is silently padded with Nil" leniency for these low-level
// accessors.
func first(args *Value) *Value { return nthArg(args, 0) }

func nthArg(args *Value, n int) *Value {
	for n > 0 && args.IsPair() {
		args = args.Cdr
		n--
	}
	if args.IsPair() {
		return args.Car
	}
	return NilValue
}

// numericFold implements §4.6's arithmetic folding rule: zero
// arguments apply op to the identity against itself, one argument
// applies op with the identity as the left operand (so `(- x)` is
// negation and `(/ x)` is integer division of 1 by x), and two or
// more fold left starting from the first argument. A non-Integer
// anywhere in the list yields Nil rather than a fatal error.
func (ip *Interp) numericFold(args *Value, ident int64, op func(a, b int64) int64) *Value {
	vals := listToSlice(args)
	nums := make([]int64, len(vals))
	for i, v := range vals {
		if !v.IsInteger() {
			return NilValue
		}
		nums[i] = v.Int
	}
	var result int64
	switch len(nums) {
	case 0:
		result = op(ident, ident)
	case 1:
		result = op(ident, nums[0])
	default:
		result = nums[0]
		for _, n := range nums[1:] {
			result = op(result, n)
		}
	}
	out := ip.Heap.Alloc(TagInteger)
	out.Int = result
	return out
}

// compareChain reports whether cmp holds between every adjacent pair
// in args (true vacuously for fewer than two arguments). A
// non-Integer anywhere yields Nil.
func (ip *Interp) compareChain(args *Value, cmp func(a, b int64) bool) *Value {
	vals := listToSlice(args)
	nums := make([]int64, len(vals))
	for i, v := range vals {
		if !v.IsInteger() {
			return NilValue
		}
		nums[i] = v.Int
	}
	for i := 0; i+1 < len(nums); i++ {
		if !cmp(nums[i], nums[i+1]) {
			return NilValue
		}
	}
	return ip.wk.tSym
}
