// Command lc is the driver for the lc interpreter: it loads the
// startup prelude, optionally loads one source file (-load), and
// then either evaluates a single expression, evaluates every file
// named on the command line, or falls into an interactive
// read-expand-eval-print loop over stdin. Grounded on the teacher's
// cmd/main.go (flag-parsed options, log.Fatal on the first
// unrecoverable error) and cmd/langlang/main.go's REPL shape, adapted
// from "grammar in, parser out" to "source in, values out".
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/clarete/lc"
)

func main() {
	var (
		loadPath  = flag.String("load", "", "path to a source file to load after the prelude and before anything else")
		evalExpr  = flag.String("eval", "", "evaluate this expression instead of reading stdin")
		noPrelude = flag.Bool("no-prelude", false, "skip loading the startup prelude (lib.lisp)")
	)
	flag.Parse()

	ip := lc.New(nil)

	if !*noPrelude {
		if err := ip.LoadPrelude(); err != nil {
			log.Fatalf("prelude: %s", err)
		}
	}
	if *loadPath != "" {
		if err := ip.LoadFile(*loadPath); err != nil {
			log.Fatalf("load %s: %s", *loadPath, err)
		}
	}

	switch {
	case *evalExpr != "":
		result, err := ip.EvalString(*evalExpr)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(lc.Print(result))

	case flag.NArg() > 0:
		for _, path := range flag.Args() {
			if err := ip.LoadFile(path); err != nil {
				log.Fatalf("load %s: %s", path, err)
			}
		}

	default:
		if err := ip.REPL(os.Stdin, os.Stdout); err != nil {
			log.Fatal(err)
		}
	}
}
