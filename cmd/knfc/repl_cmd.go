package main

import (
	"flag"
	"os"

	"github.com/knfc-lang/knfc/internal/repl"
)

func runREPL(args []string) {
	fs := flag.NewFlagSet("repl", flag.ExitOnError)
	cc := fs.String("cc", "", "C compiler to invoke for each evaluated line (default: cc)")
	fs.Parse(args)

	r := repl.New(repl.Config{CC: *cc, Version: Version})
	r.Start(os.Stdout)
}
