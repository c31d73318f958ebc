package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/knfc-lang/knfc/internal/parser"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/typecheck"
)

func runCheck(args []string) {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
		fmt.Println("Usage: knfc check <file>")
		os.Exit(1)
	}
	filename := fs.Arg(0)

	code, err := os.ReadFile(filename)
	if err != nil {
		printReportAndExit(err)
	}

	surface, err := parser.Parse(filename, code)
	if err != nil {
		printReportAndExit(err)
	}

	resolved, err := resolve.New().Resolve(surface)
	if err != nil {
		printReportAndExit(err)
	}

	if _, err := typecheck.Infer(resolved); err != nil {
		printReportAndExit(err)
	}

	fmt.Printf("%s %s type-checks\n", green("✓"), filename)
}
