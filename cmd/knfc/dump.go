package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/knfc-lang/knfc/internal/pipeline"
	"github.com/knfc-lang/knfc/internal/resolve"
)

var dumpPhases = map[string]bool{
	"resolved": true, "typed": true, "uncurry": true, "knf": true,
	"anf": true, "mono": true, "closure": true, "c": true,
}

func runDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintf(os.Stderr, "%s: usage: knfc dump <phase> <file>\n", red("Error"))
		fmt.Println("Phases: resolved, typed, uncurry, knf, anf, mono, closure, c")
		os.Exit(1)
	}
	phase, filename := fs.Arg(0), fs.Arg(1)
	if !dumpPhases[phase] {
		fmt.Fprintf(os.Stderr, "%s: unknown phase %q\n", red("Error"), phase)
		os.Exit(1)
	}

	code, err := os.ReadFile(filename)
	if err != nil {
		printReportAndExit(err)
	}

	cfg := pipeline.Config{
		DumpResolved: phase == "resolved",
		DumpTyped:    phase == "typed",
		DumpUncurry:  phase == "uncurry",
		DumpKNF:      phase == "knf",
		DumpANF:      phase == "anf",
		DumpMono:     phase == "mono",
		DumpClosure:  phase == "closure",
	}

	res, err := pipeline.Run(cfg, pipeline.Source{Filename: filename, Code: code})
	if err != nil {
		printReportAndExit(err)
	}

	switch phase {
	case "resolved":
		fmt.Println(resolve.Print(res.Artifacts.Resolved))
	case "typed":
		fmt.Printf("%+v\n", res.Artifacts.Typed)
	case "uncurry":
		fmt.Printf("%+v\n", res.Artifacts.Uncurry)
	case "knf":
		fmt.Printf("%+v\n", res.Artifacts.KNF)
	case "anf":
		fmt.Printf("%+v\n", res.Artifacts.ANF)
	case "mono":
		fmt.Printf("%+v\n", res.Artifacts.Mono)
	case "closure":
		fmt.Printf("%+v\n", res.Artifacts.Closure)
	case "c":
		fmt.Print(res.C)
	}
}
