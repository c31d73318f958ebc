// Command knfc is the batch compiler: it reads one source file, runs it
// through the full resolve→typecheck→uncurry→KNF→ANF→mono→closure→emit
// pipeline, and writes the generated C translation unit.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

var (
	// Version info - set by ldflags during build.
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"

	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		runBuild(os.Args[2:])
	case "check":
		runCheck(os.Args[2:])
	case "dump":
		runDump(os.Args[2:])
	case "repl":
		runREPL(os.Args[2:])
	case "--version", "version":
		printVersion()
	case "--help", "-h", "help":
		printHelp()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), os.Args[1])
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("knfc %s\n", bold(Version))
	if Commit != "unknown" {
		fmt.Printf("Commit: %s\n", Commit)
	}
	if BuildTime != "unknown" {
		fmt.Printf("Built:  %s\n", BuildTime)
	}
}

func printHelp() {
	fmt.Println(bold("knfc - a whole-program compiler to C"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  knfc <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Printf("  %s <file> [--output OUT] [--compile] [--exec NAME]\n", cyan("build"))
	fmt.Println("      Compile a source file to C (and optionally compile/run it).")
	fmt.Printf("  %s <file>\n", cyan("check"))
	fmt.Println("      Type-check a file without emitting C.")
	fmt.Printf("  %s <phase> <file>\n", cyan("dump"))
	fmt.Println("      Print one intermediate form and exit. Phases: resolved, typed,")
	fmt.Println("      uncurry, knf, anf, mono, closure, c.")
	fmt.Printf("  %s\n", cyan("repl"))
	fmt.Println("      Start the interactive REPL.")
	fmt.Println()
	fmt.Println("Flags:")
	fmt.Println("  --version   Print version information")
	fmt.Println("  --help      Show this help message")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Printf("  %s\n", cyan("knfc build main.knf --output main.c"))
	fmt.Printf("  %s\n", cyan("knfc build main.knf --compile --exec main"))
	fmt.Printf("  %s\n", cyan("knfc dump knf main.knf"))
}

func printReportAndExit(err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
	os.Exit(1)
}
