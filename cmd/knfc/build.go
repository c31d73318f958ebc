package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"

	"github.com/knfc-lang/knfc/internal/manifest"
	"github.com/knfc-lang/knfc/internal/pipeline"
)

func runBuild(args []string) {
	fs := flag.NewFlagSet("build", flag.ExitOnError)
	output := fs.String("output", "", "Write generated C to this path (default: stdout)")
	compile := fs.Bool("compile", false, "Invoke the system C compiler on the generated output")
	cc := fs.String("cc", "", "C compiler to invoke with --compile (default: cc, or knfc.yaml's cc)")
	execName := fs.String("exec", "", "After --compile, run the resulting binary and exit with its status")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "%s: missing file argument\n", red("Error"))
		fmt.Println("Usage: knfc build <file> [--output OUT] [--compile] [--exec NAME]")
		os.Exit(1)
	}
	entry := fs.Arg(0)

	m, err := manifest.Load("knfc.yaml")
	if err != nil {
		printReportAndExit(err)
	}
	overrides := m.Apply(manifest.Overrides{
		Entry:   entry,
		Output:  *output,
		Compile: *compile,
		CC:      *cc,
		Exec:    *execName,
	})

	code, err := os.ReadFile(overrides.Entry)
	if err != nil {
		printReportAndExit(err)
	}

	res, err := pipeline.Run(pipeline.Config{}, pipeline.Source{Filename: overrides.Entry, Code: code})
	if err != nil {
		printReportAndExit(err)
	}

	outPath := overrides.Output
	if outPath == "" {
		fmt.Print(res.C)
	} else {
		if err := os.WriteFile(outPath, []byte(res.C), 0o644); err != nil {
			printReportAndExit(err)
		}
		fmt.Printf("%s wrote %s\n", green("✓"), outPath)
	}

	if !overrides.Compile {
		return
	}

	cc2 := overrides.CC
	if cc2 == "" {
		cc2 = "cc"
	}
	if outPath == "" {
		fmt.Fprintf(os.Stderr, "%s: --compile requires --output\n", red("Error"))
		os.Exit(1)
	}

	binPath := overrides.Exec
	if binPath == "" {
		binPath = "a.out"
	}
	if out, err := exec.Command(cc2, outPath, "-o", binPath).CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n%s\n", red("compile error"), err, string(out))
		os.Exit(1)
	}
	fmt.Printf("%s compiled %s\n", green("✓"), binPath)

	if overrides.Exec == "" {
		return
	}
	cmd := exec.Command("./" + binPath)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			os.Exit(ee.ExitCode())
		}
		os.Exit(1)
	}
}
