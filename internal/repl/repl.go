// Package repl provides an interactive loop for trying the compiler one
// expression at a time: each line runs through the same resolve→typecheck→
// uncurry→KNF→ANF→mono→closure→emit pipeline the batch CLI uses, the
// generated translation unit is written to a temp file, and (if a C
// compiler is available) compiled and run so its printed result comes
// straight back to the prompt.
package repl

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/knfc-lang/knfc/internal/pipeline"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Config controls the REPL's optional behaviors.
type Config struct {
	CC      string // defaults to "cc" if empty
	Version string
}

// REPL is a single interactive session; each evaluated line is independent
// (spec.md's language has no persistent top-level bindings to thread
// between lines, so there is no environment to carry across prompts).
type REPL struct {
	config  Config
	history []string
}

// New returns a REPL ready to Start.
func New(cfg Config) *REPL {
	if cfg.CC == "" {
		cfg.CC = "cc"
	}
	return &REPL{config: cfg}
}

// Start runs the read-eval-print loop until EOF or a :quit command.
func (r *REPL) Start(out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(true)

	historyFile := filepath.Join(os.TempDir(), ".knfc_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	versionStr := r.config.Version
	if versionStr == "" {
		versionStr = "dev"
	}
	fmt.Fprintf(out, "%s %s\n", bold("knfc"), bold(versionStr))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(s string) (c []string) {
		if !strings.HasPrefix(s, ":") {
			return nil
		}
		for _, cmd := range []string{":help", ":quit", ":history"} {
			if strings.HasPrefix(cmd, s) {
				c = append(c, cmd)
			}
		}
		return c
	})

	for {
		input, err := line.Prompt("knfc> ")
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		r.history = append(r.history, input)

		if strings.HasPrefix(input, ":") {
			if r.handleCommand(input, out) {
				break
			}
			continue
		}

		r.evalLine(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// handleCommand processes a ":"-prefixed REPL command, returning true if
// the session should end.
func (r *REPL) handleCommand(input string, out io.Writer) bool {
	switch {
	case input == ":quit" || input == ":q" || input == ":exit":
		fmt.Fprintln(out, green("Goodbye!"))
		return true
	case input == ":help":
		fmt.Fprintln(out, dim("  :help     show this message"))
		fmt.Fprintln(out, dim("  :history  show evaluated lines"))
		fmt.Fprintln(out, dim("  :quit     exit the REPL"))
		return false
	case input == ":history":
		for i, h := range r.history {
			fmt.Fprintf(out, "%3d  %s\n", i+1, h)
		}
		return false
	default:
		fmt.Fprintf(out, "%s: unknown command %q\n", yellow("warning"), input)
		return false
	}
}

// evalLine runs one expression through the full pipeline, compiles the
// generated C with the configured compiler, runs it, and prints the
// captured stdout. Any failure at any phase is reported and the REPL
// continues with the next line.
func (r *REPL) evalLine(src string, out io.Writer) {
	res, err := pipeline.Run(pipeline.Config{}, pipeline.Source{Filename: "<repl>", Code: []byte(src)})
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}

	dir, err := os.MkdirTemp("", "knfc-repl-*")
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}
	defer os.RemoveAll(dir)

	cPath := filepath.Join(dir, "out.c")
	if err := os.WriteFile(cPath, []byte(res.C), 0o644); err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("error"), err)
		return
	}

	binPath := filepath.Join(dir, "a.out")
	if out2, err := exec.Command(r.config.CC, cPath, "-o", binPath).CombinedOutput(); err != nil {
		fmt.Fprintf(out, "%s: %v\n%s\n", red("compile error"), err, string(out2))
		return
	}

	result, err := exec.Command(binPath).CombinedOutput()
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("runtime error"), err)
		return
	}
	fmt.Fprint(out, string(result))
}
