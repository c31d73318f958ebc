// Package pipeline wires together C1 through C10 into the single
// straight-line compilation the CLI and REPL both drive: parse, resolve,
// type check, uncurry, normalize to KNF then ANF, monomorphize, convert
// closures, and emit C. Per spec.md §5 the compiler is single-threaded and
// batch: each pass fully consumes its input IR and the predecessor is
// dropped once its successor has been built.
package pipeline

import (
	"time"

	"github.com/knfc-lang/knfc/internal/anf"
	"github.com/knfc-lang/knfc/internal/closure"
	"github.com/knfc-lang/knfc/internal/codegen"
	"github.com/knfc-lang/knfc/internal/knf"
	"github.com/knfc-lang/knfc/internal/mono"
	"github.com/knfc-lang/knfc/internal/parser"
	"github.com/knfc-lang/knfc/internal/resolve"
	"github.com/knfc-lang/knfc/internal/typecheck"
	"github.com/knfc-lang/knfc/internal/typedast"
	"github.com/knfc-lang/knfc/internal/uncurry"
)

// Config controls which intermediate forms Run retains for inspection,
// mirroring the CLI's `dump <phase>` subcommand (spec.md §6.2).
type Config struct {
	DumpResolved bool
	DumpTyped    bool
	DumpUncurry  bool
	DumpKNF      bool
	DumpANF      bool
	DumpMono     bool
	DumpClosure  bool
	DumpC        bool
}

// Source is one compilation unit.
type Source struct {
	Filename string
	Code     []byte
}

// Artifacts holds whichever intermediate representations Config asked Run
// to retain; every other field is left nil so large IRs can be garbage
// collected as soon as the pass after them finishes.
type Artifacts struct {
	Resolved resolve.Expr
	Typed    typedast.Expr
	Uncurry  uncurry.Expr
	KNF      knf.Expr
	ANF      knf.Expr
	Mono     knf.Expr
	Closure  *closure.Program
}

// Result is Run's output: the generated C source plus whatever artifacts
// were requested and per-phase timings in milliseconds.
type Result struct {
	C            string
	Artifacts    Artifacts
	PhaseTimings map[string]int64
}

// Run executes C1 through C10 over src. Any phase's failure aborts the
// pipeline immediately with a *errors.Report (spec.md §5, "Failure
// ordering"); later phases never observe inconsistent state.
func Run(cfg Config, src Source) (Result, error) {
	result := Result{PhaseTimings: make(map[string]int64)}

	timed := func(phase string, fn func() error) error {
		start := time.Now()
		err := fn()
		result.PhaseTimings[phase] = time.Since(start).Milliseconds()
		return err
	}

	surfaceExpr, err := parser.Parse(src.Filename, src.Code)
	if err != nil {
		return result, err
	}

	var resolved resolve.Expr
	if err := timed("resolve", func() error {
		var resolveErr error
		resolved, resolveErr = resolve.New().Resolve(surfaceExpr)
		return resolveErr
	}); err != nil {
		return result, err
	}
	if cfg.DumpResolved {
		result.Artifacts.Resolved = resolved
	}

	var typed typedast.Expr
	if err := timed("typecheck", func() error {
		var typeErr error
		typed, typeErr = typecheck.Infer(resolved)
		return typeErr
	}); err != nil {
		return result, err
	}
	if cfg.DumpTyped {
		result.Artifacts.Typed = typed
	}

	var uncurried uncurry.Expr
	_ = timed("uncurry", func() error {
		uncurried = uncurry.Uncurry(typed)
		return nil
	})
	if cfg.DumpUncurry {
		result.Artifacts.Uncurry = uncurried
	}

	var knfExpr knf.Expr
	_ = timed("knf", func() error {
		knfExpr = knf.KNF(uncurried)
		return nil
	})
	if cfg.DumpKNF {
		result.Artifacts.KNF = knfExpr
	}

	var anfExpr knf.Expr
	_ = timed("anf", func() error {
		anfExpr = anf.ANF(knfExpr)
		return nil
	})
	if cfg.DumpANF {
		result.Artifacts.ANF = anfExpr
	}

	var monoExpr knf.Expr
	if err := timed("monomorphize", func() error {
		var monoErr error
		monoExpr, monoErr = mono.Monomorphize(anfExpr)
		return monoErr
	}); err != nil {
		return result, err
	}
	if cfg.DumpMono {
		result.Artifacts.Mono = monoExpr
	}

	var program *closure.Program
	_ = timed("closure", func() error {
		program = closure.Convert(monoExpr)
		return nil
	})
	if cfg.DumpClosure {
		result.Artifacts.Closure = program
	}

	var cSource string
	if err := timed("emit", func() error {
		var emitErr error
		cSource, emitErr = codegen.Emit(program)
		return emitErr
	}); err != nil {
		return result, err
	}
	result.C = cSource

	return result, nil
}
