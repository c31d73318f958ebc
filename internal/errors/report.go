package errors

import (
	"fmt"

	"github.com/knfc-lang/knfc/internal/ast"
)

// Kind is one of the five error kinds spec.md §7 names.
type Kind string

const (
	KindParse           Kind = "ParseError"
	KindUnboundVariable Kind = "UnboundVariable"
	KindTypeError       Kind = "TypeError"
	KindImpError        Kind = "ImpError"
	KindInternal        Kind = "Internal"
)

// UserFacing reports whether this kind should be shown to the user as a
// source problem, as opposed to a compiler bug (ImpError, Internal).
func (k Kind) UserFacing() bool {
	return k == KindParse || k == KindUnboundVariable || k == KindTypeError
}

// Report is the compiler's single structured diagnostic type. Every pass
// returns either a value or a *Report wrapped as an error; there is no
// local recovery (spec.md §7).
type Report struct {
	Kind    Kind
	Code    string
	Phase   string
	Message string
	Pos     *ast.Pos
}

func (r *Report) Error() string {
	if r.Pos != nil {
		return fmt.Sprintf("%s [%s] %s: %s", r.Pos, r.Code, r.Phase, r.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", r.Code, r.Phase, r.Message)
}

// New builds a Report.
func New(kind Kind, code, phase, message string, pos *ast.Pos) *Report {
	return &Report{Kind: kind, Code: code, Phase: phase, Message: message, Pos: pos}
}

// Parse, Unbound, TypeErr, Imp and Internal are constructors for each kind,
// used throughout the pipeline instead of ad hoc fmt.Errorf so every
// failure carries a code and a phase.
func Parse(code, message string, pos ast.Pos) *Report {
	return New(KindParse, code, "parse", message, &pos)
}

func Unbound(code, message string, pos ast.Pos) *Report {
	return New(KindUnboundVariable, code, "resolve", message, &pos)
}

func TypeErr(code, phase, message string, pos *ast.Pos) *Report {
	return New(KindTypeError, code, phase, message, pos)
}

func Imp(code, message string) *Report {
	return New(KindImpError, code, "emit", message, nil)
}

func Internal(phase, message string) *Report {
	return New(KindInternal, INT001InvariantBroken, phase, message, nil)
}
