// Package errors provides the compiler's structured diagnostic type and
// the error-code taxonomy from spec.md §7, organized by phase so every
// failure is both human-readable and machine-addressable.
package errors

// Error code constants, one family per pipeline phase. Each phase gets a
// numeric range so new codes can be added without renumbering.
const (
	// Parser errors (PAR###) — malformed source.
	PAR001UnexpectedToken  = "PAR001"
	PAR002MissingDelimiter = "PAR002"
	PAR003InvalidLet       = "PAR003"
	PAR004InvalidLambda    = "PAR004"
	PAR005InvalidType      = "PAR005"

	// Name resolution errors (RES###) — free identifiers.
	RES001UnboundVariable = "RES001"

	// Type checking errors (TC###) — unification, occurs-check, missing
	// annotations, non-function application.
	TC001Unify              = "TC001"
	TC002Occurs             = "TC002"
	TC003MissingAnnotation  = "TC003"
	TC004NotAFunction       = "TC004"
	TC005UnboundVariable    = "TC005"

	// Monomorphization errors (MONO###) — TypeError per spec.md §4.7,
	// raised when instance specialization hits an internal inconsistency.
	MONO001UnifyInstance = "MONO001"

	// Emitter errors (IMP###) — unresolved variable during lowering,
	// unsupported operator, unexpected form.
	IMP001UnresolvedVar     = "IMP001"
	IMP002UnsupportedOp     = "IMP002"
	IMP003UnexpectedForm    = "IMP003"
	IMP004UnmonomorphizedTy = "IMP004"

	// Internal errors (INT###) — invariant broken; should not occur on a
	// well-formed input.
	INT001InvariantBroken = "INT001"
)
