package reveal

import "github.com/mouse-blink/reveal/internal/model"

// Re-exported error types so callers can match verification failures with
// errors.As without importing internal packages.
type (
	// InvocationError means a checker could not be run at all.
	InvocationError = model.InvocationError

	// DiagnosticError means a checker reported a real problem in a checked
	// file before any verification ran.
	DiagnosticError = model.DiagnosticError

	// NoInferredTypeError means a checker recorded nothing for a call site.
	NoInferredTypeError = model.NoInferredTypeError

	// NameMismatchError means the recovered expression text disagrees with
	// the variable name a checker recorded.
	NameMismatchError = model.NameMismatchError

	// ResolutionError means a checker-reported type name could not be
	// resolved against any registered namespace.
	ResolutionError = model.ResolutionError

	// MismatchError means the runtime value's structure disagrees with a
	// checker's inferred type.
	MismatchError = model.MismatchError
)
