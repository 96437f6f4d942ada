package model

import (
	"errors"
	"fmt"
)

// ErrCallSite signals that the source line behind a reveal call did not
// contain the expected call expression. This is an internal invariant
// violation, not a user-facing configuration problem.
var ErrCallSite = errors.New("reveal call not found on caller's source line")

// InvocationError reports that an external checker could not be run at all:
// the tool is missing, exited unexpectedly, or produced an unreadable
// output stream. Fatal for the whole session.
type InvocationError struct {
	Checker string
	Reason  string
	Err     error
}

func (e *InvocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Checker, e.Reason, e.Err)
	}

	return fmt.Sprintf("%s: %s", e.Checker, e.Reason)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// DiagnosticError reports that a checker found a real problem (error or
// warning severity) in a checked file. Fatal before any verification runs.
type DiagnosticError struct {
	Checker string
	Message string
	File    string
	Line    int
}

func (e *DiagnosticError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", e.Checker, e.Message)
	}

	return fmt.Sprintf("%s: %s:%d: %s", e.Checker, e.File, e.Line, e.Message)
}

// NoInferredTypeError reports that a checker recorded nothing for a call
// position, usually a line-number mismatch or code the checker never reached.
type NoInferredTypeError struct {
	Checker string
	Pos     Position
}

func (e *NoInferredTypeError) Error() string {
	return fmt.Sprintf("no inferred type from %s at %s", e.Checker, e.Pos)
}

// NameMismatchError reports that the recovered expression text disagrees
// with the variable name a checker recorded at the same position.
type NameMismatchError struct {
	Checker string
	Pos     Position
	Want    string
	Got     string
}

func (e *NameMismatchError) Error() string {
	return fmt.Sprintf("%s at %s: variable name should be %q, but got %q",
		e.Checker, e.Pos, e.Want, e.Got)
}

// ResolutionError reports a type expression identifier that could not be
// resolved in any known namespace. Both attempted forms are named so the
// failing lookup is reproducible.
type ResolutionError struct {
	Dotted string
	Bare   string
}

func (e *ResolutionError) Error() string {
	if e.Dotted == "" || e.Dotted == e.Bare {
		return fmt.Sprintf("cannot resolve %q", e.Bare)
	}

	return fmt.Sprintf("cannot resolve %q or %q", e.Dotted, e.Bare)
}

// MismatchError wraps a structural check failure with the identity of the
// checker whose recorded type disagreed with the runtime value.
type MismatchError struct {
	Checker string
	Err     error
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("(%s) %v", e.Checker, e.Err)
}

func (e *MismatchError) Unwrap() error { return e.Err }
