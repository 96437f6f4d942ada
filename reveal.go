// Package reveal lets a Go test suite assert that a static checker's
// inferred type for an expression matches the type observed at runtime.
//
// Test code wraps expressions in reveal.Type(expr). Before any test body
// executes, the configured external checkers are run once over the
// package's test files (see Main) and their diagnostics are collected into
// position-indexed tables. Each reveal.Type call then recovers its argument
// expression from source, resolves every checker's recorded type text
// against the live resolution scope, and structurally checks the actual
// value, failing the test on any disagreement.
package reveal

import (
	"runtime"

	"github.com/mouse-blink/reveal/internal/model"
)

// current is the installed session. The session is installed exactly once
// before tests run and verification is synchronous throughout, so access is
// deliberately unsynchronized.
var current *Session

// Install makes s the active session for reveal.Type and returns a restore
// function for the previous one.
func Install(s *Session) (restore func()) {
	prev := current
	current = s

	return func() { current = prev }
}

// Type is the intercepted function. It returns its argument unchanged; when
// a session is installed it first cross-validates the value's runtime type
// against every checker's recorded type for this call site, and fails the
// test (by panicking with the typed error) on any disagreement. Without a
// session it is a plain pass-through, so checkers type it like the real
// thing.
func Type[T any](v T) T {
	s := current
	if s == nil {
		return v
	}

	_, file, line, ok := runtime.Caller(1)
	if !ok {
		panic(model.ErrCallSite)
	}

	if err := s.inner.VerifyAt(v, file, line); err != nil {
		panic(err)
	}

	return v
}
