package domain

import (
	"context"
	"fmt"

	"github.com/mouse-blink/reveal/internal/adapter"
	"github.com/mouse-blink/reveal/internal/resolve"
)

// Session owns the adapter instances and the name registrations for one
// test run. Checkers run exactly once, at session start; every later reveal
// call is a pure in-memory lookup against the populated tables. The whole
// flow is synchronous by design, so no locking happens here.
type Session struct {
	adapters []adapter.Adapter
	scope    *resolve.Scope
	src      *sourceCache
}

// NewSession wires the given adapters, in verification order, with the
// session-level resolution scope.
func NewSession(adapters []adapter.Adapter, scope *resolve.Scope) *Session {
	if scope == nil {
		scope = resolve.NewScope()
	}

	return &Session{
		adapters: adapters,
		scope:    scope,
		src:      newSourceCache(),
	}
}

// Adapters returns the session's adapters in verification order.
func (s *Session) Adapters() []adapter.Adapter { return s.adapters }

// Scope returns the session-level resolution scope, for registering types
// the checkers will refer to.
func (s *Session) Scope() *resolve.Scope { return s.scope }

// RunCheckers invokes every adapter over the given files, sequentially and
// in the fixed verification order. The first failure aborts: a checker
// problem must surface before any test body runs.
func (s *Session) RunCheckers(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("no test files to check")
	}

	for _, a := range s.adapters {
		if err := a.RunTypecheckerOn(ctx, files); err != nil {
			return err
		}
	}

	return nil
}
