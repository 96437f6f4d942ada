package domain

import (
	"errors"
	"reflect"

	"github.com/mouse-blink/reveal/internal/adapter"
	"github.com/mouse-blink/reveal/internal/check"
	"github.com/mouse-blink/reveal/internal/model"
	"github.com/mouse-blink/reveal/internal/resolve"
)

// VerifyAt cross-validates the value observed at a call site against every
// adapter's recorded type for that position. It returns nil only when all
// adapters agree with the runtime type.
func (s *Session) VerifyAt(v any, file string, line int) error {
	pos := model.NewPosition(file, line)

	exprText, err := s.src.recoverExpr(file, line)
	if err != nil {
		return err
	}

	// The call scope plays the role of the caller's namespace: session
	// registrations plus every named type reachable from the observed
	// value itself.
	callScope := s.scope.Child()
	if t := reflect.TypeOf(v); t != nil {
		resolve.BindValueTypes(callScope, t)
	}

	for _, a := range s.adapters {
		if err := s.verifyWith(a, pos, exprText, v, callScope); err != nil {
			return err
		}
	}

	return nil
}

func (s *Session) verifyWith(a adapter.Adapter, pos model.Position, exprText string, v any, scope *resolve.Scope) error {
	rec, ok := a.Table()[pos]
	if !ok {
		return &model.NoInferredTypeError{Checker: a.ID(), Pos: pos}
	}

	// The variable-name guard catches two reveal calls colliding on one
	// line. Adapters whose format has no variable name get it backfilled
	// from the recovered expression, so a later adapter can still compare.
	if rec.Var != "" {
		if rec.Var != exprText {
			return &model.NameMismatchError{Checker: a.ID(), Pos: pos, Want: rec.Var, Got: exprText}
		}
	} else {
		rec.Var = exprText
	}

	expr, err := resolve.Parse(rec.Type)
	if err != nil {
		return err
	}

	res := a.NewResolver(scope)

	resolved, err := res.Resolve(expr)
	if err != nil {
		return err
	}

	ref, err := res.Eval(resolved)
	if err != nil {
		return err
	}

	if err := check.Value(v, ref); err != nil {
		if errors.Is(err, check.ErrNotSubscriptable) {
			return s.retryUnparameterized(a, v, ref, err)
		}

		return &model.MismatchError{Checker: a.ID(), Err: err}
	}

	return nil
}

// retryUnparameterized concedes on parameterized references whose base type
// does not support subscripting at runtime, by checking the bare base type
// instead. Only the simplest, unnested subscript is supported; deeper
// nesting fails outright rather than risk masking a real mismatch.
func (s *Session) retryUnparameterized(a adapter.Adapter, v any, ref check.Ref, orig error) error {
	p, ok := ref.(check.Parameterized)
	if !ok || !unnested(p) {
		return &model.MismatchError{Checker: a.ID(), Err: orig}
	}

	if err := check.Value(v, p.Base); err != nil {
		return &model.MismatchError{Checker: a.ID(), Err: err}
	}

	return nil
}

func unnested(p check.Parameterized) bool {
	if _, ok := p.Base.(check.Parameterized); ok {
		return false
	}

	for _, arg := range p.Args {
		if _, ok := arg.(check.Parameterized); ok {
			return false
		}
	}

	return true
}
