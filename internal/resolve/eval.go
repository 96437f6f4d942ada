package resolve

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"reflect"
	"strconv"

	"github.com/mouse-blink/reveal/internal/check"
	"github.com/mouse-blink/reveal/internal/model"
)

// Parse parses a sanitized type expression into an AST.
func Parse(text string) (ast.Expr, error) {
	expr, err := parser.ParseExpr(text)
	if err != nil {
		return nil, fmt.Errorf("unparsable type expression %q: %w", text, err)
	}

	return expr, nil
}

// Eval converts a resolved expression tree into a runtime-checkable
// reference. Only identifiers present in the scope or the memo cache are
// dereferenced; there is no dynamic code evaluation.
func (r *Resolver) Eval(expr ast.Expr) (check.Ref, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		if e.Name == "any" {
			return check.Any{}, nil
		}

		if t, ok := r.scope.Type(e.Name); ok {
			return check.Named{Name: e.Name, Type: t}, nil
		}

		if t, ok := r.cache.Get(e.Name); ok {
			return check.Named{Name: e.Name, Type: t}, nil
		}

		return nil, &model.ResolutionError{Bare: e.Name}

	case *ast.SelectorExpr:
		return r.evalSelector(e)

	case *ast.ParenExpr:
		return r.Eval(e.X)

	case *ast.StarExpr:
		elem, err := r.Eval(e.X)
		if err != nil {
			return nil, err
		}

		return check.Ptr{Elem: elem}, nil

	case *ast.ArrayType:
		return r.evalArray(e)

	case *ast.MapType:
		key, err := r.Eval(e.Key)
		if err != nil {
			return nil, err
		}

		elem, err := r.Eval(e.Value)
		if err != nil {
			return nil, err
		}

		return check.Map{Key: key, Elem: elem}, nil

	case *ast.ChanType:
		elem, err := r.Eval(e.Value)
		if err != nil {
			return nil, err
		}

		return check.Chan{Dir: chanDir(e.Dir), Elem: elem}, nil

	case *ast.FuncType:
		return r.evalFunc(e)

	case *ast.InterfaceType:
		if e.Methods == nil || len(e.Methods.List) == 0 {
			return check.Any{}, nil
		}

		return nil, fmt.Errorf("unsupported interface literal in type reference")

	case *ast.IndexExpr:
		return r.evalParameterized(expr, e.X, []ast.Expr{e.Index})

	case *ast.IndexListExpr:
		return r.evalParameterized(expr, e.X, e.Indices)

	default:
		return nil, fmt.Errorf("unsupported type reference shape %T", expr)
	}
}

func (r *Resolver) evalSelector(e *ast.SelectorExpr) (check.Ref, error) {
	parts, ok := flattenSelector(e)
	if !ok {
		return nil, fmt.Errorf("unsupported qualified reference %s", types.ExprString(e))
	}

	dotted := types.ExprString(e)

	if t, ok := r.cache.Get(dotted); ok {
		return check.Named{Name: dotted, Type: t}, nil
	}

	if t, ok := r.scope.Qualified(parts); ok {
		r.cache.Put(dotted, t)
		return check.Named{Name: dotted, Type: t}, nil
	}

	return nil, &model.ResolutionError{Dotted: dotted, Bare: parts[len(parts)-1]}
}

func (r *Resolver) evalArray(e *ast.ArrayType) (check.Ref, error) {
	elem, err := r.Eval(e.Elt)
	if err != nil {
		return nil, err
	}

	if e.Len == nil {
		return check.Slice{Elem: elem}, nil
	}

	lit, ok := e.Len.(*ast.BasicLit)
	if !ok || lit.Kind != token.INT {
		return nil, fmt.Errorf("unsupported array length %s", types.ExprString(e.Len))
	}

	n, err := strconv.Atoi(lit.Value)
	if err != nil {
		return nil, fmt.Errorf("unsupported array length %q: %w", lit.Value, err)
	}

	return check.Array{Len: n, Elem: elem}, nil
}

func (r *Resolver) evalFunc(e *ast.FuncType) (check.Ref, error) {
	ref := check.Func{}

	if e.Params != nil {
		for _, f := range e.Params.List {
			t := f.Type
			if ell, ok := t.(*ast.Ellipsis); ok {
				ref.Variadic = true
				t = &ast.ArrayType{Elt: ell.Elt}
			}

			p, err := r.Eval(t)
			if err != nil {
				return nil, err
			}

			// A field may declare several names of one type.
			n := max(len(f.Names), 1)
			for i := 0; i < n; i++ {
				ref.Params = append(ref.Params, p)
			}
		}
	}

	if e.Results != nil {
		for _, f := range e.Results.List {
			res, err := r.Eval(f.Type)
			if err != nil {
				return nil, err
			}

			n := max(len(f.Names), 1)
			for i := 0; i < n; i++ {
				ref.Results = append(ref.Results, res)
			}
		}
	}

	return ref, nil
}

// evalParameterized handles subscripted references like Pair[int, string].
// When the observed value bound the exact instantiation into the scope, the
// reference resolves to that live type; otherwise the check layer reports it
// as not subscriptable and the engine may retry on the base alone.
func (r *Resolver) evalParameterized(full ast.Expr, base ast.Expr, args []ast.Expr) (check.Ref, error) {
	text := types.ExprString(full)

	if t, ok := r.scope.Type(text); ok {
		return check.Named{Name: text, Type: t}, nil
	}

	if t, ok := r.cache.Get(text); ok {
		return check.Named{Name: text, Type: t}, nil
	}

	baseRef, err := r.Eval(base)
	if err != nil {
		return nil, err
	}

	argRefs := make([]check.Ref, 0, len(args))

	for _, a := range args {
		ref, err := r.Eval(a)
		if err != nil {
			return nil, err
		}

		argRefs = append(argRefs, ref)
	}

	return check.Parameterized{Base: baseRef, Args: argRefs}, nil
}

func chanDir(dir ast.ChanDir) reflect.ChanDir {
	switch dir {
	case ast.SEND:
		return reflect.SendDir
	case ast.RECV:
		return reflect.RecvDir
	default:
		return reflect.BothDir
	}
}
