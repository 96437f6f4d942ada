// Package analyzer provides the go/analysis analyzer behind the revealer
// tool. It reports the statically inferred type of the expression passed to
// every reveal.Type call, in the exact message format the revealer checker
// adapter parses.
package analyzer

import (
	"errors"
	"fmt"
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// revealPkgPath is the import path of the intercepted function's package.
const revealPkgPath = "github.com/mouse-blink/reveal"

// Analyzer reports revealed types at reveal.Type call sites.
var Analyzer = &analysis.Analyzer{
	Name:     "revealer",
	Doc:      "reports the inferred static type of expressions passed to reveal.Type",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

var ErrNoInspector = errors.New("inspector analyzer result not found")

func run(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, ErrNoInspector
	}

	nodeFilter := []ast.Node{(*ast.CallExpr)(nil)}

	insp.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		if len(call.Args) != 1 || !isRevealCall(pass, call) {
			return
		}

		tv, ok := pass.TypesInfo.Types[call.Args[0]]
		if !ok {
			return
		}

		t := tv.Type
		if isUntyped(t) {
			t = types.Default(t)
		}

		pass.Reportf(call.Pos(), "Revealed type is %q", typeText(pass, t))
	})

	return nil, nil
}

// isRevealCall reports whether the callee resolves to reveal.Type, whether
// reached through the package qualifier or a dot import.
func isRevealCall(pass *analysis.Pass, call *ast.CallExpr) bool {
	var id *ast.Ident

	switch fn := call.Fun.(type) {
	case *ast.Ident:
		id = fn
	case *ast.SelectorExpr:
		id = fn.Sel
	case *ast.IndexExpr:
		// Explicitly instantiated generic call: reveal.Type[int](v).
		switch inner := fn.X.(type) {
		case *ast.Ident:
			id = inner
		case *ast.SelectorExpr:
			id = inner.Sel
		default:
			return false
		}
	default:
		return false
	}

	fnObj, ok := pass.TypesInfo.Uses[id].(*types.Func)
	if !ok {
		return false
	}

	pkg := fnObj.Pkg()

	return pkg != nil && pkg.Path() == revealPkgPath && fnObj.Name() == "Type"
}

func isUntyped(t types.Type) bool {
	basic, ok := t.Underlying().(*types.Basic)
	return ok && basic.Info()&types.IsUntyped != 0
}

// typeText renders a type with package-name qualifiers. Types declared
// inside function scope get a line marker so same-named locals stay
// distinguishable; the adapter strips it before resolution.
func typeText(pass *analysis.Pass, t types.Type) string {
	text := types.TypeString(t, func(p *types.Package) string {
		return p.Name()
	})

	named, ok := t.(*types.Named)
	if !ok {
		return text
	}

	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil || obj.Parent() == obj.Pkg().Scope() {
		return text
	}

	line := pass.Fset.Position(obj.Pos()).Line

	return fmt.Sprintf("%s@%d", text, line)
}
