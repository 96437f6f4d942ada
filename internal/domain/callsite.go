// Package domain implements the verification engine: it correlates runtime
// reveal calls with the checker result tables and performs the structural
// type checks.
package domain

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"strings"

	"github.com/mouse-blink/reveal/internal/model"
)

// interceptName is the function name recovered from call sites, and
// qualifiers are the recognized import names it may be reached through.
const interceptName = "Type"

var qualifiers = map[string]struct{}{
	"reveal": {},
}

// sourceCache memoizes file contents split into lines, one read per file
// per session.
type sourceCache struct {
	files map[string][]string
}

func newSourceCache() *sourceCache {
	return &sourceCache{files: make(map[string][]string)}
}

func (c *sourceCache) line(file string, line int) (string, error) {
	lines, ok := c.files[file]
	if !ok {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read caller source: %w", err)
		}

		lines = strings.Split(string(data), "\n")
		c.files[file] = lines
	}

	if line < 1 || line > len(lines) {
		return "", fmt.Errorf("%w: line %d out of range in %s", model.ErrCallSite, line, file)
	}

	return lines[line-1], nil
}

// recoverExpr extracts the exact source text of the single argument passed
// to the intercepted function on the given line. Only one call-expression
// grammar is supported: a call of Type, bare or qualified by a recognized
// import name. Anything else means the interception fired on the wrong
// line, which is an invariant violation.
func (c *sourceCache) recoverExpr(file string, line int) (string, error) {
	text, err := c.line(file, line)
	if err != nil {
		return "", err
	}

	// The line is a statement fragment; wrap it into a function body so it
	// parses standalone.
	src := "package p\nfunc _() {\n" + text + "\n}"

	fset := token.NewFileSet()

	f, err := parser.ParseFile(fset, file, src, parser.SkipObjectResolution)
	if err != nil {
		return "", fmt.Errorf("%w: %s:%d does not parse standalone: %v", model.ErrCallSite, file, line, err)
	}

	var target *ast.CallExpr

	ast.Inspect(f, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || !isInterceptCall(call) {
			return true
		}

		target = call

		return false
	})

	if target == nil || len(target.Args) != 1 {
		return "", fmt.Errorf("%w: %s:%d", model.ErrCallSite, file, line)
	}

	arg := target.Args[0]
	start := fset.Position(arg.Pos()).Offset
	end := fset.Position(arg.End()).Offset

	return src[start:end], nil
}

func isInterceptCall(call *ast.CallExpr) bool {
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		return fn.Name == interceptName
	case *ast.SelectorExpr:
		qual, ok := fn.X.(*ast.Ident)
		if !ok {
			return false
		}

		_, known := qualifiers[qual.Name]

		return known && fn.Sel.Name == interceptName
	default:
		return false
	}
}
