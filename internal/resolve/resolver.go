package resolve

import (
	"go/ast"
	"go/token"
	"reflect"
	"strings"

	"github.com/mouse-blink/reveal/internal/model"
)

// Cache memoizes resolved expression text per adapter across the whole
// session. Grow-only, written once per distinct expression.
type Cache struct {
	entries map[string]reflect.Type
}

// NewCache returns an empty memo cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]reflect.Type)}
}

// Get returns a previously memoized resolution.
func (c *Cache) Get(text string) (reflect.Type, bool) {
	t, ok := c.entries[text]
	return t, ok
}

// Put memoizes a resolution result.
func (c *Cache) Put(text string, t reflect.Type) {
	c.entries[text] = t
}

// Config selects the checker-specific rewrite rules a resolver applies.
type Config struct {
	// DottedFallback retries an unresolvable dotted chain on its bare
	// trailing name. The revealer tool qualifies types with static package
	// paths that may not exist at runtime; the bare name usually does.
	DottedFallback bool

	// LocalMarkers accepts "Name % line" markers the revealer tool emits
	// for types declared inside function scope. The suffix is discarded.
	LocalMarkers bool
}

// Resolver validates and rewrites a parsed type expression so that every
// leaf identifier is bound to a live runtime object.
type Resolver struct {
	scope    *Scope
	cache    *Cache
	cfg      Config
	modified bool
}

// New builds a resolver over the given scope and memo cache.
func New(scope *Scope, cache *Cache, cfg Config) *Resolver {
	return &Resolver{scope: scope, cache: cache, cfg: cfg}
}

// Modified reports whether Resolve rewrote the expression tree.
func (r *Resolver) Modified() bool { return r.modified }

// Resolve walks the expression bottom-up, resolving every identifier and
// rewriting checker-specific artifacts. It returns the (possibly rewritten)
// tree; on failure the tree is unusable and the error names the identifier
// forms that were attempted.
func (r *Resolver) Resolve(expr ast.Expr) (ast.Expr, error) {
	switch e := expr.(type) {
	case *ast.Ident:
		if err := r.resolveName(e.Name); err != nil {
			return nil, err
		}

		return e, nil

	case *ast.SelectorExpr:
		return r.resolveSelector(e)

	case *ast.BinaryExpr:
		// "Name % 97" marks a type declared in function scope. Keep the
		// left operand only.
		if r.cfg.LocalMarkers && e.Op == token.REM && isIntLit(e.Y) {
			r.modified = true
			return r.Resolve(e.X)
		}

		// Unhandled shape: leave as-is and let evaluation reject it.
		return e, nil

	case *ast.StarExpr:
		return r.resolveChild(e, &e.X)

	case *ast.ParenExpr:
		return r.resolveChild(e, &e.X)

	case *ast.ArrayType:
		return r.resolveChild(e, &e.Elt)

	case *ast.Ellipsis:
		return r.resolveChild(e, &e.Elt)

	case *ast.MapType:
		if _, err := r.resolveInPlace(&e.Key); err != nil {
			return nil, err
		}

		return r.resolveChild(e, &e.Value)

	case *ast.ChanType:
		return r.resolveChild(e, &e.Value)

	case *ast.IndexExpr:
		if _, err := r.resolveInPlace(&e.X); err != nil {
			return nil, err
		}

		return r.resolveChild(e, &e.Index)

	case *ast.IndexListExpr:
		if _, err := r.resolveInPlace(&e.X); err != nil {
			return nil, err
		}

		for i := range e.Indices {
			if _, err := r.resolveInPlace(&e.Indices[i]); err != nil {
				return nil, err
			}
		}

		return e, nil

	case *ast.FuncType:
		if err := r.resolveFieldList(e.Params); err != nil {
			return nil, err
		}

		if err := r.resolveFieldList(e.Results); err != nil {
			return nil, err
		}

		return e, nil

	default:
		// Interface literals, struct literals and anything else uncommon:
		// leave unmodified, evaluation raises if truly unresolvable.
		return expr, nil
	}
}

func (r *Resolver) resolveChild(parent ast.Expr, child *ast.Expr) (ast.Expr, error) {
	if _, err := r.resolveInPlace(child); err != nil {
		return nil, err
	}

	return parent, nil
}

func (r *Resolver) resolveInPlace(slot *ast.Expr) (ast.Expr, error) {
	resolved, err := r.Resolve(*slot)
	if err != nil {
		return nil, err
	}

	*slot = resolved

	return resolved, nil
}

func (r *Resolver) resolveFieldList(fields *ast.FieldList) error {
	if fields == nil {
		return nil
	}

	for _, f := range fields.List {
		if _, err := r.resolveInPlace(&f.Type); err != nil {
			return err
		}
	}

	return nil
}

// resolveName resolves a bare identifier: caller scope and memo cache first,
// then package qualifiers, then the well-known namespace probe. All three
// are exhausted before failing.
func (r *Resolver) resolveName(name string) error {
	if name == "any" {
		return nil
	}

	if _, ok := r.scope.Type(name); ok {
		return nil
	}

	if _, ok := r.cache.Get(name); ok {
		return nil
	}

	if _, ok := r.scope.Lookup(name); ok {
		return nil
	}

	if t, ok := r.scope.Probe(name); ok {
		r.cache.Put(name, t)
		return nil
	}

	return &model.ResolutionError{Bare: name}
}

// resolveSelector resolves a dotted chain against the package registry. If
// the qualifier is unknown and the fallback is enabled, the trailing name is
// retried alone and the node rewritten to a bare identifier.
func (r *Resolver) resolveSelector(e *ast.SelectorExpr) (ast.Expr, error) {
	parts, ok := flattenSelector(e)
	if !ok {
		// Something other than a plain dotted chain; defer to evaluation.
		return e, nil
	}

	dotted := strings.Join(parts, ".")

	if t, ok := r.cache.Get(dotted); ok {
		_ = t
		return e, nil
	}

	if t, ok := r.scope.Qualified(parts); ok {
		r.cache.Put(dotted, t)
		return e, nil
	}

	trail := parts[len(parts)-1]

	if r.cfg.DottedFallback {
		if err := r.resolveName(trail); err == nil {
			r.modified = true
			return ast.NewIdent(trail), nil
		}
	}

	return nil, &model.ResolutionError{Dotted: dotted, Bare: trail}
}

func flattenSelector(e *ast.SelectorExpr) ([]string, bool) {
	var parts []string

	cur := ast.Expr(e)
	for {
		switch n := cur.(type) {
		case *ast.SelectorExpr:
			parts = append([]string{n.Sel.Name}, parts...)
			cur = n.X
		case *ast.Ident:
			return append([]string{n.Name}, parts...), true
		default:
			return nil, false
		}
	}
}

func isIntLit(e ast.Expr) bool {
	lit, ok := e.(*ast.BasicLit)
	return ok && lit.Kind == token.INT
}
