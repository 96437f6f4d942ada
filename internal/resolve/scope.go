// Package resolve turns checker-reported type expressions into runtime
// checkable references. It owns the resolution scope (names bound to live
// reflect types), the per-adapter memo cache, and the AST rewrite rules for
// checker-specific artifacts.
package resolve

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Package is a flat namespace of exported type names, the runtime stand-in
// for an importable package. Go has no runtime import machinery, so packages
// are registered explicitly or discovered from observed values.
type Package map[string]reflect.Type

// Scope maps identifier text to live runtime objects. Scopes chain: a call
// scope shadows the session scope, which shadows the process-wide universe.
type Scope struct {
	parent *Scope
	types  map[string]reflect.Type
	pkgs   map[string]Package
}

// NewScope returns an empty scope chained onto the universe scope.
func NewScope() *Scope {
	return &Scope{parent: universe()}
}

// Child returns a scope that shadows s.
func (s *Scope) Child() *Scope {
	return &Scope{parent: s}
}

// Bind associates a bare type name with a runtime type.
func (s *Scope) Bind(name string, t reflect.Type) {
	if s.types == nil {
		s.types = make(map[string]reflect.Type)
	}

	s.types[name] = t
}

// BindPackage associates a package qualifier with a namespace of types.
func (s *Scope) BindPackage(name string, pkg Package) {
	if s.pkgs == nil {
		s.pkgs = make(map[string]Package)
	}

	s.pkgs[name] = pkg
}

// Type resolves a bare name through the scope chain.
func (s *Scope) Type(name string) (reflect.Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.types[name]; ok {
			return t, true
		}
	}

	return nil, false
}

// Lookup reports whether a package qualifier is known.
func (s *Scope) Lookup(name string) (Package, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if p, ok := sc.pkgs[name]; ok {
			return p, true
		}
	}

	return nil, false
}

// Qualified resolves a dotted chain like ["json", "Decoder"]. The prefix is
// tried at every dot boundary, longest first, so a package registered as
// "a.b" wins over "a".
func (s *Scope) Qualified(parts []string) (reflect.Type, bool) {
	if len(parts) < 2 {
		return nil, false
	}

	for i := len(parts) - 1; i >= 1; i-- {
		pkg, ok := s.Lookup(strings.Join(parts[:i], "."))
		if !ok {
			continue
		}

		// Only a single trailing type name is supported below the
		// package boundary.
		if i != len(parts)-1 {
			continue
		}

		if t, ok := pkg[parts[len(parts)-1]]; ok {
			return t, true
		}
	}

	return nil, false
}

// Probe searches the well-known package namespaces of the scope chain for an
// exported type of the given bare name. This is the last resolution resort
// for checkers that print unqualified names of stdlib types.
func (s *Scope) Probe(name string) (reflect.Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		for _, pkg := range sc.pkgs {
			if t, ok := pkg[name]; ok {
				return t, true
			}
		}
	}

	return nil, false
}

var (
	universeOnce sync.Once
	universeVal  *Scope
)

// universe holds the builtin type names plus a prelude of well-known stdlib
// types. Built once per process, read-only afterwards.
func universe() *Scope {
	universeOnce.Do(func() {
		s := &Scope{
			types: map[string]reflect.Type{
				"bool":       reflect.TypeOf(false),
				"string":     reflect.TypeOf(""),
				"int":        reflect.TypeOf(int(0)),
				"int8":       reflect.TypeOf(int8(0)),
				"int16":      reflect.TypeOf(int16(0)),
				"int32":      reflect.TypeOf(int32(0)),
				"int64":      reflect.TypeOf(int64(0)),
				"uint":       reflect.TypeOf(uint(0)),
				"uint8":      reflect.TypeOf(uint8(0)),
				"uint16":     reflect.TypeOf(uint16(0)),
				"uint32":     reflect.TypeOf(uint32(0)),
				"uint64":     reflect.TypeOf(uint64(0)),
				"uintptr":    reflect.TypeOf(uintptr(0)),
				"float32":    reflect.TypeOf(float32(0)),
				"float64":    reflect.TypeOf(float64(0)),
				"complex64":  reflect.TypeOf(complex64(0)),
				"complex128": reflect.TypeOf(complex128(0)),
				"byte":       reflect.TypeOf(byte(0)),
				"rune":       reflect.TypeOf(rune(0)),
				"error":      reflect.TypeOf((*error)(nil)).Elem(),
			},
			pkgs: map[string]Package{
				"time": {
					"Time":     reflect.TypeOf(time.Time{}),
					"Duration": reflect.TypeOf(time.Duration(0)),
					"Month":    reflect.TypeOf(time.Month(0)),
					"Weekday":  reflect.TypeOf(time.Weekday(0)),
				},
				"bytes": {
					"Buffer": reflect.TypeOf(bytes.Buffer{}),
					"Reader": reflect.TypeOf(bytes.Reader{}),
				},
				"strings": {
					"Builder": reflect.TypeOf(strings.Builder{}),
					"Reader":  reflect.TypeOf(strings.Reader{}),
				},
				"io": {
					"Reader":      reflect.TypeOf((*io.Reader)(nil)).Elem(),
					"Writer":      reflect.TypeOf((*io.Writer)(nil)).Elem(),
					"Closer":      reflect.TypeOf((*io.Closer)(nil)).Elem(),
					"ReadCloser":  reflect.TypeOf((*io.ReadCloser)(nil)).Elem(),
					"WriteCloser": reflect.TypeOf((*io.WriteCloser)(nil)).Elem(),
					"ReadWriter":  reflect.TypeOf((*io.ReadWriter)(nil)).Elem(),
				},
				"fmt": {
					"Stringer": reflect.TypeOf((*fmt.Stringer)(nil)).Elem(),
				},
				"context": {
					"Context": reflect.TypeOf((*context.Context)(nil)).Elem(),
				},
				"regexp": {
					"Regexp": reflect.TypeOf(regexp.Regexp{}),
				},
			},
		}
		universeVal = s
	})

	return universeVal
}

var instantiatedName = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[`)

// BindValueTypes walks the structure of an observed runtime type and binds
// every named type it finds into the scope, under its bare name and under
// its package qualifier. This is what lets a checker-reported name resolve
// against "the caller's namespace" without runtime imports.
func BindValueTypes(s *Scope, t reflect.Type) {
	bindValueTypes(s, t, 0)
}

func bindValueTypes(s *Scope, t reflect.Type, depth int) {
	if t == nil || depth > 8 {
		return
	}

	if name := t.Name(); name != "" {
		s.Bind(name, t)

		// Instantiated generics additionally resolve through their base
		// name, for the unparameterized retry path.
		if m := instantiatedName.FindStringSubmatch(name); m != nil {
			if _, ok := s.Type(m[1]); !ok {
				s.Bind(m[1], t)
			}
		}

		if path := t.PkgPath(); path != "" {
			qual := path[strings.LastIndexByte(path, '/')+1:]

			// Never mutate a namespace owned by an outer scope; shadow it
			// with a copy instead.
			pkg, owned := s.pkgs[qual]
			if !owned {
				pkg = Package{}
				if inherited, ok := s.Lookup(qual); ok {
					for n, it := range inherited {
						pkg[n] = it
					}
				}
			}

			pkg[name] = t
			s.BindPackage(qual, pkg)
		}
	}

	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Array, reflect.Chan:
		bindValueTypes(s, t.Elem(), depth+1)
	case reflect.Map:
		bindValueTypes(s, t.Key(), depth+1)
		bindValueTypes(s, t.Elem(), depth+1)
	case reflect.Func:
		for i := 0; i < t.NumIn(); i++ {
			bindValueTypes(s, t.In(i), depth+1)
		}

		for i := 0; i < t.NumOut(); i++ {
			bindValueTypes(s, t.Out(i), depth+1)
		}
	default:
	}
}
