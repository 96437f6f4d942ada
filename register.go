package reveal

import (
	"reflect"

	"github.com/mouse-blink/reveal/internal/resolve"
)

// RegisterType binds T into the session's resolution scope under its bare
// name and its package qualifier, so checker output naming it resolves even
// when no observed value carries it. Interface types register as the
// interface itself, not a pointer to it.
func RegisterType[T any](s *Session) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	resolve.BindValueTypes(s.inner.Scope(), t)
}

// RegisterTypeAs binds T under an explicit name, for aliases or names the
// checkers print differently from the runtime name.
func RegisterTypeAs[T any](s *Session, name string) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	s.inner.Scope().Bind(name, t)
}

// RegisterPackage binds a whole namespace of types under a package
// qualifier, replacing any previous registration of that qualifier.
func RegisterPackage(s *Session, qualifier string, types map[string]reflect.Type) {
	pkg := resolve.Package{}
	for name, t := range types {
		pkg[name] = t
	}

	s.inner.Scope().BindPackage(qualifier, pkg)
}
