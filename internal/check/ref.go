// Package check performs structural runtime checks of values against
// resolved type references. References are built by the resolver from
// checker-reported type expressions; this package never parses text itself.
package check

import (
	"fmt"
	"reflect"
	"strings"
)

// Ref is a runtime-checkable type reference.
type Ref interface {
	String() string
}

// Named is a reference to a concrete or interface type resolved to a live
// reflect.Type.
type Named struct {
	Name string
	Type reflect.Type
}

func (r Named) String() string { return r.Name }

// Any matches every value, including nil.
type Any struct{}

func (Any) String() string { return "any" }

// Ptr matches pointer values whose element type matches Elem.
type Ptr struct {
	Elem Ref
}

func (r Ptr) String() string { return "*" + r.Elem.String() }

// Slice matches slices whose element type matches Elem.
type Slice struct {
	Elem Ref
}

func (r Slice) String() string { return "[]" + r.Elem.String() }

// Array matches arrays of the given length and element type.
type Array struct {
	Len  int
	Elem Ref
}

func (r Array) String() string { return fmt.Sprintf("[%d]%s", r.Len, r.Elem) }

// Map matches maps with matching key and element types.
type Map struct {
	Key  Ref
	Elem Ref
}

func (r Map) String() string { return fmt.Sprintf("map[%s]%s", r.Key, r.Elem) }

// Chan matches channels. Dir follows reflect.ChanDir.
type Chan struct {
	Dir  reflect.ChanDir
	Elem Ref
}

func (r Chan) String() string {
	switch r.Dir {
	case reflect.RecvDir:
		return "<-chan " + r.Elem.String()
	case reflect.SendDir:
		return "chan<- " + r.Elem.String()
	default:
		return "chan " + r.Elem.String()
	}
}

// Func matches function values by arity and parameter/result types.
type Func struct {
	Params   []Ref
	Results  []Ref
	Variadic bool
}

func (r Func) String() string {
	params := make([]string, len(r.Params))
	for i, p := range r.Params {
		params[i] = p.String()
		if r.Variadic && i == len(r.Params)-1 {
			params[i] = "..." + strings.TrimPrefix(params[i], "[]")
		}
	}

	results := make([]string, len(r.Results))
	for i, res := range r.Results {
		results[i] = res.String()
	}

	s := "func(" + strings.Join(params, ", ") + ")"

	switch len(results) {
	case 0:
		return s
	case 1:
		return s + " " + results[0]
	default:
		return s + " (" + strings.Join(results, ", ") + ")"
	}
}

// Parameterized is a subscripted reference, Base[Args...], whose full
// instantiation could not be resolved to a live type. Checking it always
// fails with ErrNotSubscriptable; the engine may retry on Base alone.
type Parameterized struct {
	Base Ref
	Args []Ref
}

func (r Parameterized) String() string {
	args := make([]string, len(r.Args))
	for i, a := range r.Args {
		args[i] = a.String()
	}

	return r.Base.String() + "[" + strings.Join(args, ", ") + "]"
}
