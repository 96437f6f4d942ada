package check

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotSubscriptable marks a check that failed only because the reference
// is a parameterized type with no live instantiation behind it. The engine
// recognizes this error and retries once against the unparameterized base.
var ErrNotSubscriptable = errors.New("type is not subscriptable at runtime")

// Value structurally checks v against ref. A nil error means the runtime
// type of v conforms to the reference's shape.
func Value(v any, ref Ref) error {
	if _, ok := ref.(Any); ok {
		return nil
	}

	t := reflect.TypeOf(v)
	if t == nil {
		// Untyped nil conforms only to nilable references.
		if nilable(ref) {
			return nil
		}

		return fmt.Errorf("nil does not match %s", ref)
	}

	return typeMatch(t, ref)
}

func nilable(ref Ref) bool {
	switch r := ref.(type) {
	case Ptr, Map, Slice, Chan, Func:
		return true
	case Named:
		return r.Type.Kind() == reflect.Interface
	default:
		return false
	}
}

// typeMatch recursively compares a runtime type against a reference.
func typeMatch(t reflect.Type, ref Ref) error {
	switch r := ref.(type) {
	case Any:
		return nil

	case Named:
		return namedMatch(t, r)

	case Ptr:
		if t.Kind() != reflect.Pointer {
			return fmt.Errorf("%s is not a pointer type (want %s)", t, r)
		}

		return typeMatch(t.Elem(), r.Elem)

	case Slice:
		if t.Kind() != reflect.Slice {
			return fmt.Errorf("%s is not a slice type (want %s)", t, r)
		}

		return typeMatch(t.Elem(), r.Elem)

	case Array:
		if t.Kind() != reflect.Array {
			return fmt.Errorf("%s is not an array type (want %s)", t, r)
		}

		if t.Len() != r.Len {
			return fmt.Errorf("array length is %d, want %d", t.Len(), r.Len)
		}

		return typeMatch(t.Elem(), r.Elem)

	case Map:
		if t.Kind() != reflect.Map {
			return fmt.Errorf("%s is not a map type (want %s)", t, r)
		}

		if err := typeMatch(t.Key(), r.Key); err != nil {
			return fmt.Errorf("map key: %w", err)
		}

		if err := typeMatch(t.Elem(), r.Elem); err != nil {
			return fmt.Errorf("map element: %w", err)
		}

		return nil

	case Chan:
		if t.Kind() != reflect.Chan {
			return fmt.Errorf("%s is not a channel type (want %s)", t, r)
		}

		if r.Dir != reflect.BothDir && t.ChanDir() != r.Dir {
			return fmt.Errorf("channel direction is %s, want %s", t.ChanDir(), r.Dir)
		}

		return typeMatch(t.Elem(), r.Elem)

	case Func:
		return funcMatch(t, r)

	case Parameterized:
		return fmt.Errorf("%s: %w", r, ErrNotSubscriptable)

	default:
		return fmt.Errorf("unsupported type reference %s", ref)
	}
}

func namedMatch(t reflect.Type, r Named) error {
	if r.Type == nil {
		return fmt.Errorf("reference %s has no runtime type", r.Name)
	}

	if r.Type.Kind() == reflect.Interface {
		if t == r.Type || t.Implements(r.Type) {
			return nil
		}

		if reflect.PointerTo(t).Implements(r.Type) {
			return nil
		}

		return fmt.Errorf("%s does not implement %s", t, r.Name)
	}

	if t != r.Type {
		return fmt.Errorf("value of type %s does not match %s", t, r.Name)
	}

	return nil
}

func funcMatch(t reflect.Type, r Func) error {
	if t.Kind() != reflect.Func {
		return fmt.Errorf("%s is not a function type (want %s)", t, r)
	}

	if t.NumIn() != len(r.Params) || t.IsVariadic() != r.Variadic {
		return fmt.Errorf("function signature %s does not match %s", t, r)
	}

	if t.NumOut() != len(r.Results) {
		return fmt.Errorf("function signature %s does not match %s", t, r)
	}

	for i, p := range r.Params {
		if err := typeMatch(t.In(i), p); err != nil {
			return fmt.Errorf("parameter %d: %w", i, err)
		}
	}

	for i, res := range r.Results {
		if err := typeMatch(t.Out(i), res); err != nil {
			return fmt.Errorf("result %d: %w", i, err)
		}
	}

	return nil
}
