package models

import (
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// ComponentID is a compact fingerprint of a component type, used as a log and metric label.
type ComponentID uint64

// ComponentType is the storage tag of a component: its exact runtime type.
// Two types related by embedding are still different tags, so a BaseStamina
// that embeds Stamina occupies its own slot next to Stamina.
type ComponentType struct {
	rtype reflect.Type
}

// TypeOf returns the tag for T. Interface types never match a stored value,
// because values are always stored under their dynamic type.
func TypeOf[T any]() ComponentType {
	return ComponentType{rtype: reflect.TypeFor[T]()}
}

// TypeOfValue returns the tag of v's dynamic type.
func TypeOfValue(v any) ComponentType {
	return ComponentType{rtype: reflect.TypeOf(v)}
}

func (t ComponentType) IsZero() bool {
	return t.rtype == nil
}

// Name is the unqualified type name, e.g. "Stamina" or "*Position".
func (t ComponentType) Name() string {
	if t.rtype == nil {
		return "<nil>"
	}
	if n := t.rtype.Name(); n != "" {
		return n
	}
	return t.rtype.String()
}

func (t ComponentType) String() string {
	if t.rtype == nil {
		return "<nil>"
	}
	return t.rtype.String()
}

// ID hashes the package path and type string.
func (t ComponentType) ID() ComponentID {
	if t.rtype == nil {
		return 0
	}
	return ComponentID(xxhash.Sum64String(t.rtype.PkgPath() + "/" + t.rtype.String()))
}

// Cast downcasts a stored component, failing with a *TypeMismatchError instead of panicking.
func Cast[T any](v any) (T, error) {
	out, ok := v.(T)
	if !ok {
		var zero T
		return zero, &TypeMismatchError{Want: TypeOf[T](), Got: TypeOfValue(v)}
	}
	return out, nil
}
