package models

import (
	"fmt"
	"reflect"
	"strings"
)

// Entity is a handle on one identity and its components inside a Context.
//
// Entities are not safe for concurrent use; see Context.
type Entity[ID comparable] struct {
	id        ID
	ctx       *Context[ID]
	seq       uint64
	store     componentStore
	destroyed bool
	// destroying is set while Destroy clears the entity.
	destroying bool
	// removing holds the types whose Remove is dispatching; true once a
	// listener stored a new value of that type.
	removing map[ComponentType]bool
}

func (e *Entity[ID]) ID() ID {
	return e.id
}

// Context returns the registry that owns the entity.
func (e *Entity[ID]) Context() *Context[ID] {
	return e.ctx
}

// Valid reports whether the entity is still registered. A destroyed entity
// rejects every mutation with ErrStaleEntity.
func (e *Entity[ID]) Valid() bool {
	return !e.destroyed
}

// Has reports whether every given type is present.
func (e *Entity[ID]) Has(types ...ComponentType) bool {
	return e.store.has(types...)
}

// Lookup returns the component stored under t.
func (e *Entity[ID]) Lookup(t ComponentType) (any, bool) {
	return e.store.get(t)
}

// Set stores v under its exact runtime type and returns the instance it
// replaced, or nil. Listeners observing that type run after the store, so a
// failing listener (under the propagate policy) leaves v in place. Nil values,
// including typed nil pointers, are rejected with ErrNilComponent.
func (e *Entity[ID]) Set(v any) (any, error) {
	if isNil(v) {
		return nil, ErrNilComponent
	}
	if e.destroyed {
		return nil, fmt.Errorf("set on %v: %w", e.id, ErrStaleEntity)
	}

	t := TypeOfValue(v)
	prev, existed := e.store.put(t, v)
	if _, ok := e.removing[t]; ok {
		e.removing[t] = true
	}
	if !existed {
		e.ctx.indexFor(t).add(e)
	}
	e.ctx.metrics.ComponentSet(t.Name())

	return prev, e.ctx.dispatch(e, t, PhaseSet, v)
}

// Remove detaches the component stored under t and returns it. Listeners
// observing t run first, while the component is still visible. Removing an
// absent type is not an error and notifies nobody.
//
// Remove always returns the value present when it was called. While its
// listeners run, a nested Remove of the same type returns the current value
// without notifying again, and the outer call performs the deletion. A value
// a listener stores under t during removal replaces the departing one and is
// kept.
func (e *Entity[ID]) Remove(t ComponentType) (any, error) {
	if e.destroyed {
		return nil, fmt.Errorf("remove on %v: %w", e.id, ErrStaleEntity)
	}
	prev, ok := e.store.get(t)
	if !ok {
		return nil, nil
	}
	if _, busy := e.removing[t]; busy {
		e.removing[t] = false
		return prev, nil
	}

	if e.removing == nil {
		e.removing = make(map[ComponentType]bool)
	}
	e.removing[t] = false
	err := e.ctx.dispatch(e, t, PhaseRemove, nil)
	replaced := e.removing[t]
	delete(e.removing, t)
	if err != nil {
		return nil, err
	}
	if replaced {
		return prev, nil
	}

	if _, ok = e.store.delete(t); ok {
		e.ctx.indexFor(t).remove(e)
		e.ctx.metrics.ComponentRemoved(t.Name())
	}
	return prev, nil
}

// Clear removes every component present at call time, in insertion order,
// through Remove. It stops at the first listener error.
func (e *Entity[ID]) Clear() error {
	if e.destroyed {
		return fmt.Errorf("clear on %v: %w", e.id, ErrStaleEntity)
	}
	for _, t := range e.store.types() {
		if _, err := e.Remove(t); err != nil {
			return err
		}
	}
	return nil
}

// Components returns the present types in insertion order. The slice is a copy.
func (e *Entity[ID]) Components() []ComponentType {
	return e.store.types()
}

func (e *Entity[ID]) Len() int {
	return e.store.len()
}

func (e *Entity[ID]) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Entity [id=%v] {", e.id)
	for i, t := range e.store.order {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%v", t.Name(), e.store.values[t])
	}
	b.WriteString("}")
	return b.String()
}

// Get returns the component of type T.
func Get[T any, ID comparable](e *Entity[ID]) (T, bool) {
	var zero T
	v, ok := e.Lookup(TypeOf[T]())
	if !ok {
		return zero, false
	}
	out, err := Cast[T](v)
	if err != nil {
		return zero, false
	}
	return out, true
}

// GetOrDefault returns the component of type T, or def when it is absent.
func GetOrDefault[T any, ID comparable](e *Entity[ID], def T) T {
	if v, ok := Get[T](e); ok {
		return v
	}
	return def
}

// Has reports whether e holds a component of type T.
func Has[T any, ID comparable](e *Entity[ID]) bool {
	return e.Has(TypeOf[T]())
}

// Take removes the component of type T and returns it.
func Take[T any, ID comparable](e *Entity[ID]) (T, bool, error) {
	var zero T
	v, err := e.Remove(TypeOf[T]())
	if err != nil || v == nil {
		return zero, false, err
	}
	out, err := Cast[T](v)
	if err != nil {
		return zero, false, err
	}
	return out, true, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
