package models

import (
	"errors"
	"fmt"
)

var (
	// Registry errors

	ErrEntityNotFound = errors.New("entity not found")
	ErrStaleEntity    = errors.New("entity has been destroyed")
	ErrIDCollision    = errors.New("id generator kept returning live ids")

	// Component errors

	ErrNilComponent          = errors.New("component value is nil")
	ErrComponentTypeMismatch = errors.New("component type mismatch")

	// Listener errors

	ErrListenerFailed = errors.New("component listener failed")
)

// TypeMismatchError reports a checked downcast against the wrong component type.
type TypeMismatchError struct {
	Want ComponentType
	Got  ComponentType
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("component type mismatch: want %s, got %s", e.Want, e.Got)
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrComponentTypeMismatch
}

// ListenerError wraps the failure of one listener callback.
type ListenerError struct {
	Entity    any
	Component ComponentType
	Phase     Phase
	Err       error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener failed on %s of %s for entity %v: %v", e.Phase, e.Component.Name(), e.Entity, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

func (e *ListenerError) Is(target error) bool {
	return target == ErrListenerFailed
}
