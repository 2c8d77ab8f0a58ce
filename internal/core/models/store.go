package models

import "slices"

// componentStore maps a component type to its single instance and remembers
// insertion order so that Clear and Components are deterministic.
type componentStore struct {
	values map[ComponentType]any
	order  []ComponentType
}

func newComponentStore() componentStore {
	return componentStore{values: make(map[ComponentType]any)}
}

// put replaces in place; a replaced type keeps its original position.
func (s *componentStore) put(t ComponentType, v any) (prev any, existed bool) {
	prev, existed = s.values[t]
	s.values[t] = v
	if !existed {
		s.order = append(s.order, t)
	}
	return prev, existed
}

func (s *componentStore) get(t ComponentType) (any, bool) {
	v, ok := s.values[t]
	return v, ok
}

func (s *componentStore) delete(t ComponentType) (any, bool) {
	v, ok := s.values[t]
	if !ok {
		return nil, false
	}
	delete(s.values, t)
	if i := slices.Index(s.order, t); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	return v, true
}

func (s *componentStore) has(types ...ComponentType) bool {
	for _, t := range types {
		if _, ok := s.values[t]; !ok {
			return false
		}
	}
	return true
}

func (s *componentStore) types() []ComponentType {
	return slices.Clone(s.order)
}

func (s *componentStore) len() int {
	return len(s.order)
}
