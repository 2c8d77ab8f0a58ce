package models

import "iter"

// typeIndex tracks which entities hold one component type. Removal swaps with
// the last element, so order is not meaningful.
type typeIndex[ID comparable] struct {
	entities []*Entity[ID]
	pos      map[ID]int
}

func newTypeIndex[ID comparable]() *typeIndex[ID] {
	return &typeIndex[ID]{pos: make(map[ID]int)}
}

func (x *typeIndex[ID]) add(e *Entity[ID]) {
	if _, ok := x.pos[e.id]; ok {
		return
	}
	x.pos[e.id] = len(x.entities)
	x.entities = append(x.entities, e)
}

func (x *typeIndex[ID]) remove(e *Entity[ID]) {
	i, ok := x.pos[e.id]
	if !ok {
		return
	}
	last := len(x.entities) - 1
	if i != last {
		moved := x.entities[last]
		x.entities[i] = moved
		x.pos[moved.id] = i
	}
	x.entities[last] = nil
	x.entities = x.entities[:last]
	delete(x.pos, e.id)
}

// View is a live, read-only set of the entities holding one component type.
// Unlike List it reflects every later Set and Remove. Iterating with All while
// mutating the same type may skip or revisit entities; take Slice for a stable copy.
type View[ID comparable] struct {
	t   ComponentType
	idx *typeIndex[ID]
}

func (v *View[ID]) Type() ComponentType {
	return v.t
}

func (v *View[ID]) Len() int {
	return len(v.idx.entities)
}

func (v *View[ID]) Contains(id ID) bool {
	_, ok := v.idx.pos[id]
	return ok
}

// All walks the current members, re-reading the index on every step.
func (v *View[ID]) All() iter.Seq[*Entity[ID]] {
	return func(yield func(*Entity[ID]) bool) {
		for i := 0; i < len(v.idx.entities); i++ {
			if !yield(v.idx.entities[i]) {
				return
			}
		}
	}
}

// Slice copies the current members.
func (v *View[ID]) Slice() []*Entity[ID] {
	out := make([]*Entity[ID], len(v.idx.entities))
	copy(out, v.idx.entities)
	return out
}
