package models

import (
	"fmt"
	"slices"

	"github.com/zeusync/entitycore/pkg/generic"
)

// Phase tells which mutation a listener is being notified about.
type Phase uint8

const (
	PhaseSet Phase = iota
	PhaseRemove
)

func (p Phase) String() string {
	if p == PhaseRemove {
		return "remove"
	}
	return "set"
}

type (
	// SetFunc runs after a value of the observed type was stored.
	SetFunc[ID comparable] func(e *Entity[ID], value any) error
	// RemoveFunc runs before the observed type is deleted; it is still readable.
	RemoveFunc[ID comparable] func(e *Entity[ID], t ComponentType) error
)

// Listener observes one component type on every entity of a Context. It only
// fires for entities that also carry all of its required types at the time of
// the notification.
type Listener[ID comparable] struct {
	observed ComponentType
	required []ComponentType
	onSet    SetFunc[ID]
	onRemove RemoveFunc[ID]
}

// NewListener binds callbacks to observed. Either callback may be nil.
func NewListener[ID comparable](observed ComponentType, onSet SetFunc[ID], onRemove RemoveFunc[ID], required ...ComponentType) *Listener[ID] {
	return &Listener[ID]{
		observed: observed,
		required: slices.Clone(required),
		onSet:    onSet,
		onRemove: onRemove,
	}
}

// Observe is the typed form of NewListener for component type T.
func Observe[T any, ID comparable](onSet func(e *Entity[ID], value T) error, onRemove func(e *Entity[ID]) error, required ...ComponentType) *Listener[ID] {
	var set SetFunc[ID]
	if onSet != nil {
		set = func(e *Entity[ID], value any) error {
			v, err := Cast[T](value)
			if err != nil {
				return err
			}
			return onSet(e, v)
		}
	}
	var remove RemoveFunc[ID]
	if onRemove != nil {
		remove = func(e *Entity[ID], _ ComponentType) error {
			return onRemove(e)
		}
	}
	return NewListener(TypeOf[T](), set, remove, required...)
}

func (l *Listener[ID]) Observed() ComponentType {
	return l.observed
}

func (l *Listener[ID]) Required() []ComponentType {
	return slices.Clone(l.required)
}

func (l *Listener[ID]) call(e *Entity[ID], t ComponentType, phase Phase, value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	switch phase {
	case PhaseSet:
		if l.onSet != nil {
			return l.onSet(e, value)
		}
	case PhaseRemove:
		if l.onRemove != nil {
			return l.onRemove(e, t)
		}
	}
	return nil
}

// listenerRegistry indexes listeners by observed type, in registration order.
type listenerRegistry[ID comparable] struct {
	byType map[ComponentType][]*Listener[ID]
	// buffers back dispatch snapshots; nested dispatches each take their own.
	buffers *generic.Pool[*[]*Listener[ID]]
}

func newListenerRegistry[ID comparable]() listenerRegistry[ID] {
	buffers := generic.NewPool(func() *[]*Listener[ID] {
		buf := make([]*Listener[ID], 0, 8)
		return &buf
	}).WithReset(func(buf *[]*Listener[ID]) *[]*Listener[ID] {
		clear(*buf)
		*buf = (*buf)[:0]
		return buf
	})
	return listenerRegistry[ID]{
		byType:  make(map[ComponentType][]*Listener[ID]),
		buffers: buffers,
	}
}

func (r *listenerRegistry[ID]) add(l *Listener[ID]) bool {
	if r.contains(l) {
		return false
	}
	r.byType[l.observed] = append(r.byType[l.observed], l)
	return true
}

func (r *listenerRegistry[ID]) delete(l *Listener[ID]) bool {
	list := r.byType[l.observed]
	i := slices.Index(list, l)
	if i < 0 {
		return false
	}
	list = slices.Delete(list, i, i+1)
	if len(list) == 0 {
		delete(r.byType, l.observed)
	} else {
		r.byType[l.observed] = list
	}
	return true
}

func (r *listenerRegistry[ID]) contains(l *Listener[ID]) bool {
	return slices.Contains(r.byType[l.observed], l)
}

// snapshot copies the list so registrations made during a dispatch pass do
// not join it. The buffer goes back through release.
func (r *listenerRegistry[ID]) snapshot(t ComponentType) *[]*Listener[ID] {
	buf := r.buffers.Get()
	*buf = append(*buf, r.byType[t]...)
	return buf
}

func (r *listenerRegistry[ID]) release(buf *[]*Listener[ID]) {
	r.buffers.Put(buf)
}

func (r *listenerRegistry[ID]) count(t ComponentType) int {
	return len(r.byType[t])
}
