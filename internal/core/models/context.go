// Package models is the entity-component registry: entities, their typed
// components, listeners bound to component types, and snapshot and live queries.
package models

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/zeusync/entitycore/internal/core/events/bus"
	"github.com/zeusync/entitycore/internal/core/models/ids"
	"github.com/zeusync/entitycore/internal/core/observability/log"
	"github.com/zeusync/entitycore/pkg/sequence"
)

// Lifecycle event types published when WithEventBus is set. Data() is the entity id.
const (
	EventEntityCreated   = "entity.created"
	EventEntityDestroyed = "entity.destroyed"

	eventSource = "entitycore"
)

const maxIDAttempts = 8

// Context is the registry: it owns every entity of one id space and the
// listeners bound to component types.
//
// A Context has a single owner. Nothing is locked, every call runs to
// completion on the caller's goroutine, and listeners run inline on the
// mutating call. Callers sharing a Context between goroutines must serialize
// access themselves.
type Context[ID comparable] struct {
	gen       ids.Generator[ID]
	upsert    bool
	entities  map[ID]*Entity[ID]
	nextSeq   uint64
	listeners listenerRegistry[ID]
	indexes   map[ComponentType]*typeIndex[ID]
	options
}

// NewContext creates an empty registry drawing ids from gen. If gen is
// ids.KeyAddressable, Get upserts.
func NewContext[ID comparable](gen ids.Generator[ID], opts ...Option) *Context[ID] {
	c := &Context[ID]{
		gen:       gen,
		upsert:    ids.IsKeyAddressable(gen),
		entities:  make(map[ID]*Entity[ID]),
		listeners: newListenerRegistry[ID](),
		indexes:   make(map[ComponentType]*typeIndex[ID]),
		options: options{
			logger: log.NewNop(),
			policy: Propagate,
		},
	}
	for _, opt := range opts {
		opt(&c.options)
	}
	return c
}

// NewEntity registers an empty entity under a fresh id. It panics with
// ErrIDCollision only if the generator breaks its contract repeatedly.
func (c *Context[ID]) NewEntity() *Entity[ID] {
	for range maxIDAttempts {
		id := c.gen.Next()
		if _, taken := c.entities[id]; !taken {
			return c.materialize(id)
		}
		c.logger.Warn("id generator returned a live id", log.Any("entity", id))
	}
	panic(fmt.Errorf("%w after %d attempts", ErrIDCollision, maxIDAttempts))
}

// Get looks an entity up by id.
//
// On a Context built with a key-addressable generator (ids.Keys) Get upserts:
// an unknown key materializes a new empty entity under that key and the
// result is always found. Everywhere else an unknown id returns false. Use
// Exists for a lookup that never creates.
func (c *Context[ID]) Get(id ID) (*Entity[ID], bool) {
	if e, ok := c.entities[id]; ok {
		return e, true
	}
	if c.upsert {
		return c.materialize(id), true
	}
	return nil, false
}

func (c *Context[ID]) Exists(id ID) bool {
	_, ok := c.entities[id]
	return ok
}

// KeyAddressable reports whether Get upserts.
func (c *Context[ID]) KeyAddressable() bool {
	return c.upsert
}

// Destroy removes every component (one remove notification each) and then
// drops the id. Destroying an unknown id returns ErrEntityNotFound. If a
// listener fails under the propagate policy the entity stays registered with
// the components not yet removed.
//
// Destroying an entity from one of the listeners its own Destroy is running
// returns nil at once; the outer call finishes the job.
func (c *Context[ID]) Destroy(id ID) error {
	e, ok := c.entities[id]
	if !ok {
		return fmt.Errorf("destroy %v: %w", id, ErrEntityNotFound)
	}
	if e.destroying {
		return nil
	}
	e.destroying = true
	if err := e.Clear(); err != nil {
		e.destroying = false
		return fmt.Errorf("destroy %v: %w", id, err)
	}

	// components attached by listeners while clearing are dropped unannounced
	for _, t := range e.store.types() {
		c.logger.Warn("component attached during destroy dropped",
			log.Any("entity", id), log.String("component", t.Name()))
		e.store.delete(t)
		c.indexFor(t).remove(e)
	}

	delete(c.entities, id)
	e.destroying = false
	e.destroyed = true
	c.metrics.EntityDestroyed()
	c.publish(EventEntityDestroyed, id)
	c.logger.Debug("entity destroyed", log.Any("entity", id))
	return nil
}

// Len is the number of live entities.
func (c *Context[ID]) Len() int {
	return len(c.entities)
}

// List is the snapshot query: the entities holding every given type, in
// creation order, copied at call time. Later mutations, including destroying
// listed entities, never change the returned slice. No types lists everything.
func (c *Context[ID]) List(types ...ComponentType) []*Entity[ID] {
	var candidates []*Entity[ID]
	if len(types) == 0 {
		candidates = make([]*Entity[ID], 0, len(c.entities))
		for _, e := range c.entities {
			candidates = append(candidates, e)
		}
	} else {
		var smallest *typeIndex[ID]
		for _, t := range types {
			idx, ok := c.indexes[t]
			if !ok || len(idx.entities) == 0 {
				return []*Entity[ID]{}
			}
			if smallest == nil || len(idx.entities) < len(smallest.entities) {
				smallest = idx
			}
		}
		candidates = make([]*Entity[ID], 0, len(smallest.entities))
		for _, e := range smallest.entities {
			if e.Has(types...) {
				candidates = append(candidates, e)
			}
		}
	}

	slices.SortFunc(candidates, func(a, b *Entity[ID]) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return candidates
}

// Stream wraps the List snapshot in a chainable iterator.
func (c *Context[ID]) Stream(types ...ComponentType) *sequence.Iterator[*Entity[ID]] {
	return sequence.From(c.List(types...))
}

// With returns the live view of entities holding t.
func (c *Context[ID]) With(t ComponentType) *View[ID] {
	return &View[ID]{t: t, idx: c.indexFor(t)}
}

// Register binds l to its observed type. Registering twice is a no-op.
// A listener registered from inside a callback is first notified on the next mutation.
func (c *Context[ID]) Register(l *Listener[ID]) {
	if c.listeners.add(l) {
		c.logger.Debug("listener registered",
			log.String("component", l.observed.Name()),
			log.Int("listeners", c.listeners.count(l.observed)))
	}
}

// Unregister unbinds l. Unknown listeners are ignored. A listener
// unregistered during a dispatch pass is skipped for the rest of that pass.
func (c *Context[ID]) Unregister(l *Listener[ID]) {
	c.listeners.delete(l)
}

// FailurePolicy reports how listener errors are handled.
func (c *Context[ID]) FailurePolicy() FailurePolicy {
	return c.policy
}

func (c *Context[ID]) materialize(id ID) *Entity[ID] {
	e := &Entity[ID]{
		id:    id,
		ctx:   c,
		seq:   c.nextSeq,
		store: newComponentStore(),
	}
	c.nextSeq++
	c.entities[id] = e
	c.metrics.EntityCreated()
	c.publish(EventEntityCreated, id)
	c.logger.Debug("entity created", log.Any("entity", id))
	return e
}

func (c *Context[ID]) indexFor(t ComponentType) *typeIndex[ID] {
	idx, ok := c.indexes[t]
	if !ok {
		idx = newTypeIndex[ID]()
		c.indexes[t] = idx
	}
	return idx
}

// dispatch notifies the listeners of t in registration order.
func (c *Context[ID]) dispatch(e *Entity[ID], t ComponentType, phase Phase, value any) error {
	if c.listeners.count(t) == 0 {
		return nil
	}
	buf := c.listeners.snapshot(t)
	defer c.listeners.release(buf)
	for _, l := range *buf {
		if !c.listeners.contains(l) || !e.Has(l.required...) {
			continue
		}
		err := l.call(e, t, phase, value)
		if err == nil {
			continue
		}

		c.metrics.ListenerFailed(t.Name(), phase.String())
		lerr := &ListenerError{Entity: e.id, Component: t, Phase: phase, Err: err}
		if c.policy == Propagate {
			return lerr
		}
		c.logger.Warn("component listener failed",
			log.Any("entity", e.id),
			log.String("component", t.Name()),
			log.Uint64("component_id", uint64(t.ID())),
			log.String("phase", phase.String()),
			log.Error(err))
	}
	return nil
}

func (c *Context[ID]) publish(eventType string, id ID) {
	if c.events == nil {
		return
	}
	if err := c.events.Publish(bus.NewEvent(eventType, eventSource, id, nil)); err != nil {
		c.logger.Warn("lifecycle event handler failed",
			log.String("event", eventType), log.Any("entity", id), log.Error(err))
	}
}

// OnComponentSet registers an ungated listener that runs fn after every Set of T.
func OnComponentSet[T any, ID comparable](c *Context[ID], fn func(value T, e *Entity[ID])) *Listener[ID] {
	l := Observe[T](func(e *Entity[ID], v T) error {
		fn(v, e)
		return nil
	}, nil)
	c.Register(l)
	return l
}

// OnComponentRemove registers an ungated listener that runs fn before every Remove of T.
func OnComponentRemove[T any, ID comparable](c *Context[ID], fn func(t ComponentType, e *Entity[ID])) *Listener[ID] {
	l := NewListener[ID](TypeOf[T](), nil, func(e *Entity[ID], t ComponentType) error {
		fn(t, e)
		return nil
	})
	c.Register(l)
	return l
}
