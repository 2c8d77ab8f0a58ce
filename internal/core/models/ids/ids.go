// Package ids holds the identity strategies a Context draws entity ids from.
package ids

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces identities for new entities. Every value returned by Next
// must not belong to a live entity of the Context using the generator.
type Generator[ID comparable] interface {
	Next() ID
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc[ID comparable] func() ID

func (f GeneratorFunc[ID]) Next() ID { return f() }

// KeyAddressable is implemented by generators whose ids double as caller-chosen
// lookup keys. A Context built on such a generator materializes entities on Get.
type KeyAddressable interface {
	KeyAddressable() bool
}

// IsKeyAddressable reports whether gen opts into upsert-on-lookup.
func IsKeyAddressable(gen any) bool {
	k, ok := gen.(KeyAddressable)
	return ok && k.KeyAddressable()
}

type uuidGenerator struct{}

func (uuidGenerator) Next() uuid.UUID { return uuid.New() }

// UUID returns random version 4 UUIDs. Collisions are treated as impossible.
func UUID() Generator[uuid.UUID] { return uuidGenerator{} }

// CounterGenerator hands out increasing integers, never reusing one.
type CounterGenerator struct {
	next atomic.Uint64
}

// Counter starts counting at start.
func Counter(start uint64) *CounterGenerator {
	c := &CounterGenerator{}
	c.next.Store(start)
	return c
}

func (c *CounterGenerator) Next() uint64 {
	return c.next.Add(1) - 1
}

// Peek returns the value the next call to Next will produce.
func (c *CounterGenerator) Peek() uint64 {
	return c.next.Load()
}

type keyGenerator struct{}

func (keyGenerator) Next() string         { return uuid.NewString() }
func (keyGenerator) KeyAddressable() bool { return true }

// Keys returns string ids: fresh entities get a random UUID string, and any
// caller-supplied string is a valid key for Context.Get.
func Keys() Generator[string] { return keyGenerator{} }

// Strategy names a built-in generator in configuration.
type Strategy string

const (
	StrategyUUID    Strategy = "uuid"
	StrategyCounter Strategy = "counter"
	StrategyKey     Strategy = "key"
)

func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyUUID, StrategyCounter, StrategyKey:
		return st, nil
	case "":
		return StrategyKey, nil
	default:
		return "", fmt.Errorf("unknown id strategy %q", s)
	}
}
