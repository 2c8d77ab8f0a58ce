package bus

import "time"

// EventBus fans events out by type to subscribers, synchronously and in
// subscription order. The registry publishes its lifecycle events here
// (entity.created, entity.destroyed) so that code outside the listener
// mechanism can follow the world without holding a Context.
//
// Handlers run on the publisher's goroutine, in the middle of the mutation
// that published, and must not block.
type EventBus interface {
	// Publish returns the handler errors joined, or nil.
	Publish(event Event) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe accepts nil.
	Unsubscribe(Subscription) error

	// AddObserver attaches obs to every later publish; metrics.Collector is one.
	AddObserver(obs EventBusObserver)
	RemoveObserver(obs EventBusObserver)
}

// Event is one published message. Data carries the payload, for registry
// events the entity id.
type Event interface {
	Type() string
	Source() string
	Timestamp() time.Time
	Data() any
	Metadata() map[string]any
}

type EventHandler func(event Event) error

// Subscription is the handle returned by Subscribe. Cancel is idempotent.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	Cancel() error
}

// EventBusObserver sees every publish and how its delivery went.
type EventBusObserver interface {
	OnPublish(eventType string, event Event)
	OnDelivered(eventType string, handlers int, err error, took time.Duration)
}
