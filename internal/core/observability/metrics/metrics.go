// Package metrics exposes registry activity as prometheus collectors.
// A nil *Collector is valid and records nothing, so core packages can call it unconditionally.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeusync/entitycore/internal/core/events/bus"
)

const namespace = "entitycore"

var _ bus.EventBusObserver = (*Collector)(nil)

// Collector groups every metric the registry and the systems manager emit.
// Attached to an event bus it also counts published events.
type Collector struct {
	entities          prometheus.Gauge
	entitiesCreated   prometheus.Counter
	entitiesDestroyed prometheus.Counter
	componentsSet     *prometheus.CounterVec
	componentsRemoved *prometheus.CounterVec
	listenerFailures  *prometheus.CounterVec
	systemTick        *prometheus.HistogramVec
	eventsPublished   *prometheus.CounterVec
	eventFailures     *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		entities: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities",
			Help:      "Number of live entities.",
		}),
		entitiesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_created_total",
			Help:      "Entities created since start.",
		}),
		entitiesDestroyed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_destroyed_total",
			Help:      "Entities destroyed since start.",
		}),
		componentsSet: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_set_total",
			Help:      "Component set operations by component type.",
		}, []string{"component"}),
		componentsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_removed_total",
			Help:      "Component remove operations by component type.",
		}, []string{"component"}),
		listenerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listener_failures_total",
			Help:      "Listener callbacks that returned an error or panicked.",
		}, []string{"component", "phase"}),
		systemTick: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "system_tick_seconds",
			Help:      "Time spent in one system update.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"system"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Events published on the bus by event type.",
		}, []string{"type"}),
		eventFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_delivery_failures_total",
			Help:      "Publishes where at least one handler returned an error.",
		}, []string{"type"}),
	}

	for _, col := range []prometheus.Collector{
		c.entities, c.entitiesCreated, c.entitiesDestroyed,
		c.componentsSet, c.componentsRemoved, c.listenerFailures, c.systemTick,
		c.eventsPublished, c.eventFailures,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collector) EntityCreated() {
	if c == nil {
		return
	}
	c.entitiesCreated.Inc()
	c.entities.Inc()
}

func (c *Collector) EntityDestroyed() {
	if c == nil {
		return
	}
	c.entitiesDestroyed.Inc()
	c.entities.Dec()
}

func (c *Collector) ComponentSet(component string) {
	if c == nil {
		return
	}
	c.componentsSet.WithLabelValues(component).Inc()
}

func (c *Collector) ComponentRemoved(component string) {
	if c == nil {
		return
	}
	c.componentsRemoved.WithLabelValues(component).Inc()
}

func (c *Collector) ListenerFailed(component, phase string) {
	if c == nil {
		return
	}
	c.listenerFailures.WithLabelValues(component, phase).Inc()
}

func (c *Collector) SystemTick(system string, took time.Duration) {
	if c == nil {
		return
	}
	c.systemTick.WithLabelValues(system).Observe(took.Seconds())
}

func (c *Collector) OnPublish(eventType string, _ bus.Event) {
	if c == nil {
		return
	}
	c.eventsPublished.WithLabelValues(eventType).Inc()
}

func (c *Collector) OnDelivered(eventType string, _ int, err error, _ time.Duration) {
	if c == nil || err == nil {
		return
	}
	c.eventFailures.WithLabelValues(eventType).Inc()
}
