package models

import (
	"fmt"
	"strings"

	"github.com/zeusync/entitycore/internal/core/events/bus"
	"github.com/zeusync/entitycore/internal/core/observability/log"
	"github.com/zeusync/entitycore/internal/core/observability/metrics"
)

// FailurePolicy decides what a listener error does to the mutation that triggered it.
type FailurePolicy uint8

const (
	// Propagate aborts the remaining listeners of the pass and returns a
	// *ListenerError from Set/Remove/Clear/Destroy. Set keeps the new value,
	// Remove keeps the component, Destroy keeps the entity registered.
	Propagate FailurePolicy = iota
	// Isolate logs the failure and keeps notifying; the mutation always completes.
	Isolate
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "propagate":
		return Propagate, nil
	case "isolate":
		return Isolate, nil
	default:
		return Propagate, fmt.Errorf("unknown listener failure policy %q", s)
	}
}

func (p FailurePolicy) String() string {
	if p == Isolate {
		return "isolate"
	}
	return "propagate"
}

type options struct {
	logger  log.Log
	metrics *metrics.Collector
	events  bus.EventBus
	policy  FailurePolicy
}

type Option func(*options)

// WithLogger sets the logger used for listener failures and lifecycle debug entries.
func WithLogger(l log.Log) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records registry activity on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) {
		o.metrics = c
	}
}

// WithEventBus publishes entity.created and entity.destroyed on b.
func WithEventBus(b bus.EventBus) Option {
	return func(o *options) {
		o.events = b
	}
}

func WithFailurePolicy(p FailurePolicy) Option {
	return func(o *options) {
		o.policy = p
	}
}
