package systems

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/zeusync/entitycore/internal/core/observability/log"
	"github.com/zeusync/entitycore/internal/core/observability/metrics"
)

var (
	ErrSystemExists   = errors.New("system already registered")
	ErrSystemNotFound = errors.New("system not found")
)

type entry struct {
	system  System
	enabled bool
	order   int
}

// Manager runs registered systems in priority order, one tick at a time.
// Like the registry it drives, it is meant for a single goroutine.
type Manager struct {
	entries []*entry
	nextOrd int
	frame   int64
	total   time.Duration
	logger  log.Log
	metrics *metrics.Collector
}

func NewManager(logger log.Log, collector *metrics.Collector) *Manager {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Manager{logger: logger, metrics: collector}
}

// Register adds s enabled. Systems with equal priority run in registration order.
func (m *Manager) Register(s System) error {
	if m.find(s.Name()) >= 0 {
		return fmt.Errorf("%w: %s", ErrSystemExists, s.Name())
	}
	m.entries = append(m.entries, &entry{system: s, enabled: true, order: m.nextOrd})
	m.nextOrd++
	slices.SortStableFunc(m.entries, func(a, b *entry) int {
		if c := cmp.Compare(b.system.Priority(), a.system.Priority()); c != 0 {
			return c
		}
		return cmp.Compare(a.order, b.order)
	})
	return nil
}

func (m *Manager) Unregister(name string) error {
	i := m.find(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	m.entries = slices.Delete(m.entries, i, i+1)
	return nil
}

func (m *Manager) Enable(name string) error {
	return m.setEnabled(name, true)
}

func (m *Manager) Disable(name string) error {
	return m.setEnabled(name, false)
}

// Systems lists registered systems in execution order.
func (m *Manager) Systems() []System {
	out := make([]System, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.system
	}
	return out
}

func (m *Manager) Frame() int64 {
	return m.frame
}

// Update advances one tick of delta seconds. Every enabled system runs even if
// an earlier one failed; the failures are joined.
func (m *Manager) Update(delta float64) error {
	m.frame++
	m.total += time.Duration(delta * float64(time.Second))
	tick := Tick{Delta: delta, Frame: m.frame, Total: m.total}

	var errs []error
	for _, e := range slices.Clone(m.entries) {
		if !e.enabled {
			continue
		}
		start := time.Now()
		err := e.system.Update(tick)
		m.metrics.SystemTick(e.system.Name(), time.Since(start))
		if err != nil {
			m.logger.Error("system update failed",
				log.String("system", e.system.Name()),
				log.Int64("frame", tick.Frame),
				log.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", e.system.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Run calls Update every interval until ctx is done or, when count > 0, after
// count ticks. Failed ticks are logged and do not stop the loop.
func (m *Manager) Run(ctx context.Context, interval time.Duration, count int) error {
	if interval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for ran := 0; count <= 0 || ran < count; ran++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			_ = m.Update(interval.Seconds())
		}
	}
	return nil
}

func (m *Manager) find(name string) int {
	return slices.IndexFunc(m.entries, func(e *entry) bool { return e.system.Name() == name })
}

func (m *Manager) setEnabled(name string, enabled bool) error {
	i := m.find(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	m.entries[i].enabled = enabled
	return nil
}
