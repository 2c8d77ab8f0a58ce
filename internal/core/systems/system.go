package systems

import (
	"time"
)

// System is a unit of game logic run once per tick by a Manager.
type System interface {
	Name() string
	Priority() Priority
	Update(tick Tick) error
}

// Tick describes the frame being processed.
type Tick struct {
	// Delta is the simulated time since the previous tick, in seconds.
	Delta float64
	Frame int64
	Total time.Duration
}

// Priority defines execution order: higher runs first.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

type funcSystem struct {
	name     string
	priority Priority
	update   func(Tick) error
}

func (s funcSystem) Name() string           { return s.name }
func (s funcSystem) Priority() Priority     { return s.priority }
func (s funcSystem) Update(tick Tick) error { return s.update(tick) }

// Func adapts a function to System.
func Func(name string, priority Priority, update func(Tick) error) System {
	return funcSystem{name: name, priority: priority, update: update}
}
