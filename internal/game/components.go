// Package game holds the demo components and systems that sit on top of the
// registry: names, timed effects and stamina buffs, and a printable character sheet.
package game

import (
	"fmt"
	"time"
)

type Name string

// Effect marks an entity as an effect applied by Source onto Target.
// Source and Target are entity keys of a string-keyed context.
type Effect struct {
	Name   string
	Source string
	Target string
}

func (e Effect) String() string {
	return fmt.Sprintf("[name=%s, source=%s, target=%s]", e.Name, e.Source, e.Target)
}

// Duration makes its entity expire Length after Start.
type Duration struct {
	Start  time.Time
	Length time.Duration
}

func NewDuration(start time.Time, length time.Duration) Duration {
	return Duration{Start: start, Length: length}
}

func (d Duration) Expired(now time.Time) bool {
	return now.After(d.Start.Add(d.Length))
}

func (d Duration) Remaining(now time.Time) time.Duration {
	if left := d.Start.Add(d.Length).Sub(now); left > 0 {
		return left
	}
	return 0
}

func (d Duration) String() string {
	return fmt.Sprintf("[start=%s, duration=%s]", d.Start.Format(time.TimeOnly), d.Length)
}

// Range is a reach in meters.
type Range float32

func (r Range) String() string {
	return fmt.Sprintf("[%gm]", float32(r))
}

// Stamina is the effective stamina of a character. BaseStamina and
// AddedStamina embed it but are separate component slots.
type Stamina struct {
	Value int16
}

func (s Stamina) String() string {
	return fmt.Sprintf("[%d]", s.Value)
}

type BaseStamina struct{ Stamina }

type AddedStamina struct{ Stamina }
