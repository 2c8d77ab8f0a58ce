package physics

import (
	"errors"

	"github.com/zeusync/entitycore/internal/core/models"
	"github.com/zeusync/entitycore/internal/core/systems"
)

var (
	positionType = models.TypeOf[Position]()
	velocityType = models.TypeOf[Velocity]()
)

// Movement integrates Position += Velocity * delta for every entity holding both.
func Movement[ID comparable](ctx *models.Context[ID]) systems.System {
	return systems.Func("movement", systems.PriorityHigh, func(tick systems.Tick) error {
		var errs []error
		for _, e := range ctx.List(positionType, velocityType) {
			if !e.Valid() {
				continue
			}
			if err := Step(e, tick.Delta); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// Step moves one entity by its velocity over delta seconds.
func Step[ID comparable](e *models.Entity[ID], delta float64) error {
	p, okP := models.Get[Position](e)
	v, okV := models.Get[Velocity](e)
	if !okP || !okV {
		return nil
	}
	_, err := e.Set(Position{p.Add(v.Scale(delta))})
	return err
}
