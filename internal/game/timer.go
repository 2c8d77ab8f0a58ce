package game

import (
	"errors"
	"time"

	"github.com/zeusync/entitycore/internal/core/models"
	"github.com/zeusync/entitycore/internal/core/systems"
)

// Timer destroys every entity whose Duration has run out. Destroying a buff
// removes its components one by one, so stamina listeners see it leave.
func Timer[ID comparable](ctx *models.Context[ID], now func() time.Time) systems.System {
	if now == nil {
		now = time.Now
	}
	return systems.Func("timer", systems.PriorityLowest, func(systems.Tick) error {
		t := now()
		var errs []error
		for _, e := range ctx.List(durationType) {
			if !e.Valid() {
				continue
			}
			d, _ := models.Get[Duration](e)
			if !d.Expired(t) {
				continue
			}
			if err := ctx.Destroy(e.ID()); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
