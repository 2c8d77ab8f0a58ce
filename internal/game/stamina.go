package game

import (
	"errors"
	"math"

	"github.com/zeusync/entitycore/internal/core/models"
	"github.com/zeusync/entitycore/internal/core/systems"
)

var (
	effectType       = models.TypeOf[Effect]()
	addedStaminaType = models.TypeOf[AddedStamina]()
	baseStaminaType  = models.TypeOf[BaseStamina]()
	durationType     = models.TypeOf[Duration]()
	staminaType      = models.TypeOf[Stamina]()
)

// RegisterStamina keeps every character's Stamina equal to its BaseStamina plus
// the AddedStamina of each effect targeting it. The returned listeners can be
// passed to Unregister.
func RegisterStamina(ctx *models.Context[string]) []*models.Listener[string] {
	listeners := []*models.Listener[string]{
		models.Observe[BaseStamina](func(e *models.Entity[string], _ BaseStamina) error {
			return Recompute(ctx, e, nil)
		}, nil),
		// buff attached to or detached from an effect
		models.Observe[AddedStamina](func(buff *models.Entity[string], _ AddedStamina) error {
			return recomputeTarget(ctx, buff, nil)
		}, func(buff *models.Entity[string]) error {
			return recomputeTarget(ctx, buff, buff)
		}, effectType),
		// effect attached to or detached from a buff
		models.Observe[Effect](func(buff *models.Entity[string], _ Effect) error {
			return recomputeTarget(ctx, buff, nil)
		}, func(buff *models.Entity[string]) error {
			return recomputeTarget(ctx, buff, buff)
		}, addedStaminaType),
	}
	for _, l := range listeners {
		ctx.Register(l)
	}
	return listeners
}

// Recompute derives target's Stamina, ignoring the buff entity excluding
// (which is about to lose its AddedStamina or Effect). Targets without
// BaseStamina are left alone.
func Recompute(ctx *models.Context[string], target *models.Entity[string], excluding *models.Entity[string]) error {
	base, ok := models.Get[BaseStamina](target)
	if !ok || !target.Valid() {
		return nil
	}
	total := int(base.Value)
	for _, buff := range ctx.List(effectType, addedStaminaType) {
		if buff == excluding {
			continue
		}
		effect, _ := models.Get[Effect](buff)
		if effect.Target != target.ID() {
			continue
		}
		added, _ := models.Get[AddedStamina](buff)
		total += int(added.Value)
	}
	total = max(math.MinInt16, min(math.MaxInt16, total))

	if cur, ok := models.Get[Stamina](target); ok && int(cur.Value) == total {
		return nil
	}
	_, err := target.Set(Stamina{Value: int16(total)})
	return err
}

func recomputeTarget(ctx *models.Context[string], buff, excluding *models.Entity[string]) error {
	effect, ok := models.Get[Effect](buff)
	if !ok || !ctx.Exists(effect.Target) {
		return nil
	}
	target, _ := ctx.Get(effect.Target)
	return Recompute(ctx, target, excluding)
}

// StaminaSystem recomputes every character once per tick, catching changes
// the listeners cannot see, such as an Effect retargeted in place.
func StaminaSystem(ctx *models.Context[string]) systems.System {
	return systems.Func("stamina", systems.PriorityLow, func(systems.Tick) error {
		var errs []error
		for _, e := range ctx.List(baseStaminaType) {
			if err := Recompute(ctx, e, nil); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}
