package game

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/entitycore/internal/core/models"
	"github.com/zeusync/entitycore/internal/core/models/ids"
	"github.com/zeusync/entitycore/internal/core/systems"
)

func staminaOf(t *testing.T, e *models.Entity[string]) int16 {
	t.Helper()
	s, ok := models.Get[Stamina](e)
	require.True(t, ok, "entity %s has no Stamina", e.ID())
	return s.Value
}

func newPlayer(t *testing.T, ctx *models.Context[string], base int16) *models.Entity[string] {
	t.Helper()
	player, _ := ctx.Get("player")
	_, err := player.Set(Name("Netzwerg"))
	require.NoError(t, err)
	_, err = player.Set(BaseStamina{Stamina{base}})
	require.NoError(t, err)
	return player
}

func newBuff(t *testing.T, ctx *models.Context[string], name string, added int16) *models.Entity[string] {
	t.Helper()
	buff := ctx.NewEntity()
	_, err := buff.Set(Effect{Name: name, Source: "player", Target: "player"})
	require.NoError(t, err)
	_, err = buff.Set(AddedStamina{Stamina{added}})
	require.NoError(t, err)
	return buff
}

func TestStaminaBuffAppliesAndReverts(t *testing.T) {
	ctx := models.NewContext(ids.Keys())
	RegisterStamina(ctx)
	player := newPlayer(t, ctx, 100)
	assert.Equal(t, int16(100), staminaOf(t, player))

	buff := newBuff(t, ctx, "Blessing of the Earth", 25)
	assert.Equal(t, int16(125), staminaOf(t, player))

	base, _ := models.Get[BaseStamina](player)
	assert.Equal(t, int16(100), base.Value, "base slot is untouched")

	_, err := buff.Remove(models.TypeOf[AddedStamina]())
	require.NoError(t, err)
	assert.Equal(t, int16(100), staminaOf(t, player))
}

func TestStaminaBuffNeedsEffect(t *testing.T) {
	ctx := models.NewContext(ids.Keys())
	RegisterStamina(ctx)
	player := newPlayer(t, ctx, 100)

	loose := ctx.NewEntity()
	_, _ = loose.Set(AddedStamina{Stamina{40}})
	assert.Equal(t, int16(100), staminaOf(t, player))

	// attaching the effect afterwards activates the buff
	_, _ = loose.Set(Effect{Name: "late", Target: "player"})
	assert.Equal(t, int16(140), staminaOf(t, player))

	_, _ = loose.Remove(models.TypeOf[Effect]())
	assert.Equal(t, int16(100), staminaOf(t, player))
}

func TestStackedBuffsAndDestroy(t *testing.T) {
	ctx := models.NewContext(ids.Keys())
	RegisterStamina(ctx)
	player := newPlayer(t, ctx, 100)
	earth := newBuff(t, ctx, "Blessing of the Earth", 25)
	newBuff(t, ctx, "Blessing of the Mountain", 50)
	assert.Equal(t, int16(175), staminaOf(t, player))

	require.NoError(t, ctx.Destroy(earth.ID()))
	assert.Equal(t, int16(150), staminaOf(t, player))
}

func TestStaminaClamps(t *testing.T) {
	ctx := models.NewContext(ids.Keys())
	RegisterStamina(ctx)
	player := newPlayer(t, ctx, 32000)
	newBuff(t, ctx, "huge", 32000)
	assert.Equal(t, int16(32767), staminaOf(t, player))
}

func TestStaminaSystemCatchesRetarget(t *testing.T) {
	ctx := models.NewContext(ids.Keys())
	RegisterStamina(ctx)
	player := newPlayer(t, ctx, 100)
	buff := newBuff(t, ctx, "b", 10)
	other, _ := ctx.Get("other")
	_, _ = other.Set(BaseStamina{Stamina{50}})

	_, _ = buff.Set(Effect{Name: "b", Target: "other"})
	assert.Equal(t, int16(60), staminaOf(t, other))
	assert.Equal(t, int16(110), staminaOf(t, player), "stale until the next tick")

	require.NoError(t, StaminaSystem(ctx).Update(systems.Tick{Delta: 1}))
	assert.Equal(t, int16(100), staminaOf(t, player))
}

func TestTimerExpiresBuffs(t *testing.T) {
	ctx := models.NewContext(ids.Keys())
	RegisterStamina(ctx)
	player := newPlayer(t, ctx, 100)

	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	short := newBuff(t, ctx, "short", 50)
	_, _ = short.Set(NewDuration(start, 5*time.Second))
	long := newBuff(t, ctx, "long", 25)
	_, _ = long.Set(NewDuration(start, 15*time.Second))
	assert.Equal(t, int16(175), staminaOf(t, player))

	timer := Timer(ctx, func() time.Time { return now })
	now = start.Add(6 * time.Second)
	require.NoError(t, timer.Update(systems.Tick{}))
	assert.False(t, ctx.Exists(short.ID()))
	assert.True(t, ctx.Exists(long.ID()))
	assert.Equal(t, int16(125), staminaOf(t, player))

	now = start.Add(time.Minute)
	require.NoError(t, timer.Update(systems.Tick{}))
	assert.False(t, ctx.Exists(long.ID()))
	assert.Equal(t, int16(100), staminaOf(t, player))
	assert.Equal(t, 1, ctx.Len())
}

func TestCharacterSheet(t *testing.T) {
	ctx := models.NewContext(ids.Keys())
	RegisterStamina(ctx)
	player := newPlayer(t, ctx, 100)
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	buff := newBuff(t, ctx, "Blessing of the Earth", 25)
	_, _ = buff.Set(NewDuration(start, 15*time.Second))
	newBuff(t, ctx, "Aura", 0)

	sheet := CharacterSheet(ctx, player, start.Add(time.Second))
	lines := strings.Split(strings.TrimSuffix(sheet, "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "┌"+strings.Repeat("─", 40)+"┐", lines[0])
	assert.Equal(t, "│ "+"Netzwerg"+strings.Repeat(" ", 30)+" │", lines[1])
	assert.Equal(t, "│ stamina"+strings.Repeat(" ", 20)+" "+strings.Repeat(" ", 5)+"[125] │", lines[3])
	assert.Equal(t, "│ Blessing of the Earth"+strings.Repeat(" ", 6)+"   00:14.00 │", lines[5])
	assert.Equal(t, "│ Aura"+strings.Repeat(" ", 23)+" "+strings.Repeat(" ", 10)+" │", lines[6])
	for _, line := range lines {
		assert.Equal(t, 42, len([]rune(line)), line)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:14.00", FormatDuration(14*time.Second))
	assert.Equal(t, "01:05.25", FormatDuration(65*time.Second+250*time.Millisecond))
	assert.Equal(t, "00:00.00", FormatDuration(0))

	d := NewDuration(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), 5*time.Second)
	assert.Equal(t, "[start=12:00:00, duration=5s]", d.String())
	assert.Equal(t, 2*time.Second, d.Remaining(d.Start.Add(3*time.Second)))
	assert.Zero(t, d.Remaining(d.Start.Add(time.Hour)))
}

func TestComponentStrings(t *testing.T) {
	assert.Equal(t, "[125]", Stamina{125}.String())
	assert.Equal(t, "[2.5m]", Range(2.5).String())
	assert.Equal(t, "[name=x, source=a, target=b]", Effect{"x", "a", "b"}.String())
}
