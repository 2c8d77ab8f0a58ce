package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/zeusync/entitycore/internal/core/models"
)

const sheetWidth = 40

// sheetRows lists the stat rows of a character sheet.
var sheetRows = []struct {
	label string
	t     models.ComponentType
}{
	{"stamina", staminaType},
}

// CharacterSheet renders a boxed summary of e: its name, stats, and the
// effects targeting it with their remaining time.
func CharacterSheet(ctx *models.Context[string], e *models.Entity[string], now time.Time) string {
	var b strings.Builder
	b.WriteString("┌" + strings.Repeat("─", sheetWidth) + "┐\n")

	name, _ := models.Get[Name](e)
	fmt.Fprintf(&b, "│ %-38s │\n", name)
	b.WriteString("├" + strings.Repeat("┄", sheetWidth) + "┤\n")

	for _, row := range sheetRows {
		value := ""
		if v, ok := e.Lookup(row.t); ok {
			value = fmt.Sprint(v)
		}
		fmt.Fprintf(&b, "│ %-27s %10s │\n", row.label, value)
	}
	b.WriteString("├" + strings.Repeat("┄", sheetWidth) + "┤\n")

	ctx.Stream(effectType).
		Filter(func(fx *models.Entity[string]) bool {
			effect, _ := models.Get[Effect](fx)
			return effect.Target == e.ID()
		}).
		ForEach(func(fx *models.Entity[string]) {
			effect, _ := models.Get[Effect](fx)
			remaining := ""
			if d, ok := models.Get[Duration](fx); ok {
				remaining = FormatDuration(d.Remaining(now))
			}
			fmt.Fprintf(&b, "│ %-27s %10s │\n", effect.Name, remaining)
		})

	b.WriteString("└" + strings.Repeat("─", sheetWidth) + "┘\n")
	return b.String()
}

// FormatDuration prints mm:ss.cc.
func FormatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	seconds := int(d % time.Minute / time.Second)
	centis := int(d % time.Second / (10 * time.Millisecond))
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, centis)
}
