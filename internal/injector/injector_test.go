package injector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/entitycore/internal/config"
	"github.com/zeusync/entitycore/internal/core/events/bus"
	"github.com/zeusync/entitycore/internal/core/models"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Log.OutputPaths = []string{"stderr"}
	cfg.Log.Level = "error"
	return cfg
}

func TestInitializeRuntimeDefaults(t *testing.T) {
	rt, err := InitializeRuntime(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	assert.Nil(t, rt.Metrics)
	assert.True(t, rt.World.KeyAddressable())
	assert.Equal(t, models.Propagate, rt.World.FailurePolicy())

	e, ok := rt.World.Get("player")
	require.True(t, ok)
	assert.Equal(t, "player", e.ID())
}

func TestInitializeRuntimeCounterWithMetrics(t *testing.T) {
	cfg := testConfig()
	cfg.IDs.Strategy = "counter"
	cfg.IDs.CounterStart = 10
	cfg.Listeners.FailurePolicy = "isolate"
	cfg.Metrics.Enabled = true

	rt, err := InitializeRuntime(cfg)
	require.NoError(t, err)

	assert.False(t, rt.World.KeyAddressable())
	assert.Equal(t, models.Isolate, rt.World.FailurePolicy())
	assert.Equal(t, "10", rt.World.NewEntity().ID())
	assert.Equal(t, "11", rt.World.NewEntity().ID())

	families, err := rt.Registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	published := 0.0
	for _, mf := range families {
		if mf.GetName() == "entitycore_events_published_total" {
			for _, m := range mf.GetMetric() {
				published += m.GetCounter().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, published, "world lifecycle events reach the collector")
}

func TestWorldPublishesToRuntimeBus(t *testing.T) {
	cfg := testConfig()
	cfg.IDs.Strategy = "uuid"
	rt, err := InitializeRuntime(cfg)
	require.NoError(t, err)

	var created []any
	_, err = rt.Events.Subscribe(models.EventEntityCreated, func(ev bus.Event) error {
		created = append(created, ev.Data())
		return nil
	})
	require.NoError(t, err)

	e := rt.World.NewEntity()
	assert.Equal(t, []any{e.ID()}, created)
}

func TestInitializeRuntimeRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.IDs.Strategy = "snowflake"
	_, err := InitializeRuntime(cfg)
	assert.Error(t, err)
}
