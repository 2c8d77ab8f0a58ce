package systems

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorder(out *[]string, name string, p Priority) System {
	return Func(name, p, func(Tick) error {
		*out = append(*out, name)
		return nil
	})
}

func TestManagerOrder(t *testing.T) {
	m := NewManager(nil, nil)
	var ran []string
	require.NoError(t, m.Register(recorder(&ran, "timer", PriorityLow)))
	require.NoError(t, m.Register(recorder(&ran, "movement", PriorityHigh)))
	require.NoError(t, m.Register(recorder(&ran, "stamina", PriorityLow)))
	assert.ErrorIs(t, m.Register(recorder(&ran, "timer", PriorityLowest)), ErrSystemExists)

	require.NoError(t, m.Update(1))
	assert.Equal(t, []string{"movement", "timer", "stamina"}, ran)

	names := make([]string, 0, 3)
	for _, s := range m.Systems() {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"movement", "timer", "stamina"}, names)
}

func TestManagerEnableDisable(t *testing.T) {
	m := NewManager(nil, nil)
	var ran []string
	require.NoError(t, m.Register(recorder(&ran, "a", PriorityNormal)))
	require.NoError(t, m.Disable("a"))
	require.NoError(t, m.Update(1))
	assert.Empty(t, ran)

	require.NoError(t, m.Enable("a"))
	require.NoError(t, m.Update(1))
	assert.Equal(t, []string{"a"}, ran)

	assert.ErrorIs(t, m.Disable("missing"), ErrSystemNotFound)
	require.NoError(t, m.Unregister("a"))
	assert.ErrorIs(t, m.Unregister("a"), ErrSystemNotFound)
}

func TestManagerJoinsErrorsAndKeepsGoing(t *testing.T) {
	m := NewManager(nil, nil)
	boom := errors.New("boom")
	var ran []string
	require.NoError(t, m.Register(Func("bad", PriorityHigh, func(Tick) error { return boom })))
	require.NoError(t, m.Register(recorder(&ran, "good", PriorityLow)))

	err := m.Update(0.5)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bad: boom")
	assert.Equal(t, []string{"good"}, ran)
}

func TestTickAccumulates(t *testing.T) {
	m := NewManager(nil, nil)
	var last Tick
	require.NoError(t, m.Register(Func("clock", PriorityNormal, func(tick Tick) error {
		last = tick
		return nil
	})))
	_ = m.Update(0.5)
	_ = m.Update(0.25)
	assert.Equal(t, int64(2), last.Frame)
	assert.Equal(t, 0.25, last.Delta)
	assert.Equal(t, 750*time.Millisecond, last.Total)
	assert.Equal(t, int64(2), m.Frame())
}

func TestRunStopsAfterCount(t *testing.T) {
	m := NewManager(nil, nil)
	n := 0
	require.NoError(t, m.Register(Func("count", PriorityNormal, func(Tick) error { n++; return nil })))
	require.NoError(t, m.Run(context.Background(), time.Millisecond, 3))
	assert.Equal(t, 3, n)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, m.Run(ctx, time.Hour, 0))
	assert.Error(t, m.Run(context.Background(), 0, 1))
}
