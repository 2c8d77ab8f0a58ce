package bus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testObserver struct {
	publishCount   int
	deliveredCount int
	lastErr        error
}

func (o *testObserver) OnPublish(_ string, _ Event) {
	o.publishCount++
}

func (o *testObserver) OnDelivered(_ string, handlers int, err error, _ time.Duration) {
	o.deliveredCount += handlers
	o.lastErr = err
}

func TestPublishDeliversInSubscriptionOrder(t *testing.T) {
	b := New()
	var order []int
	for i := range 3 {
		_, err := b.Subscribe("entity.created", func(e Event) error {
			order = append(order, i)
			return nil
		})
		require.NoError(t, err)
	}
	require.NoError(t, b.Publish(NewEvent("entity.created", "test", 42, nil)))
	assert.Equal(t, []int{0, 1, 2}, order)
}

func TestPublishJoinsHandlerErrors(t *testing.T) {
	b := New()
	errA, errB := errors.New("a"), errors.New("b")
	_, _ = b.Subscribe("x", func(Event) error { return errA })
	_, _ = b.Subscribe("x", func(Event) error { return nil })
	_, _ = b.Subscribe("x", func(Event) error { return errB })

	err := b.Publish(NewEvent("x", "src", nil, nil))
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
}

func TestCancelStopsDelivery(t *testing.T) {
	b := New()
	calls := 0
	sub, err := b.Subscribe("x", func(Event) error { calls++; return nil })
	require.NoError(t, err)
	assert.True(t, sub.IsActive())
	assert.NotEmpty(t, sub.ID())

	require.NoError(t, b.Unsubscribe(sub))
	require.NoError(t, sub.Cancel())
	assert.False(t, sub.IsActive())
	require.NoError(t, b.Publish(NewEvent("x", "src", nil, nil)))
	assert.Zero(t, calls)
	assert.NoError(t, b.Unsubscribe(nil))

	_, err = b.Subscribe("x", nil)
	assert.ErrorIs(t, err, ErrNilHandler)
}

func TestObserversSeeEveryDelivery(t *testing.T) {
	b := New()
	boom := errors.New("boom")
	_, _ = b.Subscribe("e", func(Event) error { return nil })
	_, _ = b.Subscribe("e", func(Event) error { return boom })

	obs := &testObserver{}
	b.AddObserver(obs)
	b.AddObserver(obs)
	err := b.Publish(NewEvent("e", "s", nil, nil))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, obs.publishCount)
	assert.Equal(t, 2, obs.deliveredCount)
	assert.ErrorIs(t, obs.lastErr, boom)

	b.RemoveObserver(obs)
	_ = b.Publish(NewEvent("e", "s", nil, nil))
	assert.Equal(t, 1, obs.publishCount)
}
