package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterIsMonotonic(t *testing.T) {
	c := Counter(10)
	assert.Equal(t, uint64(10), c.Next())
	assert.Equal(t, uint64(11), c.Next())
	assert.Equal(t, uint64(12), c.Peek())
	assert.False(t, IsKeyAddressable(c))
}

func TestUUIDAreDistinct(t *testing.T) {
	g := UUID()
	seen := make(map[uuid.UUID]struct{})
	for range 1000 {
		id := g.Next()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
	assert.False(t, IsKeyAddressable(g))
}

func TestKeysAreAddressable(t *testing.T) {
	g := Keys()
	assert.True(t, IsKeyAddressable(g))
	_, err := uuid.Parse(g.Next())
	assert.NoError(t, err)
}

func TestGeneratorFunc(t *testing.T) {
	n := 0
	g := GeneratorFunc[int](func() int { n++; return n })
	assert.Equal(t, 1, g.Next())
	assert.Equal(t, 2, g.Next())
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy(" Counter ")
	require.NoError(t, err)
	assert.Equal(t, StrategyCounter, s)

	s, err = ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyKey, s)

	_, err = ParseStrategy("snowflake")
	assert.Error(t, err)
}
