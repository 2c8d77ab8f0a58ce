package generic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolGeneratesWhenEmpty(t *testing.T) {
	calls := 0
	p := NewPool(func() *[]int {
		calls++
		s := make([]int, 0, 4)
		return &s
	})

	buf := p.Get()
	assert.NotNil(t, buf)
	assert.Empty(t, *buf)
	assert.Equal(t, 1, calls)
}

func TestPoolResetOnPut(t *testing.T) {
	p := NewPool(func() *[]int {
		s := make([]int, 0, 4)
		return &s
	}).WithReset(func(s *[]int) *[]int {
		*s = (*s)[:0]
		return s
	})

	buf := p.Get()
	*buf = append(*buf, 1, 2, 3)
	p.Put(buf)
	assert.Empty(t, *buf)
}
