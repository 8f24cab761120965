package rtfiber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskPoolAcquireRelease(t *testing.T) {
	p := newTaskPool(2)
	assert.Equal(t, 2, p.capacity())
	assert.Equal(t, 2, p.reserve())
	assert.Equal(t, 0, p.size())

	rt := &RealTimeTask{}
	idx, err := p.acquire(rt)
	require.NoError(t, err)
	assert.Equal(t, 1, p.size())
	assert.Equal(t, 1, p.reserve())

	p.release(idx)
	assert.Equal(t, 0, p.size())
	assert.Equal(t, 2, p.reserve())
}

func TestTaskPoolCapacityExceeded(t *testing.T) {
	p := newTaskPool(1)
	_, err := p.acquire(&RealTimeTask{})
	require.NoError(t, err)

	_, err = p.acquire(&RealTimeTask{})
	var ce CapacityExceededError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 1, ce.Capacity)
}
