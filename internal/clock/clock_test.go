package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualClockNeverRewinds(t *testing.T) {
	c := NewManual(100)
	assert.Equal(t, int64(100), c.Now())

	require.NoError(t, c.Set(100))
	require.NoError(t, c.Advance(50))
	assert.Equal(t, int64(150), c.Now())

	assert.ErrorIs(t, c.Set(149), ErrClockRewind)
	assert.ErrorIs(t, c.Advance(-1), ErrClockRewind)
	assert.Equal(t, int64(150), c.Now())
}

func TestSystemClock(t *testing.T) {
	before := time.Now().Unix()
	now := System{}.Now()
	assert.GreaterOrEqual(t, now, before)
	assert.LessOrEqual(t, now, time.Now().Unix())
}
