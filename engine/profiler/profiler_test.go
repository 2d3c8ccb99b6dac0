package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickAccumulatesUntilInterval(t *testing.T) {
	p := NewProfiler()

	assert.False(t, p.Tick(1000, 2, 50, 4))
	assert.False(t, p.Tick(1500, 3, 60, 2))

	assert.Equal(t, 2, p.frameCount)
	assert.Equal(t, uint64(2500), p.noteCount)
	assert.Equal(t, 5, p.passCount)

	// Progress numbers are snapshots, not sums.
	assert.Equal(t, 60, p.notesPassed)
	assert.Equal(t, 2, p.keysDown)
}

func TestTickLogsAndResetsAfterInterval(t *testing.T) {
	p := NewProfiler()
	p.lastTime = time.Now().Add(-2 * time.Second)

	assert.True(t, p.Tick(1000, 2, 50, 4))

	assert.Equal(t, 0, p.frameCount)
	assert.Equal(t, uint64(0), p.noteCount)
	assert.Equal(t, 0, p.passCount)
}
