package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewBufferSetAllocatesExactlyTwo(t *testing.T) {
	s := newBufferSet(64, nil)

	require.Len(t, s.buffers, 2)
	assert.NotSame(t, s.buffers[0], s.buffers[1])
	assert.Len(t, s.buffers[0].staging, 64)
	assert.Len(t, s.buffers[1].staging, 64)
}

func TestBufferSetNextAlternates(t *testing.T) {
	s := newBufferSet(8, nil)

	a := s.next()
	b := s.next()
	c := s.next()
	d := s.next()

	assert.NotSame(t, a, b)
	assert.Same(t, a, c)
	assert.Same(t, b, d)
}

func TestNewBufferSetSizesDeviceBuffersByRecordSize(t *testing.T) {
	var sizes []uint64
	newBufferSet(100, func(size uint64) *wgpu.Buffer {
		sizes = append(sizes, size)
		return nil
	})

	require.Len(t, sizes, 2)
	// 12 bytes per packed note record.
	assert.Equal(t, uint64(1200), sizes[0])
	assert.Equal(t, uint64(1200), sizes[1])
}
