package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notefall/notefall/engine/notes"
)

func TestNewLayoutWhiteKeysPartitionUnitInterval(t *testing.T) {
	// Standard 88-key piano: A0 (21) through C8 (108), 52 white keys.
	l := NewLayout(21, 108)

	first, last := l.Range()
	require.Equal(t, uint8(21), first)
	require.Equal(t, uint8(108), last)

	var prevRight float32
	whiteCount := 0
	for k := first; ; k++ {
		if !l.IsBlack(k) {
			left, right := l.Extent(k)
			assert.InDelta(t, prevRight, left, 1e-5, "white key %d should start where the previous one ended", k)
			assert.Greater(t, right, left)
			prevRight = right
			whiteCount++
		}
		if k == last {
			break
		}
	}
	assert.Equal(t, 52, whiteCount)
	assert.InDelta(t, 1.0, prevRight, 1e-5)
}

func TestNewLayoutBlackKeysNarrowerAndInsideNeighbours(t *testing.T) {
	l := NewLayout(21, 108)

	for k := uint8(22); k < 108; k++ {
		if !l.IsBlack(k) {
			continue
		}
		left, right := l.Extent(k)
		prevLeft, _ := l.Extent(k - 1)
		_, nextRight := l.Extent(k + 1)
		assert.Greater(t, left, prevLeft, "black key %d should start inside its left neighbour", k)
		assert.Less(t, right, nextRight, "black key %d should end inside its right neighbour", k)

		wLeft, wRight := l.Extent(k - 1)
		assert.Less(t, right-left, wRight-wLeft, "black key %d should be narrower than a white key", k)
	}
}

func TestNewLayoutOutOfRangeKeysAreZero(t *testing.T) {
	l := NewLayout(21, 108)

	var table [notes.KeyTableSize]notes.KeyPosition
	l.KeyPositions(&table)

	for k := 0; k < 21; k++ {
		assert.Zero(t, table[k].Left)
		assert.Zero(t, table[k].Right)
	}
	for k := 109; k < notes.KeyTableSize; k++ {
		assert.Zero(t, table[k].Left)
		assert.Zero(t, table[k].Right)
	}
	// In-range keys are populated.
	assert.NotZero(t, table[60].Right)
}

func TestNewLayoutSwapsReversedRange(t *testing.T) {
	l := NewLayout(108, 21)
	first, last := l.Range()
	assert.Equal(t, uint8(21), first)
	assert.Equal(t, uint8(108), last)
}

func TestWithBlackKeyScale(t *testing.T) {
	wide := NewLayout(21, 108, WithBlackKeyScale(0.9))
	narrow := NewLayout(21, 108, WithBlackKeyScale(0.3))

	wl, wr := wide.Extent(22)
	nl, nr := narrow.Extent(22)
	assert.Greater(t, wr-wl, nr-nl)

	// Out-of-range scale keeps the default.
	def := NewLayout(21, 108)
	bad := NewLayout(21, 108, WithBlackKeyScale(1.5))
	dl, dr := def.Extent(22)
	bl, br := bad.Extent(22)
	assert.InDelta(t, dr-dl, br-bl, 1e-6)
}
