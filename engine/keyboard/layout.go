// Package keyboard computes horizontal key extents for a piano keyboard so
// render passes and key overlays agree on where each key sits on screen.
package keyboard

import (
	"github.com/notefall/notefall/engine/notes"
)

// blackNotes marks which notes within an octave are black keys
// (C#, D#, F#, G#, A#).
var blackNotes = [12]bool{false, true, false, true, false, false, true, false, true, false, true, false}

// blackOffsets nudges each black key off the white-key boundary it straddles,
// expressed as a fraction of a white key width. Matches the visual grouping of
// a real keyboard: C#/D# lean away from each other, F#/G#/A# spread wider.
var blackOffsets = [12]float32{0, -0.1, 0, 0.1, 0, 0, -0.15, 0, 0, 0, 0.15, 0}

// Layout maps a contiguous range of keys to horizontal extents in [0,1].
// White keys are evenly spaced across the range; black keys are narrower and
// straddle the boundary between their neighbouring white keys.
type Layout interface {
	// Range returns the first and last key covered by the layout (inclusive).
	//
	// Returns:
	//   - uint8: the first key
	//   - uint8: the last key
	Range() (first, last uint8)

	// IsBlack reports whether the given key is a black key.
	//
	// Parameters:
	//   - key: the key number
	//
	// Returns:
	//   - bool: true if the key is black
	IsBlack(key uint8) bool

	// Extent returns the left and right edge of the given key, normalized to
	// [0,1] across the layout's range. Keys outside the range report (0, 0).
	//
	// Parameters:
	//   - key: the key number
	//
	// Returns:
	//   - float32: left edge
	//   - float32: right edge
	Extent(key uint8) (left, right float32)

	// KeyPositions writes the full extent table for the layout. Entries for
	// keys outside the layout's range are zero.
	//
	// Parameters:
	//   - table: the destination table to fill
	KeyPositions(table *[notes.KeyTableSize]notes.KeyPosition)
}

type layout struct {
	firstKey uint8
	lastKey  uint8

	// blackWidthScale is the black key width as a fraction of a white key width.
	blackWidthScale float32

	// extents is precomputed per key at construction; keys outside the range
	// stay zero.
	extents [notes.KeyTableSize]notes.KeyPosition
}

var _ Layout = &layout{}
var _ notes.KeyView = &layout{}

// NewLayout creates a Layout covering the inclusive key range [firstKey, lastKey].
// If firstKey > lastKey the two are swapped.
//
// Parameters:
//   - firstKey: the lowest key in the range
//   - lastKey: the highest key in the range
//   - options: functional options to configure the layout
//
// Returns:
//   - Layout: the computed layout
func NewLayout(firstKey, lastKey uint8, options ...LayoutOption) Layout {
	if firstKey > lastKey {
		firstKey, lastKey = lastKey, firstKey
	}
	l := &layout{
		firstKey:        firstKey,
		lastKey:         lastKey,
		blackWidthScale: 0.6,
	}
	for _, opt := range options {
		opt(l)
	}
	l.compute()
	return l
}

// compute fills the extent table. White keys partition [0,1] evenly; each
// black key straddles the boundary after its preceding white key, shifted by
// its per-note offset.
func (l *layout) compute() {
	whiteCount := 0
	for k := int(l.firstKey); k <= int(l.lastKey); k++ {
		if !blackNotes[k%12] {
			whiteCount++
		}
	}
	if whiteCount == 0 {
		// Range contains only black keys; spread them evenly instead.
		span := int(l.lastKey) - int(l.firstKey) + 1
		width := 1.0 / float32(span)
		for i := 0; i < span; i++ {
			k := int(l.firstKey) + i
			l.extents[k] = notes.KeyPosition{
				Left:  float32(i) * width,
				Right: float32(i+1) * width,
			}
		}
		return
	}

	whiteWidth := 1.0 / float32(whiteCount)
	blackWidth := whiteWidth * l.blackWidthScale

	whiteIndex := 0
	for k := int(l.firstKey); k <= int(l.lastKey); k++ {
		note := k % 12
		if blackNotes[note] {
			// Centered on the boundary whiteIndex*whiteWidth, shifted by the
			// note's offset.
			center := float32(whiteIndex)*whiteWidth + blackOffsets[note]*whiteWidth
			l.extents[k] = notes.KeyPosition{
				Left:  center - blackWidth/2,
				Right: center + blackWidth/2,
			}
			continue
		}
		l.extents[k] = notes.KeyPosition{
			Left:  float32(whiteIndex) * whiteWidth,
			Right: float32(whiteIndex+1) * whiteWidth,
		}
		whiteIndex++
	}
}

func (l *layout) Range() (first, last uint8) {
	return l.firstKey, l.lastKey
}

func (l *layout) IsBlack(key uint8) bool {
	return blackNotes[key%12]
}

func (l *layout) Extent(key uint8) (left, right float32) {
	e := l.extents[key]
	return e.Left, e.Right
}

func (l *layout) KeyPositions(table *[notes.KeyTableSize]notes.KeyPosition) {
	*table = l.extents
}
