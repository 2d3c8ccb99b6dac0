package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notefall/notefall/engine/midi"
	"github.com/notefall/notefall/engine/notes"
)

// Stream producers feed the profiler's playback numbers.
var _ playbackStats = (midi.StreamProducer)(nil)

// statsProducer is a producer exposing playback progress.
type statsProducer struct {
	passed  int
	pressed []uint8
}

func (p *statsProducer) FillBuffer(buf []notes.NoteVertex) notes.PassStatus {
	return notes.Finished(0)
}

func (p *statsProducer) NotesPassed() int {
	return p.passed
}

func (p *statsProducer) PressedKeys(colors *[notes.KeyTableSize]uint32, pressed *[notes.KeyTableSize]bool) {
	for _, key := range p.pressed {
		colors[key] = 0xFFFFFF
		pressed[key] = true
	}
}

// plainProducer is a producer without playback stats.
type plainProducer struct{}

func (p *plainProducer) FillBuffer(buf []notes.NoteVertex) notes.PassStatus {
	return notes.Finished(0)
}

func TestPlaybackSampleReadsProducerStats(t *testing.T) {
	e := NewEngine(WithProducer(&statsProducer{passed: 42, pressed: []uint8{60, 64, 67}})).(*engine)

	notesPassed, keysDown := e.playbackSample()

	assert.Equal(t, 42, notesPassed)
	assert.Equal(t, 3, keysDown)
}

func TestPlaybackSampleZeroWithoutStats(t *testing.T) {
	e := NewEngine(WithProducer(&plainProducer{})).(*engine)

	notesPassed, keysDown := e.playbackSample()

	assert.Equal(t, 0, notesPassed)
	assert.Equal(t, 0, keysDown)
}

func TestQuitIsIdempotent(t *testing.T) {
	e := NewEngine().(*engine)

	assert.NotPanics(t, func() {
		e.Quit()
		e.Quit()
	})

	select {
	case <-e.quitChannel:
	default:
		t.Fatal("quit channel not closed")
	}
}
