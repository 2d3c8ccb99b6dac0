package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const testTicks = smf.MetricTicks(480)

func noteOn(delta uint32, ch, key, vel uint8) smf.Event {
	return smf.Event{Delta: delta, Message: smf.Message(gomidi.NoteOn(ch, key, vel))}
}

func noteOff(delta uint32, ch, key uint8) smf.Event {
	return smf.Event{Delta: delta, Message: smf.Message(gomidi.NoteOff(ch, key))}
}

func TestBuildTempoMapDefaultsTo120BPM(t *testing.T) {
	m := buildTempoMap(testTicks, nil)

	// One quarter note at 120 BPM is half a second.
	assert.InDelta(t, 0.5, m.timeAt(480), 1e-6)
	assert.InDelta(t, 1.0, m.timeAt(960), 1e-6)
}

func TestBuildTempoMapAppliesChanges(t *testing.T) {
	track := smf.Track{
		{Delta: 960, Message: smf.MetaTempo(60)},
	}
	m := buildTempoMap(testTicks, []smf.Track{track})

	// 120 BPM for the first two quarters, 60 BPM afterwards.
	assert.InDelta(t, 1.0, m.timeAt(960), 1e-6)
	assert.InDelta(t, 2.0, m.timeAt(1440), 1e-6)
	assert.InDelta(t, 3.0, m.timeAt(1920), 1e-6)
}

func TestBuildTempoMapTempoAtTickZeroReplacesDefault(t *testing.T) {
	track := smf.Track{
		{Delta: 0, Message: smf.MetaTempo(240)},
	}
	m := buildTempoMap(testTicks, []smf.Track{track})

	// 240 BPM: one quarter is 0.25 seconds.
	assert.InDelta(t, 0.25, m.timeAt(480), 1e-6)
}

func TestExtractTrackNotesPairsOnAndOff(t *testing.T) {
	track := smf.Track{
		noteOn(0, 0, 60, 100),
		noteOff(480, 0, 60),
		noteOn(0, 1, 72, 80),
		noteOff(960, 1, 72),
	}
	m := buildTempoMap(testTicks, nil)

	ns := extractTrackNotes(track, 3, m, DefaultPalette())
	require.Len(t, ns, 2)

	assert.InDelta(t, 0.0, ns[0].Start, 1e-6)
	assert.InDelta(t, 0.5, ns[0].Length, 1e-6)
	assert.Equal(t, uint8(60), ns[0].Key)
	assert.Equal(t, uint8(0), ns[0].Channel)
	assert.Equal(t, 3, ns[0].Track)

	assert.InDelta(t, 0.5, ns[1].Start, 1e-6)
	assert.InDelta(t, 1.0, ns[1].Length, 1e-6)
	assert.Equal(t, uint8(72), ns[1].Key)
	assert.Equal(t, uint8(1), ns[1].Channel)
}

func TestExtractTrackNotesOverlappingSameKeyCloseInOrder(t *testing.T) {
	// Two note-ons on the same key before any note-off: the first off closes
	// the first on.
	track := smf.Track{
		noteOn(0, 0, 60, 100),
		noteOn(480, 0, 60, 100),
		noteOff(480, 0, 60),
		noteOff(480, 0, 60),
	}
	m := buildTempoMap(testTicks, nil)

	ns := extractTrackNotes(track, 0, m, DefaultPalette())
	require.Len(t, ns, 2)
	assert.InDelta(t, 1.0, ns[0].Length, 1e-6)
	assert.InDelta(t, 1.0, ns[1].Length, 1e-6)
}

func TestExtractTrackNotesClosesUnterminatedAtTrackEnd(t *testing.T) {
	track := smf.Track{
		noteOn(0, 0, 60, 100),
		noteOff(480, 0, 61), // unrelated off; the last event of the track
	}
	m := buildTempoMap(testTicks, nil)

	ns := extractTrackNotes(track, 0, m, DefaultPalette())
	require.Len(t, ns, 1)
	assert.InDelta(t, 0.5, ns[0].Length, 1e-6)
}

func TestExtractTrackNotesIgnoresStrayNoteOff(t *testing.T) {
	track := smf.Track{
		noteOff(0, 0, 60),
		noteOn(0, 0, 62, 90),
		noteOff(480, 0, 62),
	}
	m := buildTempoMap(testTicks, nil)

	ns := extractTrackNotes(track, 0, m, DefaultPalette())
	require.Len(t, ns, 1)
	assert.Equal(t, uint8(62), ns[0].Key)
}

func TestPaletteColorCyclesByTrackAndChannel(t *testing.T) {
	p := DefaultPalette()

	assert.Equal(t, p[0], p.Color(0, 0))
	assert.Equal(t, p[1], p.Color(0, 1))
	// Track 1 starts one full cycle later, wrapping around.
	assert.Equal(t, p[(16)%len(p)], p.Color(1, 0))

	// Empty palettes fall back to white.
	assert.Equal(t, RGB(255, 255, 255), Palette{}.Color(2, 5))
}

func TestRandomPaletteIsDeterministic(t *testing.T) {
	a := RandomPalette(8, 42)
	b := RandomPalette(8, 42)
	c := RandomPalette(8, 7)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 8)
}
