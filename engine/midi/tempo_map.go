package midi

import (
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// tempoChange is one tempo event with its precomputed absolute time.
type tempoChange struct {
	ticks   int64
	seconds float64
	bpm     float64
}

// tempoMap converts absolute tick positions to seconds across every tempo
// change in the file. SMF tempo events apply globally regardless of which
// track carries them.
type tempoMap struct {
	ticks   smf.MetricTicks
	changes []tempoChange
}

// buildTempoMap scans all tracks for tempo meta events and folds them into a
// single map. A default of 120 BPM applies from tick zero until the first
// tempo event.
func buildTempoMap(ticks smf.MetricTicks, tracks []smf.Track) *tempoMap {
	m := &tempoMap{
		ticks:   ticks,
		changes: []tempoChange{{ticks: 0, seconds: 0, bpm: 120}},
	}

	for _, track := range tracks {
		var abs int64
		for _, ev := range track {
			abs += int64(ev.Delta)
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				m.changes = append(m.changes, tempoChange{ticks: abs, bpm: bpm})
			}
		}
	}

	sort.SliceStable(m.changes, func(i, j int) bool {
		return m.changes[i].ticks < m.changes[j].ticks
	})

	// A tempo event at tick zero replaces the default.
	if len(m.changes) > 1 && m.changes[1].ticks == 0 {
		m.changes = m.changes[1:]
	}

	// Precompute cumulative seconds at each change.
	for i := 1; i < len(m.changes); i++ {
		prev := m.changes[i-1]
		delta := m.changes[i].ticks - prev.ticks
		m.changes[i].seconds = prev.seconds + m.ticks.Duration(prev.bpm, uint32(delta)).Seconds()
	}

	return m
}

// timeAt returns the absolute time in seconds of the given tick position.
func (m *tempoMap) timeAt(absTicks int64) float64 {
	i := sort.Search(len(m.changes), func(i int) bool {
		return m.changes[i].ticks > absTicks
	}) - 1
	if i < 0 {
		i = 0
	}
	c := m.changes[i]
	return c.seconds + m.ticks.Duration(c.bpm, uint32(absTicks-c.ticks)).Seconds()
}
