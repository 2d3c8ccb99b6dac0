// Package midi loads Standard MIDI Files into a time-ordered note stream and
// adapts that stream to the note render pass.
package midi

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Note is one playable note with absolute timing resolved against the file's
// tempo map.
type Note struct {
	// Start is the note-on time in seconds from the beginning of the file.
	Start float64

	// Length is the duration in seconds until the matching note-off.
	Length float64

	// Key is the MIDI key number (0-127).
	Key uint8

	// Channel is the MIDI channel (0-15).
	Channel uint8

	// Track is the index of the SMF track the note came from.
	Track int

	// Color is the packed display color (R | G<<8 | B<<16) assigned from the
	// palette by track and channel.
	Color uint32
}

// End returns the note-off time in seconds.
func (n Note) End() float64 {
	return n.Start + n.Length
}

// File is a fully loaded MIDI file: every note across every track, resolved
// to seconds and sorted by start time.
type File interface {
	// Notes returns all notes sorted ascending by Start. The slice is owned
	// by the File and must not be modified.
	//
	// Returns:
	//   - []Note: the sorted note stream
	Notes() []Note

	// NoteCount returns the total number of notes in the file.
	//
	// Returns:
	//   - int: the note count
	NoteCount() int

	// Duration returns the time of the last note-off in seconds.
	//
	// Returns:
	//   - float64: the file duration in seconds
	Duration() float64

	// KeyRange returns the lowest and highest key used by any note.
	// Returns (0, 0) for a file with no notes.
	//
	// Returns:
	//   - uint8: the lowest key
	//   - uint8: the highest key
	KeyRange() (lowest, highest uint8)
}

type midiFile struct {
	notes    []Note
	duration float64
	lowest   uint8
	highest  uint8
}

var _ File = &midiFile{}

// LoadFile reads and parses the SMF file at path. Tempo events from all
// tracks form a single tempo map, then each track's notes are extracted on a
// worker pool and merged into one stream sorted by start time.
//
// Parameters:
//   - path: the filesystem path of the .mid file
//   - options: functional options to configure loading
//
// Returns:
//   - File: the loaded note stream
//   - error: an error if the file could not be read or uses an unsupported time format
func LoadFile(path string, options ...FileOption) (File, error) {
	cfg := &fileConfig{
		workers: runtime.NumCPU(),
		palette: DefaultPalette(),
	}
	for _, opt := range options {
		opt(cfg)
	}

	song, err := smf.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file %q: %w", path, err)
	}

	ticks, ok := song.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, fmt.Errorf("unsupported SMF time format %v (only metric ticks are supported)", song.TimeFormat)
	}

	tempos := buildTempoMap(ticks, song.Tracks)

	// Extract each track on the pool. A WaitGroup provides the barrier since
	// the pool has no per-batch join primitive.
	pool := worker.NewDynamicWorkerPool(cfg.workers, len(song.Tracks)+1, 1*time.Second)
	results := make([][]Note, len(song.Tracks))
	var wg sync.WaitGroup
	for i, track := range song.Tracks {
		wg.Add(1)
		trackNo := i
		tr := track
		pool.SubmitTask(worker.Task{
			ID: trackNo,
			Do: func() (any, error) {
				defer wg.Done()
				results[trackNo] = extractTrackNotes(tr, trackNo, tempos, cfg.palette)
				return nil, nil
			},
		})
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	merged := make([]Note, 0, total)
	for _, r := range results {
		merged = append(merged, r...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Start < merged[j].Start
	})

	f := &midiFile{notes: merged}
	for i, n := range merged {
		if i == 0 || n.Key < f.lowest {
			f.lowest = n.Key
		}
		if n.Key > f.highest {
			f.highest = n.Key
		}
		if n.End() > f.duration {
			f.duration = n.End()
		}
	}

	return f, nil
}

// extractTrackNotes walks one track's events, pairing note-on with the
// earliest unclosed note-off per channel and key. Notes still open at the end
// of the track are closed at the track's final event time.
func extractTrackNotes(track smf.Track, trackNo int, tempos *tempoMap, palette Palette) []Note {
	var out []Note
	var abs int64

	// Stacks of open note indices per channel and key; note-off closes the
	// oldest open note (FIFO) so overlapping repeats keep their order.
	var open [16][128][]int

	for _, ev := range track {
		abs += int64(ev.Delta)

		var ch, key, vel uint8
		if ev.Message.GetNoteStart(&ch, &key, &vel) {
			out = append(out, Note{
				Start:   tempos.timeAt(abs),
				Key:     key,
				Channel: ch,
				Track:   trackNo,
				Color:   palette.Color(trackNo, ch),
			})
			open[ch][key] = append(open[ch][key], len(out)-1)
			continue
		}
		if ev.Message.GetNoteEnd(&ch, &key) {
			stack := open[ch][key]
			if len(stack) == 0 {
				continue
			}
			idx := stack[0]
			open[ch][key] = stack[1:]
			if length := tempos.timeAt(abs) - out[idx].Start; length > 0 {
				out[idx].Length = length
			}
		}
	}

	// Close anything still open at the last event.
	end := tempos.timeAt(abs)
	for ch := range open {
		for key := range open[ch] {
			for _, idx := range open[ch][key] {
				if length := end - out[idx].Start; length > 0 {
					out[idx].Length = length
				}
			}
		}
	}

	return out
}

func (f *midiFile) Notes() []Note {
	return f.notes
}

func (f *midiFile) NoteCount() int {
	return len(f.notes)
}

func (f *midiFile) Duration() float64 {
	return f.duration
}

func (f *midiFile) KeyRange() (lowest, highest uint8) {
	return f.lowest, f.highest
}
