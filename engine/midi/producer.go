package midi

import (
	"github.com/notefall/notefall/engine/notes"
)

// StreamProducer paginates a loaded file's note stream into the render pass's
// note buffers. Begin positions it at the playback time for a frame; the
// render pass then drains it through FillBuffer one buffer at a time.
type StreamProducer interface {
	notes.NoteProducer

	// Begin prepares the producer for one frame. It advances the stream
	// cursor past expired notes (rewinding after a backwards seek), snapshots
	// the visible window [now, now+viewRange], and collects the colors of
	// keys sounding at now.
	//
	// Parameters:
	//   - now: the playback position in seconds
	//   - viewRange: the visible time range in seconds
	Begin(now, viewRange float64)

	// PressedKeys copies the per-key sounding state collected by Begin. For
	// each key sounding at the frame's playback position, pressed is true and
	// colors holds the packed color of the most recent note on that key.
	//
	// Parameters:
	//   - colors: destination for per-key colors
	//   - pressed: destination for per-key sounding flags
	PressedKeys(colors *[notes.KeyTableSize]uint32, pressed *[notes.KeyTableSize]bool)

	// NotesPassed returns how many notes of the stream are fully behind the
	// playback position.
	//
	// Returns:
	//   - int: the count of expired notes
	NotesPassed() int
}

type streamProducer struct {
	stream []Note

	// firstKey and lastKey bound the keys that are emitted.
	firstKey uint8
	lastKey  uint8

	// cursor is the first note not yet fully behind the playback position.
	// It only moves forward between frames unless the clock jumped backwards.
	cursor  int
	lastNow float64

	// Per-frame pagination state set by Begin.
	frameCursor int
	now         float64
	horizon     float64

	keyColors  [notes.KeyTableSize]uint32
	keyPressed [notes.KeyTableSize]bool
}

var _ StreamProducer = &streamProducer{}

// NewStreamProducer creates a StreamProducer over the file's note stream.
//
// Parameters:
//   - file: the loaded file to stream
//   - options: functional options to configure the producer
//
// Returns:
//   - StreamProducer: the producer, positioned at time zero
func NewStreamProducer(file File, options ...StreamProducerOption) StreamProducer {
	p := &streamProducer{
		stream:   file.Notes(),
		firstKey: 0,
		lastKey:  notes.KeyTableSize - 1,
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *streamProducer) Begin(now, viewRange float64) {
	if now < p.lastNow {
		// Backwards seek: the cursor is only valid for monotonic time.
		p.cursor = 0
	}
	p.lastNow = now

	// Advance past notes that have fully expired. Stops at the first note
	// still sounding or upcoming, so long notes hold the cursor back.
	for p.cursor < len(p.stream) && p.stream[p.cursor].End() <= now {
		p.cursor++
	}

	p.now = now
	p.horizon = now + viewRange
	p.frameCursor = p.cursor

	p.keyColors = [notes.KeyTableSize]uint32{}
	p.keyPressed = [notes.KeyTableSize]bool{}
	for i := p.cursor; i < len(p.stream) && p.stream[i].Start <= now; i++ {
		n := p.stream[i]
		if n.End() <= now || !p.inRange(n.Key) {
			continue
		}
		p.keyColors[n.Key] = n.Color
		p.keyPressed[n.Key] = true
	}
}

func (p *streamProducer) FillBuffer(buf []notes.NoteVertex) notes.PassStatus {
	written := 0
	for p.frameCursor < len(p.stream) {
		n := p.stream[p.frameCursor]
		if n.Start >= p.horizon {
			// The stream is sorted by start, so nothing later is visible either.
			p.frameCursor = len(p.stream)
			break
		}
		p.frameCursor++
		if n.End() <= p.now || !p.inRange(n.Key) {
			continue
		}
		if written == len(buf) {
			// Buffer full with this note still pending; rewind one step so the
			// next fill re-reads it.
			p.frameCursor--
			return notes.HasMoreNotes()
		}
		buf[written] = notes.NewNoteVertex(
			float32(n.Start-p.now),
			float32(n.Length),
			n.Key,
			n.Color,
		)
		written++
	}
	return notes.Finished(uint32(written))
}

func (p *streamProducer) PressedKeys(colors *[notes.KeyTableSize]uint32, pressed *[notes.KeyTableSize]bool) {
	*colors = p.keyColors
	*pressed = p.keyPressed
}

func (p *streamProducer) NotesPassed() int {
	return p.cursor
}

func (p *streamProducer) inRange(key uint8) bool {
	return key >= p.firstKey && key <= p.lastKey
}
