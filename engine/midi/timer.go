package midi

import (
	"sync"
	"time"
)

// Timer is the playback clock for a loaded file. It advances monotonically
// while playing, holds its position while paused, and supports relative seeks
// clamped at zero.
type Timer interface {
	// Play starts or resumes the clock. No-op if already playing.
	Play()

	// Pause freezes the clock at its current position. No-op if already paused.
	Pause()

	// Toggle flips between playing and paused.
	Toggle()

	// Paused reports whether the clock is currently frozen.
	//
	// Returns:
	//   - bool: true if paused
	Paused() bool

	// Seek moves the clock by delta, which may be negative. The position
	// never goes below zero.
	//
	// Parameters:
	//   - delta: the relative offset to apply
	Seek(delta time.Duration)

	// SeekTo moves the clock to an absolute position, clamped at zero.
	//
	// Parameters:
	//   - position: the new position
	SeekTo(position time.Duration)

	// Now returns the current playback position.
	//
	// Returns:
	//   - time.Duration: the position
	Now() time.Duration
}

type timer struct {
	mu sync.Mutex

	// base is the accumulated position as of startedAt (or exactly, while paused).
	base      time.Duration
	startedAt time.Time
	paused    bool
}

var _ Timer = &timer{}

// NewTimer creates a paused Timer positioned at zero.
//
// Returns:
//   - Timer: the new timer
func NewTimer() Timer {
	return &timer{paused: true}
}

func (t *timer) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.paused {
		return
	}
	t.paused = false
	t.startedAt = time.Now()
}

func (t *timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.paused {
		return
	}
	t.base += time.Since(t.startedAt)
	t.paused = true
}

func (t *timer) Toggle() {
	t.mu.Lock()
	paused := t.paused
	t.mu.Unlock()

	if paused {
		t.Play()
	} else {
		t.Pause()
	}
}

func (t *timer) Paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.paused
}

func (t *timer) Seek(delta time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setPosition(t.position() + delta)
}

func (t *timer) SeekTo(position time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.setPosition(position)
}

func (t *timer) Now() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position()
}

// position returns the current position. Caller must hold the mutex.
func (t *timer) position() time.Duration {
	if t.paused {
		return t.base
	}
	return t.base + time.Since(t.startedAt)
}

// setPosition rebases the clock to the given position, clamped at zero.
// Caller must hold the mutex.
func (t *timer) setPosition(position time.Duration) {
	if position < 0 {
		position = 0
	}
	t.base = position
	t.startedAt = time.Now()
}
