package notes

import "github.com/cogentcore/webgpu/wgpu"

// noteBuffer pairs a host-side staging slice with its device-side vertex
// buffer. The producer fills staging; the backend uploads the filled prefix
// before each pass submission.
type noteBuffer struct {
	staging []NoteVertex
	gpu     *wgpu.Buffer
}

// release frees the device-side buffer, if any.
func (b *noteBuffer) release() {
	if b.gpu != nil {
		b.gpu.Release()
		b.gpu = nil
	}
}

// bufferSet owns exactly two note buffers and alternates which one is current
// across successive pagination steps. It never allocates more than two; the
// orchestrator's deferred completion wait is what makes reuse safe.
type bufferSet struct {
	buffers [2]*noteBuffer
	index   int
}

// newBufferSet creates the two note buffers with the given record capacity.
// alloc creates the device-side buffer for one entry and may be nil when no
// accelerator is attached (tests).
func newBufferSet(capacity uint32, alloc func(size uint64) *wgpu.Buffer) *bufferSet {
	s := &bufferSet{}
	for i := range s.buffers {
		b := &noteBuffer{staging: make([]NoteVertex, capacity)}
		if alloc != nil {
			b.gpu = alloc(uint64(capacity) * 12)
		}
		s.buffers[i] = b
	}
	return s
}

// next advances the alternation index and returns the buffer that was not
// used in the immediately preceding pagination step.
func (s *bufferSet) next() *noteBuffer {
	s.index = (s.index + 1) % len(s.buffers)
	return s.buffers[s.index]
}

// release frees both device-side buffers.
func (s *bufferSet) release() {
	for _, b := range s.buffers {
		b.release()
	}
}
