package notes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cogentcore/webgpu/wgpu"
)

// fakeTicket records Wait calls into the shared event log.
type fakeTicket struct {
	id      int
	err     error
	backend *fakeBackend
}

func (t *fakeTicket) Wait() error {
	t.backend.events = append(t.backend.events, fmt.Sprintf("wait %d", t.id))
	return t.err
}

// submission records one pass handed to the backend.
type submission struct {
	kind   passKind
	items  uint32
	buffer *noteBuffer
}

// fakeBackend records every orchestrator interaction so tests can assert
// pass structure, buffer alternation and wait ordering without a device.
type fakeBackend struct {
	submissions []submission
	events      []string

	depthDims  [][2]uint32
	keyWrites  int
	lastKeys   [KeyTableSize]KeyPosition
	uniforms   []frameUniforms
	waitErr    error
	submitErr  error
	nextTicket int
	released   bool
}

var _ notePassBackend = &fakeBackend{}

func (f *fakeBackend) createNoteBuffer(size uint64) *wgpu.Buffer { return nil }

func (f *fakeBackend) createDepthTarget(width, height uint32) {
	f.depthDims = append(f.depthDims, [2]uint32{width, height})
}

func (f *fakeBackend) writeKeyPositions(table *[KeyTableSize]KeyPosition) {
	f.keyWrites++
	f.lastKeys = *table
}

func (f *fakeBackend) writeFrameUniforms(u frameUniforms) {
	f.uniforms = append(f.uniforms, u)
}

func (f *fakeBackend) submitPass(kind passKind, target RenderTarget, buf *noteBuffer, items uint32) (completionTicket, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submissions = append(f.submissions, submission{kind: kind, items: items, buffer: buf})
	id := f.nextTicket
	f.nextTicket++
	f.events = append(f.events, fmt.Sprintf("submit %d", id))
	return &fakeTicket{id: id, err: f.waitErr, backend: f}, nil
}

func (f *fakeBackend) release() { f.released = true }

// countProducer emits total synthetic records through the pagination protocol.
type countProducer struct {
	total  int
	served int
	fills  int
}

func (p *countProducer) FillBuffer(buf []NoteVertex) PassStatus {
	p.fills++
	remaining := p.total - p.served
	if remaining > len(buf) {
		for i := range buf {
			buf[i] = NewNoteVertex(float32(p.served+i), 0.1, uint8(i%128), 0xFFFFFF)
		}
		p.served += len(buf)
		return HasMoreNotes()
	}
	for i := 0; i < remaining; i++ {
		buf[i] = NewNoteVertex(float32(p.served+i), 0.1, uint8(i%128), 0xFFFFFF)
	}
	p.served += remaining
	return Finished(uint32(remaining))
}

// fixedKeys is a KeyView writing a recognizable table.
type fixedKeys struct {
	calls int
}

func (k *fixedKeys) KeyPositions(table *[KeyTableSize]KeyPosition) {
	k.calls++
	for i := range table {
		table[i] = KeyPosition{Left: float32(i), Right: float32(i) + 1}
	}
}

func newTestPass(capacity uint32, backend notePassBackend) *noteRenderPass {
	return &noteRenderPass{
		backend:  backend,
		buffers:  newBufferSet(capacity, nil),
		capacity: capacity,
	}
}

func testTarget() RenderTarget {
	return RenderTarget{Width: 1920, Height: 1080}
}

func TestDrawPaginatesCeilOfTotalOverCapacity(t *testing.T) {
	backend := &fakeBackend{}
	pass := newTestPass(1000, backend)

	result, err := pass.Draw(testTarget(), &fixedKeys{}, 2.0, &countProducer{total: 2500})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Passes)
	assert.Equal(t, uint64(2500), result.NotesRendered)

	require.Len(t, backend.submissions, 3)
	assert.Equal(t, uint32(1000), backend.submissions[0].items)
	assert.Equal(t, uint32(1000), backend.submissions[1].items)
	assert.Equal(t, uint32(500), backend.submissions[2].items)
}

func TestDrawFirstPassClearsRestAccumulate(t *testing.T) {
	backend := &fakeBackend{}
	pass := newTestPass(100, backend)

	_, err := pass.Draw(testTarget(), &fixedKeys{}, 2.0, &countProducer{total: 250})
	require.NoError(t, err)

	require.Len(t, backend.submissions, 3)
	assert.Equal(t, clearPass, backend.submissions[0].kind)
	assert.Equal(t, accumulatePass, backend.submissions[1].kind)
	assert.Equal(t, accumulatePass, backend.submissions[2].kind)
}

func TestDrawEmptyFrameStillClears(t *testing.T) {
	backend := &fakeBackend{}
	pass := newTestPass(100, backend)

	result, err := pass.Draw(testTarget(), &fixedKeys{}, 2.0, &countProducer{total: 0})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Passes)
	assert.Equal(t, uint64(0), result.NotesRendered)
	require.Len(t, backend.submissions, 1)
	assert.Equal(t, clearPass, backend.submissions[0].kind)
	assert.Equal(t, uint32(0), backend.submissions[0].items)
}

func TestDrawExactCapacityIsOnePass(t *testing.T) {
	backend := &fakeBackend{}
	pass := newTestPass(100, backend)

	result, err := pass.Draw(testTarget(), &fixedKeys{}, 2.0, &countProducer{total: 100})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Passes)
	assert.Equal(t, uint64(100), result.NotesRendered)
}

func TestDrawAlternatesBuffersAcrossPassesAndFrames(t *testing.T) {
	backend := &fakeBackend{}
	pass := newTestPass(10, backend)

	_, err := pass.Draw(testTarget(), &fixedKeys{}, 2.0, &countProducer{total: 30})
	require.NoError(t, err)
	// Second frame continues the alternation instead of restarting it.
	_, err = pass.Draw(testTarget(), &fixedKeys{}, 2.0, &countProducer{total: 20})
	require.NoError(t, err)

	require.Len(t, backend.submissions, 5)
	for i := 1; i < len(backend.submissions); i++ {
		assert.NotSame(t, backend.submissions[i-1].buffer, backend.submissions[i].buffer,
			"submission %d must not reuse the previous submission's buffer", i)
	}
}

func TestDrawDefersWaitUntilBeforeNextSubmission(t *testing.T) {
	backend := &fakeBackend{}
	pass := newTestPass(10, backend)

	_, err := pass.Draw(testTarget(), &fixedKeys{}, 2.0, &countProducer{total: 25})
	require.NoError(t, err)

	// Each wait happens after the following fill has already been submitted
	// for, i.e. strictly between its successor's fill and submission. The
	// observable order is: submit n, then wait n just before submit n+1, with
	// a final drain wait on the last ticket.
	assert.Equal(t, []string{
		"submit 0",
		"wait 0", "submit 1",
		"wait 1", "submit 2",
		"wait 2",
	}, backend.events)
}

func TestDrawSnapshotsKeysOncePerFrame(t *testing.T) {
	backend := &fakeBackend{}
	pass := newTestPass(10, backend)
	keys := &fixedKeys{}

	_, err := pass.Draw(testTarget(), keys, 2.0, &countProducer{total: 35})
	require.NoError(t, err)

	assert.Equal(t, 1, keys.calls)
	assert.Equal(t, 1, backend.keyWrites)
	assert.Equal(t, KeyPosition{Left: 5, Right: 6}, backend.lastKeys[5])
}

func TestDrawForwardsTargetDimensionsAndUniforms(t *testing.T) {
	backend := &fakeBackend{}
	pass := newTestPass(10, backend)

	_, err := pass.Draw(RenderTarget{Width: 800, Height: 600}, &fixedKeys{}, 3.5, &countProducer{total: 5})
	require.NoError(t, err)

	require.Len(t, backend.depthDims, 1)
	assert.Equal(t, [2]uint32{800, 600}, backend.depthDims[0])

	require.Len(t, backend.uniforms, 1)
	assert.Equal(t, frameUniforms{HeightTime: 3.5, WinWidth: 800, WinHeight: 600}, backend.uniforms[0])
}

func TestDrawRecreatesDepthTargetOnlyOnDimensionChange(t *testing.T) {
	backend := &fakeBackend{}
	pass := newTestPass(10, backend)

	// First frame allocates, a same-sized second frame reuses.
	_, err := pass.Draw(RenderTarget{Width: 800, Height: 600}, &fixedKeys{}, 2.0, &countProducer{total: 5})
	require.NoError(t, err)
	_, err = pass.Draw(RenderTarget{Width: 800, Height: 600}, &fixedKeys{}, 2.0, &countProducer{total: 5})
	require.NoError(t, err)

	require.Len(t, backend.depthDims, 1)
	assert.Equal(t, [2]uint32{800, 600}, backend.depthDims[0])

	// A resize recreates exactly once.
	_, err = pass.Draw(RenderTarget{Width: 1024, Height: 768}, &fixedKeys{}, 2.0, &countProducer{total: 5})
	require.NoError(t, err)

	require.Len(t, backend.depthDims, 2)
	assert.Equal(t, [2]uint32{1024, 768}, backend.depthDims[1])
}

func TestDrawPanicsOnProducerCapacityViolation(t *testing.T) {
	backend := &fakeBackend{}
	pass := newTestPass(10, backend)

	lying := producerFunc(func(buf []NoteVertex) PassStatus {
		return Finished(uint32(len(buf)) + 1)
	})

	assert.Panics(t, func() {
		_, _ = pass.Draw(testTarget(), &fixedKeys{}, 2.0, lying)
	})
}

func TestDrawLenientWaitsLogAndContinue(t *testing.T) {
	backend := &fakeBackend{waitErr: errors.New("device lost")}
	pass := newTestPass(10, backend)

	result, err := pass.Draw(testTarget(), &fixedKeys{}, 2.0, &countProducer{total: 25})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Passes)
}

func TestDrawStrictWaitsAbortTheFrame(t *testing.T) {
	backend := &fakeBackend{waitErr: errors.New("device lost")}
	pass := newTestPass(10, backend)
	pass.strictWaits = true

	_, err := pass.Draw(testTarget(), &fixedKeys{}, 2.0, &countProducer{total: 25})
	require.Error(t, err)
	assert.ErrorContains(t, err, "completion wait failed")
}

func TestDrawSubmitErrorAbortsTheFrame(t *testing.T) {
	backend := &fakeBackend{submitErr: errors.New("queue gone")}
	pass := newTestPass(10, backend)

	_, err := pass.Draw(testTarget(), &fixedKeys{}, 2.0, &countProducer{total: 5})
	require.Error(t, err)
	assert.ErrorContains(t, err, "note pass submission failed")
}

func TestReleaseForwardsToBackend(t *testing.T) {
	backend := &fakeBackend{}
	pass := newTestPass(10, backend)

	pass.Release()
	assert.True(t, backend.released)
}

// producerFunc adapts a function to the NoteProducer interface.
type producerFunc func(buf []NoteVertex) PassStatus

func (f producerFunc) FillBuffer(buf []NoteVertex) PassStatus { return f(buf) }
