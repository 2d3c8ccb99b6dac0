package notes

import (
	"fmt"
	"log"

	"github.com/notefall/notefall/engine/renderer"
)

// noteRenderPass is the implementation of the NoteRenderPass interface.
type noteRenderPass struct {
	backend notePassBackend
	buffers *bufferSet

	// capacity is the record capacity of each note buffer.
	capacity uint32

	// strictWaits aborts the frame when a completion wait reports an error
	// instead of logging and continuing.
	strictWaits bool

	// depthWidth and depthHeight are the dimensions of the current depth
	// target; the target is recreated only when the output image no longer
	// matches them.
	depthWidth  uint32
	depthHeight uint32
}

// DrawResult summarizes one frame of note rendering.
type DrawResult struct {
	// NotesRendered is the total number of note records drawn across all
	// passes of the frame.
	NotesRendered uint64

	// Passes is the number of render passes submitted for the frame. Always
	// at least 1: an empty frame still submits one clearing pass.
	Passes int
}

// NoteRenderPass renders an unbounded, time-ordered note stream onto a target
// image by paginating it through two fixed-capacity note buffers. The first
// pass of a frame clears the target; every subsequent pass accumulates on top
// of it. Producer fills on the host overlap with accelerator execution of the
// previous pass; a completion wait just before each resubmission keeps buffer
// reuse safe.
type NoteRenderPass interface {
	// Draw renders one frame. It refreshes the key position table from keys,
	// adapts the depth target to the target image's dimensions, then pulls
	// note batches from producer and submits one pass per batch until the
	// producer is exhausted. Draw returns after the frame's last submission
	// is known complete.
	//
	// Parameters:
	//   - target: the output color image and its pixel dimensions
	//   - keys: the per-key horizontal extents snapshot for this frame
	//   - viewRange: the visible time range mapped onto the image height, in seconds
	//   - producer: the note source paginated over this frame
	//
	// Returns:
	//   - DrawResult: pass and note counts for the frame
	//   - error: a submission failure, or a completion-wait failure when
	//     strict waits are enabled
	Draw(target RenderTarget, keys KeyView, viewRange float32, producer NoteProducer) (DrawResult, error)

	// BufferCapacity returns the record capacity of each note buffer.
	//
	// Returns:
	//   - uint32: the per-buffer record capacity
	BufferCapacity() uint32

	// Release frees all accelerator resources owned by the pass.
	Release()
}

var _ NoteRenderPass = &noteRenderPass{}

// NewNoteRenderPass creates the note render pass against the renderer's
// device: the render pipeline, the two note buffers, the key position table
// and the per-frame uniforms. Resource creation failure is fatal for the
// engine; the caller should treat a non-nil error as unrecoverable.
//
// Parameters:
//   - r: the renderer supplying the device, queue, and surface format
//   - options: variadic list of NoteRenderPassOption functions to configure the pass
//
// Returns:
//   - NoteRenderPass: the configured pass
//   - error: an error if any accelerator resource could not be created
func NewNoteRenderPass(r renderer.Renderer, options ...NoteRenderPassOption) (NoteRenderPass, error) {
	p := &noteRenderPass{
		capacity: NoteBufferSize,
	}
	for _, opt := range options {
		opt(p)
	}

	backend, err := newWGPUNotePassBackend(r.Device(), r.Queue(), r.SurfaceFormat())
	if err != nil {
		return nil, err
	}
	p.backend = backend
	p.buffers = newBufferSet(p.capacity, backend.createNoteBuffer)

	return p, nil
}

func (p *noteRenderPass) BufferCapacity() uint32 {
	return p.capacity
}

func (p *noteRenderPass) Draw(target RenderTarget, keys KeyView, viewRange float32, producer NoteProducer) (DrawResult, error) {
	if target.Width != p.depthWidth || target.Height != p.depthHeight {
		p.backend.createDepthTarget(target.Width, target.Height)
		p.depthWidth = target.Width
		p.depthHeight = target.Height
	}

	// One coherent key snapshot per frame, read by every pass.
	var table [KeyTableSize]KeyPosition
	keys.KeyPositions(&table)
	p.backend.writeKeyPositions(&table)

	p.backend.writeFrameUniforms(frameUniforms{
		HeightTime: viewRange,
		WinWidth:   float32(target.Width),
		WinHeight:  float32(target.Height),
	})

	var result DrawResult
	var inFlight completionTicket
	firstPass := true

	status := HasMoreNotes()
	for status.HasMore() {
		buffer := p.buffers.next()

		status = producer.FillBuffer(buffer.staging)

		var itemsToDraw uint32
		if status.HasMore() {
			itemsToDraw = p.capacity
		} else {
			if status.Remaining() > p.capacity {
				panic(fmt.Sprintf("notes: producer reported %d records in a buffer of capacity %d", status.Remaining(), p.capacity))
			}
			itemsToDraw = status.Remaining()
		}

		kind := accumulatePass
		if firstPass {
			kind = clearPass
			firstPass = false
		}

		// Wait for the previous submission before submitting this one: it
		// read the other buffer, which the next iteration's fill will reuse.
		// Deferring the wait until here keeps the host-side fill above
		// overlapped with the accelerator's execution of the previous pass.
		if inFlight != nil {
			if err := p.waitCompletion(inFlight); err != nil {
				return result, err
			}
		}

		ticket, err := p.backend.submitPass(kind, target, buffer, itemsToDraw)
		if err != nil {
			return result, fmt.Errorf("note pass submission failed: %w", err)
		}
		inFlight = ticket

		result.Passes++
		result.NotesRendered += uint64(itemsToDraw)
	}

	// Drain: the frame's last submission must be complete before the target
	// image is handed back to the caller.
	if inFlight != nil {
		if err := p.waitCompletion(inFlight); err != nil {
			return result, err
		}
	}

	return result, nil
}

// waitCompletion applies the configured completion-wait failure policy: log
// and continue by default, abort the frame under strict waits.
func (p *noteRenderPass) waitCompletion(ticket completionTicket) error {
	err := ticket.Wait()
	if err == nil {
		return nil
	}
	if p.strictWaits {
		return fmt.Errorf("completion wait failed: %w", err)
	}
	log.Printf("[NoteRenderPass] completion wait: %v", err)
	return nil
}

func (p *noteRenderPass) Release() {
	p.buffers.release()
	p.backend.release()
}
