package notes

// NoteRenderPassOption is a functional option for configuring a NoteRenderPass.
// Use the With* functions to create options.
type NoteRenderPassOption func(p *noteRenderPass)

// WithBufferCapacity overrides the record capacity of each note buffer.
// Values <= 0 leave the default in place.
//
// Parameters:
//   - capacity: records per buffer
//
// Returns:
//   - NoteRenderPassOption: option function to apply
func WithBufferCapacity(capacity uint32) NoteRenderPassOption {
	return func(p *noteRenderPass) {
		if capacity > 0 {
			p.capacity = capacity
		}
	}
}

// WithStrictWaits makes a completion-wait failure abort the frame instead of
// being logged and ignored. A failed wait can mean the next submission races
// a still-executing pass, so strict mode trades resilience for certainty.
//
// Returns:
//   - NoteRenderPassOption: option function to apply
func WithStrictWaits() NoteRenderPassOption {
	return func(p *noteRenderPass) {
		p.strictWaits = true
	}
}
