package engine

import (
	"time"

	"github.com/notefall/notefall/engine/notes"
	"github.com/notefall/notefall/engine/renderer"
	"github.com/notefall/notefall/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets a custom configured window for the engine to use rather than allowing the engine
// to create and manage one internally.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer the engine drives each frame.
//
// Parameters:
//   - r: a pre-configured Renderer bound to the engine's window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		e.r = r
	}
}

// WithNotePass sets the note render pass the engine draws each frame.
//
// Parameters:
//   - pass: the note render pass
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithNotePass(pass notes.NoteRenderPass) EngineBuilderOption {
	return func(e *engine) {
		e.notePass = pass
	}
}

// WithKeyView sets the per-key extents provider used by the note pass.
//
// Parameters:
//   - keys: the key view snapshotted once per frame
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithKeyView(keys notes.KeyView) EngineBuilderOption {
	return func(e *engine) {
		e.keyView = keys
	}
}

// WithProducer sets the note producer paginated by the note pass each frame.
//
// Parameters:
//   - producer: the note source
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProducer(producer notes.NoteProducer) EngineBuilderOption {
	return func(e *engine) {
		e.producer = producer
	}
}

// WithViewRange sets the initial visible time range and its adjustment bounds.
// Invalid bounds (min <= 0 or max < min) keep the defaults.
//
// Parameters:
//   - seconds: the initial view range in seconds
//   - minSeconds: the lower clamp for view range adjustment
//   - maxSeconds: the upper clamp for view range adjustment
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithViewRange(seconds, minSeconds, maxSeconds float32) EngineBuilderOption {
	return func(e *engine) {
		if minSeconds > 0 && maxSeconds >= minSeconds {
			e.minRange = minSeconds
			e.maxRange = maxSeconds
		}
		e.SetViewRange(seconds)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		if fps <= 0 {
			e.renderFrameLimit = 0
			return
		}
		e.renderFrameLimit = time.Second / time.Duration(fps)
	}
}
