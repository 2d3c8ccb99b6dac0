package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/notefall/notefall/engine/window"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer owns the accelerator context: instance, adapter, device, queue and
// the window surface. It hands the per-frame swapchain image to render passes
// which do their own command encoding and submission against the shared
// device and queue.
type Renderer interface {
	// Device returns the accelerator device shared by all render passes.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the accelerator submission queue shared by all render passes.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// SurfaceFormat returns the configured swapchain color format. Pipelines
	// drawing to the swapchain must target this format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the swapchain color format
	SurfaceFormat() wgpu.TextureFormat

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// AcquireFrame acquires the next swapchain image. Must be paired with
	// Present after all render pass submissions targeting the frame.
	//
	// Returns:
	//   - Frame: the acquired image view and its pixel dimensions
	//   - error: an error if the swapchain image could not be acquired
	AcquireFrame() (Frame, error)

	// Present presents the acquired frame to the display and releases the
	// swapchain image. Must be called once per frame after AcquireFrame.
	Present()
}

// Frame is one acquired swapchain image, valid until Present.
type Frame struct {
	View   *wgpu.TextureView
	Width  uint32
	Height uint32
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type, bound to the
// given window's surface. The surface is configured to the window's current framebuffer size.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface the renderer presents to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		backendType: backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) Queue() *wgpu.Queue {
	return r.backend.Queue()
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) AcquireFrame() (Frame, error) {
	return r.backend.AcquireFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}
