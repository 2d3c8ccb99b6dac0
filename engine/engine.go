package engine

import (
	"log"
	"sync"
	"time"

	"github.com/notefall/notefall/common"
	"github.com/notefall/notefall/engine/notes"
	"github.com/notefall/notefall/engine/profiler"
	"github.com/notefall/notefall/engine/renderer"
	"github.com/notefall/notefall/engine/window"
)

// engine implements the Engine interface.
// Coordinates the render loop and window message thread.
type engine struct {
	wg sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window

	r        renderer.Renderer
	notePass notes.NoteRenderPass
	keyView  notes.KeyView
	producer notes.NoteProducer

	profiler         *profiler.Profiler
	profilingEnabled bool

	// viewRange is the visible time range in seconds, guarded by viewRangeMu
	// since the scroll handler and render loop run on different goroutines.
	viewRangeMu sync.RWMutex
	viewRange   float32
	minRange    float32
	maxRange    float32

	// frameCallback runs on the render goroutine before each frame is drawn.
	frameCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
}

// playbackStats is implemented by producers that can report playback
// progress. The profiler line includes these numbers when the configured
// producer provides them.
type playbackStats interface {
	NotesPassed() int
	PressedKeys(colors *[notes.KeyTableSize]uint32, pressed *[notes.KeyTableSize]bool)
}

// Engine is the main entry point. It owns the render loop that drives the
// note render pass each frame and the window message loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers the function called on the render goroutine
	// before each frame is drawn. Use this to advance playback state and
	// reposition the note producer.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetFrameCallback(callback func(deltaTime float32))

	// ViewRange returns the visible time range in seconds.
	//
	// Returns:
	//   - float32: the view range
	ViewRange() float32

	// SetViewRange sets the visible time range in seconds, clamped to the
	// configured bounds. Safe to call from input callbacks.
	//
	// Parameters:
	//   - seconds: the new view range
	SetViewRange(seconds float32)

	// Run starts the render loop and blocks on the window message loop until
	// the window closes.
	Run()

	// Quit signals the render goroutine to stop and shuts down the engine.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
// The window, renderer, note pass, key view and producer are all required for
// Run to do anything useful; they are supplied through builder options.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		quitChannel:      make(chan struct{}),
		wg:               sync.WaitGroup{},
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		viewRange:        2.0,
		minRange:         0.1,
		maxRange:         30.0,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil && e.r != nil {
		e.window.SetResizeCallback(func(width, height int) {
			e.r.Resize(width, height)
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() {
	e.handle()
	e.window.ProcessMessages()
	e.signalQuit()
	e.wg.Wait()
}

// Quit signals the render goroutine to stop and shuts down the engine.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// handle launches the render and quit goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleRender()
	go e.handleQuit()
}

// handleRender runs the uncapped (or frame-limited) render loop in its own
// goroutine. Each iteration acquires a swapchain image, drives the frame
// callback, draws the note pass and presents.
// Recovers from panics to avoid crashing the process and signals quit on recovery.
func (e *engine) handleRender() {
	defer e.wg.Done()
	// Recover from panics inside the render goroutine to avoid crashing the whole process.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("render goroutine recovered from panic: %v", r)
			e.signalQuit()
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
			now := time.Now()
			dt := float32(now.Sub(lastRender).Seconds())
			lastRender = now

			if e.frameCallback != nil {
				e.frameCallback(dt)
			}

			if e.r != nil && e.notePass != nil && e.keyView != nil && e.producer != nil {
				frame, err := e.r.AcquireFrame()
				if err != nil {
					// Usually a resize in flight; skip the frame.
					continue
				}

				result, err := e.notePass.Draw(notes.RenderTarget{
					View:   frame.View,
					Width:  frame.Width,
					Height: frame.Height,
				}, e.keyView, e.ViewRange(), e.producer)
				if err != nil {
					log.Printf("[Engine] frame draw: %v", err)
				}
				e.r.Present()

				if e.profilingEnabled && e.profiler != nil {
					notesPassed, keysDown := e.playbackSample()
					e.profiler.Tick(result.NotesRendered, result.Passes, notesPassed, keysDown)
				}
			}

			// Frame rate limiting
			if e.renderFrameLimit > 0 {
				elapsed := time.Since(lastRender)
				if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
					time.Sleep(remaining)
				}
			}
		}
	}
}

// playbackSample reads playback progress from the producer when it exposes
// any: the count of notes behind the playback position and the number of
// keys currently sounding. Both are zero for producers without stats.
func (e *engine) playbackSample() (notesPassed, keysDown int) {
	stats, ok := e.producer.(playbackStats)
	if !ok {
		return 0, 0
	}

	notesPassed = stats.NotesPassed()

	var colors [notes.KeyTableSize]uint32
	var pressed [notes.KeyTableSize]bool
	stats.PressedKeys(&colors, &pressed)
	for _, down := range pressed {
		if down {
			keysDown++
		}
	}
	return notesPassed, keysDown
}

// handleQuit blocks until the quit channel is closed, then decrements the WaitGroup.
func (e *engine) handleQuit() {
	defer e.wg.Done()
	<-e.quitChannel
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetFrameCallback registers the function called before each frame is drawn.
func (e *engine) SetFrameCallback(callback func(deltaTime float32)) {
	e.frameCallback = callback
}

func (e *engine) ViewRange() float32 {
	e.viewRangeMu.RLock()
	defer e.viewRangeMu.RUnlock()
	return e.viewRange
}

func (e *engine) SetViewRange(seconds float32) {
	e.viewRangeMu.Lock()
	defer e.viewRangeMu.Unlock()

	e.viewRange = common.Clamp(seconds, e.minRange, e.maxRange)
}
