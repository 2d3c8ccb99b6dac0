package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/notefall/notefall/common"
	"github.com/notefall/notefall/engine"
	"github.com/notefall/notefall/engine/keyboard"
	"github.com/notefall/notefall/engine/midi"
	"github.com/notefall/notefall/engine/notes"
	"github.com/notefall/notefall/engine/renderer"
	"github.com/notefall/notefall/engine/window"
)

const seekStep = 1 * time.Second

func main() {
	var (
		midiPath   = flag.String("midi", "", "path to the MIDI file to play (required)")
		viewRange  = flag.Float64("view-range", 2.0, "visible time range in seconds")
		firstKey   = flag.Uint("first-key", 21, "lowest key shown (default A0)")
		lastKey    = flag.Uint("last-key", 108, "highest key shown (default C8)")
		width      = flag.Int("width", 1280, "window width in pixels")
		height     = flag.Int("height", 720, "window height in pixels")
		vsync      = flag.Bool("vsync", true, "cap frame rate to the display refresh rate")
		software   = flag.Bool("software", false, "force the software fallback adapter")
		profile    = flag.Bool("profile", false, "log per-second frame and note statistics")
		randColors = flag.Int64("random-colors", 0, "seed for a random note palette (0 = built-in palette)")
		paused     = flag.Bool("paused", false, "start with playback paused")
		capacity   = flag.Uint("buffer-capacity", 0, "note buffer capacity override (0 = default)")
	)
	flag.Parse()

	if *midiPath == "" {
		flag.Usage()
		log.Fatal("a MIDI file is required: -midi <path>")
	}
	if *firstKey > 255 || *lastKey > 255 {
		log.Fatal("key range must be within 0-255")
	}

	fileOptions := []midi.FileOption{}
	if *randColors != 0 {
		fileOptions = append(fileOptions, midi.WithPalette(midi.RandomPalette(32, *randColors)))
	}

	start := time.Now()
	file, err := midi.LoadFile(*midiPath, fileOptions...)
	if err != nil {
		log.Fatalf("failed to load %s: %v", *midiPath, err)
	}
	low, high := file.KeyRange()
	log.Printf("[Notefall] loaded %s: %d notes, %.1fs, keys %d-%d, parsed in %v",
		*midiPath, file.NoteCount(), file.Duration(), low, high, time.Since(start).Round(time.Millisecond))

	layout := keyboard.NewLayout(uint8(*firstKey), uint8(*lastKey))
	timer := midi.NewTimer()
	producer := midi.NewStreamProducer(file, midi.WithKeyRange(uint8(*firstKey), uint8(*lastKey)))

	win := window.NewWindow(
		window.WithTitle(fmt.Sprintf("Notefall - %s", *midiPath)),
		window.WithWidth(*width),
		window.WithHeight(*height),
	)

	presentMode := renderer.PresentModeVSync
	if !*vsync {
		presentMode = renderer.PresentModeUncapped
	}
	r := renderer.NewRenderer(
		renderer.BackendTypeWGPU,
		win,
		renderer.WithPresentMode(presentMode),
		renderer.WithForceSoftwareRenderer(*software),
	)

	passOptions := []notes.NoteRenderPassOption{}
	if *capacity > 0 {
		passOptions = append(passOptions, notes.WithBufferCapacity(uint32(*capacity)))
	}
	pass, err := notes.NewNoteRenderPass(r, passOptions...)
	if err != nil {
		log.Fatalf("failed to create note render pass: %v", err)
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithNotePass(pass),
		engine.WithKeyView(layout),
		engine.WithProducer(producer),
		engine.WithProfiling(*profile),
		engine.WithViewRange(float32(*viewRange), 0.1, 30),
	)

	// Reposition the producer at the playback time before every frame.
	eng.SetFrameCallback(func(_ float32) {
		producer.Begin(timer.Now().Seconds(), float64(eng.ViewRange()))
	})

	profiling := *profile
	win.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.KeySpace:
			timer.Toggle()
		case common.KeyArrowRight:
			timer.Seek(seekStep)
		case common.KeyArrowLeft:
			timer.Seek(-seekStep)
		case common.KeyArrowUp:
			eng.SetViewRange(eng.ViewRange() + 0.25)
		case common.KeyArrowDown:
			eng.SetViewRange(eng.ViewRange() - 0.25)
		case common.KeyR:
			timer.SeekTo(0)
		case common.KeyF:
			if profiling {
				eng.DisableProfiler()
			} else {
				eng.EnableProfiler()
			}
			profiling = !profiling
		}
	})
	win.SetScrollCallback(func(delta float32) {
		eng.SetViewRange(eng.ViewRange() - delta*0.25)
	})

	if !*paused {
		timer.Play()
	}

	eng.Run()

	pass.Release()
}
