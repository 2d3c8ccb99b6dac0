package midi

import "math/rand"

// Palette is a cycle of packed note colors assigned by track and channel.
type Palette []uint32

// RGB packs a color as R | G<<8 | B<<16, the layout the note shader unpacks.
//
// Parameters:
//   - r: red component
//   - g: green component
//   - b: blue component
//
// Returns:
//   - uint32: the packed color
func RGB(r, g, b uint8) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16
}

// Color picks the palette entry for a track and channel. Entries cycle so
// every (track, channel) pair maps to a stable color.
//
// Parameters:
//   - track: the track index
//   - channel: the MIDI channel
//
// Returns:
//   - uint32: the packed color
func (p Palette) Color(track int, channel uint8) uint32 {
	if len(p) == 0 {
		return RGB(255, 255, 255)
	}
	return p[(track*16+int(channel))%len(p)]
}

// DefaultPalette returns the built-in sixteen color cycle.
//
// Returns:
//   - Palette: the default palette
func DefaultPalette() Palette {
	return Palette{
		RGB(255, 99, 71),
		RGB(255, 165, 0),
		RGB(255, 215, 0),
		RGB(154, 205, 50),
		RGB(50, 205, 50),
		RGB(0, 206, 209),
		RGB(30, 144, 255),
		RGB(65, 105, 225),
		RGB(138, 43, 226),
		RGB(186, 85, 211),
		RGB(255, 20, 147),
		RGB(220, 20, 60),
		RGB(205, 133, 63),
		RGB(60, 179, 113),
		RGB(100, 149, 237),
		RGB(218, 112, 214),
	}
}

// RandomPalette returns a palette of n random colors generated from seed.
// The same seed always yields the same palette.
//
// Parameters:
//   - n: the number of colors to generate
//   - seed: the random seed
//
// Returns:
//   - Palette: the generated palette
func RandomPalette(n int, seed int64) Palette {
	if n <= 0 {
		return DefaultPalette()
	}
	rng := rand.New(rand.NewSource(seed))
	p := make(Palette, n)
	for i := range p {
		// Bias away from very dark colors so notes stay visible on the
		// cleared background.
		p[i] = RGB(
			uint8(64+rng.Intn(192)),
			uint8(64+rng.Intn(192)),
			uint8(64+rng.Intn(192)),
		)
	}
	return p
}
