package midi

// fileConfig holds the loading configuration assembled from FileOptions.
type fileConfig struct {
	workers int
	palette Palette
}

// FileOption is a functional option applied during LoadFile.
type FileOption func(*fileConfig)

// WithWorkers sets the number of pool workers used for parallel track
// extraction. Values below 1 are ignored.
//
// Parameters:
//   - workers: the maximum worker count
//
// Returns:
//   - FileOption: a function that applies the worker option
func WithWorkers(workers int) FileOption {
	return func(c *fileConfig) {
		if workers > 0 {
			c.workers = workers
		}
	}
}

// WithPalette sets the palette used to assign note colors by track and
// channel. Empty palettes are ignored.
//
// Parameters:
//   - palette: the palette to use
//
// Returns:
//   - FileOption: a function that applies the palette option
func WithPalette(palette Palette) FileOption {
	return func(c *fileConfig) {
		if len(palette) > 0 {
			c.palette = palette
		}
	}
}
