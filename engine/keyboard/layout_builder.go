package keyboard

// LayoutOption is a functional option applied to a layout during construction via NewLayout.
type LayoutOption func(*layout)

// WithBlackKeyScale sets the black key width as a fraction of a white key width.
// Values outside (0, 1] are ignored and the default of 0.6 is kept.
//
// Parameters:
//   - scale: black key width fraction
//
// Returns:
//   - LayoutOption: a function that applies the scale option to a layout
func WithBlackKeyScale(scale float32) LayoutOption {
	return func(l *layout) {
		if scale > 0 && scale <= 1 {
			l.blackWidthScale = scale
		}
	}
}
