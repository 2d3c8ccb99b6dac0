package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32  // Spacebar (ASCII)
	KeyF     = 70  // F key (ASCII)
	KeyR     = 82  // R key (ASCII)
	KeyEsc   = 256 // Escape key (GLFW)

	KeyArrowRight = 262 // Right arrow (GLFW)
	KeyArrowLeft  = 263 // Left arrow (GLFW)
	KeyArrowDown  = 264 // Down arrow (GLFW)
	KeyArrowUp    = 265 // Up arrow (GLFW)
)
