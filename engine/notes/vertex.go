package notes

import (
	_ "embed"

	"github.com/cogentcore/webgpu/wgpu"
)

// NoteShaderSource is the WGSL source for the note render pipeline. The vertex
// stage expands one instance record into a screen-space quad using the key
// position table; the fragment stage shades it with a darkened border.
//
//go:embed assets/notes.wgsl
var NoteShaderSource string

// NoteBufferSize is the number of note records each of the two note buffers
// holds. A producer must never report more than this many records written in
// one pagination step.
const NoteBufferSize = 25_000_000

// KeyTableSize is the number of entries in the key position table, covering
// the full key-id range a note record can address.
const KeyTableSize = 256

// NoteVertex is the GPU-aligned representation of a single note record,
// consumed one-per-instance by the note render pipeline.
// Size: 12 bytes (two f32 followed by one u32, std430 aligned).
type NoteVertex struct {
	Start    float32 // offset 0: note start relative to the current view time, in seconds (4 bytes)
	Length   float32 // offset 4: note duration in seconds (4 bytes)
	KeyColor uint32  // offset 8: key id in bits 0-7, packed RGB color in bits 8-31 (4 bytes)
}

// NewNoteVertex builds a note record from its unpacked parts.
//
// Parameters:
//   - start: note start relative to the current view time, in seconds
//   - length: note duration in seconds
//   - key: key id indexing the key position table
//   - color: packed 0xBBGGRR color, occupying bits 8-31 alongside the key
//
// Returns:
//   - NoteVertex: the packed record
func NewNoteVertex(start, length float32, key uint8, color uint32) NoteVertex {
	return NoteVertex{
		Start:    start,
		Length:   length,
		KeyColor: uint32(key) | color<<8,
	}
}

// Key returns the key id stored in bits 0-7 of KeyColor.
func (v NoteVertex) Key() uint8 {
	return uint8(v.KeyColor & 0xFF)
}

// Color returns the packed 0xBBGGRR color stored in bits 8-31 of KeyColor.
func (v NoteVertex) Color() uint32 {
	return v.KeyColor >> 8
}

// KeyPosition is one entry of the key position table: the horizontal extent of
// a key in [0,1] layout space. Padded to the 16-byte uniform array stride the
// shader requires.
type KeyPosition struct {
	Left  float32
	Right float32
	_     [8]byte
}

// FrameUniforms holds the per-frame shader uniforms: the time-to-space scale
// factor and the output image dimensions in pixels.
// Size: 16 bytes (std140 aligned).
type frameUniforms struct {
	HeightTime float32 // offset 0: visible time range mapped onto the image height, in seconds
	WinWidth   float32 // offset 4: output image width in pixels
	WinHeight  float32 // offset 8: output image height in pixels
	_          float32 // offset 12: padding to 16 bytes
}

// noteVertexLayout describes the note vertex buffer to the render pipeline:
// one 12-byte record per instance, expanded to a quad by the vertex stage.
func noteVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 12,
		StepMode:    wgpu.VertexStepModeInstance,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatUint32, Offset: 8, ShaderLocation: 1},
		},
	}
}
