package drawstate

import "github.com/wayscriber/wayscriber/internal/shapes"

// Phase tags the DrawingState variant.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDrawing
	PhaseTextInput
)

// DrawingState is the tagged variant Idle | Drawing | TextInput.
type DrawingState struct {
	Phase Phase

	// Drawing
	Tool        Tool
	StartX      float64
	StartY      float64
	Accumulated []shapes.Point

	// TextInput
	TextX, TextY float64
	Buffer       string
}

// Idle constructs the Idle state.
func Idle() DrawingState { return DrawingState{Phase: PhaseIdle} }

// textBufferCap is the "defined maximum" from §4.3.
const textBufferCap = 10000
