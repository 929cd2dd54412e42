package drawstate

import "github.com/wayscriber/wayscriber/internal/shapes"

// ToolState is the persistable subset of tool parameters: current color,
// thickness, font size, text-background flag, arrow geometry, the
// saved-previous color used for board-mode restoration, and status-bar
// visibility.
type ToolState struct {
	Color             shapes.Color
	Thickness         float64
	FontSize          float64
	FontDescriptor    shapes.FontDescriptor
	BackgroundEnabled bool
	ArrowHeadLength   float64
	ArrowHeadAngle    float64
	SavedColor        *shapes.Color
	StatusBarVisible  bool
}

// Clamp bounds to the ranges enforced at every adjustment site and at
// config/session load: thickness [1,20], font [8,72], arrow length
// [5,50], arrow angle [15,60].
func (ts *ToolState) Clamp() {
	ts.Thickness = clampF(ts.Thickness, 1, 20)
	ts.FontSize = clampF(ts.FontSize, 8, 72)
	ts.ArrowHeadLength = clampF(ts.ArrowHeadLength, 5, 50)
	ts.ArrowHeadAngle = clampF(ts.ArrowHeadAngle, 15, 60)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DefaultToolState returns the tool state a fresh machine starts with.
func DefaultToolState() ToolState {
	return ToolState{
		Color:           shapes.Color{R: 1, G: 0, B: 0, A: 1},
		Thickness:       2,
		FontSize:        16,
		FontDescriptor:  shapes.DefaultFontDescriptor(),
		ArrowHeadLength: 15,
		ArrowHeadAngle:  25,
	}
}
