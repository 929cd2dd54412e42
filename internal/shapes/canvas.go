package shapes

// BoardMode selects which frame of the canvas set is active.
type BoardMode string

const (
	Transparent BoardMode = "transparent"
	Whiteboard  BoardMode = "whiteboard"
	Blackboard  BoardMode = "blackboard"
)

// ParseBoardMode defaults to Transparent for any unrecognized string,
// matching the session loader's "if active_mode is unknown, default to
// Transparent" rule.
func ParseBoardMode(s string) BoardMode {
	switch BoardMode(s) {
	case Whiteboard:
		return Whiteboard
	case Blackboard:
		return Blackboard
	default:
		return Transparent
	}
}

// emptyFrame is the sentinel returned by immutable reads of a
// non-existent board frame; it is never mutated.
var emptyFrame = &Frame{}

// CanvasSet maps board mode to an optional frame. The Transparent frame
// always exists; board frames are created lazily on first mutable
// access.
type CanvasSet struct {
	active      BoardMode
	transparent *Frame
	whiteboard  *Frame
	blackboard  *Frame

	maxShapes int
}

// NewCanvasSet constructs a canvas set with the Transparent frame
// already allocated, as required by the "never None at query time"
// invariant.
func NewCanvasSet(maxShapesPerFrame int) *CanvasSet {
	return &CanvasSet{
		active:      Transparent,
		transparent: NewFrame(maxShapesPerFrame),
		maxShapes:   maxShapesPerFrame,
	}
}

// ActiveMode reports the currently selected board mode.
func (c *CanvasSet) ActiveMode() BoardMode { return c.active }

// Switch changes the active mode without touching any frame.
func (c *CanvasSet) Switch(mode BoardMode) { c.active = mode }

func (c *CanvasSet) slot(mode BoardMode) **Frame {
	switch mode {
	case Whiteboard:
		return &c.whiteboard
	case Blackboard:
		return &c.blackboard
	default:
		return &c.transparent
	}
}

// Frame returns the frame for mode without allocating, or the shared
// empty sentinel if it does not yet exist.
func (c *CanvasSet) Frame(mode BoardMode) *Frame {
	if f := *c.slot(mode); f != nil {
		return f
	}
	return emptyFrame
}

// FrameMut returns the frame for mode, lazily allocating board frames
// on first mutable access. The Transparent frame is always already
// allocated.
func (c *CanvasSet) FrameMut(mode BoardMode) *Frame {
	slot := c.slot(mode)
	if *slot == nil {
		*slot = NewFrame(c.maxShapes)
	}
	return *slot
}

// Active returns the frame for the current mode (read-only use).
func (c *CanvasSet) Active() *Frame { return c.Frame(c.active) }

// ActiveMut returns the frame for the current mode, allocating it if
// this is a board mode seen for the first time.
func (c *CanvasSet) ActiveMut() *Frame { return c.FrameMut(c.active) }

// SetFrame installs f (which may be nil, clearing the board) as the
// frame for mode. Used by session restore.
func (c *CanvasSet) SetFrame(mode BoardMode, f *Frame) {
	*c.slot(mode) = f
}

// SetMaxShapes updates the cap applied to frames allocated from now on,
// and to frames already allocated.
func (c *CanvasSet) SetMaxShapes(n int) {
	c.maxShapes = n
	for _, f := range []*Frame{c.transparent, c.whiteboard, c.blackboard} {
		if f != nil {
			f.SetMaxShapes(n)
		}
	}
}
