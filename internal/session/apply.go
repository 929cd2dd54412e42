package session

import (
	"github.com/wayscriber/wayscriber/internal/drawstate"
	"github.com/wayscriber/wayscriber/internal/shapes"
)

// Capture builds a Snapshot from the live canvas set and tool state,
// honoring the per-board persist flags (called before Save).
func Capture(canvas *shapes.CanvasSet, tools drawstate.ToolState, opts Options) Snapshot {
	snap := Snapshot{ActiveMode: canvas.ActiveMode()}
	if opts.PersistTransparent {
		snap.Transparent = canvas.Frame(shapes.Transparent)
	}
	if opts.PersistWhiteboard {
		snap.Whiteboard = canvas.Frame(shapes.Whiteboard)
	}
	if opts.PersistBlackboard {
		snap.Blackboard = canvas.Frame(shapes.Blackboard)
	}
	if opts.ToolStateRestore {
		t := tools
		snap.ToolState = &t
	}
	return snap
}

// Apply installs snap into canvas and, if present and enabled, into
// machine's tool state, per §4.5's apply protocol. For each board whose
// persist flag is set, the canvas-set frame is replaced with the
// snapshot's frame (which may be nil).
func Apply(snap Snapshot, canvas *shapes.CanvasSet, machine *drawstate.Machine, opts Options) {
	if opts.PersistTransparent {
		canvas.SetFrame(shapes.Transparent, orEmpty(snap.Transparent, opts.MaxShapesPerFrame))
	}
	if opts.PersistWhiteboard {
		canvas.SetFrame(shapes.Whiteboard, snap.Whiteboard)
	}
	if opts.PersistBlackboard {
		canvas.SetFrame(shapes.Blackboard, snap.Blackboard)
	}
	canvas.Switch(snap.ActiveMode)

	if opts.ToolStateRestore && snap.ToolState != nil && machine != nil {
		machine.SetToolState(*snap.ToolState)
	}
}

// orEmpty ensures the Transparent frame is never installed as nil, since
// CanvasSet's invariant requires it always exist.
func orEmpty(f *shapes.Frame, maxShapes int) *shapes.Frame {
	if f != nil {
		return f
	}
	return shapes.NewFrame(maxShapes)
}
