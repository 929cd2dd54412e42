// Package dirty accumulates damage rectangles between render passes,
// collapsing to full-surface damage once requested.
package dirty

import "github.com/wayscriber/wayscriber/internal/shapes"

// Tracker accumulates rectangles invalidated since the last flush.
type Tracker struct {
	regions []shapes.Rect
	full    bool
}

// New returns an empty tracker.
func New() *Tracker { return &Tracker{} }

// MarkRect adds r to the accumulator. Empty or malformed rectangles
// (non-positive width or height) are ignored.
func (t *Tracker) MarkRect(r shapes.Rect) {
	if t.full || r.Empty() {
		return
	}
	t.regions = append(t.regions, r)
}

// MarkShape marks the shape's bounding box, falling back to full damage
// if measureText is required but not supplied and the shape is text.
func (t *Tracker) MarkShape(s shapes.Shape, measureText func(shapes.Shape) (w, h float64)) {
	bb := s.BoundingBox(measureText)
	if bb.Empty() {
		t.MarkFull()
		return
	}
	t.MarkRect(bb)
}

// MarkFull collapses all current and future marks (before the next
// TakeRegions) into a single whole-surface rectangle.
func (t *Tracker) MarkFull() {
	t.full = true
	t.regions = nil
}

// TakeRegions empties the accumulator, returning the accumulated
// regions — a single full-surface rect if MarkFull was called, else the
// individually marked rects.
func (t *Tracker) TakeRegions(surfaceW, surfaceH int) []shapes.Rect {
	defer t.reset()
	if t.full {
		if surfaceW <= 0 || surfaceH <= 0 {
			return nil
		}
		return []shapes.Rect{{X: 0, Y: 0, W: float64(surfaceW), H: float64(surfaceH)}}
	}
	if len(t.regions) == 0 {
		return nil
	}
	out := make([]shapes.Rect, len(t.regions))
	copy(out, t.regions)
	return out
}

func (t *Tracker) reset() {
	t.full = false
	t.regions = nil
}

// MotionTracker remembers the previous bounds of a provisional shape (or
// the text caret) so that movement produces damage at both the old and
// new location, per §4.2's "tracking the previous bounds" requirement.
type MotionTracker struct {
	prev     shapes.Rect
	hasPrev  bool
}

// Update records newBounds and marks both the previous and new bounds as
// dirty on tracker.
func (m *MotionTracker) Update(tracker *Tracker, newBounds shapes.Rect) {
	if m.hasPrev {
		tracker.MarkRect(m.prev)
	}
	if !newBounds.Empty() {
		tracker.MarkRect(newBounds)
	}
	m.prev = newBounds
	m.hasPrev = !newBounds.Empty()
}

// Clear marks the last known bounds dirty (e.g. the provisional shape
// was dropped) and forgets them.
func (m *MotionTracker) Clear(tracker *Tracker) {
	if m.hasPrev {
		tracker.MarkRect(m.prev)
	}
	m.hasPrev = false
	m.prev = shapes.Rect{}
}
