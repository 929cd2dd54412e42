package dirty

import (
	"testing"

	"github.com/wayscriber/wayscriber/internal/shapes"
)

func TestMarkFullCollapsesSubsequentMarks(t *testing.T) {
	tr := New()
	tr.MarkRect(shapes.Rect{X: 0, Y: 0, W: 10, H: 10})
	tr.MarkFull()
	tr.MarkRect(shapes.Rect{X: 500, Y: 500, W: 5, H: 5})

	regions := tr.TakeRegions(800, 600)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	want := shapes.Rect{X: 0, Y: 0, W: 800, H: 600}
	if regions[0] != want {
		t.Fatalf("expected full surface damage %+v, got %+v", want, regions[0])
	}
}

func TestTakeRegionsEmptiesAccumulator(t *testing.T) {
	tr := New()
	tr.MarkRect(shapes.Rect{X: 1, Y: 1, W: 1, H: 1})
	if regions := tr.TakeRegions(100, 100); len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if regions := tr.TakeRegions(100, 100); len(regions) != 0 {
		t.Fatalf("expected empty after take, got %d", len(regions))
	}
}

func TestMalformedRectIgnored(t *testing.T) {
	tr := New()
	tr.MarkRect(shapes.Rect{X: 0, Y: 0, W: 0, H: 10})
	tr.MarkRect(shapes.Rect{X: 0, Y: 0, W: -5, H: 10})
	if regions := tr.TakeRegions(100, 100); len(regions) != 0 {
		t.Fatalf("expected malformed rects to be ignored, got %d regions", len(regions))
	}
}

func TestMotionTrackerDamagesOldAndNew(t *testing.T) {
	tr := New()
	var mt MotionTracker
	mt.Update(tr, shapes.Rect{X: 0, Y: 0, W: 5, H: 5})
	mt.Update(tr, shapes.Rect{X: 100, Y: 100, W: 5, H: 5})

	regions := tr.TakeRegions(800, 600)
	if len(regions) != 2 {
		t.Fatalf("expected damage at both old and new location, got %d", len(regions))
	}
}
