package shapes

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewRectNormalizesDrag(t *testing.T) {
	s := NewRect(100, 100, 40, 60, Black, 2)
	if s.X != 40 || s.Y != 60 || s.W != 60 || s.H != 40 {
		t.Fatalf("got x=%v y=%v w=%v h=%v", s.X, s.Y, s.W, s.H)
	}
}

func TestNewEllipseMidpointAndRadii(t *testing.T) {
	s := NewEllipse(0, 0, 10, 20, Black, 1)
	if s.Cx != 5 || s.Cy != 10 || s.Rx != 5 || s.Ry != 10 {
		t.Fatalf("unexpected ellipse geometry: %+v", s)
	}
	if !s.IsRenderable() {
		t.Fatal("expected renderable ellipse")
	}
	zero := NewEllipse(0, 0, 0, 20, Black, 1)
	if zero.IsRenderable() {
		t.Fatal("zero-radius ellipse should not be renderable")
	}
}

func TestFrameAppendUndoInverse(t *testing.T) {
	f := NewFrame(0)
	s := NewLine(0, 0, 1, 1, Black, 1)
	if !f.Append(s) {
		t.Fatal("expected append to succeed")
	}
	if f.Len() != 1 {
		t.Fatalf("expected 1 shape, got %d", f.Len())
	}
	if !f.Undo() {
		t.Fatal("expected undo to succeed")
	}
	if f.Len() != 0 {
		t.Fatalf("expected 0 shapes after undo, got %d", f.Len())
	}
	if f.Undo() {
		t.Fatal("undo on empty frame must report false")
	}
}

func TestFrameAppendRespectsMax(t *testing.T) {
	f := NewFrame(1)
	if !f.Append(NewLine(0, 0, 1, 1, Black, 1)) {
		t.Fatal("first append should succeed")
	}
	if f.Append(NewLine(0, 0, 1, 1, Black, 1)) {
		t.Fatal("second append should be refused at cap")
	}
	if f.Len() != 1 {
		t.Fatalf("frame must be unchanged past cap, got %d", f.Len())
	}
}

func TestCanvasSetTransparentNeverNil(t *testing.T) {
	c := NewCanvasSet(0)
	if c.Frame(Transparent) == nil {
		t.Fatal("transparent frame must never be nil")
	}
	if c.Frame(Whiteboard).Len() != 0 {
		t.Fatal("unallocated whiteboard frame should read as empty")
	}
	wb := c.FrameMut(Whiteboard)
	wb.Append(NewLine(0, 0, 1, 1, Black, 1))
	if c.Frame(Whiteboard).Len() != 1 {
		t.Fatal("mutable access should have allocated and retained the whiteboard frame")
	}
}

func TestShapeJSONRoundTrip(t *testing.T) {
	orig := NewArrow(1, 2, 3, 4, Color{1, 0, 0, 1}, 3, 12, 30)
	b, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}
	var got Shape
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, orig) {
		t.Fatalf("round trip mismatch: %+v != %+v", got, orig)
	}
}

func TestFreehandRoundTrip(t *testing.T) {
	pts := []Point{{10, 10}, {15, 12}, {22, 18}, {30, 25}}
	orig := NewFreehand(pts, Black, 2)
	b, err := json.Marshal(orig)
	if err != nil {
		t.Fatal(err)
	}
	var got Shape
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Points) != len(pts) {
		t.Fatalf("expected %d points, got %d", len(pts), len(got.Points))
	}
	for i, p := range pts {
		if got.Points[i] != p {
			t.Fatalf("point %d mismatch: %+v != %+v", i, got.Points[i], p)
		}
	}
}
