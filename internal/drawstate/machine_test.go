package drawstate

import (
	"reflect"
	"testing"

	"github.com/wayscriber/wayscriber/internal/dirty"
	"github.com/wayscriber/wayscriber/internal/keymap"
	"github.com/wayscriber/wayscriber/internal/shapes"
)

func newTestMachine() *Machine {
	canvas := shapes.NewCanvasSet(0)
	tracker := dirty.New()
	return New(canvas, tracker, keymap.Default(), true, nil)
}

// Scenario 1: freehand then undo.
func TestFreehandThenUndo(t *testing.T) {
	m := newTestMachine()
	canvas := m.canvas

	m.MousePress(MouseLeft, 10, 10)
	m.MouseMotion(15, 12)
	m.MouseMotion(22, 18)
	m.MouseMotion(30, 25)
	m.MouseRelease(MouseLeft, 30, 25)

	active := canvas.Active()
	if active.Len() != 1 {
		t.Fatalf("expected 1 shape, got %d", active.Len())
	}
	got := active.Shapes[0]
	want := []shapes.Point{{10, 10}, {15, 12}, {22, 18}, {30, 25}}
	if len(got.Points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(got.Points))
	}
	for i, p := range want {
		if got.Points[i] != p {
			t.Fatalf("point %d: got %+v want %+v", i, got.Points[i], p)
		}
	}

	m.dispatch(keymap.ActionUndo)
	if canvas.Active().Len() != 0 {
		t.Fatalf("expected 0 shapes after undo, got %d", canvas.Active().Len())
	}
}

// Scenario 2: rectangle normalization with Ctrl held.
func TestRectangleNormalization(t *testing.T) {
	m := newTestMachine()
	m.SetModifiers(ModifierSet{Ctrl: true})
	m.MousePress(MouseLeft, 100, 100)
	m.MouseRelease(MouseLeft, 40, 60)

	active := m.canvas.Active()
	if active.Len() != 1 {
		t.Fatalf("expected 1 shape, got %d", active.Len())
	}
	got := active.Shapes[0]
	if got.Kind() != shapes.KindRect || got.X != 40 || got.Y != 60 || got.W != 60 || got.H != 40 {
		t.Fatalf("unexpected rect: %+v", got)
	}
}

// Scenario 3: board-mode toggle with auto-adjust pen.
func TestBoardModeToggleAutoAdjust(t *testing.T) {
	m := newTestMachine()
	m.tools.Color = shapes.Color{R: 1, G: 0, B: 0, A: 1}

	m.dispatch(keymap.ActionToggleWhiteboard)
	if m.canvas.ActiveMode() != shapes.Whiteboard {
		t.Fatalf("expected whiteboard, got %v", m.canvas.ActiveMode())
	}
	if m.tools.Color != shapes.Black {
		t.Fatalf("expected black pen on whiteboard, got %+v", m.tools.Color)
	}
	if m.tools.SavedColor == nil || *m.tools.SavedColor != (shapes.Color{R: 1, G: 0, B: 0, A: 1}) {
		t.Fatalf("expected saved color to be the original red, got %+v", m.tools.SavedColor)
	}

	m.dispatch(keymap.ActionToggleWhiteboard)
	if m.canvas.ActiveMode() != shapes.Transparent {
		t.Fatalf("expected transparent after second toggle, got %v", m.canvas.ActiveMode())
	}
	if m.tools.Color != (shapes.Color{R: 1, G: 0, B: 0, A: 1}) {
		t.Fatalf("expected restored red, got %+v", m.tools.Color)
	}
	if m.tools.SavedColor != nil {
		t.Fatalf("expected saved color cleared, got %+v", m.tools.SavedColor)
	}
}

// Scenario 4: text mode composition.
func TestTextModeComposition(t *testing.T) {
	m := newTestMachine()
	m.dispatch(keymap.ActionEnterTextMode)
	if m.State().Phase != PhaseTextInput {
		t.Fatalf("expected text input phase")
	}

	for _, ch := range "hello" {
		m.HandleKeyPress(string(ch))
	}
	if m.State().Buffer != "hello" {
		t.Fatalf("expected buffer 'hello', got %q", m.State().Buffer)
	}

	m.SetModifiers(ModifierSet{Shift: true})
	m.HandleKeyPress("return")
	if m.State().Buffer != "hello\n" {
		t.Fatalf("expected buffer 'hello\\n', got %q", m.State().Buffer)
	}

	m.SetModifiers(ModifierSet{})
	m.HandleKeyPress("return")
	if m.State().Phase != PhaseIdle {
		t.Fatalf("expected idle after finalizing, got phase %v", m.State().Phase)
	}
	active := m.canvas.Active()
	if active.Len() != 1 || active.Shapes[0].Kind() != shapes.KindText || active.Shapes[0].Text != "hello\n" {
		t.Fatalf("expected one text shape with text 'hello\\n', got %+v", active.Shapes)
	}
}

func TestUnboundKeyIsNoOp(t *testing.T) {
	m := newTestMachine()
	before := *m
	m.HandleKeyPress("zzz-unbound-zzz")
	if !reflect.DeepEqual(m.State(), before.State()) {
		t.Fatalf("unbound key must not mutate drawing state")
	}
}

func TestScrollClampsThicknessAndFontSize(t *testing.T) {
	m := newTestMachine()
	m.tools.Thickness = 20
	m.HandleScroll(ScrollVertical, 1)
	if m.tools.Thickness != 20 {
		t.Fatalf("thickness should clamp at 20, got %v", m.tools.Thickness)
	}
	m.tools.FontSize = 8
	m.SetModifiers(ModifierSet{Shift: true})
	m.HandleScroll(ScrollVertical, -1)
	if m.tools.FontSize != 8 {
		t.Fatalf("font size should clamp at 8, got %v", m.tools.FontSize)
	}
}
